package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/auguria/backend/internal/infra"
	"github.com/auguria/backend/internal/realtime"
)

// Broadcaster fans an event out to connected realtime clients.
type Broadcaster interface {
	Broadcast(ev realtime.Event)
}

// Announcer pushes a donation announcement to the operator chat. The
// returned error is logged and discarded by callers: announcing is a
// convenience, never part of the request's correctness.
type Announcer interface {
	Announce(ctx context.Context, amount float64, note, country string) error
}

// App carries the handler dependencies.
type App struct {
	SQL       infra.SQLExecutor
	Logger    zerolog.Logger
	Announcer Announcer
	Hub       Broadcaster
}

func NewApp(sql infra.SQLExecutor, logger zerolog.Logger, announcer Announcer, hub Broadcaster) *App {
	return &App{SQL: sql, Logger: logger, Announcer: announcer, Hub: hub}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
