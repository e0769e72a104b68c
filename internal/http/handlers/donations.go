package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/auguria/backend/internal/domain"
	"github.com/auguria/backend/internal/middleware"
	"github.com/auguria/backend/internal/realtime"
	"github.com/auguria/backend/internal/sqlinline"
)

type donationRequest struct {
	Amount  float64 `json:"amount"`
	Message string  `json:"message"`
}

// DonationsCreate records a donation, then fires the best-effort side
// effects: the Telegram announcement and the realtime broadcast. The
// donation is successful once persisted; neither side effect can fail
// the request.
func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	var req donationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Amount <= 0 || math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		a.error(w, http.StatusBadRequest, "bad_request", domain.ErrInvalidAmount.Error())
		return
	}

	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertDonation, req.Amount, req.Message)
	var donationID string
	var createdAt time.Time
	if err := row.Scan(&donationID, &createdAt); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to record donation")
		return
	}

	resp := map[string]any{"message": "thank you for your support"}
	if totals, err := a.loadTotals(r); err != nil {
		a.Logger.Error().Err(err).Msg("load totals after donation")
	} else {
		resp["totalDonations"] = totals.TotalDonations
		resp["donorCount"] = totals.DonorCount
	}

	if err := a.Announcer.Announce(r.Context(), req.Amount, req.Message, middleware.CountryFromContext(r.Context())); err != nil {
		a.Logger.Warn().Err(err).Str("donation_id", donationID).Msg("donation announcement failed")
	}

	a.Hub.Broadcast(realtime.DonationEvent(req.Amount))
	a.Hub.Broadcast(realtime.DonorEvent())

	a.json(w, http.StatusCreated, resp)
}

// DonationsTotals answers the aggregate read. Totals are always a fresh
// SQL fold over the ledger, never a cached value.
func (a *App) DonationsTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := a.loadTotals(r)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load totals")
		return
	}
	a.json(w, http.StatusOK, totals)
}

// DonationsRecent lists the latest ledger entries for the public
// supporters wall.
func (a *App) DonationsRecent(w http.ResponseWriter, r *http.Request) {
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListRecentDonations, 10)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load donations")
		return
	}
	defer rows.Close()

	items := make([]map[string]any, 0, 10)
	for rows.Next() {
		var d domain.Donation
		if err := rows.Scan(&d.ID, &d.Amount, &d.Message, &d.CreatedAt); err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to load donations")
			return
		}
		items = append(items, map[string]any{
			"id":        d.ID,
			"amount":    d.Amount,
			"message":   d.Message,
			"createdAt": d.CreatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load donations")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) loadTotals(r *http.Request) (domain.Totals, error) {
	var totals domain.Totals
	row := a.SQL.QueryRow(r.Context(), sqlinline.QDonationTotals)
	if err := row.Scan(&totals.TotalDonations, &totals.DonorCount); err != nil {
		return domain.Totals{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return totals, nil
}
