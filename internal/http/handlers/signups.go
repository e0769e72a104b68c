package handlers

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"github.com/auguria/backend/internal/domain"
	"github.com/auguria/backend/internal/sqlinline"
)

type signupRequest struct {
	Email string `json:"email"`
}

// WaitlistJoin puts an email on the product waitlist. A repeat signup is
// answered with a distinct duplicate message, not a generic failure.
func (a *App) WaitlistJoin(w http.ResponseWriter, r *http.Request) {
	a.createSignup(w, r, sqlinline.QInsertWaitlistSignup, domain.SignupWaitlist, "you're on the waitlist")
}

// NewsletterSubscribe puts an email on the newsletter list.
func (a *App) NewsletterSubscribe(w http.ResponseWriter, r *http.Request) {
	a.createSignup(w, r, sqlinline.QInsertNewsletterSignup, domain.SignupNewsletter, "subscribed to the newsletter")
}

func (a *App) createSignup(w http.ResponseWriter, r *http.Request, query string, kind domain.SignupKind, successMsg string) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	email := strings.TrimSpace(req.Email)
	if !validEmail(email) {
		a.error(w, http.StatusBadRequest, "bad_request", domain.ErrInvalidEmail.Error())
		return
	}

	row := a.SQL.QueryRow(r.Context(), query, email)
	var id string
	if err := row.Scan(&id); err != nil {
		if isUniqueViolation(err) {
			a.error(w, http.StatusBadRequest, "duplicate", domain.ErrDuplicateEmail.Error())
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to save signup")
		return
	}

	a.Logger.Debug().Str("list", string(kind)).Msg("signup recorded")
	a.json(w, http.StatusCreated, map[string]string{"message": successMsg})
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	// Reject the "Name <addr>" form; the field must be a bare address.
	return err == nil && addr.Address == email
}
