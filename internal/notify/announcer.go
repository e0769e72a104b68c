// Package notify formats and delivers operator-facing announcements for
// new donations. Delivery is best-effort: callers log and discard the
// returned error, it never affects the donor-facing outcome.
package notify

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ChatSender delivers a plain-text message to the operator chat.
type ChatSender interface {
	Send(ctx context.Context, text string) error
}

// Announcer builds donation announcements and pushes them to a chat channel.
type Announcer struct {
	chat    ChatSender
	printer *message.Printer
}

func NewAnnouncer(chat ChatSender) *Announcer {
	return &Announcer{
		chat:    chat,
		printer: message.NewPrinter(language.English),
	}
}

// Announce sends one announcement for a recorded donation. country is an
// ISO code or empty; note is the optional donor message.
func (a *Announcer) Announce(ctx context.Context, amount float64, note, country string) error {
	text := a.Format(amount, note, country)
	if err := a.chat.Send(ctx, text); err != nil {
		return fmt.Errorf("announce donation: %w", err)
	}
	return nil
}

// Format renders the announcement text, e.g.
// "New donation: $5.00 (DE) — thanks for building this".
func (a *Announcer) Format(amount float64, note, country string) string {
	var b strings.Builder
	b.WriteString("New donation: ")
	b.WriteString(a.printer.Sprint(currency.Symbol(currency.USD.Amount(amount))))
	if country != "" {
		b.WriteString(" (")
		b.WriteString(strings.ToUpper(country))
		b.WriteString(")")
	}
	if note = strings.TrimSpace(note); note != "" {
		b.WriteString(" — ")
		b.WriteString(note)
	}
	return b.String()
}
