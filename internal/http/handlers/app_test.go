package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/auguria/backend/internal/realtime"
	"github.com/auguria/backend/internal/sqlinline"
)

// fakeSQL implements infra.SQLExecutor over an in-memory ledger so the
// handlers can be exercised without a database.
type fakeSQL struct {
	donations  []fakeDonation
	waitlist   map[string]bool
	newsletter map[string]bool
	failAll    bool
}

type fakeDonation struct {
	amount  float64
	message string
}

func newFakeSQL() *fakeSQL {
	return &fakeSQL{
		waitlist:   make(map[string]bool),
		newsletter: make(map[string]bool),
	}
}

func (f *fakeSQL) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (f *fakeSQL) Query(_ context.Context, query string, _ ...any) (pgx.Rows, error) {
	if f.failAll {
		return nil, fmt.Errorf("store unavailable")
	}
	if query == sqlinline.QListRecentDonations {
		return &donationRowsIter{donations: f.donations}, nil
	}
	return nil, fmt.Errorf("unexpected query: %s", query)
}

// donationRowsIter iterates the in-memory ledger newest-first.
type donationRowsIter struct {
	donations []fakeDonation
	idx       int
}

func (d *donationRowsIter) Next() bool {
	if d.idx >= len(d.donations) {
		return false
	}
	d.idx++
	return true
}

func (d *donationRowsIter) Scan(dest ...any) error {
	if d.idx == 0 || d.idx > len(d.donations) {
		return pgx.ErrNoRows
	}
	row := d.donations[len(d.donations)-d.idx]
	if len(dest) != 4 {
		return fmt.Errorf("unexpected scan args: %d", len(dest))
	}
	*dest[0].(*string) = uuid.NewString()
	*dest[1].(*float64) = row.amount
	*dest[2].(*string) = row.message
	*dest[3].(*time.Time) = time.Now()
	return nil
}

func (d *donationRowsIter) Err() error                                   { return nil }
func (d *donationRowsIter) Close()                                       {}
func (d *donationRowsIter) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (d *donationRowsIter) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (d *donationRowsIter) Values() ([]any, error)                       { return nil, nil }
func (d *donationRowsIter) RawValues() [][]byte                          { return nil }
func (d *donationRowsIter) Conn() *pgx.Conn                              { return nil }

func (f *fakeSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	if f.failAll {
		return errRow{err: fmt.Errorf("store unavailable")}
	}
	switch query {
	case sqlinline.QInsertDonation:
		f.donations = append(f.donations, fakeDonation{
			amount:  args[0].(float64),
			message: args[1].(string),
		})
		return valueRow{vals: []any{uuid.NewString(), time.Now()}}
	case sqlinline.QDonationTotals:
		var sum float64
		for _, d := range f.donations {
			sum += d.amount
		}
		return valueRow{vals: []any{sum, int64(len(f.donations))}}
	case sqlinline.QInsertWaitlistSignup:
		return f.insertEmail(f.waitlist, args[0].(string))
	case sqlinline.QInsertNewsletterSignup:
		return f.insertEmail(f.newsletter, args[0].(string))
	}
	return errRow{err: fmt.Errorf("unexpected query: %s", query)}
}

func (f *fakeSQL) insertEmail(set map[string]bool, email string) pgx.Row {
	if set[email] {
		return errRow{err: &pgconn.PgError{Code: "23505", Message: "duplicate key value"}}
	}
	set[email] = true
	return valueRow{vals: []any{uuid.NewString()}}
}

type valueRow struct {
	vals []any
}

func (r valueRow) Scan(dest ...any) error {
	if len(dest) != len(r.vals) {
		return fmt.Errorf("unexpected scan args: %d", len(dest))
	}
	for i, v := range r.vals {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *float64:
			*d = v.(float64)
		case *int64:
			*d = v.(int64)
		case *time.Time:
			*d = v.(time.Time)
		default:
			return fmt.Errorf("unsupported scan target %T", dest[i])
		}
	}
	return nil
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error { return r.err }

type fakeAnnouncer struct {
	calls []announceCall
	err   error
}

type announceCall struct {
	amount  float64
	note    string
	country string
}

func (f *fakeAnnouncer) Announce(_ context.Context, amount float64, note, country string) error {
	f.calls = append(f.calls, announceCall{amount: amount, note: note, country: country})
	return f.err
}

type fakeHub struct {
	events []realtime.Event
}

func (f *fakeHub) Broadcast(ev realtime.Event) {
	f.events = append(f.events, ev)
}

func newTestApp(sql *fakeSQL) (*App, *fakeAnnouncer, *fakeHub) {
	announcer := &fakeAnnouncer{}
	hub := &fakeHub{}
	return NewApp(sql, zerolog.Nop(), announcer, hub), announcer, hub
}
