package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWaitlistJoinStoresEmailOnce(t *testing.T) {
	sql := newFakeSQL()
	app, _, _ := newTestApp(sql)

	req := httptest.NewRequest("POST", "/api/waitlist", strings.NewReader(`{"email":"dana@example.com"}`))
	rr := httptest.NewRecorder()
	app.WaitlistJoin(rr, req)

	if rr.Code != 201 {
		t.Fatalf("got %d, want 201", rr.Code)
	}
	if len(sql.waitlist) != 1 {
		t.Fatalf("unexpected waitlist state: %#v", sql.waitlist)
	}

	// Second attempt with the same email is a distinguishable error.
	req = httptest.NewRequest("POST", "/api/waitlist", strings.NewReader(`{"email":"dana@example.com"}`))
	rr = httptest.NewRecorder()
	app.WaitlistJoin(rr, req)

	if rr.Code != 400 {
		t.Fatalf("duplicate got %d, want 400", rr.Code)
	}
	var payload map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["error"] != "duplicate" {
		t.Fatalf("expected duplicate error code, got %#v", payload)
	}
	if len(sql.waitlist) != 1 {
		t.Fatalf("duplicate created a second record: %#v", sql.waitlist)
	}
}

func TestNewsletterSubscribeDuplicate(t *testing.T) {
	sql := newFakeSQL()
	sql.newsletter["dana@example.com"] = true
	app, _, _ := newTestApp(sql)

	req := httptest.NewRequest("POST", "/api/newsletter", strings.NewReader(`{"email":"dana@example.com"}`))
	rr := httptest.NewRecorder()
	app.NewsletterSubscribe(rr, req)

	if rr.Code != 400 {
		t.Fatalf("got %d, want 400", rr.Code)
	}
}

func TestSignupRejectsInvalidEmail(t *testing.T) {
	for _, body := range []string{`{"email":""}`, `{"email":"not-an-email"}`, `{"email":"Dana <dana@example.com>"}`} {
		sql := newFakeSQL()
		app, _, _ := newTestApp(sql)

		req := httptest.NewRequest("POST", "/api/waitlist", strings.NewReader(body))
		rr := httptest.NewRecorder()
		app.WaitlistJoin(rr, req)

		if rr.Code != 400 {
			t.Fatalf("body %s: got %d, want 400", body, rr.Code)
		}
		if len(sql.waitlist) != 0 {
			t.Fatalf("body %s: record created for invalid email", body)
		}
	}
}

func TestSignupStoreFailure(t *testing.T) {
	sql := newFakeSQL()
	sql.failAll = true
	app, _, _ := newTestApp(sql)

	req := httptest.NewRequest("POST", "/api/newsletter", strings.NewReader(`{"email":"dana@example.com"}`))
	rr := httptest.NewRecorder()
	app.NewsletterSubscribe(rr, req)

	if rr.Code != 500 {
		t.Fatalf("got %d, want 500", rr.Code)
	}
}
