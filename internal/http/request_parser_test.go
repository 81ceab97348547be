package http

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"rent"}`))
		var p payload
		if err := decodeJSON(httptest.NewRecorder(), r, &p); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if p.Name != "rent" {
			t.Errorf("name = %q", p.Name)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(""))
		var p payload
		if err := decodeJSON(httptest.NewRecorder(), r, &p); !errors.Is(err, errEmptyBody) {
			t.Errorf("err = %v, want errEmptyBody", err)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{oops`))
		var p payload
		if err := decodeJSON(httptest.NewRecorder(), r, &p); err == nil {
			t.Error("expected error for malformed JSON")
		}
	})

	t.Run("trailing garbage", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"a"}{"name":"b"}`))
		var p payload
		if err := decodeJSON(httptest.NewRecorder(), r, &p); err == nil {
			t.Error("expected error for trailing data")
		}
	})
}

func TestParseMonthParams(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/spending/monthly?year=2025&month=7", nil)
	d := parseMonthParams(r)
	if d.Year() != 2025 || int(d.Month()) != 7 {
		t.Errorf("got %s", d)
	}

	// Invalid month falls back to the current one.
	r = httptest.NewRequest("GET", "/api/spending/monthly?month=13", nil)
	d = parseMonthParams(r)
	if int(d.Month()) != int(time.Now().Month()) {
		t.Errorf("month = %d, want current", d.Month())
	}

	// No params defaults to today.
	r = httptest.NewRequest("GET", "/api/spending/monthly", nil)
	d = parseMonthParams(r)
	if d.Year() != time.Now().Year() {
		t.Errorf("year = %d, want current", d.Year())
	}
}
