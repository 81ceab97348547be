package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bilancio/internal/core"
)

// maxBodySize bounds request bodies; budget entities are tiny.
const maxBodySize = 1 << 20

var errEmptyBody = errors.New("request body is empty")

// decodeJSON parses the request body into dst. It rejects empty bodies,
// oversized bodies and trailing garbage after the JSON value.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("malformed JSON: %w", err)
	}
	if dec.More() {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

// parseMonthParams reads year and month query parameters, defaulting to
// the current month. Out-of-range months fall back to the current one.
func parseMonthParams(r *http.Request) core.Date {
	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = m
		}
	}

	return core.NewDate(year, month, 1)
}
