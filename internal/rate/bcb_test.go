package rate

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const sgsPayload = `[
	{"data":"25/08/2025","valor":"0.054266"},
	{"data":"26/08/2025","valor":"0.054266"},
	{"data":"27/08/2025","valor":"0.054266"},
	{"data":"28/08/2025","valor":"0.050788"},
	{"data":"29/08/2025","valor":"0.050788"}
]`

func TestDailyRateParsesLatestEntry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sgsPayload))
	}))
	defer server.Close()

	client := NewBCBClient(server.URL, time.Hour)
	quote, err := client.DailyRate()
	if err != nil {
		t.Fatalf("DailyRate: %v", err)
	}

	if !quote.Value.Equal(decimal.RequireFromString("0.050788")) {
		t.Errorf("value = %s, want the most recent entry 0.050788", quote.Value)
	}
	want := time.Date(2025, time.August, 29, 0, 0, 0, 0, time.UTC)
	if !quote.Date.Equal(want) {
		t.Errorf("date = %s, want 2025-08-29", quote.Date.Format("2006-01-02"))
	}
}

func TestDailyRateServesFromCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(sgsPayload))
	}))
	defer server.Close()

	client := NewBCBClient(server.URL, time.Hour)
	for i := 0; i < 3; i++ {
		if _, err := client.DailyRate(); err != nil {
			t.Fatalf("DailyRate call %d: %v", i+1, err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("upstream hit %d times, want 1", hits.Load())
	}
}

func TestDailyRateServesStaleOnUpstreamFailure(t *testing.T) {
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(sgsPayload))
	}))
	defer server.Close()

	client := NewBCBClient(server.URL, time.Nanosecond)
	first, err := client.DailyRate()
	if err != nil {
		t.Fatalf("priming fetch: %v", err)
	}

	fail.Store(true)
	stale, err := client.DailyRate()
	if err != nil {
		t.Fatalf("expected stale quote, got error: %v", err)
	}
	if !stale.Value.Equal(first.Value) {
		t.Errorf("stale value = %s, want %s", stale.Value, first.Value)
	}
}

func TestDailyRateFailsWithoutCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewBCBClient(server.URL, time.Hour)
	if _, err := client.DailyRate(); !errors.Is(err, domain.ErrRateUnavailable) {
		t.Errorf("err = %v, want ErrRateUnavailable", err)
	}
}

func TestDailyRateRejectsEmptySeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewBCBClient(server.URL, time.Hour)
	if _, err := client.DailyRate(); !errors.Is(err, domain.ErrRateUnavailable) {
		t.Errorf("err = %v, want ErrRateUnavailable", err)
	}
}
