// Package rate fetches the reference daily CDI rate from the Banco Central
// do Brasil open data API (SGS series 12).
package rate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.bcb.gov.br"
	// Last 5 entries so a weekend or holiday still yields a business day.
	sgsPath = "/dados/serie/bcdata.sgs.12/dados/ultimos/5?formato=json"

	requestTimeout = 10 * time.Second
)

// sgsEntry is one row of the SGS series payload. Both fields arrive as
// strings; data is dd/MM/yyyy and valor is the percent-per-day rate.
type sgsEntry struct {
	Data  string `json:"data"`
	Valor string `json:"valor"`
}

// BCBClient implements domain.DailyRateProvider against the BCB SGS API with
// an in-memory cache. The series only changes once per business day, so the
// cache TTL defaults to an hour and a limiter keeps bursts off the upstream.
type BCBClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	ttl     time.Duration

	mu        sync.Mutex
	cached    *domain.DailyRate
	fetchedAt time.Time
}

// NewBCBClient creates a client. baseURL may be empty to use the public API;
// ttl <= 0 falls back to one hour.
func NewBCBClient(baseURL string, ttl time.Duration) *BCBClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &BCBClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Every(time.Second), 3),
		ttl:     ttl,
	}
}

// DailyRate returns the most recent business day's rate, serving from cache
// within the TTL.
func (c *BCBClient) DailyRate() (*domain.DailyRate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && time.Since(c.fetchedAt) < c.ttl {
		return c.cached, nil
	}

	fetched, err := c.fetch()
	if err != nil {
		// A stale quote beats no quote: the series moves a few basis
		// points per day at most.
		if c.cached != nil {
			log.Warn().Err(err).Msg("bcb fetch failed, serving stale rate")
			return c.cached, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRateUnavailable, err)
	}

	c.cached = fetched
	c.fetchedAt = time.Now()
	return fetched, nil
}

func (c *BCBClient) fetch() (*domain.DailyRate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+sgsPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bcb sgs returned status %d", resp.StatusCode)
	}

	var entries []sgsEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding sgs payload: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("sgs series returned no entries")
	}

	last := entries[len(entries)-1]
	value, err := decimal.NewFromString(last.Valor)
	if err != nil {
		return nil, fmt.Errorf("parsing sgs value %q: %w", last.Valor, err)
	}
	date, err := time.Parse("02/01/2006", last.Data)
	if err != nil {
		return nil, fmt.Errorf("parsing sgs date %q: %w", last.Data, err)
	}

	return &domain.DailyRate{Date: date, Value: value}, nil
}
