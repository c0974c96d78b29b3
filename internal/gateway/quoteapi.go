package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"QuantTerminal/internal/model"
)

// QuoteAPIFetcher implements Fetcher against a generic REST quote service,
// for deployments where Yahoo is unreachable or a private data feed exists.
type QuoteAPIFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewQuoteAPIFetcher creates a new fetcher with optional proxy support.
func NewQuoteAPIFetcher(baseURL, apiKey, proxyURL string) *QuoteAPIFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &QuoteAPIFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *QuoteAPIFetcher) Name() string { return "quoteapi" }

// apiBar is the expected JSON shape from the quote API.
type apiBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (f *QuoteAPIFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&limit=%d", f.BaseURL, url.QueryEscape(symbol), days)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		// Unknown symbol: empty series, not an error.
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}
	var apiBars []apiBar
	if err := json.NewDecoder(resp.Body).Decode(&apiBars); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	bars := make([]model.PriceBar, len(apiBars))
	for i, ab := range apiBars {
		bars[i] = model.PriceBar{
			Date:   time.Unix(ab.Timestamp, 0),
			Open:   ab.Open,
			High:   ab.High,
			Low:    ab.Low,
			Close:  ab.Close,
			Volume: ab.Volume,
		}
	}
	return bars, nil
}
