package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/platform/http"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

// Client fetches candle data from the Yahoo Finance chart endpoint
type Client struct {
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new chart client
type ClientOptions struct {
	BaseURL         string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetries      int
	MaxRetryTimeout time.Duration
}

// NewClient creates a new Yahoo Finance chart client
func NewClient(options ClientOptions) *Client {
	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}

	return &Client{
		baseURL: baseURL,
		httpClient: httpClient.NewClient(httpClient.ClientOptions{
			Timeout:         options.RequestTimeout,
			RequestsPerSec:  options.RequestsPerSec,
			MaxRetries:      options.MaxRetries,
			MaxRetryTimeout: options.MaxRetryTimeout,
		}),
		logger: log.With().Str("component", "yahoo_client").Logger(),
	}
}

// chartResponse mirrors the chart endpoint JSON
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchCandles fetches candles for symbol over the given range and interval.
// Candles are returned oldest-first.
func (c *Client) FetchCandles(ctx context.Context, symbol, period, interval string) ([]models.Candle, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(period), url.QueryEscape(interval))

	c.logger.Debug().Str("symbol", symbol).Str("period", period).Str("interval", interval).Msg("Fetching candles")

	var data chartResponse
	headers := map[string]string{"User-Agent": "Mozilla/5.0 (compatible; agentic-alpha/1.0)"}
	if err := c.httpClient.GetJSON(ctx, endpoint, headers, &data); err != nil {
		return nil, fmt.Errorf("chart request failed: %w", err)
	}

	if data.Chart.Error != nil {
		c.logger.Error().Str("code", data.Chart.Error.Code).Msg("Chart API error")
		return nil, fmt.Errorf("chart API error: %s", data.Chart.Error.Description)
	}
	if len(data.Chart.Result) == 0 {
		return nil, fmt.Errorf("empty chart result")
	}

	result := data.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 || len(result.Timestamp) == 0 {
		return nil, fmt.Errorf("no quotes in chart result")
	}
	quote := result.Indicators.Quote[0]

	var candles []models.Candle
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == 0 {
			continue
		}
		candles = append(candles, models.Candle{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      at(quote.Open, i),
			High:      at(quote.High, i),
			Low:       at(quote.Low, i),
			Close:     quote.Close[i],
			Volume:    atInt(quote.Volume, i),
		})
	}

	// Sort candles by timestamp (oldest first for proper calculations)
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})

	c.logger.Debug().Int("count", len(candles)).Msg("Fetched candles")
	return candles, nil
}

func at(vals []float64, i int) float64 {
	if i < len(vals) {
		return vals[i]
	}
	return 0
}

func atInt(vals []int64, i int) int64 {
	if i < len(vals) {
		return vals[i]
	}
	return 0
}
