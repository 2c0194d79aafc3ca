// Package data serves price series to the pipeline: fetched from the market
// data source when possible, cached with a TTL, and replaced by a
// deterministic synthetic series when the source has nothing.
package data

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/calculate"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/metrics"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

// CandleSource supplies raw candles for (symbol, period, interval)
type CandleSource interface {
	FetchCandles(ctx context.Context, symbol, period, interval string) ([]models.Candle, error)
}

// Provider fetches, caches, and enriches price series
type Provider struct {
	source CandleSource
	cache  *ttlCache
	ttl    time.Duration
	logger zerolog.Logger
}

// NewProvider creates a provider over source with the given cache TTL
func NewProvider(source CandleSource, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Provider{
		source: source,
		cache:  newTTLCache(),
		ttl:    ttl,
		logger: log.With().Str("component", "data_provider").Logger(),
	}
}

// Series returns the price series for (symbol, period, interval). An empty or
// unreachable source degrades to a synthetic series; the DataUnavailable
// condition is logged, never surfaced as a failure.
func (p *Provider) Series(ctx context.Context, symbol, period, interval string) (models.PriceSeries, error) {
	key := cacheKey(symbol, period, interval)
	if cached, ok := p.cache.Get(key); ok {
		metrics.CacheHits.Inc()
		return cached.(models.PriceSeries), nil
	}
	metrics.CacheMisses.Inc()

	series, err := p.fetch(ctx, symbol, period, interval)
	if err != nil {
		var unavailable *models.DataUnavailableError
		if !errors.As(err, &unavailable) {
			return models.PriceSeries{}, err
		}
		p.logger.Warn().Str("symbol", symbol).Str("reason", unavailable.Reason).
			Msg("Data source unavailable, falling back to synthetic series")
		metrics.DataFallbacks.Inc()
		series = Synthetic(symbol, models.TradingDays(period))
	}

	p.cache.Set(key, series, p.ttl)
	return series, nil
}

// Frame returns the indicator-enriched series
func (p *Provider) Frame(ctx context.Context, symbol, period, interval string) (*models.IndicatorFrame, error) {
	series, err := p.Series(ctx, symbol, period, interval)
	if err != nil {
		return nil, err
	}
	return calculate.Enrich(series), nil
}

// CacheInfo reports cached key count and the configured TTL
func (p *Provider) CacheInfo() (int, time.Duration) {
	return p.cache.Len(), p.ttl
}

func (p *Provider) fetch(ctx context.Context, symbol, period, interval string) (models.PriceSeries, error) {
	if p.source == nil {
		return models.PriceSeries{}, &models.DataUnavailableError{Symbol: symbol, Reason: "no data source configured"}
	}

	candles, err := p.source.FetchCandles(ctx, symbol, period, interval)
	if err != nil {
		if ctx.Err() != nil {
			return models.PriceSeries{}, ctx.Err()
		}
		return models.PriceSeries{}, &models.DataUnavailableError{Symbol: symbol, Reason: err.Error()}
	}
	if len(candles) == 0 {
		return models.PriceSeries{}, &models.DataUnavailableError{Symbol: symbol, Reason: "empty result"}
	}

	series := models.PriceSeries{Symbol: symbol, Candles: candles}
	series.Normalize()
	return series, nil
}
