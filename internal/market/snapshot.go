// Package market assembles the per-ticker market snapshot the analysis runs on.
package market

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/covercall/internal/contracts"
	"github.com/wonny/covercall/internal/metrics"
	"github.com/wonny/covercall/internal/technicals"
	"github.com/wonny/covercall/pkg/logger"
	"github.com/wonny/covercall/pkg/redis"
)

// DataClient is the market data API the snapshot is built from
type DataClient interface {
	GetQuote(ctx context.Context, symbol string) (*contracts.UnderlyingQuote, error)
	GetOptionChain(ctx context.Context, symbol string) (*contracts.ChainSnapshot, error)
	GetPriceHistory(ctx context.Context, symbol string) ([]contracts.PriceBar, error)
}

// SnapshotService fetches quote, chain and history and caches the result
// ⭐ SSOT: 외부 데이터 조립은 여기서만 (선택 파이프라인은 완성된 스냅샷만 받음)
type SnapshotService struct {
	client  DataClient
	cache   *redis.Cache
	ttl     time.Duration
	metrics *metrics.Registry
	logger  *logger.Logger
}

// NewSnapshotService creates a snapshot service. cache may be backed by a
// disabled redis client, in which case every call fetches.
func NewSnapshotService(client DataClient, cache *redis.Cache, ttl time.Duration, m *metrics.Registry, log *logger.Logger) *SnapshotService {
	if ttl <= 0 {
		ttl = redis.TTLChain
	}
	return &SnapshotService{
		client:  client,
		cache:   cache,
		ttl:     ttl,
		metrics: m,
		logger:  log,
	}
}

// Fetch returns a complete snapshot for symbol. Quote or chain failure is
// ErrUpstream; a history failure only marks technicals unavailable.
func (s *SnapshotService) Fetch(ctx context.Context, symbol string) (*contracts.MarketSnapshot, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", contracts.ErrInvalidSnapshot)
	}

	if cached, ok := s.fromCache(ctx, symbol); ok {
		return cached, nil
	}

	// 1. Quote (spot)
	quote, err := timed(s, "quotes", func() (*contracts.UnderlyingQuote, error) {
		return s.client.GetQuote(ctx, symbol)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: quote %s: %w", contracts.ErrUpstream, symbol, err)
	}

	// 2. Price history (technicals, non-fatal)
	history, err := timed(s, "pricehistory", func() ([]contracts.PriceBar, error) {
		return s.client.GetPriceHistory(ctx, symbol)
	})
	if err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Warn("Price history unavailable, skipping technicals")
		history = nil
	}

	// 3. Option chain
	chain, err := timed(s, "chains", func() (*contracts.ChainSnapshot, error) {
		return s.client.GetOptionChain(ctx, symbol)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: chain %s: %w", contracts.ErrUpstream, symbol, err)
	}

	// quotes 엔드포인트의 현재가를 spot으로 사용
	chain.Underlying = *quote

	snapshot := &contracts.MarketSnapshot{
		Chain:      chain,
		History:    history,
		Technicals: technicals.Compute(history, quote.Price),
	}

	if err := s.cache.Set(ctx, redis.ChainKey(symbol), snapshot, s.ttl); err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Warn("Failed to cache snapshot")
	}

	s.logger.WithFields(map[string]interface{}{
		"symbol":     symbol,
		"spot":       quote.Price,
		"contracts":  len(chain.Contracts),
		"bars":       len(history),
		"technicals": snapshot.Technicals.Available,
	}).Info("Market snapshot fetched")

	return snapshot, nil
}

// Invalidate drops the cached snapshot for symbol
func (s *SnapshotService) Invalidate(ctx context.Context, symbol string) error {
	return s.cache.Delete(ctx, redis.ChainKey(symbol))
}

func (s *SnapshotService) fromCache(ctx context.Context, symbol string) (*contracts.MarketSnapshot, bool) {
	var cached contracts.MarketSnapshot
	hit, err := s.cache.Get(ctx, redis.ChainKey(symbol), &cached)
	switch {
	case err != nil:
		s.metrics.CacheLookup("error")
		s.logger.WithError(err).WithField("symbol", symbol).Warn("Snapshot cache read failed")
		return nil, false
	case !hit || cached.Chain == nil:
		s.metrics.CacheLookup("miss")
		return nil, false
	}

	s.metrics.CacheLookup("hit")
	cached.Cached = true
	s.logger.WithField("symbol", symbol).Debug("Market snapshot served from cache")
	return &cached, true
}

// timed runs one upstream call and records its duration
func timed[T any](s *SnapshotService, endpoint string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	s.metrics.ObserveFetch(endpoint, err, time.Since(start))
	return v, err
}
