package service

import (
	"context"
	"time"

	"billing-core/internal/core/domain"
	"billing-core/internal/core/ports"
	"billing-core/pkg/money"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
)

// rateTTL bounds how long a computed conversion rate may be served without
// rereading the rate table.
const rateTTL = 24 * time.Hour

// Finding the cheapest conversion between two currencies is a shortest-path
// problem: nodes are currencies, edges are conversion rates, and the path
// cost is the product of edge weights. All weights are positive, so Dijkstra
// with product accumulation stays monotone.
//
// rates_from runs the same search on the reversed graph, yielding for every
// currency the cheapest rate converting it into the target.

type pairKey struct {
	from, to int64
}

// rateResult also caches negative outcomes: an unreachable pair stays
// unreachable until the rate table mutates.
type rateResult struct {
	rate money.Money
	ok   bool
}

// RateServiceImpl implements ports.RateService.
type RateServiceImpl struct {
	currencies ports.CurrencyRepository
	rates      ports.ConversionRateRepository
	pairCache  *expirable.LRU[pairKey, rateResult]
	fromCache  *expirable.LRU[int64, map[int64]money.Money]
	log        zerolog.Logger
}

// NewRateService creates a RateServiceImpl with empty caches.
func NewRateService(
	currencies ports.CurrencyRepository,
	rates ports.ConversionRateRepository,
	log zerolog.Logger,
) *RateServiceImpl {
	return &RateServiceImpl{
		currencies: currencies,
		rates:      rates,
		pairCache:  expirable.NewLRU[pairKey, rateResult](0, nil, rateTTL),
		fromCache:  expirable.NewLRU[int64, map[int64]money.Money](0, nil, rateTTL),
		log:        log,
	}
}

// Rate implements ports.RateService.
func (s *RateServiceImpl) Rate(ctx context.Context, from, to int64) (money.Money, bool, error) {
	return s.rate(ctx, from, to, false)
}

// RateFresh implements ports.RateService. It bypasses the cache read but
// still stores the recomputed result.
func (s *RateServiceImpl) RateFresh(ctx context.Context, from, to int64) (money.Money, bool, error) {
	return s.rate(ctx, from, to, true)
}

func (s *RateServiceImpl) rate(ctx context.Context, from, to int64, fresh bool) (money.Money, bool, error) {
	if from == to {
		return money.One, true, nil
	}

	key := pairKey{from, to}
	if !fresh {
		if cached, ok := s.pairCache.Get(key); ok {
			return cached.rate, cached.ok, nil
		}
	}

	g, err := s.buildGraph(ctx, false)
	if err != nil {
		return money.Zero, false, err
	}

	rate, ok := g.cheapestProduct(from, to)
	s.pairCache.Add(key, rateResult{rate: rate, ok: ok})
	if !ok {
		s.log.Debug().Int64("from", from).Int64("to", to).Msg("no conversion path")
	}
	return rate, ok, nil
}

// RatesFrom implements ports.RateService.
func (s *RateServiceImpl) RatesFrom(ctx context.Context, from int64) (map[int64]money.Money, error) {
	if cached, ok := s.fromCache.Get(from); ok {
		return cached, nil
	}

	g, err := s.buildGraph(ctx, true)
	if err != nil {
		return nil, err
	}

	rates := g.singleSourceProducts(from)
	s.fromCache.Add(from, rates)
	return rates, nil
}

// Invalidate implements ports.RateService.
func (s *RateServiceImpl) Invalidate() {
	s.pairCache.Purge()
	s.fromCache.Purge()
	s.log.Info().Msg("conversion rate cache invalidated")
}

func (s *RateServiceImpl) buildGraph(ctx context.Context, reversed bool) (*rateGraph, error) {
	currencies, err := s.currencies.List(ctx)
	if err != nil {
		return nil, err
	}
	rates, err := s.rates.List(ctx)
	if err != nil {
		return nil, err
	}

	g := newRateGraph()
	for _, c := range currencies {
		g.addNode(c.ID)
	}
	for _, cr := range rates {
		addRateEdges(g, cr, reversed)
	}
	return g, nil
}

func addRateEdges(g *rateGraph, cr domain.ConversionRate, reversed bool) {
	from, to := cr.FromCurrencyID, cr.ToCurrencyID
	if reversed {
		from, to = to, from
	}
	g.addEdge(from, to, cr.Rate)
	if cr.AllowReversed {
		g.addEdge(to, from, cr.Rate.Inverse())
	}
}
