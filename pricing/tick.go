package pricing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rustyeddy/lotsize/market"
)

// ErrPriceUnavailable is returned when a price cannot be obtained. It is
// never reported as a zero price.
var ErrPriceUnavailable = errors.New("price unavailable")

type TickSource interface {
	GetTick(ctx context.Context, symbol string) (Tick, error)
}

type Tick struct {
	Symbol string
	Time   time.Time
	Bid    float64
	Ask    float64
}

func (t Tick) Mid() float64 {
	if t.Bid == 0 && t.Ask == 0 {
		return 0
	}
	return (t.Bid + t.Ask) / 2
}

func (t Tick) Spread() float64 {
	return t.Ask - t.Bid
}

// TickStore is an in-memory TickSource, used for offline runs and tests.
type TickStore struct {
	mu    sync.RWMutex
	ticks map[string]Tick
}

func NewTickStore() *TickStore {
	return &TickStore{ticks: make(map[string]Tick)}
}

func (ps *TickStore) Set(p Tick) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.ticks[market.NormalizeSymbol(p.Symbol)] = p
}

func (ps *TickStore) Get(symbol string) (Tick, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	p, ok := ps.ticks[market.NormalizeSymbol(symbol)]
	if !ok {
		return Tick{}, fmt.Errorf("%w: no tick for %s", ErrPriceUnavailable, symbol)
	}
	return p, nil
}

func (ps *TickStore) GetTick(ctx context.Context, symbol string) (Tick, error) {
	if err := ctx.Err(); err != nil {
		return Tick{}, err
	}
	return ps.Get(symbol)
}
