package shop

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/dmitrijs2005/buttongame/internal/common"
	"github.com/dmitrijs2005/buttongame/internal/lockx"
	"github.com/dmitrijs2005/buttongame/internal/logging"
	"github.com/dmitrijs2005/buttongame/internal/profiles"
)

// Intent is what the caller asked for. An owned item is always sold,
// whatever the intent.
type Intent int

const (
	IntentBuy Intent = iota
	IntentSell
)

func (i Intent) String() string {
	if i == IntentSell {
		return "sell"
	}
	return "buy"
}

// Outcome is what a transaction actually did.
type Outcome int

const (
	Declined Outcome = iota
	Purchased
	Sold
)

func (o Outcome) String() string {
	switch o {
	case Purchased:
		return "purchased"
	case Sold:
		return "sold"
	default:
		return "declined"
	}
}

// Result describes a completed transaction.
type Result struct {
	Outcome Outcome
	Item    profiles.Item
	// Price is the amount debited (purchase) or credited (sale).
	Price uint16
	// Reason is set when Outcome is Declined.
	Reason error
	// Bonus is the FiftyFifty payout.
	Bonus uint16
	// Snapped lists the ids whose points Thanos zeroed.
	Snapped []string
}

type hook func(ctx context.Context, e *Engine, p *profiles.Profile, res *Result) error

var hooks = map[profiles.Item]hook{
	profiles.FiftyFifty: fiftyFiftyHook,
	profiles.Thanos:     thanosHook,
}

// Engine runs shop transactions against the repository.
type Engine struct {
	repo   profiles.Repository
	locks  *lockx.KeyedMutex
	logger logging.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

type Option func(*Engine)

// WithRand sets the random source used by hooks.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// NewEngine builds an Engine. locks must be the same keyed mutex the caller
// uses to guard profile updates, so Thanos can skip profiles being modified.
func NewEngine(repo profiles.Repository, locks *lockx.KeyedMutex, logger logging.Logger, opts ...Option) *Engine {
	e := &Engine{
		repo:   repo,
		locks:  locks,
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		now := uint64(time.Now().UnixNano())
		e.rng = rand.New(rand.NewPCG(now, now>>17|1))
	}
	return e
}

func (e *Engine) intN(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.IntN(n)
}

func (e *Engine) shuffle(ps []*profiles.Profile) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rng.Shuffle(len(ps), func(i, j int) { ps[i], ps[j] = ps[j], ps[i] })
}

// Transact buys or sells item for p and persists the result. The caller
// must hold p's lock and pass a freshly loaded profile.
//
// An owned item is sold back at its discounted price. Otherwise the item is
// bought if p can afford it, its hook runs, and p is saved. A purchase p
// cannot afford is declined silently: nothing is written, Result.Reason is
// common.ErrInsufficientFunds and the returned error is nil.
func (e *Engine) Transact(ctx context.Context, p *profiles.Profile, item profiles.Item, intent Intent) (Result, error) {
	res := Result{Item: item}

	base, err := BasePrice(item)
	if err != nil {
		return res, err
	}

	if p.Data.HasItem(item) {
		if intent != IntentSell {
			e.logger.Debug(ctx, "owned item requested for purchase, selling", "id", p.ID, "item", item)
		}
		credit, _ := Price(item, p.Data)
		p.Data.AddPoints(credit)
		p.Data.Items.Remove(item)
		if err := e.repo.Save(ctx, p); err != nil {
			return res, err
		}
		res.Outcome = Sold
		res.Price = credit
		return res, nil
	}

	if p.Data.Points < base {
		res.Outcome = Declined
		res.Reason = fmt.Errorf("%w: %s costs %d, have %d", common.ErrInsufficientFunds, item, base, p.Data.Points)
		return res, nil
	}

	p.Data.Points -= base
	p.Data.Items.Add(item)
	res.Outcome = Purchased
	res.Price = base

	if h, ok := hooks[item]; ok {
		if err := h(ctx, e, p, &res); err != nil {
			return res, fmt.Errorf("error running %s hook: %w", item, err)
		}
	}

	if err := e.repo.Save(ctx, p); err != nil {
		return res, err
	}
	return res, nil
}
