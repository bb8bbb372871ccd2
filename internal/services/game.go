// Package services is the boundary between callers and the game core. Every
// mutation loads the profile fresh under its per-id lock, applies the game
// rules and persists the result.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/buttongame/internal/common"
	"github.com/dmitrijs2005/buttongame/internal/game"
	"github.com/dmitrijs2005/buttongame/internal/leaderboard"
	"github.com/dmitrijs2005/buttongame/internal/lockx"
	"github.com/dmitrijs2005/buttongame/internal/logging"
	"github.com/dmitrijs2005/buttongame/internal/profiles"
	"github.com/dmitrijs2005/buttongame/internal/shop"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// View is a profile as seen at a point in time.
type View struct {
	Profile *profiles.Profile
	Status  game.Status
	// Wait is the "come back in" message, empty when ready.
	Wait string
}

// ClaimResult reports the outcome of a claim attempt.
type ClaimResult struct {
	Profile *profiles.Profile
	Claimed bool
	Wait    string
}

type GameService struct {
	repo   profiles.Repository
	engine *shop.Engine
	locks  *lockx.KeyedMutex
	clock  clockwork.Clock
	logger logging.Logger

	// registerMu makes lookup-then-insert on usernames atomic.
	registerMu sync.Mutex
}

// NewGameService wires the service. locks must be the same keyed mutex the
// shop engine was built with.
func NewGameService(repo profiles.Repository, engine *shop.Engine, locks *lockx.KeyedMutex, clock clockwork.Clock, logger logging.Logger) *GameService {
	return &GameService{
		repo:   repo,
		engine: engine,
		locks:  locks,
		clock:  clock,
		logger: logger,
	}
}

func (s *GameService) opLogger(op string) logging.Logger {
	return s.logger.With("op", op, "op_id", uuid.NewString())
}

// Register creates a profile for username. credentialHash is stored as is.
func (s *GameService) Register(ctx context.Context, username, credentialHash string) (*profiles.Profile, error) {
	log := s.opLogger("register")

	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: username is empty", common.ErrValidation)
	}

	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	_, err := s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		log.Info(ctx, "username taken", "username", username)
		return nil, fmt.Errorf("%w: %s", common.ErrDuplicateUsername, username)
	case !errors.Is(err, common.ErrNotFound):
		return nil, fmt.Errorf("error looking up username: %w", err)
	}

	id, err := s.repo.GenerateID(ctx)
	if err != nil {
		return nil, fmt.Errorf("error generating id: %w", err)
	}

	p := &profiles.Profile{ID: id, Data: profiles.NewUserData(username, credentialHash, s.clock.Now())}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("error creating profile: %w", err)
	}

	log.Info(ctx, "profile registered", "id", id, "username", username)
	return p, nil
}

// FindByUsername returns the profile registered as username, or
// common.ErrNotFound.
func (s *GameService) FindByUsername(ctx context.Context, username string) (*profiles.Profile, error) {
	return s.repo.FindByUsername(ctx, username)
}

// View returns the profile with its Ready flag brought up to date. A
// COOLING to READY flip is persisted.
func (s *GameService) View(ctx context.Context, id string) (*View, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	p, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if game.Refresh(p, now) {
		if err := s.repo.Save(ctx, p); err != nil {
			return nil, fmt.Errorf("error saving refreshed profile: %w", err)
		}
	}

	v := &View{Profile: p, Status: game.StatusAt(p.Data, now)}
	if v.Status == game.Cooling {
		v.Wait = game.FormatWait(game.Remaining(p.Data, now))
	}
	return v, nil
}

// Claim collects the periodic point if the profile is ready. While
// cooling, only a stale Ready flag is written back.
func (s *GameService) Claim(ctx context.Context, id string) (*ClaimResult, error) {
	log := s.opLogger("claim")

	unlock := s.locks.Lock(id)
	defer unlock()

	p, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	before := p.Data.Ready
	wait, claimed := game.Claim(p, s.clock.Now())
	if claimed || p.Data.Ready != before {
		if err := s.repo.Save(ctx, p); err != nil {
			return nil, fmt.Errorf("error saving claim: %w", err)
		}
	}

	if claimed {
		log.Info(ctx, "point claimed", "id", id, "points", p.Data.Points, "next", p.Data.NextClaim)
	} else {
		log.Debug(ctx, "claim while cooling", "id", id, "next", p.Data.NextClaim)
	}
	return &ClaimResult{Profile: p, Claimed: claimed, Wait: wait}, nil
}

// BuyOrSell runs a shop transaction for the profile. A declined purchase is
// not an error; check Result.Outcome.
func (s *GameService) BuyOrSell(ctx context.Context, id string, item profiles.Item, intent shop.Intent) (*profiles.Profile, shop.Result, error) {
	log := s.opLogger("shop")

	unlock := s.locks.Lock(id)
	defer unlock()

	p, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, shop.Result{}, err
	}

	res, err := s.engine.Transact(ctx, p, item, intent)
	if err != nil {
		log.Error(ctx, "transaction failed", "id", id, "item", item, "error", err)
		return nil, res, err
	}

	log.Info(ctx, "transaction", "id", id, "item", item, "intent", intent, "outcome", res.Outcome, "price", res.Price)
	return p, res, nil
}

// Shop lists the catalog with prices for the profile.
func (s *GameService) Shop(ctx context.Context, id string) ([]shop.Listing, error) {
	p, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return shop.DisplayPrices(p.Data), nil
}

// Leaderboard ranks all profiles.
func (s *GameService) Leaderboard(ctx context.Context) ([]leaderboard.Entry, error) {
	return leaderboard.Build(ctx, s.repo)
}

// SetPoints overwrites the points of the profile registered as username.
// The cooldown is left as is.
func (s *GameService) SetPoints(ctx context.Context, username string, points uint16) (*profiles.Profile, error) {
	log := s.opLogger("set-points")

	found, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(found.ID)
	defer unlock()

	p, err := s.repo.Load(ctx, found.ID)
	if err != nil {
		return nil, err
	}

	old := p.Data.Points
	p.Data.Points = points
	game.Refresh(p, s.clock.Now())
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("error saving points: %w", err)
	}

	log.Info(ctx, "points set", "id", p.ID, "username", username, "from", old, "to", points)
	return p, nil
}
