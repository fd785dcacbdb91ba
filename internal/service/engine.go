package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"anoa.com/blogsocial/internal/config"
	"anoa.com/blogsocial/internal/entity"
	"anoa.com/blogsocial/internal/event"
	"anoa.com/blogsocial/internal/metrics"
	"anoa.com/blogsocial/internal/repository"
	"anoa.com/blogsocial/pkg/apperror"
	"anoa.com/blogsocial/pkg/kvstore"
	pkgvalidator "anoa.com/blogsocial/pkg/validator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Receipt is what a successful operation returns: the id it created or
// touched and the events to deliver.
type Receipt struct {
	ID     uint64        `json:"id"`
	Events []event.Event `json:"-"`
}

// Engine runs every operation as one serialized kvstore transaction. The
// per-domain services share one Engine.
type Engine struct {
	store    kvstore.Store
	mu       sync.Mutex
	clock    Clock
	params   config.Params
	validate *validator.Validate
	log      *zap.Logger
}

func NewEngine(store kvstore.Store, params config.Params, clock Clock, log *zap.Logger) *Engine {
	if clock == nil {
		clock = NewSystemClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		store:    store,
		clock:    clock,
		params:   params,
		validate: validator.New(),
		log:      log,
	}
}

func (e *Engine) Params() config.Params {
	return e.params
}

// exec runs fn inside one write transaction. Any error discards every write
// fn made, including id allocation.
func (e *Engine) exec(ctx context.Context, op string, who uuid.UUID, fn func(r *repository.Repository, now entity.Change) (Receipt, error)) (Receipt, error) {
	started := time.Now()
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if who == uuid.Nil {
		return Receipt{}, apperror.ErrUnauthenticated
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	block, at := e.clock.Now()
	now := entity.NewChange(who, block, at)

	var receipt Receipt
	err := e.store.Update(func(tx kvstore.Txn) error {
		var err error
		receipt, err = fn(repository.NewRepository(tx, e.params), now)
		return err
	})
	metrics.ObserveOperation(op, started, err)
	if err != nil {
		e.log.Debug("operation rejected", zap.String("op", op), zap.Stringer("actor", who), zap.Error(err))
		return Receipt{}, err
	}
	e.log.Debug("operation committed", zap.String("op", op), zap.Stringer("actor", who), zap.Uint64("id", receipt.ID), zap.Int("events", len(receipt.Events)))
	return receipt, nil
}

// view runs fn against a read-only snapshot.
func (e *Engine) view(ctx context.Context, fn func(r *repository.Repository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.store.View(func(tx kvstore.Txn) error {
		return fn(repository.NewRepository(tx, e.params))
	})
}

func (e *Engine) checkSlug(slug string) error {
	return e.check("slug", slug, fmt.Sprintf("required,min=%d,max=%d", e.params.SlugMinLen, e.params.SlugMaxLen))
}

func (e *Engine) checkUsername(username string) error {
	return e.check("username", username, fmt.Sprintf("required,min=%d,max=%d,printascii", e.params.UsernameMinLen, e.params.UsernameMaxLen))
}

func (e *Engine) checkIpfsHash(hash string) error {
	return e.check("ipfs_hash", hash, fmt.Sprintf("required,len=%d", e.params.IpfsHashLen))
}

func (e *Engine) check(field, value, tag string) error {
	if err := e.validate.Var(value, tag); err != nil {
		return apperror.Validation(field, pkgvalidator.FirstReason(err))
	}
	return nil
}

// reputationOf reads the reputation the ledger just left on account.
func reputationOf(r *repository.Repository, account uuid.UUID) (uint32, error) {
	acc, err := r.SocialAccount(account)
	if err != nil {
		return 0, err
	}
	return acc.Reputation, nil
}

// applyScore applies the ledger entry and records the reputation event.
func applyScore(r *repository.Repository, events *event.Builder, actor uuid.UUID, target entity.Target, action entity.ScoringAction) error {
	entry, err := r.Apply(actor, target, action)
	if err != nil {
		return err
	}
	return reputationEvent(r, events, entry)
}

func reverseScore(r *repository.Repository, events *event.Builder, actor uuid.UUID, target entity.Target, action entity.ScoringAction) error {
	entry, err := r.Unapply(actor, target, action)
	if err != nil {
		return err
	}
	return reputationEvent(r, events, entry)
}

func reputationEvent(r *repository.Repository, events *event.Builder, entry entity.LedgerEntry) error {
	if entry.ReputationDelta == 0 {
		return nil
	}
	rep, err := reputationOf(r, entry.Beneficiary)
	if err != nil {
		return err
	}
	events.Reputation(entry, rep)
	return nil
}
