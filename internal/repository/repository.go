// Package repository holds the content graph's storage rules: the Entity
// Store, Relationship Index, Identity Allocator and Scoring Ledger. A
// Repository lives for exactly one kvstore transaction, so everything done
// through it commits or rolls back together.
package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"anoa.com/blogsocial/internal/entity"
	"anoa.com/blogsocial/pkg/apperror"
	"anoa.com/blogsocial/pkg/kvstore"
)

var (
	ErrDuplicateID    = fmt.Errorf("%w: duplicate id", apperror.ErrInternal)
	ErrBrokenCounter  = fmt.Errorf("%w: derived counter out of range", apperror.ErrInternal)
	ErrAlreadyLinked  = fmt.Errorf("%w: already linked", apperror.ErrConflict)
	ErrNotLinked      = fmt.Errorf("%w: not linked", apperror.ErrConflict)
	ErrAlreadyTaken   = fmt.Errorf("%w: already taken", apperror.ErrConflict)
	ErrAlreadyApplied = fmt.Errorf("%w: already applied", apperror.ErrLedgerConflict)
	ErrNotApplied     = fmt.Errorf("%w: not applied", apperror.ErrLedgerConflict)
)

// WeightTable yields the signed weight of each scoring action.
type WeightTable interface {
	Weight(action entity.ScoringAction) int16
}

type Repository struct {
	tx      kvstore.Txn
	weights WeightTable
}

func NewRepository(tx kvstore.Txn, weights WeightTable) *Repository {
	return &Repository{tx: tx, weights: weights}
}

func conflict(base error, format string, args ...any) error {
	return apperror.New(http.StatusConflict, fmt.Sprintf("%s: %s", base, fmt.Sprintf(format, args...)), base)
}

func internal(base error, format string, args ...any) error {
	return apperror.New(http.StatusInternalServerError, fmt.Sprintf("%s: %s", base, fmt.Sprintf(format, args...)), base)
}

// load decodes the JSON value at key into a new T. A missing key returns
// (nil, nil).
func load[T any](tx kvstore.Txn, key []byte) (*T, error) {
	raw, err := tx.Get(key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	v := new(T)
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, fmt.Errorf("decode %q: %w", key, err)
	}
	return v, nil
}

func store(tx kvstore.Txn, key []byte, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return tx.Set(key, raw)
}

// addCount applies delta to a derived counter. Leaving the uint32 range means
// an earlier write broke an index/counter invariant.
func addCount(c *uint32, delta int, what string) error {
	next := int64(*c) + int64(delta)
	if next < 0 || next > int64(^uint32(0)) {
		return internal(ErrBrokenCounter, "%s %d%+d", what, *c, delta)
	}
	*c = uint32(next)
	return nil
}
