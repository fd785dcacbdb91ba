package repository

import (
	"encoding/binary"
	"errors"

	"anoa.com/blogsocial/internal/entity"
	"anoa.com/blogsocial/pkg/kvstore"
)

// PeekID returns the id the next created entity of kind will get.
func (r *Repository) PeekID(kind entity.Kind) (uint64, error) {
	raw, err := r.tx.Get(seqKey(kind))
	if errors.Is(err, kvstore.ErrNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(raw), nil
}

// NextID hands out the current id of kind and advances the counter. Call it
// only once validation has passed; a failed transaction rolls it back anyway.
func (r *Repository) NextID(kind entity.Kind) (uint64, error) {
	id, err := r.PeekID(kind)
	if err != nil {
		return 0, err
	}
	if err := r.tx.Set(seqKey(kind), IDNode(id+1)); err != nil {
		return 0, err
	}
	return id, nil
}
