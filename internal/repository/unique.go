package repository

import (
	"errors"

	"anoa.com/blogsocial/internal/entity"
	"anoa.com/blogsocial/pkg/kvstore"
	"github.com/google/uuid"
)

// Unique index namespaces.
const (
	nsSlug            = "slug"
	nsUsername        = "username"
	nsPostReaction    = "post_reaction"
	nsCommentReaction = "comment_reaction"
)

// Reserve claims key in namespace ns for value.
func (r *Repository) Reserve(ns string, key, value []byte) error {
	taken, err := r.tx.Has(uniqueKey(ns, key))
	if err != nil {
		return err
	}
	if taken {
		return conflict(ErrAlreadyTaken, "%s %q", ns, key)
	}
	return r.tx.Set(uniqueKey(ns, key), value)
}

func (r *Repository) Release(ns string, key []byte) error {
	return r.tx.Delete(uniqueKey(ns, key))
}

// Lookup returns the value key is reserved for, or nil when it is free.
func (r *Repository) Lookup(ns string, key []byte) ([]byte, error) {
	value, err := r.tx.Get(uniqueKey(ns, key))
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	return value, err
}

// BlogIDBySlug returns 0 when no blog holds slug.
func (r *Repository) BlogIDBySlug(slug string) (entity.BlogID, error) {
	v, err := r.Lookup(nsSlug, []byte(slug))
	if err != nil || v == nil {
		return 0, err
	}
	return entity.BlogID(Node(v).ID()), nil
}

// AccountByUsername reports the account whose profile holds username.
func (r *Repository) AccountByUsername(username string) (uuid.UUID, bool, error) {
	v, err := r.Lookup(nsUsername, []byte(username))
	if err != nil || v == nil {
		return uuid.Nil, false, err
	}
	return Node(v).Account(), true, nil
}

// PostReactionByAccount returns the live reaction of account on the post, or 0.
func (r *Repository) PostReactionByAccount(account uuid.UUID, id entity.PostID) (entity.ReactionID, error) {
	v, err := r.Lookup(nsPostReaction, pairKey(account, uint64(id)))
	if err != nil || v == nil {
		return 0, err
	}
	return entity.ReactionID(Node(v).ID()), nil
}

func (r *Repository) CommentReactionByAccount(account uuid.UUID, id entity.CommentID) (entity.ReactionID, error) {
	v, err := r.Lookup(nsCommentReaction, pairKey(account, uint64(id)))
	if err != nil || v == nil {
		return 0, err
	}
	return entity.ReactionID(Node(v).ID()), nil
}

func (r *Repository) ReservePostReaction(account uuid.UUID, post entity.PostID, reaction entity.ReactionID) error {
	return r.Reserve(nsPostReaction, pairKey(account, uint64(post)), IDNode(uint64(reaction)))
}

func (r *Repository) ReleasePostReaction(account uuid.UUID, post entity.PostID) error {
	return r.Release(nsPostReaction, pairKey(account, uint64(post)))
}

func (r *Repository) ReserveCommentReaction(account uuid.UUID, comment entity.CommentID, reaction entity.ReactionID) error {
	return r.Reserve(nsCommentReaction, pairKey(account, uint64(comment)), IDNode(uint64(reaction)))
}

func (r *Repository) ReleaseCommentReaction(account uuid.UUID, comment entity.CommentID) error {
	return r.Release(nsCommentReaction, pairKey(account, uint64(comment)))
}
