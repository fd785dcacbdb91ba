package entity

import "github.com/google/uuid"

type ReactionKind string

const (
	Upvote   ReactionKind = "upvote"
	Downvote ReactionKind = "downvote"
)

func (k ReactionKind) Valid() bool {
	return k == Upvote || k == Downvote
}

// Reaction is an up or down vote. Which post or comment it belongs to is
// recorded only in the relationship index.
type Reaction struct {
	ID      ReactionID   `json:"id"`
	Created Change       `json:"created"`
	Updated *Change      `json:"updated,omitempty"`
	Kind    ReactionKind `json:"kind"`

	// Deleted marks a withdrawn reaction. The record and its id are kept.
	Deleted *Change `json:"deleted,omitempty"`
}

func (r *Reaction) Owner() uuid.UUID {
	return r.Created.Account
}

func (r *Reaction) IsDeleted() bool {
	return r.Deleted != nil
}
