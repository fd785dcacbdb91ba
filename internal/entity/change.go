package entity

import (
	"time"

	"github.com/google/uuid"
)

type (
	BlogID      uint64
	PostID      uint64
	CommentID   uint64
	ReactionID  uint64
	BlockNumber uint64
)

// Kind names an entity space. It is used as a key segment for history logs,
// ledger targets and id counters.
type Kind string

const (
	KindBlog     Kind = "blog"
	KindPost     Kind = "post"
	KindComment  Kind = "comment"
	KindReaction Kind = "reaction"
	KindAccount  Kind = "account"
)

// Change is an immutable stamp of who caused a creation or edit, and when.
type Change struct {
	Account uuid.UUID   `json:"account"`
	Block   BlockNumber `json:"block"`
	Time    time.Time   `json:"time"`
}

// NewChange stamps account at the given logical time.
func NewChange(account uuid.UUID, block BlockNumber, at time.Time) Change {
	return Change{Account: account, Block: block, Time: at.UTC()}
}
