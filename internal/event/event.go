// Package event carries the notifications a committed operation produces
// and delivers them to the configured sinks.
package event

import (
	"time"

	"anoa.com/blogsocial/internal/entity"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type Kind string

const (
	BlogCreated              Kind = "BlogCreated"
	BlogUpdated              Kind = "BlogUpdated"
	BlogFollowed             Kind = "BlogFollowed"
	BlogUnfollowed           Kind = "BlogUnfollowed"
	AccountFollowed          Kind = "AccountFollowed"
	AccountUnfollowed        Kind = "AccountUnfollowed"
	ProfileCreated           Kind = "ProfileCreated"
	ProfileUpdated           Kind = "ProfileUpdated"
	PostCreated              Kind = "PostCreated"
	PostUpdated              Kind = "PostUpdated"
	PostShared               Kind = "PostShared"
	CommentCreated           Kind = "CommentCreated"
	CommentUpdated           Kind = "CommentUpdated"
	CommentShared            Kind = "CommentShared"
	PostReactionCreated      Kind = "PostReactionCreated"
	PostReactionUpdated      Kind = "PostReactionUpdated"
	PostReactionDeleted      Kind = "PostReactionDeleted"
	CommentReactionCreated   Kind = "CommentReactionCreated"
	CommentReactionUpdated   Kind = "CommentReactionUpdated"
	CommentReactionDeleted   Kind = "CommentReactionDeleted"
	AccountReputationChanged Kind = "AccountReputationChanged"
)

// Event is one notification. Only the ids relevant to Kind are set.
type Event struct {
	Kind  Kind      `json:"kind"`
	Actor uuid.UUID `json:"actor"`
	// Subject is the other account the event concerns: the followed
	// account, the owner of the reacted content, or the account whose
	// reputation changed.
	Subject *uuid.UUID `json:"subject,omitempty"`

	BlogID     entity.BlogID     `json:"blog_id,omitempty"`
	PostID     entity.PostID     `json:"post_id,omitempty"`
	CommentID  entity.CommentID  `json:"comment_id,omitempty"`
	ReactionID entity.ReactionID `json:"reaction_id,omitempty"`

	Action     entity.ScoringAction `json:"action,omitempty"`
	Reputation *uint32              `json:"reputation,omitempty"`

	Block entity.BlockNumber `json:"block"`
	Time  time.Time          `json:"time"`
}

// Accounts lists every account the event should be pushed to.
func (e Event) Accounts() []uuid.UUID {
	if e.Subject == nil {
		return []uuid.UUID{e.Actor}
	}
	return lo.Uniq([]uuid.UUID{e.Actor, *e.Subject})
}

// Builder stamps events of one operation with the same actor and clock.
type Builder struct {
	actor  uuid.UUID
	change entity.Change
	events []Event
}

func NewBuilder(change entity.Change) *Builder {
	return &Builder{actor: change.Account, change: change}
}

func (b *Builder) Add(e Event) *Builder {
	e.Actor = b.actor
	e.Block = b.change.Block
	e.Time = b.change.Time
	b.events = append(b.events, e)
	return b
}

// Reputation records that an applied or reversed ledger entry moved the
// reputation of account to value. Zero moves are skipped.
func (b *Builder) Reputation(entry entity.LedgerEntry, value uint32) *Builder {
	if entry.ReputationDelta == 0 {
		return b
	}
	account := entry.Beneficiary
	return b.Add(Event{Kind: AccountReputationChanged, Subject: &account, Action: entry.Action, Reputation: &value})
}

func (b *Builder) Events() []Event {
	return b.events
}

func Subject(account uuid.UUID) *uuid.UUID {
	return &account
}
