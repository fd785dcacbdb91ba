package repository

import (
	"math"

	"anoa.com/blogsocial/internal/entity"
	"github.com/google/uuid"
)

// beneficiary is the account whose reputation an action on target moves.
func (r *Repository) beneficiary(target entity.Target) (uuid.UUID, error) {
	switch target.Kind {
	case entity.KindBlog:
		blog, err := r.Blog(entity.BlogID(target.ID))
		if err != nil {
			return uuid.Nil, err
		}
		return blog.Owner(), nil
	case entity.KindPost:
		post, err := r.Post(entity.PostID(target.ID))
		if err != nil {
			return uuid.Nil, err
		}
		return post.Owner(), nil
	case entity.KindComment:
		comment, err := r.Comment(entity.CommentID(target.ID))
		if err != nil {
			return uuid.Nil, err
		}
		return comment.Owner(), nil
	case entity.KindAccount:
		return target.Account, nil
	default:
		panic("no score on " + string(target.Kind))
	}
}

func (r *Repository) LedgerEntry(actor uuid.UUID, target entity.Target, action entity.ScoringAction) (*entity.LedgerEntry, error) {
	return load[entity.LedgerEntry](r.tx, ledgerKey(actor, action, target))
}

// Apply credits the weight of action to the target's score and its
// beneficiary's reputation, once per (actor, target, action). Acting on your
// own content is recorded with zero deltas.
func (r *Repository) Apply(actor uuid.UUID, target entity.Target, action entity.ScoringAction) (entity.LedgerEntry, error) {
	key := ledgerKey(actor, action, target)
	existing, err := load[entity.LedgerEntry](r.tx, key)
	if err != nil {
		return entity.LedgerEntry{}, err
	}
	if existing != nil {
		return entity.LedgerEntry{}, conflict(ErrAlreadyApplied, "%s by %s", action, actor)
	}

	ben, err := r.beneficiary(target)
	if err != nil {
		return entity.LedgerEntry{}, err
	}
	entry := entity.LedgerEntry{
		Actor:       actor,
		Target:      target,
		Action:      action,
		Weight:      r.weights.Weight(action),
		Beneficiary: ben,
	}
	if actor != ben {
		if target.Kind != entity.KindAccount {
			entry.ScoreDelta = int32(entry.Weight)
			if err := r.addScore(target, entry.ScoreDelta); err != nil {
				return entity.LedgerEntry{}, err
			}
		}
		entry.ReputationDelta = int64(entry.Weight)
		if err := r.addReputation(ben, entry.ReputationDelta); err != nil {
			return entity.LedgerEntry{}, err
		}
	}
	return entry, store(r.tx, key, entry)
}

// Unapply undoes a previously applied entry and removes it.
func (r *Repository) Unapply(actor uuid.UUID, target entity.Target, action entity.ScoringAction) (entity.LedgerEntry, error) {
	key := ledgerKey(actor, action, target)
	entry, err := load[entity.LedgerEntry](r.tx, key)
	if err != nil {
		return entity.LedgerEntry{}, err
	}
	if entry == nil {
		return entity.LedgerEntry{}, conflict(ErrNotApplied, "%s by %s", action, actor)
	}
	if entry.ScoreDelta != 0 {
		if err := r.addScore(entry.Target, -entry.ScoreDelta); err != nil {
			return entity.LedgerEntry{}, err
		}
	}
	if entry.ReputationDelta != 0 {
		if err := r.addReputation(entry.Beneficiary, -entry.ReputationDelta); err != nil {
			return entity.LedgerEntry{}, err
		}
	}
	return *entry, r.tx.Delete(key)
}

func (r *Repository) addScore(target entity.Target, delta int32) error {
	switch target.Kind {
	case entity.KindBlog:
		return r.mutateBlog(entity.BlogID(target.ID), func(b *entity.Blog) error {
			b.Score += delta
			return nil
		})
	case entity.KindPost:
		return r.mutatePost(entity.PostID(target.ID), func(p *entity.Post) error {
			p.Score += delta
			return nil
		})
	case entity.KindComment:
		return r.mutateComment(entity.CommentID(target.ID), func(c *entity.Comment) error {
			c.Score += delta
			return nil
		})
	default:
		panic("no score on " + string(target.Kind))
	}
}

// addReputation moves the signed sum of live entries by delta. The visible
// reputation is that sum clamped to the uint32 range, so entries can be
// undone in any order without drifting.
func (r *Repository) addReputation(account uuid.UUID, delta int64) error {
	return r.mutateAccount(account, func(acc *entity.SocialAccount) error {
		acc.ReputationRaw += delta
		acc.Reputation = uint32(min(max(acc.ReputationRaw, 0), math.MaxUint32))
		return nil
	})
}
