package repository

import (
	"testing"

	"anoa.com/blogsocial/internal/entity"
	"anoa.com/blogsocial/pkg/apperror"
	"anoa.com/blogsocial/pkg/kvstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func seedPost(t *testing.T, r *Repository) {
	t.Helper()
	_, err := newBlog(r, alice, "first")
	require.NoError(t, err)
	_, err = newPost(r, alice, 1, entity.RegularPost{})
	require.NoError(t, err)
}

func reputation(t *testing.T, r *Repository, account uuid.UUID) uint32 {
	t.Helper()
	acc, err := r.accountOrNew(account)
	require.NoError(t, err)
	return acc.Reputation
}

func TestApplyIsIdempotent(t *testing.T) {
	s := newStore(t)
	mustUpdate(t, s, func(r *Repository) error {
		seedPost(t, r)

		entry, err := r.Apply(bob, entity.PostTarget(1), entity.UpvotePost)
		require.NoError(t, err)
		assert.Equal(t, alice, entry.Beneficiary)
		assert.Equal(t, int32(5), entry.ScoreDelta)
		assert.Equal(t, int64(5), entry.ReputationDelta)

		_, err = r.Apply(bob, entity.PostTarget(1), entity.UpvotePost)
		assert.ErrorIs(t, err, ErrAlreadyApplied)
		assert.ErrorIs(t, err, apperror.ErrLedgerConflict)

		post, err := r.Post(1)
		require.NoError(t, err)
		assert.Equal(t, int32(5), post.Score)
		assert.Equal(t, uint32(5), reputation(t, r, alice))
		return nil
	})
}

func TestUnapplyRestoresExactly(t *testing.T) {
	s := newStore(t)
	mustUpdate(t, s, func(r *Repository) error {
		seedPost(t, r)

		_, err := r.Unapply(bob, entity.PostTarget(1), entity.UpvotePost)
		assert.ErrorIs(t, err, ErrNotApplied)

		_, err = r.Apply(bob, entity.PostTarget(1), entity.DownvotePost)
		require.NoError(t, err)
		post, err := r.Post(1)
		require.NoError(t, err)
		assert.Equal(t, int32(-3), post.Score)
		assert.Equal(t, uint32(0), reputation(t, r, alice), "reputation is floored at zero")
		acc, err := r.accountOrNew(alice)
		require.NoError(t, err)
		assert.Equal(t, int64(-3), acc.ReputationRaw)

		entry, err := r.Unapply(bob, entity.PostTarget(1), entity.DownvotePost)
		require.NoError(t, err)
		assert.Equal(t, int64(-3), entry.ReputationDelta)

		post, err = r.Post(1)
		require.NoError(t, err)
		assert.Equal(t, int32(0), post.Score)
		assert.Equal(t, uint32(0), reputation(t, r, alice))

		stored, err := r.LedgerEntry(bob, entity.PostTarget(1), entity.DownvotePost)
		require.NoError(t, err)
		assert.Nil(t, stored)
		return nil
	})
}

func TestSelfScoringRecordsZeroDelta(t *testing.T) {
	s := newStore(t)
	mustUpdate(t, s, func(r *Repository) error {
		seedPost(t, r)

		entry, err := r.Apply(alice, entity.PostTarget(1), entity.UpvotePost)
		require.NoError(t, err)
		assert.Zero(t, entry.ScoreDelta)
		assert.Zero(t, entry.ReputationDelta)

		_, err = r.Apply(alice, entity.PostTarget(1), entity.UpvotePost)
		assert.ErrorIs(t, err, ErrAlreadyApplied)

		_, err = r.Unapply(alice, entity.PostTarget(1), entity.UpvotePost)
		require.NoError(t, err)
		assert.Zero(t, reputation(t, r, alice))
		return nil
	})
}

func TestFollowAccountCreditsReputationOnly(t *testing.T) {
	s := newStore(t)
	mustUpdate(t, s, func(r *Repository) error {
		entry, err := r.Apply(bob, entity.AccountTarget(carol), entity.FollowAccount)
		require.NoError(t, err)
		assert.Equal(t, carol, entry.Beneficiary)
		assert.Zero(t, entry.ScoreDelta)
		assert.Equal(t, uint32(3), reputation(t, r, carol))
		return nil
	})
}

func TestApplyOnMissingTarget(t *testing.T) {
	s := newStore(t)
	err := update(t, s, func(r *Repository) error {
		_, err := r.Apply(bob, entity.CommentTarget(9), entity.UpvoteComment)
		return err
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// Apply followed by Unapply leaves score and reputation where they were, for
// any prior state the ledger can reach.
func TestLedgerRoundTripProperty(t *testing.T) {
	s := newStore(t)
	mustUpdate(t, s, func(r *Repository) error {
		seedPost(t, r)
		return nil
	})
	actors := []uuid.UUID{bob, carol, uuid.MustParse("00000000-0000-0000-0000-00000000000d")}
	actions := []entity.ScoringAction{entity.UpvotePost, entity.DownvotePost, entity.SharePost, entity.CreateComment}

	rapid.Check(t, func(rt *rapid.T) {
		// Each check starts from a clean ledger on the same post.
		defer mustUpdate(t, s, func(r *Repository) error {
			for _, actor := range actors {
				for _, action := range actions {
					if e, _ := r.LedgerEntry(actor, entity.PostTarget(1), action); e != nil {
						if _, err := r.Unapply(actor, entity.PostTarget(1), action); err != nil {
							return err
						}
					}
				}
			}
			return nil
		})

		prior := rapid.SliceOfNDistinct(rapid.IntRange(0, len(actors)*len(actions)-1), 0, 6, rapid.ID[int]).Draw(rt, "prior")
		pick := rapid.IntRange(0, len(actors)*len(actions)-1).Draw(rt, "pick")

		mustUpdate(t, s, func(r *Repository) error {
			for _, i := range prior {
				if _, err := r.Apply(actors[i/len(actions)], entity.PostTarget(1), actions[i%len(actions)]); err != nil {
					return err
				}
			}
			return nil
		})

		actor, action := actors[pick/len(actions)], actions[pick%len(actions)]
		mustUpdate(t, s, func(r *Repository) error {
			if e, _ := r.LedgerEntry(actor, entity.PostTarget(1), action); e != nil {
				return nil
			}
			post, err := r.Post(1)
			require.NoError(t, err)
			score, rep := post.Score, reputation(t, r, alice)

			_, err = r.Apply(actor, entity.PostTarget(1), action)
			require.NoError(t, err)
			_, err = r.Apply(actor, entity.PostTarget(1), action)
			require.ErrorIs(t, err, ErrAlreadyApplied)
			_, err = r.Unapply(actor, entity.PostTarget(1), action)
			require.NoError(t, err)

			post, err = r.Post(1)
			require.NoError(t, err)
			if post.Score != score || reputation(t, r, alice) != rep {
				rt.Fatalf("round trip moved score %d->%d reputation %d->%d", score, post.Score, rep, reputation(t, r, alice))
			}
			return nil
		})
	})
}

// Entries on either side of the zero floor can be undone in any order and
// reputation still comes back to what the live entries add up to.
func TestUnapplyAcrossFloorInAnyOrder(t *testing.T) {
	s := newStore(t)
	mustUpdate(t, s, func(r *Repository) error {
		seedPost(t, r)

		_, err := r.Apply(bob, entity.AccountTarget(alice), entity.FollowAccount)
		require.NoError(t, err)
		assert.Equal(t, uint32(3), reputation(t, r, alice))

		_, err = r.Apply(carol, entity.PostTarget(1), entity.DownvotePost)
		require.NoError(t, err)
		assert.Equal(t, uint32(0), reputation(t, r, alice))

		_, err = r.Unapply(bob, entity.AccountTarget(alice), entity.FollowAccount)
		require.NoError(t, err)
		assert.Equal(t, uint32(0), reputation(t, r, alice))

		_, err = r.Unapply(carol, entity.PostTarget(1), entity.DownvotePost)
		require.NoError(t, err)
		assert.Equal(t, uint32(0), reputation(t, r, alice))

		acc, err := r.accountOrNew(alice)
		require.NoError(t, err)
		assert.Zero(t, acc.ReputationRaw)
		return nil
	})
}

type ledgerOp struct {
	actor  uuid.UUID
	target entity.Target
	action entity.ScoringAction
}

// Every account's reputation is the floored sum of the live entries that
// credit it, whatever mix of applies and unapplies got it there.
func TestReputationMatchesLiveEntriesProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s, err := kvstore.OpenMemory(kvstore.DriverLevelDB)
		require.NoError(t, err)
		defer s.Close()

		// alice owns post 1, bob owns post 2 and comment 1 on it.
		mustUpdate(t, s, func(r *Repository) error {
			if _, err := newBlog(r, alice, "first"); err != nil {
				return err
			}
			if _, err := newBlog(r, bob, "second"); err != nil {
				return err
			}
			if _, err := newPost(r, alice, 1, entity.RegularPost{}); err != nil {
				return err
			}
			if _, err := newPost(r, bob, 2, entity.RegularPost{}); err != nil {
				return err
			}
			_, err := newComment(r, bob, 2, nil)
			return err
		})
		accounts := []uuid.UUID{alice, bob, carol}
		var ops []ledgerOp
		for _, actor := range accounts {
			for _, whom := range accounts {
				ops = append(ops, ledgerOp{actor, entity.AccountTarget(whom), entity.FollowAccount})
			}
			for _, post := range []uint64{1, 2} {
				ops = append(ops,
					ledgerOp{actor, entity.PostTarget(entity.PostID(post)), entity.UpvotePost},
					ledgerOp{actor, entity.PostTarget(entity.PostID(post)), entity.DownvotePost},
				)
			}
			ops = append(ops,
				ledgerOp{actor, entity.CommentTarget(1), entity.UpvoteComment},
				ledgerOp{actor, entity.CommentTarget(1), entity.DownvoteComment},
			)
		}
		live := map[int]entity.LedgerEntry{}

		rt.Repeat(map[string]func(*rapid.T){
			"apply": func(rt *rapid.T) {
				i := rapid.IntRange(0, len(ops)-1).Draw(rt, "op")
				op := ops[i]
				_ = update(t, s, func(r *Repository) error {
					entry, err := r.Apply(op.actor, op.target, op.action)
					if err == nil {
						live[i] = entry
					}
					return err
				})
			},
			"unapply": func(rt *rapid.T) {
				i := rapid.IntRange(0, len(ops)-1).Draw(rt, "op")
				op := ops[i]
				_ = update(t, s, func(r *Repository) error {
					_, err := r.Unapply(op.actor, op.target, op.action)
					if err == nil {
						delete(live, i)
					}
					return err
				})
			},
			"": func(rt *rapid.T) {
				sums := map[uuid.UUID]int64{}
				for _, e := range live {
					sums[e.Beneficiary] += e.ReputationDelta
				}
				mustUpdate(t, s, func(r *Repository) error {
					for _, a := range accounts {
						want := uint32(max(sums[a], 0))
						if got := reputation(t, r, a); got != want {
							rt.Fatalf("account %s reputation %d, live entries sum to %d", a, got, sums[a])
						}
					}
					return nil
				})
			},
		})
	})
}

// followers_count always equals the size of the reverse follower set.
func TestFollowerCountsMatchIndexProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s, err := kvstore.OpenMemory(kvstore.DriverLevelDB)
		require.NoError(t, err)
		defer s.Close()
		mustUpdate(t, s, func(r *Repository) error {
			_, err := newBlog(r, alice, "first")
			return err
		})
		accounts := []uuid.UUID{alice, bob, carol}

		rt.Repeat(map[string]func(*rapid.T){
			"followBlog": func(rt *rapid.T) {
				who := rapid.SampledFrom(accounts).Draw(rt, "who")
				_ = update(t, s, func(r *Repository) error {
					return r.Link(EdgeBlogFollow, AccountNode(who), IDNode(1))
				})
			},
			"unfollowBlog": func(rt *rapid.T) {
				who := rapid.SampledFrom(accounts).Draw(rt, "who")
				_ = update(t, s, func(r *Repository) error {
					return r.Unlink(EdgeBlogFollow, AccountNode(who), IDNode(1))
				})
			},
			"followAccount": func(rt *rapid.T) {
				who := rapid.SampledFrom(accounts).Draw(rt, "who")
				whom := rapid.SampledFrom(accounts).Draw(rt, "whom")
				_ = update(t, s, func(r *Repository) error {
					return r.Link(EdgeAccountFollow, AccountNode(who), AccountNode(whom))
				})
			},
			"unfollowAccount": func(rt *rapid.T) {
				who := rapid.SampledFrom(accounts).Draw(rt, "who")
				whom := rapid.SampledFrom(accounts).Draw(rt, "whom")
				_ = update(t, s, func(r *Repository) error {
					return r.Unlink(EdgeAccountFollow, AccountNode(who), AccountNode(whom))
				})
			},
			"": func(rt *rapid.T) {
				mustUpdate(t, s, func(r *Repository) error {
					blog, err := r.Blog(1)
					require.NoError(t, err)
					followers, err := r.BlogFollowers(1)
					require.NoError(t, err)
					if int(blog.FollowersCount) != len(followers) {
						rt.Fatalf("blog followers_count %d, index has %d", blog.FollowersCount, len(followers))
					}
					for _, a := range accounts {
						acc, err := r.accountOrNew(a)
						require.NoError(t, err)
						in, err := r.AccountFollowers(a)
						require.NoError(t, err)
						out, err := r.AccountsFollowedBy(a)
						require.NoError(t, err)
						blogs, err := r.BlogsFollowedBy(a)
						require.NoError(t, err)
						if int(acc.FollowersCount) != len(in) || int(acc.FollowingAccountsCount) != len(out) || int(acc.FollowingBlogsCount) != len(blogs) {
							rt.Fatalf("account %s counters %+v disagree with index %d/%d/%d", a, acc, len(in), len(out), len(blogs))
						}
					}
					return nil
				})
			},
		})
	})
}
