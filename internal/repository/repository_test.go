package repository

import (
	"errors"
	"testing"
	"time"

	"anoa.com/blogsocial/internal/config"
	"anoa.com/blogsocial/internal/entity"
	"anoa.com/blogsocial/pkg/apperror"
	"anoa.com/blogsocial/pkg/kvstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	bob   = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	carol = uuid.MustParse("00000000-0000-0000-0000-00000000000c")
)

func newStore(t *testing.T) kvstore.Store {
	t.Helper()
	s, err := kvstore.OpenMemory(kvstore.DriverBadger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// update runs fn in one committed transaction.
func update(t *testing.T, s kvstore.Store, fn func(r *Repository) error) error {
	t.Helper()
	return s.Update(func(tx kvstore.Txn) error {
		return fn(NewRepository(tx, config.DefaultParams()))
	})
}

func mustUpdate(t *testing.T, s kvstore.Store, fn func(r *Repository) error) {
	t.Helper()
	require.NoError(t, update(t, s, fn))
}

func stamp(account uuid.UUID, block entity.BlockNumber) entity.Change {
	return entity.NewChange(account, block, time.Unix(int64(block), 0))
}

func newBlog(r *Repository, owner uuid.UUID, slug string) (*entity.Blog, error) {
	id, err := r.NextID(entity.KindBlog)
	if err != nil {
		return nil, err
	}
	blog := &entity.Blog{ID: entity.BlogID(id), Created: stamp(owner, 1), Slug: slug, IpfsHash: "Qm" + slug}
	return blog, r.InsertBlog(blog)
}

func newPost(r *Repository, owner uuid.UUID, blog entity.BlogID, ext entity.PostExtension) (*entity.Post, error) {
	id, err := r.NextID(entity.KindPost)
	if err != nil {
		return nil, err
	}
	post := &entity.Post{ID: entity.PostID(id), BlogID: blog, Created: stamp(owner, 2), Extension: ext, IpfsHash: "QmPost"}
	return post, r.InsertPost(post)
}

func newComment(r *Repository, owner uuid.UUID, post entity.PostID, parent *entity.CommentID) (*entity.Comment, error) {
	id, err := r.NextID(entity.KindComment)
	if err != nil {
		return nil, err
	}
	c := &entity.Comment{ID: entity.CommentID(id), PostID: post, ParentID: parent, Created: stamp(owner, 3), IpfsHash: "QmC0"}
	return c, r.InsertComment(c)
}

func TestNextIDIsMonotonicAndRollsBack(t *testing.T) {
	s := newStore(t)

	mustUpdate(t, s, func(r *Repository) error {
		peek, err := r.PeekID(entity.KindBlog)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), peek)

		for want := uint64(1); want <= 3; want++ {
			id, err := r.NextID(entity.KindBlog)
			require.NoError(t, err)
			assert.Equal(t, want, id)
		}
		post, err := r.NextID(entity.KindPost)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), post)
		return nil
	})

	boom := errors.New("boom")
	err := update(t, s, func(r *Repository) error {
		_, _ = r.NextID(entity.KindBlog)
		return boom
	})
	require.ErrorIs(t, err, boom)

	mustUpdate(t, s, func(r *Repository) error {
		peek, err := r.PeekID(entity.KindBlog)
		require.NoError(t, err)
		assert.Equal(t, uint64(4), peek)
		return nil
	})
}

func TestInsertBlogIndexesSlugAndOwner(t *testing.T) {
	s := newStore(t)

	mustUpdate(t, s, func(r *Repository) error {
		_, err := newBlog(r, alice, "first")
		require.NoError(t, err)
		_, err = newBlog(r, alice, "second")
		return err
	})

	err := update(t, s, func(r *Repository) error {
		_, err := newBlog(r, bob, "first")
		return err
	})
	assert.ErrorIs(t, err, ErrAlreadyTaken)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	mustUpdate(t, s, func(r *Repository) error {
		id, err := r.BlogIDBySlug("first")
		require.NoError(t, err)
		assert.Equal(t, entity.BlogID(1), id)

		owned, err := r.BlogIDsByOwner(alice)
		require.NoError(t, err)
		assert.Equal(t, []entity.BlogID{1, 2}, owned)

		owned, err = r.BlogIDsByOwner(bob)
		require.NoError(t, err)
		assert.Empty(t, owned)

		next, err := r.PeekID(entity.KindBlog)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), next)
		return nil
	})
}

func TestInsertRejectsDuplicateID(t *testing.T) {
	s := newStore(t)
	mustUpdate(t, s, func(r *Repository) error {
		_, err := newBlog(r, alice, "first")
		return err
	})

	err := update(t, s, func(r *Repository) error {
		return r.InsertBlog(&entity.Blog{ID: 1, Created: stamp(alice, 1), Slug: "other"})
	})
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 500, apperror.MapErrorToStatus(err))
}

func TestLinkAndUnlinkKeepCountersExact(t *testing.T) {
	s := newStore(t)
	mustUpdate(t, s, func(r *Repository) error {
		_, err := newBlog(r, alice, "first")
		return err
	})

	mustUpdate(t, s, func(r *Repository) error {
		require.NoError(t, r.Link(EdgeBlogFollow, AccountNode(bob), IDNode(1)))
		require.NoError(t, r.Link(EdgeBlogFollow, AccountNode(carol), IDNode(1)))

		err := r.Link(EdgeBlogFollow, AccountNode(bob), IDNode(1))
		assert.ErrorIs(t, err, ErrAlreadyLinked)

		followers, err := r.BlogFollowers(1)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{bob, carol}, followers)

		followed, err := r.BlogsFollowedBy(bob)
		require.NoError(t, err)
		assert.Equal(t, []entity.BlogID{1}, followed)

		blog, err := r.Blog(1)
		require.NoError(t, err)
		assert.Equal(t, uint32(2), blog.FollowersCount)
		acc, err := r.SocialAccount(bob)
		require.NoError(t, err)
		assert.Equal(t, uint32(1), acc.FollowingBlogsCount)
		return nil
	})

	mustUpdate(t, s, func(r *Repository) error {
		require.NoError(t, r.Unlink(EdgeBlogFollow, AccountNode(bob), IDNode(1)))
		err := r.Unlink(EdgeBlogFollow, AccountNode(bob), IDNode(1))
		assert.ErrorIs(t, err, ErrNotLinked)

		linked, err := r.IsLinked(EdgeBlogFollow, AccountNode(bob), IDNode(1))
		require.NoError(t, err)
		assert.False(t, linked)

		blog, err := r.Blog(1)
		require.NoError(t, err)
		assert.Equal(t, uint32(1), blog.FollowersCount)
		return nil
	})
}

func TestLinkRejectsMalformedNodes(t *testing.T) {
	s := newStore(t)
	err := update(t, s, func(r *Repository) error {
		return r.Link(EdgeBlogFollow, IDNode(1), IDNode(1))
	})
	assert.ErrorIs(t, err, apperror.ErrInternal)
}

func TestReactionEdgeCountsByKind(t *testing.T) {
	s := newStore(t)
	mustUpdate(t, s, func(r *Repository) error {
		_, err := newBlog(r, alice, "first")
		require.NoError(t, err)
		_, err = newPost(r, alice, 1, entity.RegularPost{})
		require.NoError(t, err)

		for i, kind := range []entity.ReactionKind{entity.Upvote, entity.Downvote, entity.Upvote} {
			reaction := &entity.Reaction{ID: entity.ReactionID(i + 1), Created: stamp(bob, 4), Kind: kind}
			require.NoError(t, r.InsertReaction(reaction))
			require.NoError(t, r.Link(EdgePostReaction, IDNode(1), IDNode(uint64(reaction.ID))))
		}
		post, err := r.Post(1)
		require.NoError(t, err)
		assert.Equal(t, uint32(2), post.UpvotesCount)
		assert.Equal(t, uint32(1), post.DownvotesCount)

		reactions, err := r.ReactionIDsByPost(1)
		require.NoError(t, err)
		assert.Equal(t, []entity.ReactionID{1, 2, 3}, reactions)
		return nil
	})
}

func TestPostsCommentsAndShares(t *testing.T) {
	s := newStore(t)
	mustUpdate(t, s, func(r *Repository) error {
		_, err := newBlog(r, alice, "first")
		require.NoError(t, err)
		_, err = newPost(r, alice, 1, entity.RegularPost{})
		require.NoError(t, err)
		parent, err := newComment(r, bob, 1, nil)
		require.NoError(t, err)
		_, err = newComment(r, carol, 1, &parent.ID)
		require.NoError(t, err)
		_, err = newPost(r, alice, 1, entity.SharedPost{PostID: 1})
		require.NoError(t, err)
		_, err = newPost(r, alice, 1, entity.SharedComment{CommentID: parent.ID})
		require.NoError(t, err)

		blog, err := r.Blog(1)
		require.NoError(t, err)
		assert.Equal(t, uint32(3), blog.PostsCount)

		post, err := r.Post(1)
		require.NoError(t, err)
		assert.Equal(t, uint32(2), post.CommentsCount)
		assert.Equal(t, uint32(1), post.SharesCount)

		c, err := r.Comment(parent.ID)
		require.NoError(t, err)
		assert.Equal(t, uint32(1), c.DirectRepliesCount)
		assert.Equal(t, uint32(1), c.SharesCount)

		shares, err := r.SharesOfPost(1)
		require.NoError(t, err)
		assert.Equal(t, []entity.PostID{2}, shares)
		shares, err = r.SharesOfComment(parent.ID)
		require.NoError(t, err)
		assert.Equal(t, []entity.PostID{3}, shares)

		n, err := r.CountShare(entity.KindPost, alice, 1)
		require.NoError(t, err)
		assert.Equal(t, uint32(1), n)
		n, err = r.CountShare(entity.KindPost, alice, 1)
		require.NoError(t, err)
		assert.Equal(t, uint32(2), n)
		return nil
	})
}

func TestUpdateBlogPermissions(t *testing.T) {
	s := newStore(t)
	mustUpdate(t, s, func(r *Repository) error {
		blog, err := newBlog(r, alice, "first")
		require.NoError(t, err)
		writers := []uuid.UUID{bob, bob, alice}
		_, err = r.UpdateBlog(blog.ID, entity.BlogUpdate{Writers: &writers}, stamp(alice, 5))
		return err
	})

	hash := "QmWriter"
	slug := "renamed"
	cases := []struct {
		name    string
		who     uuid.UUID
		upd     entity.BlogUpdate
		wantErr error
	}{
		{"stranger", carol, entity.BlogUpdate{IpfsHash: &hash}, apperror.ErrUnauthorized},
		{"writer renames", bob, entity.BlogUpdate{Slug: &slug}, apperror.ErrUnauthorized},
		{"writer edits hash", bob, entity.BlogUpdate{IpfsHash: &hash}, nil},
		{"no change", bob, entity.BlogUpdate{IpfsHash: &hash}, apperror.ErrValidationFailed},
		{"owner renames", alice, entity.BlogUpdate{Slug: &slug}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := update(t, s, func(r *Repository) error {
				_, err := r.UpdateBlog(1, tc.upd, stamp(tc.who, 6))
				return err
			})
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}

	mustUpdate(t, s, func(r *Repository) error {
		blog, err := r.Blog(1)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{bob}, blog.Writers)
		assert.Equal(t, "renamed", blog.Slug)
		assert.Equal(t, hash, blog.IpfsHash)
		require.NotNil(t, blog.Updated)
		assert.Equal(t, alice, blog.Updated.Account)

		old, err := r.BlogIDBySlug("first")
		require.NoError(t, err)
		assert.Zero(t, old)
		id, err := r.BlogIDBySlug("renamed")
		require.NoError(t, err)
		assert.Equal(t, entity.BlogID(1), id)

		hist, err := r.BlogHistory(1)
		require.NoError(t, err)
		require.Len(t, hist, 3)
		require.NotNil(t, hist[0].OldData.Writers)
		assert.Empty(t, *hist[0].OldData.Writers)
		assert.Equal(t, "Qmfirst", *hist[1].OldData.IpfsHash)
		assert.Nil(t, hist[1].OldData.Slug)
		assert.Equal(t, "first", *hist[2].OldData.Slug)
		return nil
	})
}

func TestUpdatePostMovesBetweenBlogs(t *testing.T) {
	s := newStore(t)
	mustUpdate(t, s, func(r *Repository) error {
		_, err := newBlog(r, alice, "first")
		require.NoError(t, err)
		_, err = newBlog(r, alice, "second")
		require.NoError(t, err)
		_, err = newPost(r, alice, 1, entity.RegularPost{})
		return err
	})

	target := entity.BlogID(2)
	err := update(t, s, func(r *Repository) error {
		_, err := r.UpdatePost(1, entity.PostUpdate{BlogID: &target}, stamp(bob, 7))
		return err
	})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	mustUpdate(t, s, func(r *Repository) error {
		post, err := r.UpdatePost(1, entity.PostUpdate{BlogID: &target}, stamp(alice, 7))
		require.NoError(t, err)
		assert.Equal(t, target, post.BlogID)

		first, err := r.Blog(1)
		require.NoError(t, err)
		second, err := r.Blog(2)
		require.NoError(t, err)
		assert.Equal(t, uint32(0), first.PostsCount)
		assert.Equal(t, uint32(1), second.PostsCount)

		posts, err := r.PostIDsByBlog(2)
		require.NoError(t, err)
		assert.Equal(t, []entity.PostID{1}, posts)

		hist, err := r.PostHistory(1)
		require.NoError(t, err)
		require.Len(t, hist, 1)
		assert.Equal(t, entity.BlogID(1), *hist[0].OldData.BlogID)
		return nil
	})
}

func TestCommentHistoryReplaysEveryVersion(t *testing.T) {
	s := newStore(t)
	mustUpdate(t, s, func(r *Repository) error {
		_, err := newBlog(r, alice, "first")
		require.NoError(t, err)
		_, err = newPost(r, alice, 1, entity.RegularPost{})
		require.NoError(t, err)
		_, err = newComment(r, bob, 1, nil)
		return err
	})

	versions := []string{"QmC0", "QmC1", "QmC2", "QmC3", "QmC4"}
	for i, hash := range versions[1:] {
		mustUpdate(t, s, func(r *Repository) error {
			_, err := r.UpdateComment(1, entity.CommentUpdate{IpfsHash: hash}, stamp(bob, entity.BlockNumber(10+i)))
			return err
		})
	}

	mustUpdate(t, s, func(r *Repository) error {
		c, err := r.Comment(1)
		require.NoError(t, err)
		hist, err := r.CommentHistory(1)
		require.NoError(t, err)
		require.Len(t, hist, len(versions)-1)

		current := c.IpfsHash
		assert.Equal(t, versions[len(versions)-1], current)
		for i := len(hist) - 1; i >= 0; i-- {
			current = hist[i].OldData.IpfsHash
			assert.Equal(t, versions[i], current)
			assert.Equal(t, entity.BlockNumber(10+i), hist[i].Edited.Block)
		}
		return nil
	})

	err := update(t, s, func(r *Repository) error {
		_, err := r.UpdateComment(1, entity.CommentUpdate{IpfsHash: "QmX"}, stamp(alice, 20))
		return err
	})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestProfileUsernameIsUnique(t *testing.T) {
	s := newStore(t)
	mustUpdate(t, s, func(r *Repository) error {
		_, err := r.CreateProfile(alice, "alice", "QmA", stamp(alice, 1))
		return err
	})

	err := update(t, s, func(r *Repository) error {
		_, err := r.CreateProfile(bob, "alice", "QmB", stamp(bob, 2))
		return err
	})
	assert.ErrorIs(t, err, ErrAlreadyTaken)

	err = update(t, s, func(r *Repository) error {
		_, err := r.CreateProfile(alice, "alice2", "QmA", stamp(alice, 2))
		return err
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	name := "alicia"
	mustUpdate(t, s, func(r *Repository) error {
		acc, err := r.UpdateProfile(alice, entity.ProfileUpdate{Username: &name}, stamp(alice, 3))
		require.NoError(t, err)
		assert.Equal(t, name, acc.Profile.Username)

		_, found, err := r.AccountByUsername("alice")
		require.NoError(t, err)
		assert.False(t, found)
		owner, found, err := r.AccountByUsername(name)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, alice, owner)

		hist, err := r.ProfileHistory(alice)
		require.NoError(t, err)
		require.Len(t, hist, 1)
		assert.Equal(t, "alice", *hist[0].OldData.Username)
		return nil
	})

	err = update(t, s, func(r *Repository) error {
		_, err := r.UpdateProfile(bob, entity.ProfileUpdate{Username: &name}, stamp(bob, 4))
		return err
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
