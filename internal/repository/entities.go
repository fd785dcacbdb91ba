package repository

import (
	"slices"

	"anoa.com/blogsocial/internal/entity"
	"anoa.com/blogsocial/pkg/apperror"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

func blogKey(id entity.BlogID) []byte       { return entityKey(entity.KindBlog, IDNode(uint64(id))) }
func postKey(id entity.PostID) []byte       { return entityKey(entity.KindPost, IDNode(uint64(id))) }
func commentKey(id entity.CommentID) []byte { return entityKey(entity.KindComment, IDNode(uint64(id))) }
func reactionKey(id entity.ReactionID) []byte {
	return entityKey(entity.KindReaction, IDNode(uint64(id)))
}
func accountKey(account uuid.UUID) []byte { return entityKey(entity.KindAccount, AccountNode(account)) }

func get[T any](r *Repository, key []byte, name string) (*T, error) {
	v, err := load[T](r.tx, key)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperror.NotFound(name)
	}
	return v, nil
}

func mutate[T any](r *Repository, key []byte, name string, fn func(*T) error) error {
	v, err := get[T](r, key, name)
	if err != nil {
		return err
	}
	if err := fn(v); err != nil {
		return err
	}
	return store(r.tx, key, v)
}

func (r *Repository) insert(key []byte, v any) error {
	exists, err := r.tx.Has(key)
	if err != nil {
		return err
	}
	if exists {
		return internal(ErrDuplicateID, "%q", key)
	}
	return store(r.tx, key, v)
}

func noChanges() error {
	return apperror.Validation("update", "no field would change")
}

// Blogs

func (r *Repository) Blog(id entity.BlogID) (*entity.Blog, error) {
	return get[entity.Blog](r, blogKey(id), "blog")
}

func (r *Repository) mutateBlog(id entity.BlogID, fn func(*entity.Blog) error) error {
	return mutate(r, blogKey(id), "blog", fn)
}

// InsertBlog stores a new blog, claims its slug and indexes it under its
// owner.
func (r *Repository) InsertBlog(blog *entity.Blog) error {
	node := IDNode(uint64(blog.ID))
	if err := r.Reserve(nsSlug, []byte(blog.Slug), node); err != nil {
		return err
	}
	if err := r.insert(blogKey(blog.ID), blog); err != nil {
		return err
	}
	return r.Link(EdgeBlogOwner, AccountNode(blog.Owner()), node)
}

// UpdateBlog applies the fields present in upd. The owner may change every
// field; a writer may change only the content hash.
func (r *Repository) UpdateBlog(id entity.BlogID, upd entity.BlogUpdate, edit entity.Change) (*entity.Blog, error) {
	blog, err := r.Blog(id)
	if err != nil {
		return nil, err
	}
	switch {
	case blog.Owner() == edit.Account:
	case blog.CanPost(edit.Account):
		if upd.Writers != nil || upd.Slug != nil {
			return nil, apperror.Unauthorized("only the blog owner may change writers or slug")
		}
	default:
		return nil, apperror.Unauthorized("not an owner or writer of the blog")
	}

	var old entity.BlogUpdate
	if upd.Writers != nil {
		writers := lo.Uniq(lo.Without(*upd.Writers, blog.Owner()))
		if !slices.Equal(writers, blog.Writers) {
			prev := append([]uuid.UUID{}, blog.Writers...)
			old.Writers = &prev
			blog.Writers = writers
		}
	}
	if upd.Slug != nil && *upd.Slug != blog.Slug {
		if err := r.Release(nsSlug, []byte(blog.Slug)); err != nil {
			return nil, err
		}
		if err := r.Reserve(nsSlug, []byte(*upd.Slug), IDNode(uint64(id))); err != nil {
			return nil, err
		}
		prev := blog.Slug
		old.Slug = &prev
		blog.Slug = *upd.Slug
	}
	if upd.IpfsHash != nil && *upd.IpfsHash != blog.IpfsHash {
		prev := blog.IpfsHash
		old.IpfsHash = &prev
		blog.IpfsHash = *upd.IpfsHash
	}
	if old.IsEmpty() {
		return nil, noChanges()
	}

	blog.Updated = &edit
	if err := r.appendHistory(entity.KindBlog, IDNode(uint64(id)), entity.BlogHistoryRecord{Edited: edit, OldData: old}); err != nil {
		return nil, err
	}
	return blog, store(r.tx, blogKey(id), blog)
}

// Posts

func (r *Repository) Post(id entity.PostID) (*entity.Post, error) {
	return get[entity.Post](r, postKey(id), "post")
}

func (r *Repository) mutatePost(id entity.PostID, fn func(*entity.Post) error) error {
	return mutate(r, postKey(id), "post", fn)
}

// InsertPost stores a new post and links it into its blog and, for shares,
// under the shared original.
func (r *Repository) InsertPost(post *entity.Post) error {
	node := IDNode(uint64(post.ID))
	if err := r.insert(postKey(post.ID), post); err != nil {
		return err
	}
	if err := r.Link(EdgeBlogPost, IDNode(uint64(post.BlogID)), node); err != nil {
		return err
	}
	switch ext := post.Extension.(type) {
	case entity.RegularPost:
		return nil
	case entity.SharedPost:
		return r.Link(EdgePostShare, IDNode(uint64(ext.PostID)), node)
	case entity.SharedComment:
		return r.Link(EdgeCommentShare, IDNode(uint64(ext.CommentID)), node)
	default:
		panic("unhandled post extension")
	}
}

// UpdatePost applies the fields present in upd. Moving to another blog moves
// the post between the blogs' post sets.
func (r *Repository) UpdatePost(id entity.PostID, upd entity.PostUpdate, edit entity.Change) (*entity.Post, error) {
	post, err := r.Post(id)
	if err != nil {
		return nil, err
	}
	if post.Owner() != edit.Account {
		return nil, apperror.Unauthorized("only the post owner may update it")
	}

	var old entity.PostUpdate
	if upd.BlogID != nil && *upd.BlogID != post.BlogID {
		node := IDNode(uint64(id))
		if err := r.Unlink(EdgeBlogPost, IDNode(uint64(post.BlogID)), node); err != nil {
			return nil, err
		}
		if err := r.Link(EdgeBlogPost, IDNode(uint64(*upd.BlogID)), node); err != nil {
			return nil, err
		}
		prev := post.BlogID
		old.BlogID = &prev
		post.BlogID = *upd.BlogID
	}
	if upd.IpfsHash != nil && *upd.IpfsHash != post.IpfsHash {
		prev := post.IpfsHash
		old.IpfsHash = &prev
		post.IpfsHash = *upd.IpfsHash
	}
	if old.IsEmpty() {
		return nil, noChanges()
	}

	post.Updated = &edit
	if err := r.appendHistory(entity.KindPost, IDNode(uint64(id)), entity.PostHistoryRecord{Edited: edit, OldData: old}); err != nil {
		return nil, err
	}
	return post, store(r.tx, postKey(id), post)
}

// Comments

func (r *Repository) Comment(id entity.CommentID) (*entity.Comment, error) {
	return get[entity.Comment](r, commentKey(id), "comment")
}

func (r *Repository) mutateComment(id entity.CommentID, fn func(*entity.Comment) error) error {
	return mutate(r, commentKey(id), "comment", fn)
}

// InsertComment stores a new comment under its post and, for replies, under
// its parent.
func (r *Repository) InsertComment(comment *entity.Comment) error {
	node := IDNode(uint64(comment.ID))
	if err := r.insert(commentKey(comment.ID), comment); err != nil {
		return err
	}
	if err := r.Link(EdgePostComment, IDNode(uint64(comment.PostID)), node); err != nil {
		return err
	}
	if comment.ParentID != nil {
		return r.Link(EdgeCommentReply, IDNode(uint64(*comment.ParentID)), node)
	}
	return nil
}

func (r *Repository) UpdateComment(id entity.CommentID, upd entity.CommentUpdate, edit entity.Change) (*entity.Comment, error) {
	comment, err := r.Comment(id)
	if err != nil {
		return nil, err
	}
	if comment.Owner() != edit.Account {
		return nil, apperror.Unauthorized("only the comment owner may update it")
	}
	if upd.IpfsHash == comment.IpfsHash {
		return nil, noChanges()
	}

	old := entity.CommentUpdate{IpfsHash: comment.IpfsHash}
	comment.IpfsHash = upd.IpfsHash
	comment.Updated = &edit
	if err := r.appendHistory(entity.KindComment, IDNode(uint64(id)), entity.CommentHistoryRecord{Edited: edit, OldData: old}); err != nil {
		return nil, err
	}
	return comment, store(r.tx, commentKey(id), comment)
}

// Reactions

func (r *Repository) Reaction(id entity.ReactionID) (*entity.Reaction, error) {
	return get[entity.Reaction](r, reactionKey(id), "reaction")
}

func (r *Repository) InsertReaction(reaction *entity.Reaction) error {
	return r.insert(reactionKey(reaction.ID), reaction)
}

func (r *Repository) SaveReaction(reaction *entity.Reaction) error {
	return store(r.tx, reactionKey(reaction.ID), reaction)
}

// Accounts

// SocialAccount returns the account record; accounts come into existence on
// their first follow, score or profile.
func (r *Repository) SocialAccount(account uuid.UUID) (*entity.SocialAccount, error) {
	return get[entity.SocialAccount](r, accountKey(account), "social account")
}

func (r *Repository) accountOrNew(account uuid.UUID) (*entity.SocialAccount, error) {
	acc, err := load[entity.SocialAccount](r.tx, accountKey(account))
	if err != nil {
		return nil, err
	}
	if acc == nil {
		acc = &entity.SocialAccount{}
	}
	return acc, nil
}

func (r *Repository) mutateAccount(account uuid.UUID, fn func(*entity.SocialAccount) error) error {
	acc, err := r.accountOrNew(account)
	if err != nil {
		return err
	}
	if err := fn(acc); err != nil {
		return err
	}
	return store(r.tx, accountKey(account), acc)
}

func (r *Repository) CreateProfile(account uuid.UUID, username, ipfsHash string, created entity.Change) (*entity.SocialAccount, error) {
	acc, err := r.accountOrNew(account)
	if err != nil {
		return nil, err
	}
	if acc.Profile != nil {
		return nil, apperror.Conflict("account already has a profile")
	}
	if err := r.Reserve(nsUsername, []byte(username), AccountNode(account)); err != nil {
		return nil, err
	}
	acc.Profile = &entity.Profile{Created: created, Username: username, IpfsHash: ipfsHash}
	return acc, store(r.tx, accountKey(account), acc)
}

func (r *Repository) UpdateProfile(account uuid.UUID, upd entity.ProfileUpdate, edit entity.Change) (*entity.SocialAccount, error) {
	acc, err := r.accountOrNew(account)
	if err != nil {
		return nil, err
	}
	if acc.Profile == nil {
		return nil, apperror.NotFound("profile")
	}
	profile := acc.Profile

	var old entity.ProfileUpdate
	if upd.Username != nil && *upd.Username != profile.Username {
		if err := r.Release(nsUsername, []byte(profile.Username)); err != nil {
			return nil, err
		}
		if err := r.Reserve(nsUsername, []byte(*upd.Username), AccountNode(account)); err != nil {
			return nil, err
		}
		prev := profile.Username
		old.Username = &prev
		profile.Username = *upd.Username
	}
	if upd.IpfsHash != nil && *upd.IpfsHash != profile.IpfsHash {
		prev := profile.IpfsHash
		old.IpfsHash = &prev
		profile.IpfsHash = *upd.IpfsHash
	}
	if old.IsEmpty() {
		return nil, noChanges()
	}

	profile.Updated = &edit
	if err := r.appendHistory(entity.KindAccount, AccountNode(account), entity.ProfileHistoryRecord{Edited: edit, OldData: old}); err != nil {
		return nil, err
	}
	return acc, store(r.tx, accountKey(account), acc)
}
