package service

import (
	"context"

	"anoa.com/blogsocial/internal/entity"
	"anoa.com/blogsocial/internal/event"
	"anoa.com/blogsocial/internal/repository"
	"anoa.com/blogsocial/pkg/apperror"
	"github.com/google/uuid"
)

type PostService interface {
	CreatePost(ctx context.Context, who uuid.UUID, blogID entity.BlogID, ipfsHash string, ext entity.PostExtension) (Receipt, error)
	UpdatePost(ctx context.Context, who uuid.UUID, id entity.PostID, upd entity.PostUpdate) (Receipt, error)
}

type postService struct {
	*Engine
}

func NewPostService(engine *Engine) PostService {
	return &postService{Engine: engine}
}

func (s *postService) CreatePost(ctx context.Context, who uuid.UUID, blogID entity.BlogID, ipfsHash string, ext entity.PostExtension) (Receipt, error) {
	if ext == nil {
		ext = entity.RegularPost{}
	}
	return s.exec(ctx, "create_post", who, func(r *repository.Repository, now entity.Change) (Receipt, error) {
		if err := s.checkIpfsHash(ipfsHash); err != nil {
			return Receipt{}, err
		}
		blog, err := r.Blog(blogID)
		if err != nil {
			return Receipt{}, err
		}
		if !blog.CanPost(who) {
			return Receipt{}, apperror.Unauthorized("account is not an owner or writer of the blog")
		}

		// The shared original must exist before an id is spent.
		var originalOwner uuid.UUID
		switch e := ext.(type) {
		case entity.RegularPost:
		case entity.SharedPost:
			original, err := r.Post(e.PostID)
			if err != nil {
				return Receipt{}, err
			}
			originalOwner = original.Owner()
		case entity.SharedComment:
			original, err := r.Comment(e.CommentID)
			if err != nil {
				return Receipt{}, err
			}
			originalOwner = original.Owner()
		default:
			return Receipt{}, apperror.Validation("extension", "unsupported post extension")
		}

		id, err := r.NextID(entity.KindPost)
		if err != nil {
			return Receipt{}, err
		}
		post := &entity.Post{
			ID:        entity.PostID(id),
			BlogID:    blogID,
			Created:   now,
			Extension: ext,
			IpfsHash:  ipfsHash,
		}
		if err := r.InsertPost(post); err != nil {
			return Receipt{}, err
		}

		events := event.NewBuilder(now).Add(event.Event{Kind: event.PostCreated, PostID: post.ID, BlogID: blogID})
		switch e := ext.(type) {
		case entity.SharedPost:
			if err := s.countShare(r, events, who, entity.KindPost, uint64(e.PostID), entity.PostTarget(e.PostID), entity.SharePost); err != nil {
				return Receipt{}, err
			}
			events.Add(event.Event{Kind: event.PostShared, PostID: e.PostID, BlogID: blogID, Subject: event.Subject(originalOwner)})
		case entity.SharedComment:
			if err := s.countShare(r, events, who, entity.KindComment, uint64(e.CommentID), entity.CommentTarget(e.CommentID), entity.ShareComment); err != nil {
				return Receipt{}, err
			}
			events.Add(event.Event{Kind: event.CommentShared, CommentID: e.CommentID, BlogID: blogID, Subject: event.Subject(originalOwner)})
		}
		return Receipt{ID: id, Events: events.Events()}, nil
	})
}

// countShare bumps the per-account share counter and scores the first share
// of an original by each account.
func (s *postService) countShare(r *repository.Repository, events *event.Builder, who uuid.UUID, kind entity.Kind, original uint64, target entity.Target, action entity.ScoringAction) error {
	n, err := r.CountShare(kind, who, original)
	if err != nil {
		return err
	}
	if n > 1 {
		return nil
	}
	return applyScore(r, events, who, target, action)
}

func (s *postService) UpdatePost(ctx context.Context, who uuid.UUID, id entity.PostID, upd entity.PostUpdate) (Receipt, error) {
	return s.exec(ctx, "update_post", who, func(r *repository.Repository, now entity.Change) (Receipt, error) {
		if upd.IsEmpty() {
			return Receipt{}, apperror.Validation("update", "no fields to update")
		}
		if upd.IpfsHash != nil {
			if err := s.checkIpfsHash(*upd.IpfsHash); err != nil {
				return Receipt{}, err
			}
		}
		if upd.BlogID != nil {
			target, err := r.Blog(*upd.BlogID)
			if err != nil {
				return Receipt{}, err
			}
			if !target.CanPost(who) {
				return Receipt{}, apperror.Unauthorized("account is not an owner or writer of the target blog")
			}
		}

		post, err := r.UpdatePost(id, upd, now)
		if err != nil {
			return Receipt{}, err
		}
		events := event.NewBuilder(now).Add(event.Event{Kind: event.PostUpdated, PostID: id, BlogID: post.BlogID})
		return Receipt{ID: uint64(id), Events: events.Events()}, nil
	})
}
