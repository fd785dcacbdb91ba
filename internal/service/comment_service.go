package service

import (
	"context"

	"anoa.com/blogsocial/internal/entity"
	"anoa.com/blogsocial/internal/event"
	"anoa.com/blogsocial/internal/repository"
	"anoa.com/blogsocial/pkg/apperror"
	"github.com/google/uuid"
)

type CommentService interface {
	CreateComment(ctx context.Context, who uuid.UUID, postID entity.PostID, parentID *entity.CommentID, ipfsHash string) (Receipt, error)
	UpdateComment(ctx context.Context, who uuid.UUID, id entity.CommentID, upd entity.CommentUpdate) (Receipt, error)
}

type commentService struct {
	*Engine
}

func NewCommentService(engine *Engine) CommentService {
	return &commentService{Engine: engine}
}

func (s *commentService) CreateComment(ctx context.Context, who uuid.UUID, postID entity.PostID, parentID *entity.CommentID, ipfsHash string) (Receipt, error) {
	return s.exec(ctx, "create_comment", who, func(r *repository.Repository, now entity.Change) (Receipt, error) {
		if err := s.checkIpfsHash(ipfsHash); err != nil {
			return Receipt{}, err
		}
		post, err := r.Post(postID)
		if err != nil {
			return Receipt{}, err
		}
		if parentID != nil {
			parent, err := r.Comment(*parentID)
			if err != nil {
				return Receipt{}, err
			}
			if parent.PostID != postID {
				return Receipt{}, apperror.Validation("parent_id", "must be a comment on the same post")
			}
		}

		id, err := r.NextID(entity.KindComment)
		if err != nil {
			return Receipt{}, err
		}
		comment := &entity.Comment{
			ID:       entity.CommentID(id),
			ParentID: parentID,
			PostID:   postID,
			Created:  now,
			IpfsHash: ipfsHash,
		}
		if err := r.InsertComment(comment); err != nil {
			return Receipt{}, err
		}

		events := event.NewBuilder(now)
		// Only the first comment of an account on a post scores.
		scored, err := r.LedgerEntry(who, entity.PostTarget(postID), entity.CreateComment)
		if err != nil {
			return Receipt{}, err
		}
		if scored == nil {
			if err := applyScore(r, events, who, entity.PostTarget(postID), entity.CreateComment); err != nil {
				return Receipt{}, err
			}
		}
		events.Add(event.Event{Kind: event.CommentCreated, PostID: postID, CommentID: comment.ID, Subject: event.Subject(post.Owner())})
		return Receipt{ID: id, Events: events.Events()}, nil
	})
}

func (s *commentService) UpdateComment(ctx context.Context, who uuid.UUID, id entity.CommentID, upd entity.CommentUpdate) (Receipt, error) {
	return s.exec(ctx, "update_comment", who, func(r *repository.Repository, now entity.Change) (Receipt, error) {
		if err := s.checkIpfsHash(upd.IpfsHash); err != nil {
			return Receipt{}, err
		}
		comment, err := r.UpdateComment(id, upd, now)
		if err != nil {
			return Receipt{}, err
		}
		events := event.NewBuilder(now).Add(event.Event{Kind: event.CommentUpdated, PostID: comment.PostID, CommentID: id})
		return Receipt{ID: uint64(id), Events: events.Events()}, nil
	})
}
