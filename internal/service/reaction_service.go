package service

import (
	"context"
	"fmt"

	"anoa.com/blogsocial/internal/entity"
	"anoa.com/blogsocial/internal/event"
	"anoa.com/blogsocial/internal/repository"
	"anoa.com/blogsocial/pkg/apperror"
	"github.com/google/uuid"
)

type ReactionService interface {
	CreatePostReaction(ctx context.Context, who uuid.UUID, postID entity.PostID, kind entity.ReactionKind) (Receipt, error)
	UpdatePostReaction(ctx context.Context, who uuid.UUID, postID entity.PostID, id entity.ReactionID, kind entity.ReactionKind) (Receipt, error)
	DeletePostReaction(ctx context.Context, who uuid.UUID, postID entity.PostID, id entity.ReactionID) (Receipt, error)
	CreateCommentReaction(ctx context.Context, who uuid.UUID, commentID entity.CommentID, kind entity.ReactionKind) (Receipt, error)
	UpdateCommentReaction(ctx context.Context, who uuid.UUID, commentID entity.CommentID, id entity.ReactionID, kind entity.ReactionKind) (Receipt, error)
	DeleteCommentReaction(ctx context.Context, who uuid.UUID, commentID entity.CommentID, id entity.ReactionID) (Receipt, error)
}

type reactionService struct {
	*Engine
}

func NewReactionService(engine *Engine) ReactionService {
	return &reactionService{Engine: engine}
}

// reactable is a post or comment seen through what reactions need of it.
type reactable struct {
	node   repository.Node
	edge   repository.Edge
	target entity.Target
	owner  uuid.UUID

	lookup  func(account uuid.UUID) (entity.ReactionID, error)
	reserve func(account uuid.UUID, id entity.ReactionID) error
	release func(account uuid.UUID) error

	created, updated, deleted event.Kind
	stamp                     func(e event.Event) event.Event
}

func postReactable(r *repository.Repository, id entity.PostID) (*reactable, error) {
	post, err := r.Post(id)
	if err != nil {
		return nil, err
	}
	return &reactable{
		node:   repository.IDNode(uint64(id)),
		edge:   repository.EdgePostReaction,
		target: entity.PostTarget(id),
		owner:  post.Owner(),
		lookup: func(account uuid.UUID) (entity.ReactionID, error) {
			return r.PostReactionByAccount(account, id)
		},
		reserve: func(account uuid.UUID, reaction entity.ReactionID) error {
			return r.ReservePostReaction(account, id, reaction)
		},
		release: func(account uuid.UUID) error {
			return r.ReleasePostReaction(account, id)
		},
		created: event.PostReactionCreated,
		updated: event.PostReactionUpdated,
		deleted: event.PostReactionDeleted,
		stamp: func(e event.Event) event.Event {
			e.PostID = id
			return e
		},
	}, nil
}

func commentReactable(r *repository.Repository, id entity.CommentID) (*reactable, error) {
	comment, err := r.Comment(id)
	if err != nil {
		return nil, err
	}
	return &reactable{
		node:   repository.IDNode(uint64(id)),
		edge:   repository.EdgeCommentReaction,
		target: entity.CommentTarget(id),
		owner:  comment.Owner(),
		lookup: func(account uuid.UUID) (entity.ReactionID, error) {
			return r.CommentReactionByAccount(account, id)
		},
		reserve: func(account uuid.UUID, reaction entity.ReactionID) error {
			return r.ReserveCommentReaction(account, id, reaction)
		},
		release: func(account uuid.UUID) error {
			return r.ReleaseCommentReaction(account, id)
		},
		created: event.CommentReactionCreated,
		updated: event.CommentReactionUpdated,
		deleted: event.CommentReactionDeleted,
		stamp: func(e event.Event) event.Event {
			e.CommentID = id
			e.PostID = comment.PostID
			return e
		},
	}, nil
}

func checkKind(kind entity.ReactionKind) error {
	if !kind.Valid() {
		return apperror.Validation("kind", "must be one of [upvote downvote]")
	}
	return nil
}

func (s *reactionService) create(r *repository.Repository, now entity.Change, t *reactable, kind entity.ReactionKind) (Receipt, error) {
	who := now.Account
	existing, err := t.lookup(who)
	if err != nil {
		return Receipt{}, err
	}
	if existing != 0 {
		return Receipt{}, apperror.Conflict(fmt.Sprintf("account already reacted with reaction %d; update it instead", existing))
	}

	id, err := r.NextID(entity.KindReaction)
	if err != nil {
		return Receipt{}, err
	}
	reaction := &entity.Reaction{ID: entity.ReactionID(id), Created: now, Kind: kind}
	if err := r.InsertReaction(reaction); err != nil {
		return Receipt{}, err
	}
	if err := r.Link(t.edge, t.node, repository.IDNode(id)); err != nil {
		return Receipt{}, err
	}
	if err := t.reserve(who, reaction.ID); err != nil {
		return Receipt{}, err
	}

	events := event.NewBuilder(now)
	if err := applyScore(r, events, who, t.target, entity.ReactionAction(t.target.Kind, kind)); err != nil {
		return Receipt{}, err
	}
	events.Add(t.stamp(event.Event{Kind: t.created, ReactionID: reaction.ID, Subject: event.Subject(t.owner)}))
	return Receipt{ID: id, Events: events.Events()}, nil
}

// ownReaction loads a live reaction of who that belongs to t.
func ownReaction(r *repository.Repository, who uuid.UUID, t *reactable, id entity.ReactionID) (*entity.Reaction, error) {
	reaction, err := r.Reaction(id)
	if err != nil {
		return nil, err
	}
	linked, err := r.IsLinked(t.edge, t.node, repository.IDNode(uint64(id)))
	if err != nil {
		return nil, err
	}
	if reaction.IsDeleted() || !linked {
		return nil, apperror.NotFound("reaction")
	}
	if reaction.Owner() != who {
		return nil, apperror.Unauthorized("only the reaction owner may change it")
	}
	return reaction, nil
}

func (s *reactionService) update(r *repository.Repository, now entity.Change, t *reactable, id entity.ReactionID, kind entity.ReactionKind) (Receipt, error) {
	who := now.Account
	reaction, err := ownReaction(r, who, t, id)
	if err != nil {
		return Receipt{}, err
	}
	if reaction.Kind == kind {
		return Receipt{}, apperror.Validation("kind", "is the same as the current reaction")
	}

	events := event.NewBuilder(now)
	if err := reverseScore(r, events, who, t.target, entity.ReactionAction(t.target.Kind, reaction.Kind)); err != nil {
		return Receipt{}, err
	}
	// Relinking moves the vote between the up and down counters.
	if err := r.Unlink(t.edge, t.node, repository.IDNode(uint64(id))); err != nil {
		return Receipt{}, err
	}
	reaction.Kind = kind
	reaction.Updated = &now
	if err := r.SaveReaction(reaction); err != nil {
		return Receipt{}, err
	}
	if err := r.Link(t.edge, t.node, repository.IDNode(uint64(id))); err != nil {
		return Receipt{}, err
	}
	if err := applyScore(r, events, who, t.target, entity.ReactionAction(t.target.Kind, kind)); err != nil {
		return Receipt{}, err
	}
	events.Add(t.stamp(event.Event{Kind: t.updated, ReactionID: id, Subject: event.Subject(t.owner)}))
	return Receipt{ID: uint64(id), Events: events.Events()}, nil
}

func (s *reactionService) delete(r *repository.Repository, now entity.Change, t *reactable, id entity.ReactionID) (Receipt, error) {
	who := now.Account
	reaction, err := ownReaction(r, who, t, id)
	if err != nil {
		return Receipt{}, err
	}

	events := event.NewBuilder(now)
	if err := r.Unlink(t.edge, t.node, repository.IDNode(uint64(id))); err != nil {
		return Receipt{}, err
	}
	if err := t.release(who); err != nil {
		return Receipt{}, err
	}
	if err := reverseScore(r, events, who, t.target, entity.ReactionAction(t.target.Kind, reaction.Kind)); err != nil {
		return Receipt{}, err
	}
	reaction.Deleted = &now
	if err := r.SaveReaction(reaction); err != nil {
		return Receipt{}, err
	}
	events.Add(t.stamp(event.Event{Kind: t.deleted, ReactionID: id, Subject: event.Subject(t.owner)}))
	return Receipt{ID: uint64(id), Events: events.Events()}, nil
}

func (s *reactionService) CreatePostReaction(ctx context.Context, who uuid.UUID, postID entity.PostID, kind entity.ReactionKind) (Receipt, error) {
	return s.exec(ctx, "create_post_reaction", who, func(r *repository.Repository, now entity.Change) (Receipt, error) {
		if err := checkKind(kind); err != nil {
			return Receipt{}, err
		}
		t, err := postReactable(r, postID)
		if err != nil {
			return Receipt{}, err
		}
		return s.create(r, now, t, kind)
	})
}

func (s *reactionService) UpdatePostReaction(ctx context.Context, who uuid.UUID, postID entity.PostID, id entity.ReactionID, kind entity.ReactionKind) (Receipt, error) {
	return s.exec(ctx, "update_post_reaction", who, func(r *repository.Repository, now entity.Change) (Receipt, error) {
		if err := checkKind(kind); err != nil {
			return Receipt{}, err
		}
		t, err := postReactable(r, postID)
		if err != nil {
			return Receipt{}, err
		}
		return s.update(r, now, t, id, kind)
	})
}

func (s *reactionService) DeletePostReaction(ctx context.Context, who uuid.UUID, postID entity.PostID, id entity.ReactionID) (Receipt, error) {
	return s.exec(ctx, "delete_post_reaction", who, func(r *repository.Repository, now entity.Change) (Receipt, error) {
		t, err := postReactable(r, postID)
		if err != nil {
			return Receipt{}, err
		}
		return s.delete(r, now, t, id)
	})
}

func (s *reactionService) CreateCommentReaction(ctx context.Context, who uuid.UUID, commentID entity.CommentID, kind entity.ReactionKind) (Receipt, error) {
	return s.exec(ctx, "create_comment_reaction", who, func(r *repository.Repository, now entity.Change) (Receipt, error) {
		if err := checkKind(kind); err != nil {
			return Receipt{}, err
		}
		t, err := commentReactable(r, commentID)
		if err != nil {
			return Receipt{}, err
		}
		return s.create(r, now, t, kind)
	})
}

func (s *reactionService) UpdateCommentReaction(ctx context.Context, who uuid.UUID, commentID entity.CommentID, id entity.ReactionID, kind entity.ReactionKind) (Receipt, error) {
	return s.exec(ctx, "update_comment_reaction", who, func(r *repository.Repository, now entity.Change) (Receipt, error) {
		if err := checkKind(kind); err != nil {
			return Receipt{}, err
		}
		t, err := commentReactable(r, commentID)
		if err != nil {
			return Receipt{}, err
		}
		return s.update(r, now, t, id, kind)
	})
}

func (s *reactionService) DeleteCommentReaction(ctx context.Context, who uuid.UUID, commentID entity.CommentID, id entity.ReactionID) (Receipt, error) {
	return s.exec(ctx, "delete_comment_reaction", who, func(r *repository.Repository, now entity.Change) (Receipt, error) {
		t, err := commentReactable(r, commentID)
		if err != nil {
			return Receipt{}, err
		}
		return s.delete(r, now, t, id)
	})
}
