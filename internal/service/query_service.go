package service

import (
	"context"

	"anoa.com/blogsocial/internal/entity"
	"anoa.com/blogsocial/internal/repository"
	"anoa.com/blogsocial/pkg/apperror"
	"github.com/google/uuid"
)

// NextIDs are the ids the next created entity of each kind will receive.
type NextIDs struct {
	Blog     entity.BlogID     `json:"next_blog_id"`
	Post     entity.PostID     `json:"next_post_id"`
	Comment  entity.CommentID  `json:"next_comment_id"`
	Reaction entity.ReactionID `json:"next_reaction_id"`
}

type QueryService interface {
	Blog(ctx context.Context, id entity.BlogID) (*entity.Blog, error)
	Post(ctx context.Context, id entity.PostID) (*entity.Post, error)
	Comment(ctx context.Context, id entity.CommentID) (*entity.Comment, error)
	Reaction(ctx context.Context, id entity.ReactionID) (*entity.Reaction, error)
	SocialAccount(ctx context.Context, account uuid.UUID) (*entity.SocialAccount, error)

	BlogIDBySlug(ctx context.Context, slug string) (entity.BlogID, error)
	AccountByUsername(ctx context.Context, username string) (uuid.UUID, error)

	BlogIDsByOwner(ctx context.Context, owner uuid.UUID) ([]entity.BlogID, error)
	PostIDsByBlog(ctx context.Context, id entity.BlogID) ([]entity.PostID, error)
	CommentIDsByPost(ctx context.Context, id entity.PostID) ([]entity.CommentID, error)
	ReplyIDs(ctx context.Context, id entity.CommentID) ([]entity.CommentID, error)
	ReactionIDsByPost(ctx context.Context, id entity.PostID) ([]entity.ReactionID, error)
	ReactionIDsByComment(ctx context.Context, id entity.CommentID) ([]entity.ReactionID, error)
	PostReactionByAccount(ctx context.Context, account uuid.UUID, id entity.PostID) (entity.ReactionID, error)
	CommentReactionByAccount(ctx context.Context, account uuid.UUID, id entity.CommentID) (entity.ReactionID, error)
	SharesOfPost(ctx context.Context, id entity.PostID) ([]entity.PostID, error)
	SharesOfComment(ctx context.Context, id entity.CommentID) ([]entity.PostID, error)

	BlogFollowers(ctx context.Context, id entity.BlogID) ([]uuid.UUID, error)
	BlogsFollowedBy(ctx context.Context, account uuid.UUID) ([]entity.BlogID, error)
	IsBlogFollowedBy(ctx context.Context, account uuid.UUID, id entity.BlogID) (bool, error)
	AccountFollowers(ctx context.Context, account uuid.UUID) ([]uuid.UUID, error)
	AccountsFollowedBy(ctx context.Context, account uuid.UUID) ([]uuid.UUID, error)
	IsAccountFollowedBy(ctx context.Context, follower, account uuid.UUID) (bool, error)

	NextIDs(ctx context.Context) (NextIDs, error)

	BlogHistory(ctx context.Context, id entity.BlogID) ([]entity.BlogHistoryRecord, error)
	PostHistory(ctx context.Context, id entity.PostID) ([]entity.PostHistoryRecord, error)
	CommentHistory(ctx context.Context, id entity.CommentID) ([]entity.CommentHistoryRecord, error)
	ProfileHistory(ctx context.Context, account uuid.UUID) ([]entity.ProfileHistoryRecord, error)
}

type queryService struct {
	*Engine
}

func NewQueryService(engine *Engine) QueryService {
	return &queryService{Engine: engine}
}

func query[T any](ctx context.Context, e *Engine, fn func(r *repository.Repository) (T, error)) (T, error) {
	var out T
	err := e.view(ctx, func(r *repository.Repository) error {
		var err error
		out, err = fn(r)
		return err
	})
	return out, err
}

func (s *queryService) Blog(ctx context.Context, id entity.BlogID) (*entity.Blog, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) (*entity.Blog, error) { return r.Blog(id) })
}

func (s *queryService) Post(ctx context.Context, id entity.PostID) (*entity.Post, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) (*entity.Post, error) { return r.Post(id) })
}

func (s *queryService) Comment(ctx context.Context, id entity.CommentID) (*entity.Comment, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) (*entity.Comment, error) { return r.Comment(id) })
}

func (s *queryService) Reaction(ctx context.Context, id entity.ReactionID) (*entity.Reaction, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) (*entity.Reaction, error) { return r.Reaction(id) })
}

func (s *queryService) SocialAccount(ctx context.Context, account uuid.UUID) (*entity.SocialAccount, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) (*entity.SocialAccount, error) {
		return r.SocialAccount(account)
	})
}

func (s *queryService) BlogIDBySlug(ctx context.Context, slug string) (entity.BlogID, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) (entity.BlogID, error) {
		id, err := r.BlogIDBySlug(slug)
		if err == nil && id == 0 {
			err = apperror.NotFound("blog")
		}
		return id, err
	})
}

func (s *queryService) AccountByUsername(ctx context.Context, username string) (uuid.UUID, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) (uuid.UUID, error) {
		account, found, err := r.AccountByUsername(username)
		if err == nil && !found {
			err = apperror.NotFound("profile")
		}
		return account, err
	})
}

func (s *queryService) BlogIDsByOwner(ctx context.Context, owner uuid.UUID) ([]entity.BlogID, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) ([]entity.BlogID, error) { return r.BlogIDsByOwner(owner) })
}

func (s *queryService) PostIDsByBlog(ctx context.Context, id entity.BlogID) ([]entity.PostID, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) ([]entity.PostID, error) { return r.PostIDsByBlog(id) })
}

func (s *queryService) CommentIDsByPost(ctx context.Context, id entity.PostID) ([]entity.CommentID, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) ([]entity.CommentID, error) { return r.CommentIDsByPost(id) })
}

func (s *queryService) ReplyIDs(ctx context.Context, id entity.CommentID) ([]entity.CommentID, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) ([]entity.CommentID, error) { return r.ReplyIDs(id) })
}

func (s *queryService) ReactionIDsByPost(ctx context.Context, id entity.PostID) ([]entity.ReactionID, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) ([]entity.ReactionID, error) { return r.ReactionIDsByPost(id) })
}

func (s *queryService) ReactionIDsByComment(ctx context.Context, id entity.CommentID) ([]entity.ReactionID, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) ([]entity.ReactionID, error) { return r.ReactionIDsByComment(id) })
}

func (s *queryService) PostReactionByAccount(ctx context.Context, account uuid.UUID, id entity.PostID) (entity.ReactionID, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) (entity.ReactionID, error) {
		reaction, err := r.PostReactionByAccount(account, id)
		if err == nil && reaction == 0 {
			err = apperror.NotFound("reaction")
		}
		return reaction, err
	})
}

func (s *queryService) CommentReactionByAccount(ctx context.Context, account uuid.UUID, id entity.CommentID) (entity.ReactionID, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) (entity.ReactionID, error) {
		reaction, err := r.CommentReactionByAccount(account, id)
		if err == nil && reaction == 0 {
			err = apperror.NotFound("reaction")
		}
		return reaction, err
	})
}

func (s *queryService) SharesOfPost(ctx context.Context, id entity.PostID) ([]entity.PostID, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) ([]entity.PostID, error) { return r.SharesOfPost(id) })
}

func (s *queryService) SharesOfComment(ctx context.Context, id entity.CommentID) ([]entity.PostID, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) ([]entity.PostID, error) { return r.SharesOfComment(id) })
}

func (s *queryService) BlogFollowers(ctx context.Context, id entity.BlogID) ([]uuid.UUID, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) ([]uuid.UUID, error) { return r.BlogFollowers(id) })
}

func (s *queryService) BlogsFollowedBy(ctx context.Context, account uuid.UUID) ([]entity.BlogID, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) ([]entity.BlogID, error) { return r.BlogsFollowedBy(account) })
}

func (s *queryService) IsBlogFollowedBy(ctx context.Context, account uuid.UUID, id entity.BlogID) (bool, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) (bool, error) {
		return r.IsLinked(repository.EdgeBlogFollow, repository.AccountNode(account), repository.IDNode(uint64(id)))
	})
}

func (s *queryService) AccountFollowers(ctx context.Context, account uuid.UUID) ([]uuid.UUID, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) ([]uuid.UUID, error) { return r.AccountFollowers(account) })
}

func (s *queryService) AccountsFollowedBy(ctx context.Context, account uuid.UUID) ([]uuid.UUID, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) ([]uuid.UUID, error) { return r.AccountsFollowedBy(account) })
}

func (s *queryService) IsAccountFollowedBy(ctx context.Context, follower, account uuid.UUID) (bool, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) (bool, error) {
		return r.IsLinked(repository.EdgeAccountFollow, repository.AccountNode(follower), repository.AccountNode(account))
	})
}

func (s *queryService) NextIDs(ctx context.Context) (NextIDs, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) (NextIDs, error) {
		var next NextIDs
		for kind, dst := range map[entity.Kind]*uint64{
			entity.KindBlog:     (*uint64)(&next.Blog),
			entity.KindPost:     (*uint64)(&next.Post),
			entity.KindComment:  (*uint64)(&next.Comment),
			entity.KindReaction: (*uint64)(&next.Reaction),
		} {
			id, err := r.PeekID(kind)
			if err != nil {
				return NextIDs{}, err
			}
			*dst = id
		}
		return next, nil
	})
}

func (s *queryService) BlogHistory(ctx context.Context, id entity.BlogID) ([]entity.BlogHistoryRecord, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) ([]entity.BlogHistoryRecord, error) {
		if _, err := r.Blog(id); err != nil {
			return nil, err
		}
		return r.BlogHistory(id)
	})
}

func (s *queryService) PostHistory(ctx context.Context, id entity.PostID) ([]entity.PostHistoryRecord, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) ([]entity.PostHistoryRecord, error) {
		if _, err := r.Post(id); err != nil {
			return nil, err
		}
		return r.PostHistory(id)
	})
}

func (s *queryService) CommentHistory(ctx context.Context, id entity.CommentID) ([]entity.CommentHistoryRecord, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) ([]entity.CommentHistoryRecord, error) {
		if _, err := r.Comment(id); err != nil {
			return nil, err
		}
		return r.CommentHistory(id)
	})
}

func (s *queryService) ProfileHistory(ctx context.Context, account uuid.UUID) ([]entity.ProfileHistoryRecord, error) {
	return query(ctx, s.Engine, func(r *repository.Repository) ([]entity.ProfileHistoryRecord, error) {
		return r.ProfileHistory(account)
	})
}
