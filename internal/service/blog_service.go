package service

import (
	"context"

	"anoa.com/blogsocial/internal/entity"
	"anoa.com/blogsocial/internal/event"
	"anoa.com/blogsocial/internal/repository"
	"anoa.com/blogsocial/pkg/apperror"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type BlogService interface {
	CreateBlog(ctx context.Context, who uuid.UUID, slug, ipfsHash string) (Receipt, error)
	UpdateBlog(ctx context.Context, who uuid.UUID, id entity.BlogID, upd entity.BlogUpdate) (Receipt, error)
	FollowBlog(ctx context.Context, who uuid.UUID, id entity.BlogID) (Receipt, error)
	UnfollowBlog(ctx context.Context, who uuid.UUID, id entity.BlogID) (Receipt, error)
}

type blogService struct {
	*Engine
}

func NewBlogService(engine *Engine) BlogService {
	return &blogService{Engine: engine}
}

func (s *blogService) CreateBlog(ctx context.Context, who uuid.UUID, slug, ipfsHash string) (Receipt, error) {
	return s.exec(ctx, "create_blog", who, func(r *repository.Repository, now entity.Change) (Receipt, error) {
		if err := s.checkSlug(slug); err != nil {
			return Receipt{}, err
		}
		if err := s.checkIpfsHash(ipfsHash); err != nil {
			return Receipt{}, err
		}
		taken, err := r.BlogIDBySlug(slug)
		if err != nil {
			return Receipt{}, err
		}
		if taken != 0 {
			return Receipt{}, apperror.Conflict("slug is not unique")
		}

		id, err := r.NextID(entity.KindBlog)
		if err != nil {
			return Receipt{}, err
		}
		blog := &entity.Blog{
			ID:       entity.BlogID(id),
			Created:  now,
			Writers:  []uuid.UUID{},
			Slug:     slug,
			IpfsHash: ipfsHash,
		}
		if err := r.InsertBlog(blog); err != nil {
			return Receipt{}, err
		}

		events := event.NewBuilder(now).Add(event.Event{Kind: event.BlogCreated, BlogID: blog.ID})
		return Receipt{ID: id, Events: events.Events()}, nil
	})
}

func (s *blogService) UpdateBlog(ctx context.Context, who uuid.UUID, id entity.BlogID, upd entity.BlogUpdate) (Receipt, error) {
	return s.exec(ctx, "update_blog", who, func(r *repository.Repository, now entity.Change) (Receipt, error) {
		if upd.IsEmpty() {
			return Receipt{}, apperror.Validation("update", "no fields to update")
		}
		if upd.Slug != nil {
			if err := s.checkSlug(*upd.Slug); err != nil {
				return Receipt{}, err
			}
		}
		if upd.IpfsHash != nil {
			if err := s.checkIpfsHash(*upd.IpfsHash); err != nil {
				return Receipt{}, err
			}
		}
		if upd.Writers != nil && lo.Contains(*upd.Writers, uuid.Nil) {
			return Receipt{}, apperror.Validation("writers", "must be valid account ids")
		}

		blog, err := r.UpdateBlog(id, upd, now)
		if err != nil {
			return Receipt{}, err
		}
		events := event.NewBuilder(now).Add(event.Event{Kind: event.BlogUpdated, BlogID: blog.ID, Subject: event.Subject(blog.Owner())})
		return Receipt{ID: uint64(id), Events: events.Events()}, nil
	})
}

func (s *blogService) FollowBlog(ctx context.Context, who uuid.UUID, id entity.BlogID) (Receipt, error) {
	return s.exec(ctx, "follow_blog", who, func(r *repository.Repository, now entity.Change) (Receipt, error) {
		blog, err := r.Blog(id)
		if err != nil {
			return Receipt{}, err
		}
		followed, err := r.IsLinked(repository.EdgeBlogFollow, repository.AccountNode(who), repository.IDNode(uint64(id)))
		if err != nil {
			return Receipt{}, err
		}
		if followed {
			return Receipt{}, apperror.Conflict("account is already following this blog")
		}

		events := event.NewBuilder(now)
		if err := r.Link(repository.EdgeBlogFollow, repository.AccountNode(who), repository.IDNode(uint64(id))); err != nil {
			return Receipt{}, err
		}
		if err := applyScore(r, events, who, entity.BlogTarget(id), entity.FollowBlog); err != nil {
			return Receipt{}, err
		}
		events.Add(event.Event{Kind: event.BlogFollowed, BlogID: id, Subject: event.Subject(blog.Owner())})
		return Receipt{ID: uint64(id), Events: events.Events()}, nil
	})
}

func (s *blogService) UnfollowBlog(ctx context.Context, who uuid.UUID, id entity.BlogID) (Receipt, error) {
	return s.exec(ctx, "unfollow_blog", who, func(r *repository.Repository, now entity.Change) (Receipt, error) {
		blog, err := r.Blog(id)
		if err != nil {
			return Receipt{}, err
		}
		followed, err := r.IsLinked(repository.EdgeBlogFollow, repository.AccountNode(who), repository.IDNode(uint64(id)))
		if err != nil {
			return Receipt{}, err
		}
		if !followed {
			return Receipt{}, apperror.Conflict("account is not following this blog")
		}

		events := event.NewBuilder(now)
		if err := r.Unlink(repository.EdgeBlogFollow, repository.AccountNode(who), repository.IDNode(uint64(id))); err != nil {
			return Receipt{}, err
		}
		if err := reverseScore(r, events, who, entity.BlogTarget(id), entity.FollowBlog); err != nil {
			return Receipt{}, err
		}
		events.Add(event.Event{Kind: event.BlogUnfollowed, BlogID: id, Subject: event.Subject(blog.Owner())})
		return Receipt{ID: uint64(id), Events: events.Events()}, nil
	})
}
