package service

import (
	"context"

	"anoa.com/blogsocial/internal/entity"
	"anoa.com/blogsocial/internal/event"
	"anoa.com/blogsocial/internal/repository"
	"anoa.com/blogsocial/pkg/apperror"
	"github.com/google/uuid"
)

type AccountService interface {
	FollowAccount(ctx context.Context, who, account uuid.UUID) (Receipt, error)
	UnfollowAccount(ctx context.Context, who, account uuid.UUID) (Receipt, error)
	CreateProfile(ctx context.Context, who uuid.UUID, username, ipfsHash string) (Receipt, error)
	UpdateProfile(ctx context.Context, who uuid.UUID, upd entity.ProfileUpdate) (Receipt, error)
}

type accountService struct {
	*Engine
}

func NewAccountService(engine *Engine) AccountService {
	return &accountService{Engine: engine}
}

func (s *accountService) FollowAccount(ctx context.Context, who, account uuid.UUID) (Receipt, error) {
	return s.exec(ctx, "follow_account", who, func(r *repository.Repository, now entity.Change) (Receipt, error) {
		if account == uuid.Nil {
			return Receipt{}, apperror.Validation("account", "must be a valid account id")
		}
		if account == who {
			return Receipt{}, apperror.Conflict("account cannot follow itself")
		}
		followed, err := r.IsLinked(repository.EdgeAccountFollow, repository.AccountNode(who), repository.AccountNode(account))
		if err != nil {
			return Receipt{}, err
		}
		if followed {
			return Receipt{}, apperror.Conflict("account is already followed")
		}

		events := event.NewBuilder(now)
		if err := r.Link(repository.EdgeAccountFollow, repository.AccountNode(who), repository.AccountNode(account)); err != nil {
			return Receipt{}, err
		}
		if err := applyScore(r, events, who, entity.AccountTarget(account), entity.FollowAccount); err != nil {
			return Receipt{}, err
		}
		events.Add(event.Event{Kind: event.AccountFollowed, Subject: event.Subject(account)})
		return Receipt{Events: events.Events()}, nil
	})
}

func (s *accountService) UnfollowAccount(ctx context.Context, who, account uuid.UUID) (Receipt, error) {
	return s.exec(ctx, "unfollow_account", who, func(r *repository.Repository, now entity.Change) (Receipt, error) {
		followed, err := r.IsLinked(repository.EdgeAccountFollow, repository.AccountNode(who), repository.AccountNode(account))
		if err != nil {
			return Receipt{}, err
		}
		if !followed {
			return Receipt{}, apperror.Conflict("account is not followed")
		}

		events := event.NewBuilder(now)
		if err := r.Unlink(repository.EdgeAccountFollow, repository.AccountNode(who), repository.AccountNode(account)); err != nil {
			return Receipt{}, err
		}
		if err := reverseScore(r, events, who, entity.AccountTarget(account), entity.FollowAccount); err != nil {
			return Receipt{}, err
		}
		events.Add(event.Event{Kind: event.AccountUnfollowed, Subject: event.Subject(account)})
		return Receipt{Events: events.Events()}, nil
	})
}

func (s *accountService) CreateProfile(ctx context.Context, who uuid.UUID, username, ipfsHash string) (Receipt, error) {
	return s.exec(ctx, "create_profile", who, func(r *repository.Repository, now entity.Change) (Receipt, error) {
		if err := s.checkUsername(username); err != nil {
			return Receipt{}, err
		}
		if err := s.checkIpfsHash(ipfsHash); err != nil {
			return Receipt{}, err
		}
		if _, taken, err := r.AccountByUsername(username); err != nil {
			return Receipt{}, err
		} else if taken {
			return Receipt{}, apperror.Conflict("username is busy")
		}

		if _, err := r.CreateProfile(who, username, ipfsHash, now); err != nil {
			return Receipt{}, err
		}
		events := event.NewBuilder(now).Add(event.Event{Kind: event.ProfileCreated})
		return Receipt{Events: events.Events()}, nil
	})
}

func (s *accountService) UpdateProfile(ctx context.Context, who uuid.UUID, upd entity.ProfileUpdate) (Receipt, error) {
	return s.exec(ctx, "update_profile", who, func(r *repository.Repository, now entity.Change) (Receipt, error) {
		if upd.IsEmpty() {
			return Receipt{}, apperror.Validation("update", "no fields to update")
		}
		if upd.Username != nil {
			if err := s.checkUsername(*upd.Username); err != nil {
				return Receipt{}, err
			}
		}
		if upd.IpfsHash != nil {
			if err := s.checkIpfsHash(*upd.IpfsHash); err != nil {
				return Receipt{}, err
			}
		}

		if _, err := r.UpdateProfile(who, upd, now); err != nil {
			return Receipt{}, err
		}
		events := event.NewBuilder(now).Add(event.Event{Kind: event.ProfileUpdated})
		return Receipt{Events: events.Events()}, nil
	})
}
