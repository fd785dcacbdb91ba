package dto

import (
	"anoa.com/blogsocial/internal/entity"
	"github.com/google/uuid"
)

type CreateProfileRequest struct {
	Username string `json:"username" binding:"required"`
	IpfsHash string `json:"ipfs_hash" binding:"required"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username"`
	IpfsHash *string `json:"ipfs_hash"`
}

func (r UpdateProfileRequest) ToUpdate() entity.ProfileUpdate {
	return entity.ProfileUpdate{Username: r.Username, IpfsHash: r.IpfsHash}
}

type AccountRequest struct {
	Account string `uri:"account" binding:"required,uuid"`
}

func (r AccountRequest) UUID() uuid.UUID {
	return uuid.MustParse(r.Account)
}

type UsernameRequest struct {
	Username string `uri:"username" binding:"required"`
}

// AccountResponse is a social account together with its id.
type AccountResponse struct {
	Account uuid.UUID `json:"account"`
	*entity.SocialAccount
}
