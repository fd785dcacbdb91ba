package dto

import "anoa.com/blogsocial/internal/entity"

type ReactionRequest struct {
	Kind entity.ReactionKind `json:"kind" binding:"required,oneof=upvote downvote"`
}

// ReactionTargetRequest addresses a reaction under its post or comment.
type ReactionTargetRequest struct {
	ID         uint64            `uri:"id" binding:"required,min=1"`
	ReactionID entity.ReactionID `uri:"reaction_id" binding:"required,min=1"`
}
