package dto

import "anoa.com/blogsocial/internal/entity"

type CreateCommentRequest struct {
	ParentID *entity.CommentID `json:"parent_id" binding:"omitempty,min=1"`
	IpfsHash string            `json:"ipfs_hash" binding:"required"`
}

type UpdateCommentRequest struct {
	IpfsHash string `json:"ipfs_hash" binding:"required"`
}

type CommentIDRequest struct {
	ID entity.CommentID `uri:"id" binding:"required,min=1"`
}
