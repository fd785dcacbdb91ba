package dto

import "anoa.com/blogsocial/internal/entity"

type CreatePostRequest struct {
	BlogID    entity.BlogID         `json:"blog_id" binding:"required,min=1"`
	IpfsHash  string                `json:"ipfs_hash" binding:"required"`
	Extension *entity.ExtensionSpec `json:"extension"`
}

type UpdatePostRequest struct {
	BlogID   *entity.BlogID `json:"blog_id" binding:"omitempty,min=1"`
	IpfsHash *string        `json:"ipfs_hash"`
}

func (r UpdatePostRequest) ToUpdate() entity.PostUpdate {
	return entity.PostUpdate{BlogID: r.BlogID, IpfsHash: r.IpfsHash}
}

type PostIDRequest struct {
	ID entity.PostID `uri:"id" binding:"required,min=1"`
}
