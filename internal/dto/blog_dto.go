package dto

import (
	"anoa.com/blogsocial/internal/entity"
	"github.com/google/uuid"
)

type CreateBlogRequest struct {
	Slug     string `json:"slug" binding:"required"`
	IpfsHash string `json:"ipfs_hash" binding:"required"`
}

// UpdateBlogRequest leaves a field unchanged when it is omitted.
type UpdateBlogRequest struct {
	Writers  *[]uuid.UUID `json:"writers"`
	Slug     *string      `json:"slug"`
	IpfsHash *string      `json:"ipfs_hash"`
}

func (r UpdateBlogRequest) ToUpdate() entity.BlogUpdate {
	return entity.BlogUpdate{Writers: r.Writers, Slug: r.Slug, IpfsHash: r.IpfsHash}
}

type BlogIDRequest struct {
	ID entity.BlogID `uri:"id" binding:"required,min=1"`
}

type BlogSlugRequest struct {
	Slug string `uri:"slug" binding:"required"`
}
