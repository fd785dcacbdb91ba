package handler

import (
	"net/http"

	"anoa.com/blogsocial/internal/dto"
	"anoa.com/blogsocial/internal/event"
	"anoa.com/blogsocial/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BlogHandler struct {
	writer
	blogs   service.BlogService
	queries service.QueryService
}

func NewBlogHandler(blogs service.BlogService, queries service.QueryService, events *event.Dispatcher) *BlogHandler {
	return &BlogHandler{writer: writer{events: events}, blogs: blogs, queries: queries}
}

func (h *BlogHandler) CreateBlog(c *gin.Context) {
	var req dto.CreateBlogRequest
	if !bindJSON(c, &req) {
		return
	}
	who, ok := principal(c)
	if !ok {
		return
	}

	receipt, err := h.blogs.CreateBlog(c.Request.Context(), who, req.Slug, req.IpfsHash)
	h.done(c, http.StatusCreated, receipt, err)
}

func (h *BlogHandler) UpdateBlog(c *gin.Context) {
	var uri dto.BlogIDRequest
	var req dto.UpdateBlogRequest
	if !bindURI(c, &uri) || !bindJSON(c, &req) {
		return
	}
	who, ok := principal(c)
	if !ok {
		return
	}

	receipt, err := h.blogs.UpdateBlog(c.Request.Context(), who, uri.ID, req.ToUpdate())
	h.done(c, http.StatusOK, receipt, err)
}

func (h *BlogHandler) FollowBlog(c *gin.Context) {
	var uri dto.BlogIDRequest
	if !bindURI(c, &uri) {
		return
	}
	who, ok := principal(c)
	if !ok {
		return
	}

	receipt, err := h.blogs.FollowBlog(c.Request.Context(), who, uri.ID)
	h.done(c, http.StatusOK, receipt, err)
}

func (h *BlogHandler) UnfollowBlog(c *gin.Context) {
	var uri dto.BlogIDRequest
	if !bindURI(c, &uri) {
		return
	}
	who, ok := principal(c)
	if !ok {
		return
	}

	receipt, err := h.blogs.UnfollowBlog(c.Request.Context(), who, uri.ID)
	h.done(c, http.StatusOK, receipt, err)
}

func (h *BlogHandler) GetBlog(c *gin.Context) {
	var uri dto.BlogIDRequest
	if !bindURI(c, &uri) {
		return
	}
	blog, err := h.queries.Blog(c.Request.Context(), uri.ID)
	reply(c, blog, err)
}

func (h *BlogHandler) GetBlogBySlug(c *gin.Context) {
	var uri dto.BlogSlugRequest
	if !bindURI(c, &uri) {
		return
	}
	ctx := c.Request.Context()
	id, err := h.queries.BlogIDBySlug(ctx, uri.Slug)
	if err != nil {
		reply[any](c, nil, err)
		return
	}
	blog, err := h.queries.Blog(ctx, id)
	reply(c, blog, err)
}

func (h *BlogHandler) GetBlogPosts(c *gin.Context) {
	var uri dto.BlogIDRequest
	if !bindURI(c, &uri) {
		return
	}
	ids, err := h.queries.PostIDsByBlog(c.Request.Context(), uri.ID)
	reply(c, ids, err)
}

func (h *BlogHandler) GetBlogFollowers(c *gin.Context) {
	var uri dto.BlogIDRequest
	if !bindURI(c, &uri) {
		return
	}
	accounts, err := h.queries.BlogFollowers(c.Request.Context(), uri.ID)
	reply(c, accounts, err)
}

// IsFollowedBy answers GET /blogs/:id/followed-by/:account.
func (h *BlogHandler) IsFollowedBy(c *gin.Context) {
	var uri dto.BlogIDRequest
	if !bindURI(c, &uri) {
		return
	}
	account, err := uuid.Parse(c.Param("account"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account"})
		return
	}
	followed, err := h.queries.IsBlogFollowedBy(c.Request.Context(), account, uri.ID)
	reply(c, dto.FollowedResponse{Followed: followed}, err)
}

func (h *BlogHandler) GetBlogHistory(c *gin.Context) {
	var uri dto.BlogIDRequest
	if !bindURI(c, &uri) {
		return
	}
	history, err := h.queries.BlogHistory(c.Request.Context(), uri.ID)
	reply(c, history, err)
}
