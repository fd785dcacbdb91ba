package handler

import (
	"net/http"

	"anoa.com/blogsocial/internal/dto"
	"anoa.com/blogsocial/internal/entity"
	"anoa.com/blogsocial/internal/event"
	"anoa.com/blogsocial/internal/service"
	"anoa.com/blogsocial/pkg/apperror"
	"anoa.com/blogsocial/pkg/response"
	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	writer
	posts    service.PostService
	comments service.CommentService
	queries  service.QueryService
	limiter  *service.RateLimiter
}

// NewPostHandler builds the post routes. A nil limiter leaves creation
// unthrottled.
func NewPostHandler(posts service.PostService, comments service.CommentService, queries service.QueryService, limiter *service.RateLimiter, events *event.Dispatcher) *PostHandler {
	return &PostHandler{writer: writer{events: events}, posts: posts, comments: comments, queries: queries, limiter: limiter}
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	var req dto.CreatePostRequest
	if !bindJSON(c, &req) {
		return
	}
	var ext entity.PostExtension = entity.RegularPost{}
	if req.Extension != nil {
		var err error
		if ext, err = req.Extension.Decode(); err != nil {
			response.ResponseError(c, apperror.Validation("extension", err.Error()))
			return
		}
	}
	who, ok := principal(c)
	if !ok {
		return
	}

	release, ok := throttle(c, h.limiter, who, service.ScopePost)
	if !ok {
		return
	}

	receipt, err := h.posts.CreatePost(c.Request.Context(), who, req.BlogID, req.IpfsHash, ext)
	if err != nil {
		release()
	}
	h.done(c, http.StatusCreated, receipt, err)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	var uri dto.PostIDRequest
	var req dto.UpdatePostRequest
	if !bindURI(c, &uri) || !bindJSON(c, &req) {
		return
	}
	who, ok := principal(c)
	if !ok {
		return
	}

	receipt, err := h.posts.UpdatePost(c.Request.Context(), who, uri.ID, req.ToUpdate())
	h.done(c, http.StatusOK, receipt, err)
}

// CreateComment answers POST /posts/:id/comments.
func (h *PostHandler) CreateComment(c *gin.Context) {
	var uri dto.PostIDRequest
	var req dto.CreateCommentRequest
	if !bindURI(c, &uri) || !bindJSON(c, &req) {
		return
	}
	who, ok := principal(c)
	if !ok {
		return
	}

	release, ok := throttle(c, h.limiter, who, service.ScopeComment)
	if !ok {
		return
	}

	receipt, err := h.comments.CreateComment(c.Request.Context(), who, uri.ID, req.ParentID, req.IpfsHash)
	if err != nil {
		release()
	}
	h.done(c, http.StatusCreated, receipt, err)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	var uri dto.PostIDRequest
	if !bindURI(c, &uri) {
		return
	}
	post, err := h.queries.Post(c.Request.Context(), uri.ID)
	reply(c, post, err)
}

func (h *PostHandler) GetPostComments(c *gin.Context) {
	var uri dto.PostIDRequest
	if !bindURI(c, &uri) {
		return
	}
	ids, err := h.queries.CommentIDsByPost(c.Request.Context(), uri.ID)
	reply(c, ids, err)
}

func (h *PostHandler) GetPostReactions(c *gin.Context) {
	var uri dto.PostIDRequest
	if !bindURI(c, &uri) {
		return
	}
	ids, err := h.queries.ReactionIDsByPost(c.Request.Context(), uri.ID)
	reply(c, ids, err)
}

func (h *PostHandler) GetPostShares(c *gin.Context) {
	var uri dto.PostIDRequest
	if !bindURI(c, &uri) {
		return
	}
	ids, err := h.queries.SharesOfPost(c.Request.Context(), uri.ID)
	reply(c, ids, err)
}

func (h *PostHandler) GetPostHistory(c *gin.Context) {
	var uri dto.PostIDRequest
	if !bindURI(c, &uri) {
		return
	}
	history, err := h.queries.PostHistory(c.Request.Context(), uri.ID)
	reply(c, history, err)
}
