package handler

import (
	"net/http"

	"anoa.com/blogsocial/internal/dto"
	"anoa.com/blogsocial/internal/entity"
	"anoa.com/blogsocial/internal/event"
	"anoa.com/blogsocial/internal/service"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	writer
	comments service.CommentService
	queries  service.QueryService
}

func NewCommentHandler(comments service.CommentService, queries service.QueryService, events *event.Dispatcher) *CommentHandler {
	return &CommentHandler{writer: writer{events: events}, comments: comments, queries: queries}
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	var uri dto.CommentIDRequest
	var req dto.UpdateCommentRequest
	if !bindURI(c, &uri) || !bindJSON(c, &req) {
		return
	}
	who, ok := principal(c)
	if !ok {
		return
	}

	receipt, err := h.comments.UpdateComment(c.Request.Context(), who, uri.ID, entity.CommentUpdate{IpfsHash: req.IpfsHash})
	h.done(c, http.StatusOK, receipt, err)
}

func (h *CommentHandler) GetComment(c *gin.Context) {
	var uri dto.CommentIDRequest
	if !bindURI(c, &uri) {
		return
	}
	comment, err := h.queries.Comment(c.Request.Context(), uri.ID)
	reply(c, comment, err)
}

func (h *CommentHandler) GetReplies(c *gin.Context) {
	var uri dto.CommentIDRequest
	if !bindURI(c, &uri) {
		return
	}
	ids, err := h.queries.ReplyIDs(c.Request.Context(), uri.ID)
	reply(c, ids, err)
}

func (h *CommentHandler) GetCommentReactions(c *gin.Context) {
	var uri dto.CommentIDRequest
	if !bindURI(c, &uri) {
		return
	}
	ids, err := h.queries.ReactionIDsByComment(c.Request.Context(), uri.ID)
	reply(c, ids, err)
}

func (h *CommentHandler) GetCommentShares(c *gin.Context) {
	var uri dto.CommentIDRequest
	if !bindURI(c, &uri) {
		return
	}
	ids, err := h.queries.SharesOfComment(c.Request.Context(), uri.ID)
	reply(c, ids, err)
}

func (h *CommentHandler) GetCommentHistory(c *gin.Context) {
	var uri dto.CommentIDRequest
	if !bindURI(c, &uri) {
		return
	}
	history, err := h.queries.CommentHistory(c.Request.Context(), uri.ID)
	reply(c, history, err)
}
