package handler

import (
	"net/http"

	"anoa.com/blogsocial/internal/dto"
	"anoa.com/blogsocial/internal/entity"
	"anoa.com/blogsocial/internal/event"
	"anoa.com/blogsocial/internal/service"
	"github.com/gin-gonic/gin"
)

type ReactionHandler struct {
	writer
	reactions service.ReactionService
	queries   service.QueryService
}

func NewReactionHandler(reactions service.ReactionService, queries service.QueryService, events *event.Dispatcher) *ReactionHandler {
	return &ReactionHandler{writer: writer{events: events}, reactions: reactions, queries: queries}
}

func (h *ReactionHandler) CreatePostReaction(c *gin.Context) {
	var uri dto.PostIDRequest
	var req dto.ReactionRequest
	if !bindURI(c, &uri) || !bindJSON(c, &req) {
		return
	}
	who, ok := principal(c)
	if !ok {
		return
	}

	receipt, err := h.reactions.CreatePostReaction(c.Request.Context(), who, uri.ID, req.Kind)
	h.done(c, http.StatusCreated, receipt, err)
}

func (h *ReactionHandler) UpdatePostReaction(c *gin.Context) {
	var uri dto.ReactionTargetRequest
	var req dto.ReactionRequest
	if !bindURI(c, &uri) || !bindJSON(c, &req) {
		return
	}
	who, ok := principal(c)
	if !ok {
		return
	}

	receipt, err := h.reactions.UpdatePostReaction(c.Request.Context(), who, entity.PostID(uri.ID), uri.ReactionID, req.Kind)
	h.done(c, http.StatusOK, receipt, err)
}

func (h *ReactionHandler) DeletePostReaction(c *gin.Context) {
	var uri dto.ReactionTargetRequest
	if !bindURI(c, &uri) {
		return
	}
	who, ok := principal(c)
	if !ok {
		return
	}

	receipt, err := h.reactions.DeletePostReaction(c.Request.Context(), who, entity.PostID(uri.ID), uri.ReactionID)
	h.done(c, http.StatusOK, receipt, err)
}

func (h *ReactionHandler) CreateCommentReaction(c *gin.Context) {
	var uri dto.CommentIDRequest
	var req dto.ReactionRequest
	if !bindURI(c, &uri) || !bindJSON(c, &req) {
		return
	}
	who, ok := principal(c)
	if !ok {
		return
	}

	receipt, err := h.reactions.CreateCommentReaction(c.Request.Context(), who, uri.ID, req.Kind)
	h.done(c, http.StatusCreated, receipt, err)
}

func (h *ReactionHandler) UpdateCommentReaction(c *gin.Context) {
	var uri dto.ReactionTargetRequest
	var req dto.ReactionRequest
	if !bindURI(c, &uri) || !bindJSON(c, &req) {
		return
	}
	who, ok := principal(c)
	if !ok {
		return
	}

	receipt, err := h.reactions.UpdateCommentReaction(c.Request.Context(), who, entity.CommentID(uri.ID), uri.ReactionID, req.Kind)
	h.done(c, http.StatusOK, receipt, err)
}

func (h *ReactionHandler) DeleteCommentReaction(c *gin.Context) {
	var uri dto.ReactionTargetRequest
	if !bindURI(c, &uri) {
		return
	}
	who, ok := principal(c)
	if !ok {
		return
	}

	receipt, err := h.reactions.DeleteCommentReaction(c.Request.Context(), who, entity.CommentID(uri.ID), uri.ReactionID)
	h.done(c, http.StatusOK, receipt, err)
}

func (h *ReactionHandler) GetReaction(c *gin.Context) {
	var uri struct {
		ID entity.ReactionID `uri:"id" binding:"required,min=1"`
	}
	if !bindURI(c, &uri) {
		return
	}
	reaction, err := h.queries.Reaction(c.Request.Context(), uri.ID)
	reply(c, reaction, err)
}
