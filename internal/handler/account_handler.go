package handler

import (
	"net/http"

	"anoa.com/blogsocial/internal/dto"
	"anoa.com/blogsocial/internal/event"
	"anoa.com/blogsocial/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AccountHandler struct {
	writer
	accounts service.AccountService
	queries  service.QueryService
}

func NewAccountHandler(accounts service.AccountService, queries service.QueryService, events *event.Dispatcher) *AccountHandler {
	return &AccountHandler{writer: writer{events: events}, accounts: accounts, queries: queries}
}

func (h *AccountHandler) FollowAccount(c *gin.Context) {
	var uri dto.AccountRequest
	if !bindURI(c, &uri) {
		return
	}
	who, ok := principal(c)
	if !ok {
		return
	}

	receipt, err := h.accounts.FollowAccount(c.Request.Context(), who, uri.UUID())
	h.done(c, http.StatusOK, receipt, err)
}

func (h *AccountHandler) UnfollowAccount(c *gin.Context) {
	var uri dto.AccountRequest
	if !bindURI(c, &uri) {
		return
	}
	who, ok := principal(c)
	if !ok {
		return
	}

	receipt, err := h.accounts.UnfollowAccount(c.Request.Context(), who, uri.UUID())
	h.done(c, http.StatusOK, receipt, err)
}

func (h *AccountHandler) CreateProfile(c *gin.Context) {
	var req dto.CreateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	who, ok := principal(c)
	if !ok {
		return
	}

	receipt, err := h.accounts.CreateProfile(c.Request.Context(), who, req.Username, req.IpfsHash)
	h.done(c, http.StatusCreated, receipt, err)
}

func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	who, ok := principal(c)
	if !ok {
		return
	}

	receipt, err := h.accounts.UpdateProfile(c.Request.Context(), who, req.ToUpdate())
	h.done(c, http.StatusOK, receipt, err)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	var uri dto.AccountRequest
	if !bindURI(c, &uri) {
		return
	}
	h.account(c, uri.UUID())
}

func (h *AccountHandler) GetCurrentAccount(c *gin.Context) {
	who, ok := principal(c)
	if !ok {
		return
	}
	h.account(c, who)
}

func (h *AccountHandler) GetAccountByUsername(c *gin.Context) {
	var uri dto.UsernameRequest
	if !bindURI(c, &uri) {
		return
	}
	account, err := h.queries.AccountByUsername(c.Request.Context(), uri.Username)
	if err != nil {
		reply[any](c, nil, err)
		return
	}
	h.account(c, account)
}

func (h *AccountHandler) account(c *gin.Context, account uuid.UUID) {
	acc, err := h.queries.SocialAccount(c.Request.Context(), account)
	if err != nil {
		reply[any](c, nil, err)
		return
	}
	reply(c, dto.AccountResponse{Account: account, SocialAccount: acc}, nil)
}

func (h *AccountHandler) GetOwnedBlogs(c *gin.Context) {
	var uri dto.AccountRequest
	if !bindURI(c, &uri) {
		return
	}
	ids, err := h.queries.BlogIDsByOwner(c.Request.Context(), uri.UUID())
	reply(c, ids, err)
}

func (h *AccountHandler) GetFollowedBlogs(c *gin.Context) {
	var uri dto.AccountRequest
	if !bindURI(c, &uri) {
		return
	}
	ids, err := h.queries.BlogsFollowedBy(c.Request.Context(), uri.UUID())
	reply(c, ids, err)
}

func (h *AccountHandler) GetFollowers(c *gin.Context) {
	var uri dto.AccountRequest
	if !bindURI(c, &uri) {
		return
	}
	accounts, err := h.queries.AccountFollowers(c.Request.Context(), uri.UUID())
	reply(c, accounts, err)
}

func (h *AccountHandler) GetFollowing(c *gin.Context) {
	var uri dto.AccountRequest
	if !bindURI(c, &uri) {
		return
	}
	accounts, err := h.queries.AccountsFollowedBy(c.Request.Context(), uri.UUID())
	reply(c, accounts, err)
}

// IsFollowedBy answers GET /accounts/:account/followed-by/:follower.
func (h *AccountHandler) IsFollowedBy(c *gin.Context) {
	var uri dto.AccountRequest
	if !bindURI(c, &uri) {
		return
	}
	follower, err := uuid.Parse(c.Param("follower"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid follower"})
		return
	}
	followed, err := h.queries.IsAccountFollowedBy(c.Request.Context(), follower, uri.UUID())
	reply(c, dto.FollowedResponse{Followed: followed}, err)
}

func (h *AccountHandler) GetProfileHistory(c *gin.Context) {
	var uri dto.AccountRequest
	if !bindURI(c, &uri) {
		return
	}
	history, err := h.queries.ProfileHistory(c.Request.Context(), uri.UUID())
	reply(c, history, err)
}

// GetPostReaction answers GET /accounts/:account/post-reactions/:id with the
// account's reaction id on that post.
func (h *AccountHandler) GetPostReaction(c *gin.Context) {
	var uri dto.AccountRequest
	var target dto.PostIDRequest
	if !bindURI(c, &uri) || !bindURI(c, &target) {
		return
	}
	id, err := h.queries.PostReactionByAccount(c.Request.Context(), uri.UUID(), target.ID)
	reply(c, dto.IDResponse{ID: uint64(id)}, err)
}

func (h *AccountHandler) GetCommentReaction(c *gin.Context) {
	var uri dto.AccountRequest
	var target dto.CommentIDRequest
	if !bindURI(c, &uri) || !bindURI(c, &target) {
		return
	}
	id, err := h.queries.CommentReactionByAccount(c.Request.Context(), uri.UUID(), target.ID)
	reply(c, dto.IDResponse{ID: uint64(id)}, err)
}
