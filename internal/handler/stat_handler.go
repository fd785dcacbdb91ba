package handler

import (
	"context"

	"anoa.com/blogsocial/internal/dto"
	"anoa.com/blogsocial/internal/event"
	"anoa.com/blogsocial/internal/service"
	"anoa.com/blogsocial/pkg/response"
	"github.com/gin-gonic/gin"
)

// Leaderboard ranks accounts by reputation.
type Leaderboard interface {
	TopReputation(ctx context.Context, n int64) ([]event.LeaderboardEntry, error)
}

type StatHandler struct {
	queries     service.QueryService
	leaderboard Leaderboard
}

// NewStatHandler builds the handler; leaderboard may be nil when redis is
// not configured.
func NewStatHandler(queries service.QueryService, leaderboard Leaderboard) *StatHandler {
	return &StatHandler{queries: queries, leaderboard: leaderboard}
}

func (h *StatHandler) GetNextIDs(c *gin.Context) {
	ids, err := h.queries.NextIDs(c.Request.Context())
	reply(c, ids, err)
}

func (h *StatHandler) GetLeaderboard(c *gin.Context) {
	if h.leaderboard == nil {
		unavailable(c, "leaderboard")
		return
	}
	var q dto.LimitQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	entries, err := h.leaderboard.TopReputation(c.Request.Context(), int64(q.OrDefault(10)))
	reply(c, entries, err)
}
