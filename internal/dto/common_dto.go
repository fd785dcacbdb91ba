package dto

type IDResponse struct {
	ID uint64 `json:"id"`
}

type FollowedResponse struct {
	Followed bool `json:"followed"`
}

type LimitQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (q LimitQuery) OrDefault(fallback int) int {
	if q.Limit == 0 {
		return fallback
	}
	return q.Limit
}

type SearchTokenResponse struct {
	Token string `json:"token"`
}
