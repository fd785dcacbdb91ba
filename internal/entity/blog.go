package entity

import (
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type Blog struct {
	ID      BlogID  `json:"id"`
	Created Change  `json:"created"`
	Updated *Change `json:"updated,omitempty"`

	// Can be updated by the owner:
	Writers  []uuid.UUID `json:"writers"`
	Slug     string      `json:"slug"`
	IpfsHash string      `json:"ipfs_hash"`

	PostsCount     uint32 `json:"posts_count"`
	FollowersCount uint32 `json:"followers_count"`

	Score int32 `json:"score"`
}

// Owner is the account that created the blog.
func (b *Blog) Owner() uuid.UUID {
	return b.Created.Account
}

// CanPost reports whether account may publish into the blog.
func (b *Blog) CanPost(account uuid.UUID) bool {
	return b.Owner() == account || lo.Contains(b.Writers, account)
}

// BlogUpdate is a partial update: a nil field means "no change".
type BlogUpdate struct {
	Writers  *[]uuid.UUID `json:"writers,omitempty"`
	Slug     *string      `json:"slug,omitempty"`
	IpfsHash *string      `json:"ipfs_hash,omitempty"`
}

func (u BlogUpdate) IsEmpty() bool {
	return u.Writers == nil && u.Slug == nil && u.IpfsHash == nil
}

type BlogHistoryRecord struct {
	Edited  Change     `json:"edited"`
	OldData BlogUpdate `json:"old_data"`
}
