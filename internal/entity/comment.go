package entity

import "github.com/google/uuid"

type Comment struct {
	ID       CommentID  `json:"id"`
	ParentID *CommentID `json:"parent_id,omitempty"`
	PostID   PostID     `json:"post_id"`
	Created  Change     `json:"created"`
	Updated  *Change    `json:"updated,omitempty"`

	// Can be updated by the owner:
	IpfsHash string `json:"ipfs_hash"`

	UpvotesCount       uint32 `json:"upvotes_count"`
	DownvotesCount     uint32 `json:"downvotes_count"`
	SharesCount        uint32 `json:"shares_count"`
	DirectRepliesCount uint32 `json:"direct_replies_count"`

	Score int32 `json:"score"`
}

// Owner is the account that wrote the comment.
func (c *Comment) Owner() uuid.UUID {
	return c.Created.Account
}

type CommentUpdate struct {
	IpfsHash string `json:"ipfs_hash"`
}

type CommentHistoryRecord struct {
	Edited  Change        `json:"edited"`
	OldData CommentUpdate `json:"old_data"`
}
