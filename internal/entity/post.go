package entity

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrUnknownExtension = errors.New("unknown post extension")

// PostExtension says whether a post is original content or a share of
// another post or comment. The set of implementations is closed:
// RegularPost, SharedPost and SharedComment.
type PostExtension interface {
	isPostExtension()
}

type RegularPost struct{}

type SharedPost struct {
	PostID PostID
}

type SharedComment struct {
	CommentID CommentID
}

func (RegularPost) isPostExtension()   {}
func (SharedPost) isPostExtension()    {}
func (SharedComment) isPostExtension() {}

const (
	ExtensionRegular       = "regular"
	ExtensionSharedPost    = "shared_post"
	ExtensionSharedComment = "shared_comment"
)

// ExtensionSpec is the wire form of a PostExtension.
type ExtensionSpec struct {
	Kind      string     `json:"kind" binding:"omitempty,oneof=regular shared_post shared_comment"`
	PostID    *PostID    `json:"post_id,omitempty"`
	CommentID *CommentID `json:"comment_id,omitempty"`
}

// Decode turns the wire form into a PostExtension. An empty kind is a
// regular post.
func (s ExtensionSpec) Decode() (PostExtension, error) {
	switch s.Kind {
	case "", ExtensionRegular:
		return RegularPost{}, nil
	case ExtensionSharedPost:
		if s.PostID == nil {
			return nil, fmt.Errorf("%w: %s requires post_id", ErrUnknownExtension, s.Kind)
		}
		return SharedPost{PostID: *s.PostID}, nil
	case ExtensionSharedComment:
		if s.CommentID == nil {
			return nil, fmt.Errorf("%w: %s requires comment_id", ErrUnknownExtension, s.Kind)
		}
		return SharedComment{CommentID: *s.CommentID}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExtension, s.Kind)
	}
}

func EncodeExtension(ext PostExtension) ExtensionSpec {
	switch e := ext.(type) {
	case nil, RegularPost:
		return ExtensionSpec{Kind: ExtensionRegular}
	case SharedPost:
		return ExtensionSpec{Kind: ExtensionSharedPost, PostID: &e.PostID}
	case SharedComment:
		return ExtensionSpec{Kind: ExtensionSharedComment, CommentID: &e.CommentID}
	default:
		panic(fmt.Sprintf("unhandled post extension %T", ext))
	}
}

type Post struct {
	ID        PostID        `json:"id"`
	BlogID    BlogID        `json:"blog_id"`
	Created   Change        `json:"created"`
	Updated   *Change       `json:"updated,omitempty"`
	Extension PostExtension `json:"extension"`

	// Next fields can be updated by the owner only:
	IpfsHash string `json:"ipfs_hash"`

	CommentsCount  uint32 `json:"comments_count"`
	UpvotesCount   uint32 `json:"upvotes_count"`
	DownvotesCount uint32 `json:"downvotes_count"`
	SharesCount    uint32 `json:"shares_count"`

	Score int32 `json:"score"`
}

// Owner is the account that created the post.
func (p *Post) Owner() uuid.UUID {
	return p.Created.Account
}

func (p Post) MarshalJSON() ([]byte, error) {
	type alias Post
	return json.Marshal(struct {
		alias
		Extension ExtensionSpec `json:"extension"`
	}{
		alias:     alias(p),
		Extension: EncodeExtension(p.Extension),
	})
}

func (p *Post) UnmarshalJSON(data []byte) error {
	type alias Post
	aux := struct {
		*alias
		Extension ExtensionSpec `json:"extension"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	ext, err := aux.Extension.Decode()
	if err != nil {
		return err
	}
	p.Extension = ext
	return nil
}

// PostUpdate is a partial update: a nil field means "no change".
type PostUpdate struct {
	BlogID   *BlogID `json:"blog_id,omitempty"`
	IpfsHash *string `json:"ipfs_hash,omitempty"`
}

func (u PostUpdate) IsEmpty() bool {
	return u.BlogID == nil && u.IpfsHash == nil
}

type PostHistoryRecord struct {
	Edited  Change     `json:"edited"`
	OldData PostUpdate `json:"old_data"`
}
