package entity

import "github.com/google/uuid"

type ScoringAction string

const (
	UpvotePost      ScoringAction = "upvote_post"
	DownvotePost    ScoringAction = "downvote_post"
	SharePost       ScoringAction = "share_post"
	CreateComment   ScoringAction = "create_comment"
	UpvoteComment   ScoringAction = "upvote_comment"
	DownvoteComment ScoringAction = "downvote_comment"
	ShareComment    ScoringAction = "share_comment"
	FollowBlog      ScoringAction = "follow_blog"
	FollowAccount   ScoringAction = "follow_account"
)

var ScoringActions = []ScoringAction{
	UpvotePost,
	DownvotePost,
	SharePost,
	CreateComment,
	UpvoteComment,
	DownvoteComment,
	ShareComment,
	FollowBlog,
	FollowAccount,
}

// ReactionAction maps a reaction on a post or comment to its scoring action.
func ReactionAction(target Kind, kind ReactionKind) ScoringAction {
	switch {
	case target == KindPost && kind == Upvote:
		return UpvotePost
	case target == KindPost && kind == Downvote:
		return DownvotePost
	case target == KindComment && kind == Upvote:
		return UpvoteComment
	case target == KindComment && kind == Downvote:
		return DownvoteComment
	default:
		panic("reaction action for " + string(target) + "/" + string(kind))
	}
}

// Target identifies the entity a score delta is applied to. For accounts ID
// is zero and Account is set.
type Target struct {
	Kind    Kind      `json:"kind"`
	ID      uint64    `json:"id,omitempty"`
	Account uuid.UUID `json:"account"`
}

func BlogTarget(id BlogID) Target       { return Target{Kind: KindBlog, ID: uint64(id)} }
func PostTarget(id PostID) Target       { return Target{Kind: KindPost, ID: uint64(id)} }
func CommentTarget(id CommentID) Target { return Target{Kind: KindComment, ID: uint64(id)} }
func AccountTarget(a uuid.UUID) Target  { return Target{Kind: KindAccount, Account: a} }

// LedgerEntry records one applied score delta so it can be reversed exactly.
type LedgerEntry struct {
	Actor       uuid.UUID     `json:"actor"`
	Target      Target        `json:"target"`
	Action      ScoringAction `json:"action"`
	Weight      int16         `json:"weight"`
	Beneficiary uuid.UUID     `json:"beneficiary"`
	// ScoreDelta is what was added to the target's score; zero for accounts.
	ScoreDelta int32 `json:"score_delta"`
	// ReputationDelta is what was added to the beneficiary's raw reputation
	// sum: the full weight, or zero for self actions.
	ReputationDelta int64 `json:"reputation_delta"`
}
