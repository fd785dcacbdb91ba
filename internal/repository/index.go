package repository

import (
	"errors"

	"anoa.com/blogsocial/internal/entity"
	"anoa.com/blogsocial/pkg/apperror"
	"anoa.com/blogsocial/pkg/kvstore"
	"github.com/google/uuid"
)

// Edge names a relationship set. Forward members of a are read with Members,
// reverse members of b with Reverse.
type Edge string

const (
	EdgeBlogOwner       Edge = "blog_owner"       // account -> blog
	EdgeBlogPost        Edge = "blog_post"        // blog -> post
	EdgePostComment     Edge = "post_comment"     // post -> comment
	EdgeCommentReply    Edge = "comment_reply"    // parent comment -> reply
	EdgePostReaction    Edge = "post_reaction"    // post -> reaction
	EdgeCommentReaction Edge = "comment_reaction" // comment -> reaction
	EdgeBlogFollow      Edge = "blog_follow"      // follower account -> blog
	EdgeAccountFollow   Edge = "account_follow"   // follower account -> followed account
	EdgePostShare       Edge = "post_share"       // original post -> sharing post
	EdgeCommentShare    Edge = "comment_share"    // original comment -> sharing post
)

var edgeOf = map[Edge]struct{ from, to entity.Kind }{
	EdgeBlogOwner:       {entity.KindAccount, entity.KindBlog},
	EdgeBlogPost:        {entity.KindBlog, entity.KindPost},
	EdgePostComment:     {entity.KindPost, entity.KindComment},
	EdgeCommentReply:    {entity.KindComment, entity.KindComment},
	EdgePostReaction:    {entity.KindPost, entity.KindReaction},
	EdgeCommentReaction: {entity.KindComment, entity.KindReaction},
	EdgeBlogFollow:      {entity.KindAccount, entity.KindBlog},
	EdgeAccountFollow:   {entity.KindAccount, entity.KindAccount},
	EdgePostShare:       {entity.KindPost, entity.KindPost},
	EdgeCommentShare:    {entity.KindComment, entity.KindPost},
}

func nodeLen(kind entity.Kind) int {
	if kind == entity.KindAccount {
		return 16
	}
	return 8
}

func checkEdge(edge Edge, a, b Node) error {
	ends, ok := edgeOf[edge]
	if !ok {
		return internal(apperror.ErrInternal, "unknown edge %q", edge)
	}
	if len(a) != nodeLen(ends.from) || len(b) != nodeLen(ends.to) {
		return internal(apperror.ErrInternal, "malformed %s edge", edge)
	}
	return nil
}

func (r *Repository) IsLinked(edge Edge, a, b Node) (bool, error) {
	if err := checkEdge(edge, a, b); err != nil {
		return false, err
	}
	return r.tx.Has(append(forwardPrefix(edge, a), b...))
}

// Link adds b to the forward set of a and a to the reverse set of b, then
// bumps the derived counters the edge maintains.
func (r *Repository) Link(edge Edge, a, b Node) error {
	linked, err := r.IsLinked(edge, a, b)
	if err != nil {
		return err
	}
	if linked {
		return conflict(ErrAlreadyLinked, "%s", edge)
	}
	if err := r.tx.Set(append(forwardPrefix(edge, a), b...), nil); err != nil {
		return err
	}
	if err := r.tx.Set(append(reversePrefix(edge, b), a...), nil); err != nil {
		return err
	}
	return r.bumpCounters(edge, a, b, 1)
}

// Unlink is the exact inverse of Link.
func (r *Repository) Unlink(edge Edge, a, b Node) error {
	linked, err := r.IsLinked(edge, a, b)
	if err != nil {
		return err
	}
	if !linked {
		return conflict(ErrNotLinked, "%s", edge)
	}
	if err := r.tx.Delete(append(forwardPrefix(edge, a), b...)); err != nil {
		return err
	}
	if err := r.tx.Delete(append(reversePrefix(edge, b), a...)); err != nil {
		return err
	}
	return r.bumpCounters(edge, a, b, -1)
}

func (r *Repository) Members(edge Edge, a Node) ([]Node, error) {
	return r.scanNodes(forwardPrefix(edge, a))
}

func (r *Repository) Reverse(edge Edge, b Node) ([]Node, error) {
	return r.scanNodes(reversePrefix(edge, b))
}

func (r *Repository) scanNodes(prefix []byte) ([]Node, error) {
	nodes := []Node{}
	err := r.tx.Scan(prefix, func(key, _ []byte) error {
		nodes = append(nodes, Node(append([]byte(nil), key[len(prefix):]...)))
		return nil
	})
	return nodes, err
}

func (r *Repository) bumpCounters(edge Edge, a, b Node, delta int) error {
	switch edge {
	case EdgeBlogOwner:
		return nil
	case EdgeBlogPost:
		return r.mutateBlog(entity.BlogID(a.ID()), func(blog *entity.Blog) error {
			return addCount(&blog.PostsCount, delta, "posts_count")
		})
	case EdgePostComment:
		return r.mutatePost(entity.PostID(a.ID()), func(post *entity.Post) error {
			return addCount(&post.CommentsCount, delta, "comments_count")
		})
	case EdgeCommentReply:
		return r.mutateComment(entity.CommentID(a.ID()), func(c *entity.Comment) error {
			return addCount(&c.DirectRepliesCount, delta, "direct_replies_count")
		})
	case EdgePostReaction:
		kind, err := r.reactionKind(b)
		if err != nil {
			return err
		}
		return r.mutatePost(entity.PostID(a.ID()), func(post *entity.Post) error {
			return addVote(&post.UpvotesCount, &post.DownvotesCount, kind, delta)
		})
	case EdgeCommentReaction:
		kind, err := r.reactionKind(b)
		if err != nil {
			return err
		}
		return r.mutateComment(entity.CommentID(a.ID()), func(c *entity.Comment) error {
			return addVote(&c.UpvotesCount, &c.DownvotesCount, kind, delta)
		})
	case EdgeBlogFollow:
		if err := r.mutateAccount(a.Account(), func(acc *entity.SocialAccount) error {
			return addCount(&acc.FollowingBlogsCount, delta, "following_blogs_count")
		}); err != nil {
			return err
		}
		return r.mutateBlog(entity.BlogID(b.ID()), func(blog *entity.Blog) error {
			return addCount(&blog.FollowersCount, delta, "followers_count")
		})
	case EdgeAccountFollow:
		if err := r.mutateAccount(a.Account(), func(acc *entity.SocialAccount) error {
			return addCount(&acc.FollowingAccountsCount, delta, "following_accounts_count")
		}); err != nil {
			return err
		}
		return r.mutateAccount(b.Account(), func(acc *entity.SocialAccount) error {
			return addCount(&acc.FollowersCount, delta, "followers_count")
		})
	case EdgePostShare:
		return r.mutatePost(entity.PostID(a.ID()), func(post *entity.Post) error {
			return addCount(&post.SharesCount, delta, "shares_count")
		})
	case EdgeCommentShare:
		return r.mutateComment(entity.CommentID(a.ID()), func(c *entity.Comment) error {
			return addCount(&c.SharesCount, delta, "shares_count")
		})
	default:
		panic("unknown edge " + string(edge))
	}
}

func (r *Repository) reactionKind(n Node) (entity.ReactionKind, error) {
	reaction, err := r.Reaction(entity.ReactionID(n.ID()))
	if err != nil {
		return "", err
	}
	return reaction.Kind, nil
}

func addVote(up, down *uint32, kind entity.ReactionKind, delta int) error {
	if kind == entity.Upvote {
		return addCount(up, delta, "upvotes_count")
	}
	return addCount(down, delta, "downvotes_count")
}

func ids[T ~uint64](nodes []Node) []T {
	out := make([]T, len(nodes))
	for i, n := range nodes {
		out[i] = T(n.ID())
	}
	return out
}

func accounts(nodes []Node) []uuid.UUID {
	out := make([]uuid.UUID, len(nodes))
	for i, n := range nodes {
		out[i] = n.Account()
	}
	return out
}

func (r *Repository) BlogIDsByOwner(owner uuid.UUID) ([]entity.BlogID, error) {
	nodes, err := r.Members(EdgeBlogOwner, AccountNode(owner))
	return ids[entity.BlogID](nodes), err
}

func (r *Repository) PostIDsByBlog(id entity.BlogID) ([]entity.PostID, error) {
	nodes, err := r.Members(EdgeBlogPost, IDNode(uint64(id)))
	return ids[entity.PostID](nodes), err
}

func (r *Repository) CommentIDsByPost(id entity.PostID) ([]entity.CommentID, error) {
	nodes, err := r.Members(EdgePostComment, IDNode(uint64(id)))
	return ids[entity.CommentID](nodes), err
}

func (r *Repository) ReplyIDs(id entity.CommentID) ([]entity.CommentID, error) {
	nodes, err := r.Members(EdgeCommentReply, IDNode(uint64(id)))
	return ids[entity.CommentID](nodes), err
}

func (r *Repository) ReactionIDsByPost(id entity.PostID) ([]entity.ReactionID, error) {
	nodes, err := r.Members(EdgePostReaction, IDNode(uint64(id)))
	return ids[entity.ReactionID](nodes), err
}

func (r *Repository) ReactionIDsByComment(id entity.CommentID) ([]entity.ReactionID, error) {
	nodes, err := r.Members(EdgeCommentReaction, IDNode(uint64(id)))
	return ids[entity.ReactionID](nodes), err
}

func (r *Repository) BlogFollowers(id entity.BlogID) ([]uuid.UUID, error) {
	nodes, err := r.Reverse(EdgeBlogFollow, IDNode(uint64(id)))
	return accounts(nodes), err
}

func (r *Repository) BlogsFollowedBy(account uuid.UUID) ([]entity.BlogID, error) {
	nodes, err := r.Members(EdgeBlogFollow, AccountNode(account))
	return ids[entity.BlogID](nodes), err
}

func (r *Repository) AccountFollowers(account uuid.UUID) ([]uuid.UUID, error) {
	nodes, err := r.Reverse(EdgeAccountFollow, AccountNode(account))
	return accounts(nodes), err
}

func (r *Repository) AccountsFollowedBy(account uuid.UUID) ([]uuid.UUID, error) {
	nodes, err := r.Members(EdgeAccountFollow, AccountNode(account))
	return accounts(nodes), err
}

func (r *Repository) SharesOfPost(id entity.PostID) ([]entity.PostID, error) {
	nodes, err := r.Members(EdgePostShare, IDNode(uint64(id)))
	return ids[entity.PostID](nodes), err
}

func (r *Repository) SharesOfComment(id entity.CommentID) ([]entity.PostID, error) {
	nodes, err := r.Members(EdgeCommentShare, IDNode(uint64(id)))
	return ids[entity.PostID](nodes), err
}

// ShareCount is how many times account has shared the original of kind.
func (r *Repository) ShareCount(kind entity.Kind, account uuid.UUID, id uint64) (uint32, error) {
	raw, err := r.tx.Get(sharesKey(kind, account, id))
	if errors.Is(err, kvstore.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return uint32(Node(raw).ID()), nil
}

// CountShare bumps the per-account share counter and returns the new value.
func (r *Repository) CountShare(kind entity.Kind, account uuid.UUID, id uint64) (uint32, error) {
	n, err := r.ShareCount(kind, account, id)
	if err != nil {
		return 0, err
	}
	if err := addCount(&n, 1, "share count"); err != nil {
		return 0, err
	}
	return n, r.tx.Set(sharesKey(kind, account, id), IDNode(uint64(n)))
}
