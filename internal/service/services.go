package service

// Services bundles the per-domain services over one Engine.
type Services struct {
	Blogs     BlogService
	Accounts  AccountService
	Posts     PostService
	Comments  CommentService
	Reactions ReactionService
	Queries   QueryService
}

func NewServices(engine *Engine) *Services {
	return &Services{
		Blogs:     NewBlogService(engine),
		Accounts:  NewAccountService(engine),
		Posts:     NewPostService(engine),
		Comments:  NewCommentService(engine),
		Reactions: NewReactionService(engine),
		Queries:   NewQueryService(engine),
	}
}
