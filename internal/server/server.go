package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"anoa.com/blogsocial/internal/config"
	"anoa.com/blogsocial/internal/event"
	"anoa.com/blogsocial/internal/handler"
	"anoa.com/blogsocial/internal/middleware"
	"anoa.com/blogsocial/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps are the collaborators the router is assembled from. Outbox, Redis,
// Search and Limiter may be nil when their backends are not configured.
type Deps struct {
	Services   *service.Services
	Dispatcher *event.Dispatcher
	Outbox     *event.OutboxSink
	Redis      *event.RedisSink
	Search     *event.SearchSink
	Limiter    *service.RateLimiter
	Log        *zap.Logger
}

type Server struct {
	engine *gin.Engine
	http   *http.Server
	log    *zap.Logger
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	setupCORS(router, allowedOrigins(cfg.AllowedOrigins))
	router.Use(gin.Recovery())
	router.Use(requestLogger(log, "/health", "/metrics"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	registerRoutes(router.Group("/api"), cfg, deps)

	return &Server{
		engine: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run() error {
	s.log.Info("http server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func registerRoutes(api *gin.RouterGroup, cfg *config.Config, deps Deps) {
	svc := deps.Services
	blogHandler := handler.NewBlogHandler(svc.Blogs, svc.Queries, deps.Dispatcher)
	accountHandler := handler.NewAccountHandler(svc.Accounts, svc.Queries, deps.Dispatcher)
	postHandler := handler.NewPostHandler(svc.Posts, svc.Comments, svc.Queries, deps.Limiter, deps.Dispatcher)
	commentHandler := handler.NewCommentHandler(svc.Comments, svc.Queries, deps.Dispatcher)
	reactionHandler := handler.NewReactionHandler(svc.Reactions, svc.Queries, deps.Dispatcher)

	// Typed nil pointers must not leak into the optional interfaces.
	var leaderboard handler.Leaderboard
	var stream handler.EventStream
	var outbox handler.EventLog
	var search handler.SearchTokens
	if deps.Redis != nil {
		leaderboard, stream = deps.Redis, deps.Redis
	}
	if deps.Outbox != nil {
		outbox = deps.Outbox
	}
	if deps.Search != nil {
		search = deps.Search
	}
	statHandler := handler.NewStatHandler(svc.Queries, leaderboard)
	eventHandler := handler.NewEventHandler(outbox, stream, search, allowedOrigins(cfg.AllowedOrigins))

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	// Public reads
	api.GET("/blogs/:id", blogHandler.GetBlog)
	api.GET("/blogs/:id/posts", blogHandler.GetBlogPosts)
	api.GET("/blogs/:id/followers", blogHandler.GetBlogFollowers)
	api.GET("/blogs/:id/followed-by/:account", blogHandler.IsFollowedBy)
	api.GET("/blogs/:id/history", blogHandler.GetBlogHistory)
	api.GET("/slugs/:slug", blogHandler.GetBlogBySlug)

	api.GET("/posts/:id", postHandler.GetPost)
	api.GET("/posts/:id/comments", postHandler.GetPostComments)
	api.GET("/posts/:id/reactions", postHandler.GetPostReactions)
	api.GET("/posts/:id/shares", postHandler.GetPostShares)
	api.GET("/posts/:id/history", postHandler.GetPostHistory)

	api.GET("/comments/:id", commentHandler.GetComment)
	api.GET("/comments/:id/replies", commentHandler.GetReplies)
	api.GET("/comments/:id/reactions", commentHandler.GetCommentReactions)
	api.GET("/comments/:id/shares", commentHandler.GetCommentShares)
	api.GET("/comments/:id/history", commentHandler.GetCommentHistory)

	api.GET("/reactions/:id", reactionHandler.GetReaction)

	api.GET("/accounts/:account", accountHandler.GetAccount)
	api.GET("/accounts/:account/blogs", accountHandler.GetOwnedBlogs)
	api.GET("/accounts/:account/followed-blogs", accountHandler.GetFollowedBlogs)
	api.GET("/accounts/:account/followers", accountHandler.GetFollowers)
	api.GET("/accounts/:account/following", accountHandler.GetFollowing)
	api.GET("/accounts/:account/followed-by/:follower", accountHandler.IsFollowedBy)
	api.GET("/accounts/:account/history", accountHandler.GetProfileHistory)
	api.GET("/accounts/:account/post-reactions/:id", accountHandler.GetPostReaction)
	api.GET("/accounts/:account/comment-reactions/:id", accountHandler.GetCommentReaction)
	api.GET("/profiles/:username", accountHandler.GetAccountByUsername)

	api.GET("/next-ids", statHandler.GetNextIDs)
	api.GET("/leaderboard", statHandler.GetLeaderboard)

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/blogs", blogHandler.CreateBlog)
		protected.PUT("/blogs/:id", blogHandler.UpdateBlog)
		protected.POST("/blogs/:id/follow", blogHandler.FollowBlog)
		protected.DELETE("/blogs/:id/follow", blogHandler.UnfollowBlog)

		protected.POST("/accounts/:account/follow", accountHandler.FollowAccount)
		protected.DELETE("/accounts/:account/follow", accountHandler.UnfollowAccount)
		protected.GET("/profile", accountHandler.GetCurrentAccount)
		protected.POST("/profile", accountHandler.CreateProfile)
		protected.PUT("/profile", accountHandler.UpdateProfile)

		protected.POST("/posts", postHandler.CreatePost)
		protected.PUT("/posts/:id", postHandler.UpdatePost)
		protected.POST("/posts/:id/comments", postHandler.CreateComment)
		protected.PUT("/comments/:id", commentHandler.UpdateComment)

		protected.POST("/posts/:id/reactions", reactionHandler.CreatePostReaction)
		protected.PUT("/posts/:id/reactions/:reaction_id", reactionHandler.UpdatePostReaction)
		protected.DELETE("/posts/:id/reactions/:reaction_id", reactionHandler.DeletePostReaction)
		protected.POST("/comments/:id/reactions", reactionHandler.CreateCommentReaction)
		protected.PUT("/comments/:id/reactions/:reaction_id", reactionHandler.UpdateCommentReaction)
		protected.DELETE("/comments/:id/reactions/:reaction_id", reactionHandler.DeleteCommentReaction)

		protected.GET("/events", eventHandler.GetRecentEvents)
		protected.GET("/events/ws", eventHandler.HandleWebSocket)
		protected.GET("/search/token", eventHandler.GetSearchToken)
	}
}

func allowedOrigins(value string) []string {
	if value == "" {
		return []string{"http://localhost:3000"}
	}
	origins := strings.Split(value, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}

func setupCORS(router *gin.Engine, origins []string) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
