package handler

import (
	"context"
	"net/http"

	"anoa.com/blogsocial/internal/dto"
	"anoa.com/blogsocial/internal/event"
	"anoa.com/blogsocial/pkg/logger"
	"anoa.com/blogsocial/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// EventLog is the durable record of delivered events.
type EventLog interface {
	Recent(ctx context.Context, account uuid.UUID, limit int) ([]event.EventRecord, error)
}

// EventStream opens the live event channel of one account.
type EventStream interface {
	Subscribe(ctx context.Context, account uuid.UUID) *redis.PubSub
}

type SearchTokens interface {
	SearchToken() (string, error)
}

// EventHandler serves the event outbox, the live websocket stream and
// search tokens. Each dependency is optional.
type EventHandler struct {
	outbox   EventLog
	stream   EventStream
	search   SearchTokens
	upgrader websocket.Upgrader
}

func NewEventHandler(outbox EventLog, stream EventStream, search SearchTokens, allowedOrigins []string) *EventHandler {
	return &EventHandler{
		outbox: outbox,
		stream: stream,
		search: search,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

func (h *EventHandler) GetRecentEvents(c *gin.Context) {
	if h.outbox == nil {
		unavailable(c, "event outbox")
		return
	}
	var q dto.LimitQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	who, ok := principal(c)
	if !ok {
		return
	}
	records, err := h.outbox.Recent(c.Request.Context(), who, q.OrDefault(20))
	reply(c, records, err)
}

func (h *EventHandler) GetSearchToken(c *gin.Context) {
	if h.search == nil {
		unavailable(c, "search")
		return
	}
	token, err := h.search.SearchToken()
	reply(c, dto.SearchTokenResponse{Token: token}, err)
}

// HandleWebSocket forwards the principal's events from redis to the socket
// until either side goes away.
func (h *EventHandler) HandleWebSocket(c *gin.Context) {
	if h.stream == nil {
		unavailable(c, "event stream")
		return
	}
	who, ok := principal(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Named("ws").Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	pubsub := h.stream.Subscribe(ctx, who)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		logger.Named("ws").Warn("event subscription failed", zap.String("account", who.String()), zap.Error(err))
		return
	}
	ch := pubsub.Channel()

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				logger.Named("ws").Debug("websocket write failed", zap.Error(err))
				return
			}
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		}
	}
}
