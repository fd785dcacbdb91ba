package event

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
)

const subjectPrefix = "blogsocial.events."

func NATSSubject(kind Kind) string {
	return subjectPrefix + string(kind)
}

// NATSSink publishes each event to blogsocial.events.<Kind>.
type NATSSink struct {
	conn *nats.Conn
}

func NewNATSSink(url string) (*NATSSink, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	conn, err := nats.Connect(url, nats.Name("blogsocial"))
	if err != nil {
		return nil, err
	}
	return &NATSSink{conn: conn}, nil
}

func (s *NATSSink) Name() string { return "nats" }

func (s *NATSSink) Deliver(ctx context.Context, events []Event) error {
	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			return err
		}
		if err := s.conn.Publish(NATSSubject(e.Kind), payload); err != nil {
			return err
		}
	}
	if _, ok := ctx.Deadline(); !ok {
		return s.conn.Flush()
	}
	return s.conn.FlushWithContext(ctx)
}

func (s *NATSSink) Close() error {
	return s.conn.Drain()
}
