package natsclient

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects used across the service.
const (
	SubjectChallengeCompleted     = "challenge.completed"
	SubjectSelfChallengeCompleted = "selfchallenge.completed"
	SubjectDailyCompleted         = "dailychallenge.completed"
)

// UserSubject is the per-user fan-out subject chat events are published on.
func UserSubject(userID string) string {
	return "chat.user." + userID
}

type NatsClient struct {
	Conn *nats.Conn
}

func NewNatsClient(natsURL string) (*NatsClient, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name("leetcoders"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &NatsClient{Conn: nc}, nil
}

func (n *NatsClient) Close() {
	if n.Conn != nil {
		n.Conn.Drain()
	}
}

// PublishJSON marshals v and publishes it on subject.
func (n *NatsClient) PublishJSON(subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", subject, err)
	}
	return n.Conn.Publish(subject, data)
}

// ChanSubscribe delivers messages on ch until the subscription is drained.
func (n *NatsClient) ChanSubscribe(subject string, ch chan *nats.Msg) (*nats.Subscription, error) {
	return n.Conn.ChanSubscribe(subject, ch)
}
