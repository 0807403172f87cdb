package kafka

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	kgo "github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

const (
	UserRegistered = "user.registered"
	UserFollowed   = "user.followed"
	UserUnfollowed = "user.unfollowed"
	PostCreated    = "post.created"
	PostDeleted    = "post.deleted"
	PostLiked      = "post.liked"
	PostUnliked    = "post.unliked"
)

type Event struct {
	Type      string    `json:"type"`
	ActorID   string    `json:"actorId"`
	SubjectID string    `json:"subjectId"`
	At        time.Time `json:"at"`
}

func NewEvent(typ, actor, subject string) Event {
	return Event{Type: typ, ActorID: actor, SubjectID: subject, At: time.Now().UTC()}
}

// Publisher emits domain events. Publish never fails the caller; delivery
// problems are logged.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kgo.Message) error
	Close() error
}

type writer struct {
	w       messageWriter
	timeout time.Duration
}

// NewWriter creates a Kafka publisher.
// Env overrides (optional):
//   - KAFKA_REQUIRED_ACKS: "none" | "one" | "all" (default: "one")
//   - KAFKA_ASYNC: "true" | "false" (default: "false")
func NewWriter(bootstrapServers, topic string) Publisher {
	var addrs []string
	for _, a := range strings.Split(bootstrapServers, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}

	var requiredAcks kgo.RequiredAcks
	switch strings.ToLower(strings.TrimSpace(os.Getenv("KAFKA_REQUIRED_ACKS"))) {
	case "none":
		requiredAcks = kgo.RequireNone
	case "all":
		requiredAcks = kgo.RequireAll
	default:
		requiredAcks = kgo.RequireOne
	}

	w := &kgo.Writer{
		Addr:                   kgo.TCP(addrs...),
		Topic:                  topic,
		Balancer:               &kgo.LeastBytes{},
		RequiredAcks:           requiredAcks,
		Async:                  strings.EqualFold(os.Getenv("KAFKA_ASYNC"), "true"),
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &writer{w: w, timeout: 2 * time.Second}
}

func (wr *writer) Publish(ctx context.Context, ev Event) {
	if err := wr.write(ctx, ev); err != nil {
		log.WithError(err).WithFields(log.Fields{"type": ev.Type, "subject": ev.SubjectID}).
			Warn("event not published")
	}
}

func (wr *writer) write(ctx context.Context, ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), wr.timeout)
	defer cancel()
	msg := kgo.Message{Key: []byte(ev.SubjectID), Value: b, Time: ev.At}
	return errors.Wrap(wr.w.WriteMessages(ctx, msg), "kafka write")
}

func (wr *writer) Close() error { return wr.w.Close() }

type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
func (Nop) Close() error                  { return nil }
