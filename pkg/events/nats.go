package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nats-io/nats.go"
)

// ErrPublisherRequired is returned when Forward is given no publisher.
var ErrPublisherRequired = errors.New("publisher is required")

// Publisher is the subset of *nats.Conn used to relay emissions.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// SessionInvalidated is the message relayed to other processes.
type SessionInvalidated struct {
	Host       string    `json:"host"`
	PID        int       `json:"pid"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Forward subscribes to bus and publishes a SessionInvalidated message on
// subject for every emission. Publish failures are passed to onError when it
// is non-nil. The returned function stops forwarding.
func Forward(bus *Bus, publisher Publisher, subject string, onError func(error)) (func(), error) {
	if publisher == nil {
		return nil, ErrPublisherRequired
	}

	host, _ := os.Hostname()
	pid := os.Getpid()

	return bus.Subscribe(func() {
		data, err := json.Marshal(SessionInvalidated{
			Host:       host,
			PID:        pid,
			OccurredAt: time.Now().UTC(),
		})
		if err == nil {
			err = publisher.Publish(subject, data)
		}

		if err != nil && onError != nil {
			onError(fmt.Errorf("relaying session invalidation to %s: %w", subject, err))
		}
	}), nil
}

// ConnectNATS opens a connection suitable for Forward.
func ConnectNATS(url, clientName string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(clientName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}

	return conn, nil
}
