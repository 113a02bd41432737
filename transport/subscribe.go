package transport

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/c360/simbridge/errors"
	"github.com/c360/simbridge/natsclient"
)

// Subscription is an active consumer-side subscription to a bridge topic
type Subscription struct {
	id     string
	topic  string
	w      wire
	unsub  func() error
	closed sync.Once
}

// Subscribe attaches to an advertised topic: it starts delivering data
// messages to handler and announces this subscriber's interest so the
// publisher side sees a join. Each subscription carries a unique id so the
// publisher's interest accounting survives duplicate or stray records.
func Subscribe(client *natsclient.Client, topic string, handler func(data []byte)) (*Subscription, error) {
	if client == nil || !client.IsHealthy() {
		return nil, errors.WrapFatal(errors.ErrTransportNotReady, "Subscription", "Subscribe", "transport readiness check")
	}
	return subscribe(natsWire{client: client}, topic, handler)
}

// subscribe attaches over any wire. Used directly by tests.
func subscribe(w wire, topic string, handler func(data []byte)) (*Subscription, error) {
	if topic == "" {
		return nil, errors.WrapInvalid(fmt.Errorf("empty topic"), "Subscription", "Subscribe", "topic validation")
	}

	s := &Subscription{
		id:    uuid.NewString(),
		topic: topic,
		w:     w,
	}

	// Attach to the data subject before announcing interest so a sample
	// published in response to the join cannot be missed.
	unsub, err := w.Subscribe(topic, handler)
	if err != nil {
		return nil, errors.WrapTransient(err, "Subscription", "Subscribe", "data subscription")
	}
	s.unsub = unsub

	if err := w.Publish(topic+interestSuffix, []byte("join:"+s.id)); err != nil {
		_ = unsub()
		return nil, errors.WrapTransient(err, "Subscription", "Subscribe", "join announcement")
	}

	return s, nil
}

// ID returns the subscriber identity announced to the publisher
func (s *Subscription) ID() string {
	return s.id
}

// Unsubscribe announces this subscriber's departure and stops delivery.
// Safe to call more than once.
func (s *Subscription) Unsubscribe() error {
	var err error
	s.closed.Do(func() {
		// Leave announcement first: the publisher stops counting this
		// subscriber even if the data unsubscribe fails.
		if perr := s.w.Publish(s.topic+interestSuffix, []byte("leave:"+s.id)); perr != nil {
			err = errors.WrapTransient(perr, "Subscription", "Unsubscribe", "leave announcement")
		}
		if uerr := s.unsub(); uerr != nil && err == nil {
			err = errors.WrapTransient(uerr, "Subscription", "Unsubscribe", "data unsubscribe")
		}
	})
	return err
}
