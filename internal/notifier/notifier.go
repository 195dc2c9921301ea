// Package notifier runs the broker consumer that turns platform events
// into notifications. The current sink writes to the process log; the
// consumer loop and channel fan-out stay the same when a real sink
// (email, push) replaces it.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/wecare-app/apiserver/internal/events"
	"github.com/wecare-app/apiserver/internal/mq"
	"golang.org/x/sync/errgroup"
)

// Notifier consumes platform events from the broker.
type Notifier struct {
	broker *mq.MQ
}

func New(broker *mq.MQ) *Notifier {
	return &Notifier{broker: broker}
}

// Run subscribes to all event channels and blocks until ctx is done or a
// subscription fails.
func (n *Notifier) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return n.broker.Subscribe(ctx, events.ChannelSupplyCreated, n.handleSupplyCreated)
	})
	group.Go(func() error {
		return n.broker.Subscribe(ctx, events.ChannelSupplyDeleted, n.handleSupplyDeleted)
	})
	group.Go(func() error {
		return n.broker.Subscribe(ctx, events.ChannelVolunteerJoined, n.handleVolunteerJoined)
	})

	return group.Wait()
}

func (n *Notifier) handleSupplyCreated(ctx context.Context, msg mq.Message) error {
	var event events.SupplyCreatedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		// A malformed payload will never decode; drop it instead of
		// letting the broker redeliver forever.
		log.Printf("notifier: drop malformed supply.created message %s: %v", msg.ID, err)
		return nil
	}
	log.Printf("notifier: new supply %q (%s) from %s", event.Title, event.Category, event.DonorEmail)
	return nil
}

func (n *Notifier) handleSupplyDeleted(ctx context.Context, msg mq.Message) error {
	var event events.SupplyDeletedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("notifier: drop malformed supply.deleted message %s: %v", msg.ID, err)
		return nil
	}
	log.Printf("notifier: supply %d removed", event.SupplyID)
	return nil
}

func (n *Notifier) handleVolunteerJoined(ctx context.Context, msg mq.Message) error {
	var event events.VolunteerJoinedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("notifier: drop malformed volunteer.joined message %s: %v", msg.ID, err)
		return nil
	}
	if event.Email == "" {
		return fmt.Errorf("volunteer.joined %s has no email", msg.ID)
	}
	log.Printf("notifier: volunteer %s (%s) joined", event.Name, event.Email)
	return nil
}
