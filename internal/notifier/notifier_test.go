package notifier

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/wecare-app/apiserver/internal/events"
	"github.com/wecare-app/apiserver/internal/mq"
)

func TestHandleVolunteerJoined(t *testing.T) {
	n := New(nil)

	t.Run("valid payload acks", func(t *testing.T) {
		data, err := json.Marshal(events.VolunteerJoinedEvent{
			VolunteerID: 1, Name: "A", Email: "a@x.com", OccurredAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("marshal event: %v", err)
		}

		if err := n.handleVolunteerJoined(context.Background(), mq.Message{ID: "m1", Data: data}); err != nil {
			t.Fatalf("expected ack, got %v", err)
		}
	})

	t.Run("missing email nacks for redelivery", func(t *testing.T) {
		data, err := json.Marshal(events.VolunteerJoinedEvent{VolunteerID: 1, Name: "A"})
		if err != nil {
			t.Fatalf("marshal event: %v", err)
		}

		if err := n.handleVolunteerJoined(context.Background(), mq.Message{ID: "m2", Data: data}); err == nil {
			t.Fatal("expected error for event without email")
		}
	})

	t.Run("malformed payload is dropped, not redelivered", func(t *testing.T) {
		if err := n.handleVolunteerJoined(context.Background(), mq.Message{ID: "m3", Data: []byte("{")}); err != nil {
			t.Fatalf("malformed payload must ack to stop redelivery, got %v", err)
		}
	})
}

func TestHandleSupplyEvents(t *testing.T) {
	n := New(nil)

	data, err := json.Marshal(events.SupplyCreatedEvent{SupplyID: 7, Title: "Rice", Category: "rice"})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	if err := n.handleSupplyCreated(context.Background(), mq.Message{ID: "m1", Data: data}); err != nil {
		t.Fatalf("expected ack, got %v", err)
	}

	if err := n.handleSupplyDeleted(context.Background(), mq.Message{ID: "m2", Data: []byte("not json")}); err != nil {
		t.Fatalf("malformed payload must ack to stop redelivery, got %v", err)
	}
}
