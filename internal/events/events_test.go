package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/wecare-app/apiserver/internal/mq"
	"github.com/wecare-app/apiserver/types"
)

type recordingBackend struct {
	channel string
	data    []byte
	attrs   map[string]string
}

func (r *recordingBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	r.channel = channel
	r.data = data
	r.attrs = attrs
	return "msg-1", nil
}

func (r *recordingBackend) Subscribe(ctx context.Context, channel string, handler mq.Handler) error {
	return nil
}

func (r *recordingBackend) Close() error { return nil }

func TestPublishSupplyCreated(t *testing.T) {
	backend := &recordingBackend{}
	publisher := NewPublisher(mq.New(backend))

	supply := types.Supply{
		ID:         7,
		Title:      "Rice Pack",
		Category:   "rice",
		DonorEmail: "a@x.com",
	}
	if err := publisher.SupplyCreated(context.Background(), supply); err != nil {
		t.Fatalf("SupplyCreated returned error: %v", err)
	}

	if backend.channel != ChannelSupplyCreated {
		t.Fatalf("expected channel %q, got %q", ChannelSupplyCreated, backend.channel)
	}
	if backend.attrs[attrEventType] != ChannelSupplyCreated {
		t.Fatalf("missing event_type attribute: %v", backend.attrs)
	}

	var event SupplyCreatedEvent
	if err := json.Unmarshal(backend.data, &event); err != nil {
		t.Fatalf("payload does not decode: %v", err)
	}
	if event.SupplyID != 7 || event.Title != "Rice Pack" || event.DonorEmail != "a@x.com" {
		t.Fatalf("unexpected event: %+v", event)
	}
	if time.Since(event.OccurredAt) > time.Minute {
		t.Fatalf("occurred_at not set: %v", event.OccurredAt)
	}
}

func TestPublishVolunteerJoined(t *testing.T) {
	backend := &recordingBackend{}
	publisher := NewPublisher(mq.New(backend))

	volunteer := types.Volunteer{ID: 3, Name: "A", Email: "a@x.com"}
	if err := publisher.VolunteerJoined(context.Background(), volunteer); err != nil {
		t.Fatalf("VolunteerJoined returned error: %v", err)
	}

	if backend.channel != ChannelVolunteerJoined {
		t.Fatalf("expected channel %q, got %q", ChannelVolunteerJoined, backend.channel)
	}

	var event VolunteerJoinedEvent
	if err := json.Unmarshal(backend.data, &event); err != nil {
		t.Fatalf("payload does not decode: %v", err)
	}
	if event.VolunteerID != 3 || event.Email != "a@x.com" {
		t.Fatalf("unexpected event: %+v", event)
	}
}
