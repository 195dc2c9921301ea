// Package events defines the domain events the platform publishes when
// donations and volunteer signups happen, and the publisher that puts
// them on the broker.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wecare-app/apiserver/internal/mq"
	"github.com/wecare-app/apiserver/types"
)

// Channel names, shared by publisher and notifier.
const (
	ChannelSupplyCreated   = "supply.created"
	ChannelSupplyDeleted   = "supply.deleted"
	ChannelVolunteerJoined = "volunteer.joined"
)

const attrEventType = "event_type"

// SupplyCreatedEvent announces a new food-supply listing.
type SupplyCreatedEvent struct {
	SupplyID   int       `json:"supply_id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	DonorEmail string    `json:"donor_email"`
	OccurredAt time.Time `json:"occurred_at"`
}

// SupplyDeletedEvent announces the removal of a listing.
type SupplyDeletedEvent struct {
	SupplyID   int       `json:"supply_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// VolunteerJoinedEvent announces a new volunteer signup.
type VolunteerJoinedEvent struct {
	VolunteerID int       `json:"volunteer_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher serializes domain events and hands them to the broker.
// Publishing is best-effort from the caller's point of view: a broker
// failure must never fail the originating request.
type Publisher struct {
	broker *mq.MQ
}

func NewPublisher(broker *mq.MQ) *Publisher {
	return &Publisher{broker: broker}
}

func (p *Publisher) SupplyCreated(ctx context.Context, supply types.Supply) error {
	return p.publish(ctx, ChannelSupplyCreated, SupplyCreatedEvent{
		SupplyID:   supply.ID,
		Title:      supply.Title,
		Category:   supply.Category,
		DonorEmail: supply.DonorEmail,
		OccurredAt: time.Now(),
	})
}

func (p *Publisher) SupplyDeleted(ctx context.Context, supplyID int) error {
	return p.publish(ctx, ChannelSupplyDeleted, SupplyDeletedEvent{
		SupplyID:   supplyID,
		OccurredAt: time.Now(),
	})
}

func (p *Publisher) VolunteerJoined(ctx context.Context, volunteer types.Volunteer) error {
	return p.publish(ctx, ChannelVolunteerJoined, VolunteerJoinedEvent{
		VolunteerID: volunteer.ID,
		Name:        volunteer.Name,
		Email:       volunteer.Email,
		OccurredAt:  time.Now(),
	})
}

func (p *Publisher) publish(ctx context.Context, channel string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.broker.Publish(ctx, channel, data, map[string]string{attrEventType: channel})
	return err
}
