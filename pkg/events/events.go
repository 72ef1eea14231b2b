/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

//go:generate mockgen -destination=mock_events.go -package=events github.com/carverauto/netpulse/pkg/events Publisher,Subscriber

// Package events carries domain events between NetPulse services over a
// publish/subscribe bus. Delivery is at-least-once and fire-and-forget.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Channels.
const (
	ChannelDevice    = "device:events"
	ChannelTelemetry = "telemetry:events"
	ChannelAlert     = "alert:events"
)

// Channels lists every channel in publish order.
func Channels() []string {
	return []string{ChannelDevice, ChannelTelemetry, ChannelAlert}
}

// Event types.
const (
	TypeDeviceRegistered    = "device:registered"
	TypeDeviceUpdated       = "device:updated"
	TypeDeviceDeleted       = "device:deleted"
	TypeDeviceStatusChanged = "device:status_changed"
	TypeTelemetryReceived   = "telemetry:received"
	TypeAlertCreated        = "alert:created"
	TypeAlertAcknowledged   = "alert:acknowledged"
	TypeAlertResolved       = "alert:resolved"
)

var (
	ErrBusClosed     = errors.New("event bus closed")
	errEmptyChannel  = errors.New("channel is required")
	errNilEvent      = errors.New("event is nil")
	errEventEncoding = errors.New("failed to encode event")
)

// Event is the envelope published on every channel. OrganizationID and
// DeviceID scope the event for room routing.
type Event struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Payload        any       `json:"payload"`
	OrganizationID string    `json:"organizationId,omitempty"`
	DeviceID       string    `json:"deviceId,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Handler receives decoded events from a subscription.
type Handler func(ctx context.Context, evt *Event)

// Subscription is an active channel subscription.
type Subscription interface {
	Unsubscribe() error
}

type Publisher interface {
	Publish(ctx context.Context, channel string, evt *Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler Handler) (Subscription, error)
}

// Bus is a backend that can both publish and subscribe.
type Bus interface {
	Publisher
	Subscriber
	Close() error
}

func encode(channel string, evt *Event) ([]byte, error) {
	if channel == "" {
		return nil, errEmptyChannel
	}

	if evt == nil {
		return nil, errNilEvent
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", errEventEncoding, evt.Type, err)
	}

	return data, nil
}

func decode(data []byte) (*Event, error) {
	var evt Event
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, err
	}

	return &evt, nil
}

type subscriptionFunc func() error

func (f subscriptionFunc) Unsubscribe() error { return f() }

// NopBus accepts every publish and never delivers anything.
type NopBus struct{}

var _ Bus = NopBus{}

func (NopBus) Publish(context.Context, string, *Event) error { return nil }

func (NopBus) Subscribe(context.Context, string, Handler) (Subscription, error) {
	return subscriptionFunc(func() error { return nil }), nil
}

func (NopBus) Close() error { return nil }
