// Copyright 2025 Fleetpulse AS
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package app

import (
	"context"
	"time"

	"github.com/mendersoftware/go-lib-micro/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/fleetpulse/devicehub/client/nats"
	"github.com/fleetpulse/devicehub/model"
)

// Fanout delivers pipeline events to realtime subscribers through the
// internal bus. Delivery is strictly scoped to the owning tenant's subject
// and best effort: a bus failure is logged, never propagated into the
// pipeline.
type Fanout struct {
	nats nats.Client
}

// NewFanout returns a new fanout bridge on top of the given bus client.
func NewFanout(natsClient nats.Client) *Fanout {
	return &Fanout{nats: natsClient}
}

// DeviceStateChanged publishes a shadow update to the tenant's subscribers.
func (f *Fanout) DeviceStateChanged(ctx context.Context, shadow *model.DeviceShadow) {
	f.publish(ctx, &model.Event{
		Type:     model.EventTypeDeviceState,
		TenantID: shadow.TenantID,
		DeviceID: shadow.DeviceID,
		Shadow:   shadow,
	})
}

// CommandStatusChanged publishes a command transition to the tenant's
// subscribers.
func (f *Fanout) CommandStatusChanged(ctx context.Context, cmd *model.Command) {
	f.publish(ctx, &model.Event{
		Type:     model.EventTypeCommandStatus,
		TenantID: cmd.TenantID,
		DeviceID: cmd.DeviceID,
		Command:  cmd,
	})
}

// AlertChanged publishes an alert transition to the tenant's subscribers.
func (f *Fanout) AlertChanged(ctx context.Context, alert *model.Alert) {
	f.publish(ctx, &model.Event{
		Type:     model.EventTypeAlert,
		TenantID: alert.TenantID,
		DeviceID: alert.DeviceID,
		Alert:    alert,
	})
}

func (f *Fanout) publish(ctx context.Context, event *model.Event) {
	l := log.FromContext(ctx)
	event.Timestamp = time.Now().UTC()

	data, err := msgpack.Marshal(event)
	if err != nil {
		l.Errorf("failed to encode %s event: %s", event.Type, err.Error())
		return
	}
	subject := model.GetEventsSubject(event.TenantID)
	if err := f.nats.Publish(subject, data); err != nil {
		l.Errorf("failed to publish %s event to %s: %s",
			event.Type, subject, err.Error())
		return
	}
	eventsPublishedTotal.WithLabelValues(event.Type).Inc()
}
