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
	"strings"
	"sync"
	"time"

	"github.com/mendersoftware/go-lib-micro/log"

	"github.com/fleetpulse/devicehub/model"
	"github.com/fleetpulse/devicehub/store"
	"github.com/fleetpulse/devicehub/utils"
)

// StateChange describes one applied shadow mutation, for rule evaluation.
type StateChange struct {
	Shadow            *model.DeviceShadow
	OnlineChanged     bool
	TelemetryReceived bool
}

// ShadowCache holds the last-known state of every device seen on the
// transport. Entries are created lazily on first message and written
// through to the store. Mutations for one device are serialized by the
// pipeline's partitioning; the cache's own lock only guards map access.
type ShadowCache struct {
	store  store.DataStore
	fanout *Fanout
	clock  utils.Clock

	mu      sync.RWMutex
	shadows map[string]*model.DeviceShadow
}

// NewShadowCache returns an empty shadow cache.
func NewShadowCache(ds store.DataStore, fanout *Fanout, clock utils.Clock) *ShadowCache {
	return &ShadowCache{
		store:   ds,
		fanout:  fanout,
		clock:   clock,
		shadows: make(map[string]*model.DeviceShadow),
	}
}

func shadowKey(tenantID, deviceID string) string {
	return strings.Join([]string{tenantID, deviceID}, "/")
}

// ApplyTelemetry merges reported fields into the device's shadow. The merge
// is an upsert per field key: fields absent from the payload are preserved,
// the last writer by arrival order wins per field. Any inbound message
// marks the device online and refreshes last-seen.
func (c *ShadowCache) ApplyTelemetry(
	ctx context.Context,
	tenantID, deviceID string,
	fields map[string]interface{},
	timestamp time.Time,
) *StateChange {
	l := log.FromContext(ctx)
	now := c.clock.Now().UTC()
	if timestamp.IsZero() {
		timestamp = now
	}

	c.mu.Lock()
	shadow := c.getOrCreate(tenantID, deviceID)
	wasOnline := shadow.Online
	for key, raw := range fields {
		value, ok := model.NormalizeFieldValue(raw)
		if !ok {
			l.Warnf("device %s reported non-scalar field %q, skipping",
				deviceID, key)
			continue
		}
		shadow.State[key] = value
	}
	shadow.Online = true
	shadow.LastSeen = timestamp
	shadow.UpdatedTS = now
	snapshot := shadow.Copy()
	c.mu.Unlock()

	c.writeThrough(ctx, snapshot)
	c.fanout.DeviceStateChanged(ctx, snapshot)
	return &StateChange{
		Shadow:            snapshot,
		OnlineChanged:     !wasOnline,
		TelemetryReceived: true,
	}
}

// ApplyStatus sets the device's liveness directly from a status report and
// refreshes last-seen.
func (c *ShadowCache) ApplyStatus(
	ctx context.Context,
	tenantID, deviceID string,
	status string,
	timestamp time.Time,
) *StateChange {
	now := c.clock.Now().UTC()
	if timestamp.IsZero() {
		timestamp = now
	}
	online := status == model.DeviceStatusOnline

	c.mu.Lock()
	shadow := c.getOrCreate(tenantID, deviceID)
	wasOnline := shadow.Online
	shadow.Online = online
	shadow.LastSeen = timestamp
	shadow.UpdatedTS = now
	snapshot := shadow.Copy()
	c.mu.Unlock()

	c.writeThrough(ctx, snapshot)
	c.fanout.DeviceStateChanged(ctx, snapshot)
	return &StateChange{
		Shadow:        snapshot,
		OnlineChanged: wasOnline != online,
	}
}

// Get returns a copy of the device's shadow. Devices never seen by this
// process are looked up in the store.
func (c *ShadowCache) Get(
	ctx context.Context,
	tenantID, deviceID string,
) (*model.DeviceShadow, error) {
	c.mu.RLock()
	shadow, ok := c.shadows[shadowKey(tenantID, deviceID)]
	if ok {
		defer c.mu.RUnlock()
		return shadow.Copy(), nil
	}
	c.mu.RUnlock()

	return c.store.GetDeviceShadow(ctx, tenantID, deviceID)
}

// Warm preloads the cache from the store so the no-data sweep sees devices
// that were last heard before a restart. Entries already mutated by live
// traffic are kept.
func (c *ShadowCache) Warm(ctx context.Context) error {
	shadows, err := c.store.GetDeviceShadows(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range shadows {
		shadow := &shadows[i]
		key := shadowKey(shadow.TenantID, shadow.DeviceID)
		if _, ok := c.shadows[key]; ok {
			continue
		}
		if shadow.State == nil {
			shadow.State = make(map[string]interface{})
		}
		c.shadows[key] = shadow
	}
	return nil
}

// Snapshot returns a copy of every cached shadow, for the no-data sweep.
func (c *ShadowCache) Snapshot() []*model.DeviceShadow {
	c.mu.RLock()
	defer c.mu.RUnlock()
	shadows := make([]*model.DeviceShadow, 0, len(c.shadows))
	for _, shadow := range c.shadows {
		shadows = append(shadows, shadow.Copy())
	}
	return shadows
}

// getOrCreate must be called with the lock held.
func (c *ShadowCache) getOrCreate(tenantID, deviceID string) *model.DeviceShadow {
	key := shadowKey(tenantID, deviceID)
	shadow, ok := c.shadows[key]
	if !ok {
		shadow = &model.DeviceShadow{
			DeviceID: deviceID,
			TenantID: tenantID,
			State:    make(map[string]interface{}),
		}
		c.shadows[key] = shadow
	}
	return shadow
}

// writeThrough persists the shadow; persistence is eventual and never
// blocks the hot path on failure.
func (c *ShadowCache) writeThrough(ctx context.Context, shadow *model.DeviceShadow) {
	if err := c.store.UpsertDeviceShadow(ctx, shadow); err != nil {
		log.FromContext(ctx).Warnf("failed to persist shadow of device %s: %s",
			shadow.DeviceID, err.Error())
	}
}
