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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/fleetpulse/devicehub/model"
	"github.com/fleetpulse/devicehub/store"
	store_mocks "github.com/fleetpulse/devicehub/store/mocks"
)

func newShadowStore() *store_mocks.DataStore {
	ds := &store_mocks.DataStore{}
	ds.On("UpsertDeviceShadow", mock.Anything,
		mock.AnythingOfType("*model.DeviceShadow")).Return(nil)
	return ds
}

func TestShadowApplyTelemetryMerges(t *testing.T) {
	const (
		tenantID = "tenant-1"
		deviceID = "device-1"
	)

	cache := NewShadowCache(newShadowStore(), newTestFanout(), newTestClock())
	ctx := context.Background()

	change := cache.ApplyTelemetry(ctx, tenantID, deviceID, map[string]interface{}{
		"temperature": 21.5,
		"humidity":    40.0,
	}, time.Time{})
	assert.True(t, change.OnlineChanged)
	assert.True(t, change.TelemetryReceived)
	assert.True(t, change.Shadow.Online)

	// fields merge per key: absent fields survive, reported fields win
	change = cache.ApplyTelemetry(ctx, tenantID, deviceID, map[string]interface{}{
		"humidity": 42.0,
		"door":     "open",
	}, time.Time{})
	assert.False(t, change.OnlineChanged)
	assert.Equal(t, map[string]interface{}{
		"temperature": 21.5,
		"humidity":    42.0,
		"door":        "open",
	}, change.Shadow.State)

	shadow, err := cache.Get(ctx, tenantID, deviceID)
	assert.NoError(t, err)
	assert.Equal(t, change.Shadow.State, shadow.State)
}

func TestShadowApplyTelemetrySkipsNonScalar(t *testing.T) {
	cache := NewShadowCache(newShadowStore(), newTestFanout(), newTestClock())

	change := cache.ApplyTelemetry(context.Background(), "tenant-1", "device-1",
		map[string]interface{}{
			"temperature": 21.5,
			"tags":        []interface{}{"a", "b"},
			"location":    map[string]interface{}{"lat": 1.0},
		}, time.Time{})
	assert.Equal(t, map[string]interface{}{
		"temperature": 21.5,
	}, change.Shadow.State)
}

func TestShadowApplyStatus(t *testing.T) {
	cache := NewShadowCache(newShadowStore(), newTestFanout(), newTestClock())
	ctx := context.Background()

	reported := time.Date(2025, 6, 1, 11, 59, 0, 0, time.UTC)
	change := cache.ApplyStatus(ctx, "tenant-1", "device-1",
		model.DeviceStatusOnline, reported)
	assert.True(t, change.OnlineChanged)
	assert.False(t, change.TelemetryReceived)
	assert.True(t, change.Shadow.Online)
	assert.Equal(t, reported, change.Shadow.LastSeen)

	// going offline keeps the last-known state
	cache.ApplyTelemetry(ctx, "tenant-1", "device-1", map[string]interface{}{
		"temperature": 21.5,
	}, time.Time{})
	change = cache.ApplyStatus(ctx, "tenant-1", "device-1",
		model.DeviceStatusOffline, time.Time{})
	assert.True(t, change.OnlineChanged)
	assert.False(t, change.Shadow.Online)
	assert.Equal(t, map[string]interface{}{
		"temperature": 21.5,
	}, change.Shadow.State)

	// repeated offline reports are not a transition
	change = cache.ApplyStatus(ctx, "tenant-1", "device-1",
		model.DeviceStatusOffline, time.Time{})
	assert.False(t, change.OnlineChanged)
}

func TestShadowGetFallsBackToStore(t *testing.T) {
	stored := &model.DeviceShadow{
		DeviceID: "device-1",
		TenantID: "tenant-1",
		State:    map[string]interface{}{"temperature": 19.0},
	}

	ds := &store_mocks.DataStore{}
	ds.On("GetDeviceShadow",
		mock.MatchedBy(func(_ context.Context) bool {
			return true
		}),
		"tenant-1",
		"device-1",
	).Return(stored, nil)
	ds.On("GetDeviceShadow",
		mock.MatchedBy(func(_ context.Context) bool {
			return true
		}),
		"tenant-1",
		"device-unknown",
	).Return(nil, store.ErrNotFound)

	cache := NewShadowCache(ds, newTestFanout(), newTestClock())
	ctx := context.Background()

	shadow, err := cache.Get(ctx, "tenant-1", "device-1")
	assert.NoError(t, err)
	assert.Equal(t, stored, shadow)

	_, err = cache.Get(ctx, "tenant-1", "device-unknown")
	assert.Equal(t, store.ErrNotFound, err)

	ds.AssertExpectations(t)
}

func TestShadowWarm(t *testing.T) {
	clock := newTestClock()
	lastSeen := clock.Now().Add(-time.Hour)

	ds := newShadowStore()
	ds.On("GetDeviceShadows",
		mock.MatchedBy(func(_ context.Context) bool {
			return true
		}),
	).Return([]model.DeviceShadow{
		{
			DeviceID: "device-1",
			TenantID: "tenant-1",
			Online:   true,
			LastSeen: lastSeen,
			State:    map[string]interface{}{"temperature": 19.0},
		},
		{
			DeviceID: "device-2",
			TenantID: "tenant-1",
			LastSeen: lastSeen,
		},
	}, nil)

	cache := NewShadowCache(ds, newTestFanout(), clock)
	ctx := context.Background()

	// live traffic ahead of the warm-up wins over the stored copy
	cache.ApplyTelemetry(ctx, "tenant-1", "device-1", map[string]interface{}{
		"temperature": 23.0,
	}, time.Time{})

	assert.NoError(t, cache.Warm(ctx))

	// devices silent since before the restart are visible to the sweep
	shadows := cache.Snapshot()
	assert.Len(t, shadows, 2)
	shadow, err := cache.Get(ctx, "tenant-1", "device-2")
	assert.NoError(t, err)
	assert.Equal(t, lastSeen, shadow.LastSeen)
	assert.NotNil(t, shadow.State)

	shadow, err = cache.Get(ctx, "tenant-1", "device-1")
	assert.NoError(t, err)
	assert.Equal(t, 23.0, shadow.State["temperature"])

	ds.AssertExpectations(t)
}

func TestShadowSnapshot(t *testing.T) {
	cache := NewShadowCache(newShadowStore(), newTestFanout(), newTestClock())
	ctx := context.Background()

	cache.ApplyTelemetry(ctx, "tenant-1", "device-1", map[string]interface{}{
		"temperature": 21.5,
	}, time.Time{})
	cache.ApplyTelemetry(ctx, "tenant-2", "device-2", map[string]interface{}{
		"humidity": 40.0,
	}, time.Time{})

	shadows := cache.Snapshot()
	assert.Len(t, shadows, 2)

	// snapshots are copies, mutating them leaves the cache untouched
	for _, shadow := range shadows {
		shadow.State["injected"] = true
	}
	shadow, err := cache.Get(ctx, "tenant-1", "device-1")
	assert.NoError(t, err)
	assert.NotContains(t, shadow.State, "injected")
}
