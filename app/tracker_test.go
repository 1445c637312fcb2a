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
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	mqtt_mocks "github.com/fleetpulse/devicehub/client/mqtt/mocks"
	nats_mocks "github.com/fleetpulse/devicehub/client/nats/mocks"
	"github.com/fleetpulse/devicehub/model"
	store_mocks "github.com/fleetpulse/devicehub/store/mocks"
)

// testClock is a hand-advanced clock shared by the app package tests.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{
		now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestFanout() *Fanout {
	natsClient := &nats_mocks.Client{}
	natsClient.On("Publish", mock.AnythingOfType("string"),
		mock.AnythingOfType("[]uint8")).Return(nil).Maybe()
	return NewFanout(natsClient)
}

func TestTrackerDispatch(t *testing.T) {
	const tenantID = "tenant-1"

	ds := &store_mocks.DataStore{}
	ds.On("InsertCommand",
		mock.MatchedBy(func(_ context.Context) bool {
			return true
		}),
		mock.AnythingOfType("*model.Command"),
	).Return(nil)
	ds.On("UpdateCommand",
		mock.MatchedBy(func(_ context.Context) bool {
			return true
		}),
		mock.AnythingOfType("*model.Command"),
	).Return(nil)

	mqttClient := &mqtt_mocks.Client{}
	mqttClient.On("Publish",
		"fleetpulse/tenant-1/devices/device-1/command",
		mock.AnythingOfType("[]uint8"),
	).Return(nil)

	clock := newTestClock()
	tracker := NewTracker(ds, NewTopicRouter("fleetpulse"),
		mqttClient, newTestFanout(), clock, time.Minute)

	cmd := &model.Command{
		TenantID: tenantID,
		DeviceID: "device-1",
		Type:     "reboot",
	}
	err := tracker.Dispatch(context.Background(), cmd)
	assert.NoError(t, err)
	assert.NotEmpty(t, cmd.ID)
	assert.NotEmpty(t, cmd.CorrelationID)
	assert.Equal(t, model.CommandStatusSent, cmd.Status)
	if assert.NotNil(t, cmd.SentTS) {
		assert.Equal(t, clock.Now(), *cmd.SentTS)
	}

	ds.AssertExpectations(t)
	mqttClient.AssertExpectations(t)
}

func TestTrackerDispatchInvalid(t *testing.T) {
	tracker := NewTracker(&store_mocks.DataStore{}, NewTopicRouter("fleetpulse"),
		&mqtt_mocks.Client{}, newTestFanout(), newTestClock(), time.Minute)

	err := tracker.Dispatch(context.Background(), &model.Command{
		TenantID: "tenant-1",
		DeviceID: "device-1",
	})
	assert.Error(t, err)
}

func TestTrackerDispatchDuplicateCorrelation(t *testing.T) {
	ds := &store_mocks.DataStore{}
	ds.On("InsertCommand", mock.Anything, mock.Anything).Return(nil)
	ds.On("UpdateCommand", mock.Anything, mock.Anything).Return(nil)

	mqttClient := &mqtt_mocks.Client{}
	mqttClient.On("Publish", mock.AnythingOfType("string"),
		mock.AnythingOfType("[]uint8")).Return(nil).Once()

	tracker := NewTracker(ds, NewTopicRouter("fleetpulse"),
		mqttClient, newTestFanout(), newTestClock(), time.Minute)

	ctx := context.Background()
	err := tracker.Dispatch(ctx, &model.Command{
		TenantID:      "tenant-1",
		DeviceID:      "device-1",
		CorrelationID: "corr-1",
		Type:          "reboot",
	})
	assert.NoError(t, err)

	err = tracker.Dispatch(ctx, &model.Command{
		TenantID:      "tenant-1",
		DeviceID:      "device-1",
		CorrelationID: "corr-1",
		Type:          "reboot",
	})
	assert.Equal(t, ErrDuplicateCorrelation, errors.Cause(err))

	// the same correlation id is free for another tenant
	mqttClient.On("Publish", mock.AnythingOfType("string"),
		mock.AnythingOfType("[]uint8")).Return(nil).Once()
	err = tracker.Dispatch(ctx, &model.Command{
		TenantID:      "tenant-2",
		DeviceID:      "device-1",
		CorrelationID: "corr-1",
		Type:          "reboot",
	})
	assert.NoError(t, err)

	mqttClient.AssertExpectations(t)
}

func TestTrackerDispatchPublishFailure(t *testing.T) {
	ds := &store_mocks.DataStore{}
	ds.On("InsertCommand", mock.Anything, mock.Anything).Return(nil)
	ds.On("UpdateCommand", mock.Anything, mock.Anything).Return(nil)

	mqttClient := &mqtt_mocks.Client{}
	mqttClient.On("Publish", mock.AnythingOfType("string"),
		mock.AnythingOfType("[]uint8")).
		Return(errors.New("broker unavailable")).Once()

	tracker := NewTracker(ds, NewTopicRouter("fleetpulse"),
		mqttClient, newTestFanout(), newTestClock(), time.Minute)

	ctx := context.Background()
	cmd := &model.Command{
		TenantID:      "tenant-1",
		DeviceID:      "device-1",
		CorrelationID: "corr-1",
		Type:          "reboot",
	}
	err := tracker.Dispatch(ctx, cmd)
	assert.Equal(t, ErrPublishFailure, errors.Cause(err))

	// the correlation id is released; a retry with the same id succeeds
	mqttClient.On("Publish", mock.AnythingOfType("string"),
		mock.AnythingOfType("[]uint8")).Return(nil).Once()
	err = tracker.Dispatch(ctx, &model.Command{
		TenantID:      "tenant-1",
		DeviceID:      "device-1",
		CorrelationID: "corr-1",
		Type:          "reboot",
	})
	assert.NoError(t, err)

	mqttClient.AssertExpectations(t)
}

func TestTrackerResolve(t *testing.T) {
	var statuses []string

	ds := &store_mocks.DataStore{}
	ds.On("InsertCommand", mock.Anything, mock.Anything).Return(nil)
	ds.On("UpdateCommand", mock.Anything, mock.AnythingOfType("*model.Command")).
		Run(func(args mock.Arguments) {
			cmd := args.Get(1).(*model.Command)
			statuses = append(statuses, cmd.Status)
		}).
		Return(nil)

	mqttClient := &mqtt_mocks.Client{}
	mqttClient.On("Publish", mock.AnythingOfType("string"),
		mock.AnythingOfType("[]uint8")).Return(nil)

	clock := newTestClock()
	tracker := NewTracker(ds, NewTopicRouter("fleetpulse"),
		mqttClient, newTestFanout(), clock, time.Minute)

	ctx := context.Background()
	err := tracker.Dispatch(ctx, &model.Command{
		TenantID:      "tenant-1",
		DeviceID:      "device-1",
		CorrelationID: "corr-1",
		Type:          "reboot",
	})
	assert.NoError(t, err)

	tracker.Resolve(ctx, "tenant-1", &model.AckMessage{
		CorrelationID: "corr-1",
		Status:        model.AckStatusSuccess,
	})
	assert.Equal(t, []string{
		model.CommandStatusSent,
		model.CommandStatusAcked,
	}, statuses)

	// a second ack for the same correlation id is dropped
	tracker.Resolve(ctx, "tenant-1", &model.AckMessage{
		CorrelationID: "corr-1",
		Status:        model.AckStatusSuccess,
	})
	ds.AssertNumberOfCalls(t, "UpdateCommand", 2)
}

func TestTrackerResolveDuringDispatch(t *testing.T) {
	var statuses []string

	ds := &store_mocks.DataStore{}
	ds.On("InsertCommand", mock.Anything, mock.Anything).Return(nil)
	ds.On("UpdateCommand", mock.Anything, mock.AnythingOfType("*model.Command")).
		Run(func(args mock.Arguments) {
			cmd := args.Get(1).(*model.Command)
			statuses = append(statuses, cmd.Status)
		}).
		Return(nil)

	ctx := context.Background()
	var tracker *Tracker

	// the device acknowledges while the dispatch is still between the
	// publish and the sent stamp
	mqttClient := &mqtt_mocks.Client{}
	mqttClient.On("Publish", mock.AnythingOfType("string"),
		mock.AnythingOfType("[]uint8")).
		Run(func(_ mock.Arguments) {
			tracker.Resolve(ctx, "tenant-1", &model.AckMessage{
				CorrelationID: "corr-1",
				Status:        model.AckStatusSuccess,
			})
		}).
		Return(nil)

	tracker = NewTracker(ds, NewTopicRouter("fleetpulse"),
		mqttClient, newTestFanout(), newTestClock(), time.Minute)

	cmd := &model.Command{
		TenantID:      "tenant-1",
		DeviceID:      "device-1",
		CorrelationID: "corr-1",
		Type:          "reboot",
	}
	err := tracker.Dispatch(ctx, cmd)
	assert.NoError(t, err)

	// the terminal transition won; it is never overwritten backward and
	// exactly one transition is persisted
	assert.Equal(t, []string{model.CommandStatusAcked}, statuses)
	assert.Equal(t, model.CommandStatusAcked, cmd.Status)
	assert.NotNil(t, cmd.CompletedTS)
	assert.Nil(t, cmd.SentTS)
	ds.AssertNumberOfCalls(t, "UpdateCommand", 1)

	// a duplicate ack after the dispatch returned is dropped
	tracker.Resolve(ctx, "tenant-1", &model.AckMessage{
		CorrelationID: "corr-1",
		Status:        model.AckStatusSuccess,
	})
	ds.AssertNumberOfCalls(t, "UpdateCommand", 1)
}

func TestTrackerResolveError(t *testing.T) {
	var resolved *model.Command

	ds := &store_mocks.DataStore{}
	ds.On("InsertCommand", mock.Anything, mock.Anything).Return(nil)
	ds.On("UpdateCommand", mock.Anything, mock.AnythingOfType("*model.Command")).
		Run(func(args mock.Arguments) {
			cmd := args.Get(1).(*model.Command)
			if cmd.IsTerminal() {
				resolved = cmd
			}
		}).
		Return(nil)

	mqttClient := &mqtt_mocks.Client{}
	mqttClient.On("Publish", mock.AnythingOfType("string"),
		mock.AnythingOfType("[]uint8")).Return(nil)

	tracker := NewTracker(ds, NewTopicRouter("fleetpulse"),
		mqttClient, newTestFanout(), newTestClock(), time.Minute)

	ctx := context.Background()
	err := tracker.Dispatch(ctx, &model.Command{
		TenantID:      "tenant-1",
		DeviceID:      "device-1",
		CorrelationID: "corr-1",
		Type:          "set_config",
	})
	assert.NoError(t, err)

	tracker.Resolve(ctx, "tenant-1", &model.AckMessage{
		CorrelationID: "corr-1",
		Status:        model.AckStatusError,
		Error:         "unsupported parameter",
	})
	if assert.NotNil(t, resolved) {
		assert.Equal(t, model.CommandStatusFailed, resolved.Status)
		assert.Equal(t, "unsupported parameter", resolved.ErrorMessage)
		assert.NotNil(t, resolved.CompletedTS)
	}
}

func TestTrackerResolveUnknownCorrelation(t *testing.T) {
	ds := &store_mocks.DataStore{}
	tracker := NewTracker(ds, NewTopicRouter("fleetpulse"),
		&mqtt_mocks.Client{}, newTestFanout(), newTestClock(), time.Minute)

	// unknown acks are dropped without touching the store
	tracker.Resolve(context.Background(), "tenant-1", &model.AckMessage{
		CorrelationID: "corr-unknown",
		Status:        model.AckStatusSuccess,
	})
	ds.AssertExpectations(t)
}

func TestTrackerSweepTimeouts(t *testing.T) {
	var statuses []string

	ds := &store_mocks.DataStore{}
	ds.On("InsertCommand", mock.Anything, mock.Anything).Return(nil)
	ds.On("UpdateCommand", mock.Anything, mock.AnythingOfType("*model.Command")).
		Run(func(args mock.Arguments) {
			cmd := args.Get(1).(*model.Command)
			statuses = append(statuses, cmd.Status)
		}).
		Return(nil)

	mqttClient := &mqtt_mocks.Client{}
	mqttClient.On("Publish", mock.AnythingOfType("string"),
		mock.AnythingOfType("[]uint8")).Return(nil)

	clock := newTestClock()
	tracker := NewTracker(ds, NewTopicRouter("fleetpulse"),
		mqttClient, newTestFanout(), clock, time.Minute)

	ctx := context.Background()
	err := tracker.Dispatch(ctx, &model.Command{
		TenantID:      "tenant-1",
		DeviceID:      "device-1",
		CorrelationID: "corr-1",
		Type:          "reboot",
	})
	assert.NoError(t, err)

	// inside the wait window nothing expires
	tracker.SweepTimeouts(ctx)
	assert.Equal(t, []string{model.CommandStatusSent}, statuses)

	clock.Advance(2 * time.Minute)
	tracker.SweepTimeouts(ctx)
	assert.Equal(t, []string{
		model.CommandStatusSent,
		model.CommandStatusTimeout,
	}, statuses)

	// a late ack after the timeout is dropped, the first terminal
	// transition won
	tracker.Resolve(ctx, "tenant-1", &model.AckMessage{
		CorrelationID: "corr-1",
		Status:        model.AckStatusSuccess,
	})
	ds.AssertNumberOfCalls(t, "UpdateCommand", 2)
}
