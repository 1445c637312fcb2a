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

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	mqtt_mocks "github.com/fleetpulse/devicehub/client/mqtt/mocks"
	"github.com/fleetpulse/devicehub/model"
	"github.com/fleetpulse/devicehub/store"
	store_mocks "github.com/fleetpulse/devicehub/store/mocks"
)

// testMessage implements the paho message interface for handler tests.
type testMessage struct {
	topic   string
	payload []byte
}

func (m *testMessage) Duplicate() bool   { return false }
func (m *testMessage) Qos() byte         { return 1 }
func (m *testMessage) Retained() bool    { return false }
func (m *testMessage) Topic() string     { return m.topic }
func (m *testMessage) MessageID() uint16 { return 0 }
func (m *testMessage) Payload() []byte   { return m.payload }
func (m *testMessage) Ack()              {}

type pipelineFixture struct {
	pipeline *Pipeline
	tracker  *Tracker
	shadows  *ShadowCache
	ds       *store_mocks.DataStore
	mqtt     *mqtt_mocks.Client
	clock    *testClock
	handlers map[string]pahomqtt.MessageHandler

	mu             sync.Mutex
	commandUpdates []model.Command
}

func (f *pipelineFixture) lastCommandStatus() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.commandUpdates) == 0 {
		return ""
	}
	return f.commandUpdates[len(f.commandUpdates)-1].Status
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	f := &pipelineFixture{
		ds:       &store_mocks.DataStore{},
		mqtt:     &mqtt_mocks.Client{},
		clock:    newTestClock(),
		handlers: make(map[string]pahomqtt.MessageHandler),
	}
	f.ds.On("InsertCommand", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.ds.On("UpdateCommand", mock.Anything, mock.AnythingOfType("*model.Command")).
		Run(func(args mock.Arguments) {
			f.mu.Lock()
			f.commandUpdates = append(f.commandUpdates,
				*args.Get(1).(*model.Command))
			f.mu.Unlock()
		}).
		Return(nil).Maybe()
	f.ds.On("UpsertDeviceShadow", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.ds.On("GetDeviceShadow", mock.Anything, mock.AnythingOfType("string"),
		mock.AnythingOfType("string")).Return(nil, store.ErrNotFound).Maybe()
	f.ds.On("GetDeviceShadows", mock.Anything).
		Return([]model.DeviceShadow{}, nil).Maybe()
	f.ds.On("GetAlertRules", mock.Anything, mock.AnythingOfType("string")).
		Return([]model.AlertRule{}, nil).Maybe()
	f.ds.On("GetOpenAlerts", mock.Anything, mock.AnythingOfType("string")).
		Return([]model.Alert{}, nil).Maybe()

	f.mqtt.On("Publish", mock.AnythingOfType("string"),
		mock.AnythingOfType("[]uint8")).Return(nil).Maybe()
	f.mqtt.On("Subscribe", mock.AnythingOfType("string"), mock.Anything).
		Run(func(args mock.Arguments) {
			topic := args.Get(0).(string)
			f.handlers[topic] = args.Get(1).(pahomqtt.MessageHandler)
		}).
		Return(nil)

	fanout := newTestFanout()
	router := NewTopicRouter("fleetpulse")
	f.shadows = NewShadowCache(f.ds, fanout, f.clock)
	evaluator := NewEvaluator(f.ds, fanout, f.clock, 5*time.Minute, time.Minute)
	f.tracker = NewTracker(f.ds, router, f.mqtt, fanout, f.clock, time.Minute)
	f.pipeline = NewPipeline(router, f.tracker, f.shadows, evaluator, f.mqtt,
		PipelineConfig{
			Workers:              4,
			CommandSweepInterval: time.Minute,
			NoDataSweepInterval:  time.Minute,
		})

	err := f.pipeline.Start(context.Background())
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	t.Cleanup(f.pipeline.Stop)
	return f
}

// inject feeds one message through the wildcard handler covering its class.
func (f *pipelineFixture) inject(t *testing.T, topic string, payload []byte) {
	router := NewTopicRouter("fleetpulse")
	address, err := router.ParseInbound(topic)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	pattern := "fleetpulse/+/devices/+/" + address.Class
	handler, ok := f.handlers[pattern]
	if !assert.True(t, ok, "no subscription for %s", pattern) {
		t.FailNow()
	}
	handler(nil, &testMessage{topic: topic, payload: payload})
}

func TestPipelineSubscribes(t *testing.T) {
	f := newPipelineFixture(t)
	assert.Contains(t, f.handlers, "fleetpulse/+/devices/+/telemetry")
	assert.Contains(t, f.handlers, "fleetpulse/+/devices/+/ack")
	assert.Contains(t, f.handlers, "fleetpulse/+/devices/+/status")
}

func TestPipelineWarmsShadows(t *testing.T) {
	clock := newTestClock()
	lastSeen := clock.Now().Add(-time.Hour)

	ds := &store_mocks.DataStore{}
	ds.On("GetDeviceShadows", mock.Anything).Return([]model.DeviceShadow{
		{
			DeviceID: "device-1",
			TenantID: "tenant-1",
			LastSeen: lastSeen,
			State:    map[string]interface{}{"temperature": 19.0},
		},
	}, nil)

	mqttClient := &mqtt_mocks.Client{}
	mqttClient.On("Subscribe", mock.AnythingOfType("string"), mock.Anything).
		Return(nil)

	fanout := newTestFanout()
	router := NewTopicRouter("fleetpulse")
	shadows := NewShadowCache(ds, fanout, clock)
	evaluator := NewEvaluator(ds, fanout, clock, 5*time.Minute, time.Minute)
	tracker := NewTracker(ds, router, mqttClient, fanout, clock, time.Minute)
	pipeline := NewPipeline(router, tracker, shadows, evaluator, mqttClient,
		PipelineConfig{
			Workers:              1,
			CommandSweepInterval: time.Minute,
			NoDataSweepInterval:  time.Minute,
		})

	err := pipeline.Start(context.Background())
	assert.NoError(t, err)
	t.Cleanup(pipeline.Stop)

	// the stored shadow is visible to the no-data sweep without the device
	// sending anything first
	snapshot := shadows.Snapshot()
	if assert.Len(t, snapshot, 1) {
		assert.Equal(t, "device-1", snapshot[0].DeviceID)
		assert.Equal(t, lastSeen, snapshot[0].LastSeen)
	}
	ds.AssertExpectations(t)
}

func TestPipelineTelemetryFlow(t *testing.T) {
	f := newPipelineFixture(t)

	f.inject(t, "fleetpulse/tenant-1/devices/device-1/telemetry",
		[]byte(`{"data":{"temperature":21.5,"door":"open"}}`))

	assert.Eventually(t, func() bool {
		shadow, err := f.shadows.Get(context.Background(),
			"tenant-1", "device-1")
		return err == nil && shadow.Online &&
			shadow.State["temperature"] == 21.5 &&
			shadow.State["door"] == "open"
	}, time.Second, 5*time.Millisecond)
}

func TestPipelineStatusFlow(t *testing.T) {
	f := newPipelineFixture(t)

	f.inject(t, "fleetpulse/tenant-1/devices/device-1/status",
		[]byte(`{"status":"online"}`))
	assert.Eventually(t, func() bool {
		shadow, err := f.shadows.Get(context.Background(),
			"tenant-1", "device-1")
		return err == nil && shadow.Online
	}, time.Second, 5*time.Millisecond)

	f.inject(t, "fleetpulse/tenant-1/devices/device-1/status",
		[]byte(`{"status":"offline"}`))
	assert.Eventually(t, func() bool {
		shadow, err := f.shadows.Get(context.Background(),
			"tenant-1", "device-1")
		return err == nil && !shadow.Online
	}, time.Second, 5*time.Millisecond)
}

func TestPipelineAckFlow(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	cmd := &model.Command{
		TenantID:      "tenant-1",
		DeviceID:      "device-1",
		CorrelationID: "corr-1",
		Type:          "set_config",
	}
	err := f.tracker.Dispatch(ctx, cmd)
	assert.NoError(t, err)

	f.inject(t, "fleetpulse/tenant-1/devices/device-1/ack",
		[]byte(`{"correlationId":"corr-1","status":"success",`+
			`"state":{"config_version":2}}`))

	// the ack completes the command and its state snapshot merges into
	// the shadow
	assert.Eventually(t, func() bool {
		return f.lastCommandStatus() == model.CommandStatusAcked
	}, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		shadow, err := f.shadows.Get(ctx, "tenant-1", "device-1")
		return err == nil && shadow.State["config_version"] == 2.0
	}, time.Second, 5*time.Millisecond)
}

func TestPipelineDropsMalformed(t *testing.T) {
	f := newPipelineFixture(t)

	// unparseable topics never reach a worker
	handler := f.handlers["fleetpulse/+/devices/+/telemetry"]
	handler(nil, &testMessage{
		topic:   "fleetpulse/tenant-1/devices/device-1/telemetry/extra",
		payload: []byte(`{"data":{"temperature":1}}`),
	})

	// invalid payloads are dropped in the worker
	f.inject(t, "fleetpulse/tenant-1/devices/device-1/telemetry",
		[]byte(`{not json`))
	f.inject(t, "fleetpulse/tenant-1/devices/device-1/telemetry",
		[]byte(`{"timestamp":"2025-06-01T12:00:00Z"}`))

	time.Sleep(50 * time.Millisecond)
	_, err := f.shadows.Get(context.Background(), "tenant-1", "device-1")
	assert.Error(t, err)
}
