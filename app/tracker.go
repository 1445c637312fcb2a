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
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mendersoftware/go-lib-micro/log"
	"github.com/pkg/errors"

	"github.com/fleetpulse/devicehub/client/mqtt"
	"github.com/fleetpulse/devicehub/model"
	"github.com/fleetpulse/devicehub/store"
	"github.com/fleetpulse/devicehub/utils"
)

// Tracker errors
var (
	// ErrDuplicateCorrelation rejects a dispatch reusing the correlation id
	// of a command still in flight for the tenant
	ErrDuplicateCorrelation = errors.New("correlation id already in flight")
	// ErrPublishFailure reports a transport rejection; the command stays
	// pending and the caller may retry the dispatch
	ErrPublishFailure = errors.New("failed to publish command")
)

// Tracker owns the lifecycle of outbound commands from dispatch through
// acknowledgment or timeout. The first terminal transition wins: a resolve
// racing the timeout sweep on the same command is a no-op for the loser.
type Tracker struct {
	store  store.DataStore
	router *TopicRouter
	mqtt   mqtt.Client
	fanout *Fanout
	clock  utils.Clock

	timeout time.Duration

	mu          sync.Mutex
	outstanding map[string]*model.Command
}

// NewTracker returns a tracker with no commands in flight.
func NewTracker(
	ds store.DataStore,
	router *TopicRouter,
	mqttClient mqtt.Client,
	fanout *Fanout,
	clock utils.Clock,
	timeout time.Duration,
) *Tracker {
	return &Tracker{
		store:       ds,
		router:      router,
		mqtt:        mqttClient,
		fanout:      fanout,
		clock:       clock,
		timeout:     timeout,
		outstanding: make(map[string]*model.Command),
	}
}

func correlationKey(tenantID, correlationID string) string {
	return strings.Join([]string{tenantID, correlationID}, "/")
}

// Dispatch registers the command, publishes it to the device's command
// topic and starts its ack wait window. Missing ids are generated.
func (t *Tracker) Dispatch(ctx context.Context, cmd *model.Command) error {
	l := log.FromContext(ctx)

	if err := cmd.Validate(); err != nil {
		return err
	}
	if cmd.ID == "" {
		cmd.ID = uuid.New().String()
	}
	if cmd.CorrelationID == "" {
		cmd.CorrelationID = uuid.New().String()
	}
	now := t.clock.Now().UTC()
	cmd.Status = model.CommandStatusPending
	cmd.CreatedTS = now

	key := correlationKey(cmd.TenantID, cmd.CorrelationID)
	t.mu.Lock()
	if _, ok := t.outstanding[key]; ok {
		t.mu.Unlock()
		return errors.Wrapf(ErrDuplicateCorrelation,
			"correlation id %s", cmd.CorrelationID)
	}
	t.outstanding[key] = cmd
	t.mu.Unlock()

	// persistence of the audit record is eventual, a failure must not
	// abort the dispatch
	if err := t.store.InsertCommand(ctx, cmd); err != nil {
		l.Warnf("failed to persist command %s: %s", cmd.ID, err.Error())
	}

	message := model.CommandMessage{
		CorrelationID: cmd.CorrelationID,
		Type:          cmd.Type,
		Payload:       cmd.Payload,
		Timestamp:     now,
	}
	data, err := json.Marshal(message)
	if err != nil {
		t.removeOutstanding(key)
		return errors.Wrap(err, "failed to encode command")
	}
	topic := t.router.RenderOutbound(cmd.TenantID, cmd.DeviceID, model.MessageClassCommand)
	if err := t.mqtt.Publish(topic, data); err != nil {
		// the command stays pending in the audit trail; the caller owns
		// the retry and the correlation id is released for it
		t.removeOutstanding(key)
		l.Errorf("failed to publish command %s to %s: %s",
			cmd.ID, topic, err.Error())
		return errors.Wrap(ErrPublishFailure, err.Error())
	}

	sentTS := t.clock.Now().UTC()
	t.mu.Lock()
	if cmd.IsTerminal() {
		// the device acknowledged before the sent stamp was applied; the
		// terminal transition already persisted and fanned out, status
		// never moves backward
		t.mu.Unlock()
		return nil
	}
	cmd.Status = model.CommandStatusSent
	cmd.SentTS = &sentTS
	snapshot := *cmd
	t.mu.Unlock()

	if err := t.store.UpdateCommand(ctx, &snapshot); err != nil {
		l.Warnf("failed to persist command %s: %s", cmd.ID, err.Error())
	}
	commandTransitionsTotal.WithLabelValues(model.CommandStatusSent).Inc()
	t.fanout.CommandStatusChanged(ctx, &snapshot)
	return nil
}

// Resolve applies a device acknowledgment to the in-flight command matching
// its correlation id. Unknown and late acks are expected under retries and
// network jitter; they are logged and dropped, never an error.
func (t *Tracker) Resolve(ctx context.Context, tenantID string, ack *model.AckMessage) {
	l := log.FromContext(ctx)

	key := correlationKey(tenantID, ack.CorrelationID)
	now := t.clock.Now().UTC()

	t.mu.Lock()
	cmd, ok := t.outstanding[key]
	if !ok || cmd.IsTerminal() {
		t.mu.Unlock()
		l.Debugf("dropping ack for unknown or completed correlation id %s",
			ack.CorrelationID)
		return
	}
	if ack.Status == model.AckStatusSuccess {
		cmd.Status = model.CommandStatusAcked
	} else {
		cmd.Status = model.CommandStatusFailed
		cmd.ErrorMessage = ack.Error
	}
	cmd.CompletedTS = &now
	delete(t.outstanding, key)
	snapshot := *cmd
	t.mu.Unlock()

	if err := t.store.UpdateCommand(ctx, &snapshot); err != nil {
		l.Warnf("failed to persist command %s: %s", snapshot.ID, err.Error())
	}
	commandTransitionsTotal.WithLabelValues(snapshot.Status).Inc()
	t.fanout.CommandStatusChanged(ctx, &snapshot)
}

// SweepTimeouts transitions every sent command whose wait window elapsed to
// timeout. Exactly one terminal transition is emitted per command even when
// an ack arrives concurrently.
func (t *Tracker) SweepTimeouts(ctx context.Context) {
	l := log.FromContext(ctx)
	now := t.clock.Now().UTC()

	var expired []model.Command
	t.mu.Lock()
	for key, cmd := range t.outstanding {
		if cmd.Status != model.CommandStatusSent {
			continue
		}
		if cmd.SentTS == nil || now.Sub(*cmd.SentTS) < t.timeout {
			continue
		}
		cmd.Status = model.CommandStatusTimeout
		cmd.CompletedTS = &now
		delete(t.outstanding, key)
		expired = append(expired, *cmd)
	}
	t.mu.Unlock()

	for i := range expired {
		cmd := &expired[i]
		l.Infof("command %s to device %s timed out", cmd.ID, cmd.DeviceID)
		if err := t.store.UpdateCommand(ctx, cmd); err != nil {
			l.Warnf("failed to persist command %s: %s", cmd.ID, err.Error())
		}
		commandTransitionsTotal.WithLabelValues(model.CommandStatusTimeout).Inc()
		t.fanout.CommandStatusChanged(ctx, cmd)
	}
}

func (t *Tracker) removeOutstanding(key string) {
	t.mu.Lock()
	delete(t.outstanding, key)
	t.mu.Unlock()
}
