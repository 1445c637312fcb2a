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
	"hash/fnv"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/mendersoftware/go-lib-micro/log"
	"github.com/pkg/errors"

	"github.com/fleetpulse/devicehub/client/mqtt"
	"github.com/fleetpulse/devicehub/model"
)

const partitionQueueSize = 256

// PipelineConfig carries the coordinator's tunables.
type PipelineConfig struct {
	// Workers is the number of partition workers. Messages are keyed by
	// (tenant, device), so all traffic of one device is serialized on one
	// worker while other devices proceed in parallel.
	Workers int
	// CommandSweepInterval is the cadence of the command timeout sweep.
	CommandSweepInterval time.Duration
	// NoDataSweepInterval is the cadence of the no-data alert sweep.
	NoDataSweepInterval time.Duration
}

type inboundMessage struct {
	address *Address
	payload []byte
}

// Pipeline wires the device transport into the shadow cache, the command
// tracker, the rule evaluator and the fanout bridge. One inbound flow:
// transport -> router -> {shadow, tracker} -> evaluator -> fanout. The
// outbound flow (dispatch) is driven by the API through the tracker.
type Pipeline struct {
	router    *TopicRouter
	tracker   *Tracker
	shadows   *ShadowCache
	evaluator *Evaluator
	mqtt      mqtt.Client
	config    PipelineConfig

	partitions []chan inboundMessage
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewPipeline returns a stopped pipeline.
func NewPipeline(
	router *TopicRouter,
	tracker *Tracker,
	shadows *ShadowCache,
	evaluator *Evaluator,
	mqttClient mqtt.Client,
	config PipelineConfig,
) *Pipeline {
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Pipeline{
		router:    router,
		tracker:   tracker,
		shadows:   shadows,
		evaluator: evaluator,
		mqtt:      mqttClient,
		config:    config,
	}
}

// Start spawns the partition workers and the periodic sweeps, and
// subscribes the inbound wildcards on the transport.
func (p *Pipeline) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	// devices silent since before the restart must still be visible to the
	// no-data sweep
	if err := p.shadows.Warm(ctx); err != nil {
		log.FromContext(ctx).Warnf(
			"failed to warm the shadow cache: %s", err.Error())
	}

	p.partitions = make([]chan inboundMessage, p.config.Workers)
	for i := range p.partitions {
		queue := make(chan inboundMessage, partitionQueueSize)
		p.partitions[i] = queue
		p.wg.Add(1)
		go p.runWorker(ctx, queue)
	}

	p.wg.Add(2)
	go p.runSweep(ctx, p.config.CommandSweepInterval, p.tracker.SweepTimeouts)
	go p.runSweep(ctx, p.config.NoDataSweepInterval, func(ctx context.Context) {
		p.evaluator.SweepNoData(ctx, p.shadows.Snapshot())
	})

	for _, pattern := range p.router.InboundWildcards() {
		if err := p.mqtt.Subscribe(pattern, p.handleInbound(ctx)); err != nil {
			p.Stop()
			return errors.Wrap(err, "failed to subscribe to device traffic")
		}
	}
	return nil
}

// Stop drains the workers and sweeps. The transport client is closed by
// its owner.
func (p *Pipeline) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

// handleInbound demultiplexes one transport message onto its partition.
// Malformed topics are logged and dropped, never fatal.
func (p *Pipeline) handleInbound(ctx context.Context) mqtt.MessageHandler {
	l := log.FromContext(ctx)
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		address, err := p.router.ParseInbound(msg.Topic())
		if err != nil {
			l.Warnf("discarding message: %s", err.Error())
			droppedMessagesTotal.WithLabelValues("malformed_topic").Inc()
			return
		}
		inboundMessagesTotal.WithLabelValues(address.Class).Inc()

		queue := p.partitions[p.partition(address)]
		select {
		case queue <- inboundMessage{address: address, payload: msg.Payload()}:
		case <-ctx.Done():
		}
	}
}

// partition maps a device to its worker; all messages of one device land on
// the same queue in arrival order.
func (p *Pipeline) partition(address *Address) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(address.TenantID))
	_, _ = h.Write([]byte{'/'})
	_, _ = h.Write([]byte(address.DeviceID))
	return int(h.Sum32() % uint32(len(p.partitions)))
}

func (p *Pipeline) runWorker(ctx context.Context, queue chan inboundMessage) {
	defer p.wg.Done()
	for {
		select {
		case msg := <-queue:
			p.handleMessage(ctx, msg)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Pipeline) runSweep(
	ctx context.Context,
	interval time.Duration,
	sweep func(context.Context),
) {
	defer p.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Pipeline) handleMessage(ctx context.Context, msg inboundMessage) {
	l := log.FromContext(ctx)
	address := msg.address

	switch address.Class {
	case model.MessageClassTelemetry:
		telemetry := &model.TelemetryMessage{}
		if err := decodeMessage(msg.payload, telemetry); err != nil {
			l.Warnf("discarding telemetry from device %s: %s",
				address.DeviceID, err.Error())
			droppedMessagesTotal.WithLabelValues("invalid_payload").Inc()
			return
		}
		change := p.shadows.ApplyTelemetry(ctx,
			address.TenantID, address.DeviceID,
			telemetry.Data, telemetry.Timestamp)
		p.evaluator.ProcessStateChange(ctx, change)

	case model.MessageClassStatus:
		status := &model.StatusMessage{}
		if err := decodeMessage(msg.payload, status); err != nil {
			l.Warnf("discarding status report from device %s: %s",
				address.DeviceID, err.Error())
			droppedMessagesTotal.WithLabelValues("invalid_payload").Inc()
			return
		}
		change := p.shadows.ApplyStatus(ctx,
			address.TenantID, address.DeviceID,
			status.Status, status.Timestamp)
		p.evaluator.ProcessStateChange(ctx, change)

	case model.MessageClassAck:
		ack := &model.AckMessage{}
		if err := decodeMessage(msg.payload, ack); err != nil {
			l.Warnf("discarding ack from device %s: %s",
				address.DeviceID, err.Error())
			droppedMessagesTotal.WithLabelValues("invalid_payload").Inc()
			return
		}
		p.tracker.Resolve(ctx, address.TenantID, ack)
		// an ack proves liveness; its optional state snapshot merges
		// like telemetry
		change := p.shadows.ApplyTelemetry(ctx,
			address.TenantID, address.DeviceID,
			ack.State, ack.Timestamp)
		p.evaluator.ProcessStateChange(ctx, change)
	}
}

type validator interface {
	Validate() error
}

func decodeMessage(payload []byte, msg validator) error {
	if err := json.Unmarshal(payload, msg); err != nil {
		return errors.Wrap(err, "malformed payload")
	}
	return msg.Validate()
}
