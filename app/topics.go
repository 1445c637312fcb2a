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
	"strings"

	"github.com/pkg/errors"

	"github.com/fleetpulse/devicehub/model"
)

// ErrTopicParse marks a malformed inbound topic. The coordinator logs and
// drops the message; parse failures never propagate out of the pipeline.
var ErrTopicParse = errors.New("malformed topic")

const topicDevicesSegment = "devices"

// Address identifies the origin and class of one message on the device
// transport.
type Address struct {
	TenantID string
	DeviceID string
	Class    string
}

// TopicRouter translates between topic strings and addresses. The layout is
// fixed: <ns>/{tenantId}/devices/{deviceId}/{class}.
type TopicRouter struct {
	namespace string
}

// NewTopicRouter returns a topic router rooted at the given namespace.
func NewTopicRouter(namespace string) *TopicRouter {
	return &TopicRouter{namespace: namespace}
}

// ParseInbound parses a device-originated topic string.
func (r *TopicRouter) ParseInbound(topic string) (*Address, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 5 {
		return nil, errors.Wrapf(ErrTopicParse, "topic %q", topic)
	}
	for _, part := range parts {
		if part == "" {
			return nil, errors.Wrapf(ErrTopicParse, "topic %q", topic)
		}
	}
	if parts[0] != r.namespace || parts[2] != topicDevicesSegment {
		return nil, errors.Wrapf(ErrTopicParse, "topic %q", topic)
	}
	switch parts[4] {
	case model.MessageClassTelemetry, model.MessageClassAck, model.MessageClassStatus:
	default:
		return nil, errors.Wrapf(ErrTopicParse,
			"topic %q: unknown message class %q", topic, parts[4])
	}
	return &Address{
		TenantID: parts[1],
		DeviceID: parts[3],
		Class:    parts[4],
	}, nil
}

// RenderOutbound renders the topic string for server-originated publication.
func (r *TopicRouter) RenderOutbound(tenantID, deviceID, class string) string {
	return strings.Join([]string{
		r.namespace, tenantID, topicDevicesSegment, deviceID, class,
	}, "/")
}

// InboundWildcards returns the subscription patterns covering all device
// traffic, one per inbound message class.
func (r *TopicRouter) InboundWildcards() []string {
	classes := []string{
		model.MessageClassTelemetry,
		model.MessageClassAck,
		model.MessageClassStatus,
	}
	patterns := make([]string, 0, len(classes))
	for _, class := range classes {
		patterns = append(patterns, strings.Join([]string{
			r.namespace, "+", topicDevicesSegment, "+", class,
		}, "/"))
	}
	return patterns
}
