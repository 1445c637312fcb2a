// Copyright 2026 Fleetpulse AS
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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	inboundMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devicehub_inbound_messages_total",
		Help: "Inbound device messages by class.",
	}, []string{"class"})

	droppedMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devicehub_dropped_messages_total",
		Help: "Inbound messages dropped at the ingestion boundary.",
	}, []string{"reason"})

	commandTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devicehub_command_transitions_total",
		Help: "Command status transitions.",
	}, []string{"status"})

	alertsFiredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devicehub_alerts_fired_total",
		Help: "Alerts fired by rule type.",
	}, []string{"type"})

	alertsResolvedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devicehub_alerts_resolved_total",
		Help: "Alerts resolved by rule type.",
	}, []string{"type"})

	eventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devicehub_events_published_total",
		Help: "Pipeline events published to the fanout bus.",
	}, []string{"type"})
)
