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

package model

import (
	"strings"
	"time"
)

// Values for the event type attribute
const (
	EventTypeDeviceState   = "device_state_changed"
	EventTypeCommandStatus = "command_status_changed"
	EventTypeAlert         = "alert_changed"
)

// GetEventsSubject returns the internal bus subject carrying a tenant's
// pipeline events. Subscribers are scoped to exactly one tenant.
func GetEventsSubject(tenantID string) string {
	if tenantID == "" {
		return "events"
	}
	return strings.Join([]string{"events", tenantID}, ".")
}

// Event is the envelope fanned out to realtime subscribers. Exactly one of
// Shadow, Command or Alert is set, matching Type.
type Event struct {
	Type      string        `json:"type" msgpack:"type"`
	TenantID  string        `json:"-" msgpack:"tenant_id"`
	DeviceID  string        `json:"device_id,omitempty" msgpack:"device_id,omitempty"`
	Shadow    *DeviceShadow `json:"shadow,omitempty" msgpack:"shadow,omitempty"`
	Command   *Command      `json:"command,omitempty" msgpack:"command,omitempty"`
	Alert     *Alert        `json:"alert,omitempty" msgpack:"alert,omitempty"`
	Timestamp time.Time     `json:"timestamp" msgpack:"timestamp"`
}
