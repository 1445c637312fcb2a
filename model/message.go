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
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Message classes carried in the device topic layout. The first three are
// device-originated, command is server-originated.
const (
	MessageClassTelemetry = "telemetry"
	MessageClassAck       = "ack"
	MessageClassStatus    = "status"
	MessageClassCommand   = "command"
)

// Values for the ack message status field
const (
	AckStatusSuccess = "success"
	AckStatusError   = "error"
)

// Values for the status message status field. The offline value is also
// published by the broker as the device's last will when a connection drops
// uncleanly.
const (
	DeviceStatusOnline  = "online"
	DeviceStatusOffline = "offline"
)

// TelemetryMessage is the device-originated telemetry payload.
type TelemetryMessage struct {
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func (m TelemetryMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Data, validation.Required),
	)
}

// AckMessage is the device-originated acknowledgment of a command. The
// optional state snapshot reports the fields the command changed.
type AckMessage struct {
	CorrelationID string                 `json:"correlationId"`
	Status        string                 `json:"status"`
	Error         string                 `json:"error,omitempty"`
	State         map[string]interface{} `json:"state,omitempty"`
	Timestamp     time.Time              `json:"timestamp"`
}

func (m AckMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.CorrelationID, validation.Required),
		validation.Field(&m.Status, validation.Required,
			validation.In(AckStatusSuccess, AckStatusError)),
	)
}

// StatusMessage is the device-originated (or broker-retained) liveness report.
type StatusMessage struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func (m StatusMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Status, validation.Required,
			validation.In(DeviceStatusOnline, DeviceStatusOffline)),
	)
}

// CommandMessage is the server-originated command payload published to the
// device's command topic.
type CommandMessage struct {
	CorrelationID string                 `json:"correlationId"`
	Type          string                 `json:"type"`
	Payload       map[string]interface{} `json:"payload,omitempty"`
	Timestamp     time.Time              `json:"timestamp"`
}
