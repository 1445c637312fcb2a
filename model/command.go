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

// Values for the command status attribute. Status only advances forward:
// pending -> sent -> {acked, failed, timeout}. The three terminal states
// are absorbing.
const (
	CommandStatusPending = "pending"
	CommandStatusSent    = "sent"
	CommandStatusAcked   = "acked"
	CommandStatusFailed  = "failed"
	CommandStatusTimeout = "timeout"
)

// Command represents one directive sent to a device and its lifecycle record.
// The correlation id links the outbound publication to the eventual
// acknowledgment; it is unique among commands in flight for the tenant.
type Command struct {
	ID            string                 `json:"id" bson:"_id"`
	TenantID      string                 `json:"-" bson:"tenant_id"`
	DeviceID      string                 `json:"device_id" bson:"device_id"`
	CorrelationID string                 `json:"correlation_id" bson:"correlation_id"`
	Type          string                 `json:"type" bson:"type"`
	Payload       map[string]interface{} `json:"payload,omitempty" bson:"payload,omitempty"`
	Status        string                 `json:"status" bson:"status"`
	ErrorMessage  string                 `json:"error,omitempty" bson:"error,omitempty"`
	CreatedTS     time.Time              `json:"created_ts" bson:"created_ts"`
	SentTS        *time.Time             `json:"sent_ts,omitempty" bson:"sent_ts,omitempty"`
	CompletedTS   *time.Time             `json:"completed_ts,omitempty" bson:"completed_ts,omitempty"`
}

func (cmd Command) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.DeviceID, validation.Required),
		validation.Field(&cmd.Type, validation.Required),
		validation.Field(&cmd.Status, validation.In(
			CommandStatusPending, CommandStatusSent, CommandStatusAcked,
			CommandStatusFailed, CommandStatusTimeout,
		)),
	)
}

// IsTerminal returns true when the command reached an absorbing status and
// must never be mutated again.
func (cmd *Command) IsTerminal() bool {
	switch cmd.Status {
	case CommandStatusAcked, CommandStatusFailed, CommandStatusTimeout:
		return true
	}
	return false
}
