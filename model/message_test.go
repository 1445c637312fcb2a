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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTelemetryMessageValidate(t *testing.T) {
	msg := TelemetryMessage{}
	assert.Error(t, msg.Validate())

	err := json.Unmarshal(
		[]byte(`{"timestamp":"2025-06-01T12:00:00Z",`+
			`"data":{"temperature":21.5,"door":"open"}}`), &msg)
	assert.NoError(t, err)
	assert.NoError(t, msg.Validate())
	assert.Equal(t, 21.5, msg.Data["temperature"])
}

func TestAckMessageValidate(t *testing.T) {
	testCases := []struct {
		Name    string
		Message AckMessage

		Valid bool
	}{
		{
			Name: "ok, success",
			Message: AckMessage{
				CorrelationID: "corr-1",
				Status:        AckStatusSuccess,
			},
			Valid: true,
		},
		{
			Name: "ok, error with state",
			Message: AckMessage{
				CorrelationID: "corr-1",
				Status:        AckStatusError,
				Error:         "actuator jammed",
				State:         map[string]interface{}{"valve": "closed"},
			},
			Valid: true,
		},
		{
			Name: "ko, missing correlation id",
			Message: AckMessage{
				Status: AckStatusSuccess,
			},
		},
		{
			Name: "ko, unknown status",
			Message: AckMessage{
				CorrelationID: "corr-1",
				Status:        "done",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			err := tc.Message.Validate()
			if tc.Valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestStatusMessageValidate(t *testing.T) {
	assert.NoError(t, StatusMessage{Status: DeviceStatusOnline}.Validate())
	assert.NoError(t, StatusMessage{Status: DeviceStatusOffline}.Validate())
	assert.Error(t, StatusMessage{}.Validate())
	assert.Error(t, StatusMessage{Status: "sleeping"}.Validate())
}

func TestCommandValidate(t *testing.T) {
	assert.NoError(t, Command{
		DeviceID: "device-1",
		Type:     "reboot",
	}.Validate())
	assert.Error(t, Command{Type: "reboot"}.Validate())
	assert.Error(t, Command{DeviceID: "device-1"}.Validate())
	assert.Error(t, Command{
		DeviceID: "device-1",
		Type:     "reboot",
		Status:   "done",
	}.Validate())
}

func TestCommandIsTerminal(t *testing.T) {
	for status, terminal := range map[string]bool{
		CommandStatusPending: false,
		CommandStatusSent:    false,
		CommandStatusAcked:   true,
		CommandStatusFailed:  true,
		CommandStatusTimeout: true,
	} {
		cmd := &Command{Status: status}
		assert.Equal(t, terminal, cmd.IsTerminal(), status)
	}
}
