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

func TestGetEventsSubject(t *testing.T) {
	assert.Equal(t, "events.tenant-1", GetEventsSubject("tenant-1"))
	assert.Equal(t, "events", GetEventsSubject(""))
}

func TestEventJSONHidesTenant(t *testing.T) {
	data, err := json.Marshal(&Event{
		Type:     EventTypeDeviceState,
		TenantID: "tenant-1",
		DeviceID: "device-1",
	})
	assert.NoError(t, err)

	// the tenant id stays internal, subscribers are already scoped to it
	decoded := map[string]interface{}{}
	_ = json.Unmarshal(data, &decoded)
	assert.NotContains(t, decoded, "tenant_id")
	assert.Equal(t, "device-1", decoded["device_id"])
}
