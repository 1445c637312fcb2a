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

func TestDeviceShadowCopy(t *testing.T) {
	shadow := &DeviceShadow{
		DeviceID: "device-1",
		TenantID: "tenant-1",
		Online:   true,
		State:    map[string]interface{}{"temperature": 21.5},
	}

	cp := shadow.Copy()
	cp.State["temperature"] = 30.0
	cp.State["door"] = "open"

	assert.Equal(t, 21.5, shadow.State["temperature"])
	assert.NotContains(t, shadow.State, "door")
}

func TestNormalizeFieldValue(t *testing.T) {
	testCases := []struct {
		In interface{}

		Out interface{}
		OK  bool
	}{
		{In: 21.5, Out: 21.5, OK: true},
		{In: float32(2), Out: 2.0, OK: true},
		{In: 21, Out: 21.0, OK: true},
		{In: int32(21), Out: 21.0, OK: true},
		{In: int64(21), Out: 21.0, OK: true},
		{In: json.Number("21.5"), Out: 21.5, OK: true},
		{In: true, Out: true, OK: true},
		{In: "open", Out: "open", OK: true},
		{In: []interface{}{1, 2}, OK: false},
		{In: map[string]interface{}{"a": 1}, OK: false},
		{In: nil, OK: false},
		{In: json.Number("not-a-number"), OK: false},
	}

	for _, tc := range testCases {
		out, ok := NormalizeFieldValue(tc.In)
		assert.Equal(t, tc.OK, ok, "%v", tc.In)
		if tc.OK {
			assert.Equal(t, tc.Out, out, "%v", tc.In)
		}
	}
}

func TestNumericFieldValue(t *testing.T) {
	state := map[string]interface{}{
		"temperature": 21.5,
		"door":        "open",
	}

	value, ok := NumericFieldValue(state, "temperature")
	assert.True(t, ok)
	assert.Equal(t, 21.5, value)

	_, ok = NumericFieldValue(state, "door")
	assert.False(t, ok)

	_, ok = NumericFieldValue(state, "missing")
	assert.False(t, ok)
}
