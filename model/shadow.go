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
	"time"
)

// DeviceShadow is the platform's cached, merged view of a device's
// last-reported state. State keys are not known in advance; values are
// scalar (number, boolean or string). Telemetry merges per field and never
// deletes fields absent from a payload.
type DeviceShadow struct {
	DeviceID  string                 `json:"device_id" bson:"device_id"`
	TenantID  string                 `json:"-" bson:"tenant_id"`
	Online    bool                   `json:"online" bson:"online"`
	LastSeen  time.Time              `json:"last_seen" bson:"last_seen"`
	State     map[string]interface{} `json:"state" bson:"state"`
	UpdatedTS time.Time              `json:"updated_ts" bson:"updated_ts"`
}

// Copy returns a deep copy of the shadow, safe to hand to other goroutines.
func (s *DeviceShadow) Copy() *DeviceShadow {
	cp := *s
	cp.State = make(map[string]interface{}, len(s.State))
	for k, v := range s.State {
		cp.State[k] = v
	}
	return &cp
}

// NormalizeFieldValue coerces a reported value to the supported scalar
// variants. Non-scalar values are rejected.
func NormalizeFieldValue(v interface{}) (interface{}, bool) {
	switch val := v.(type) {
	case float64, bool, string:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil, false
		}
		return f, true
	}
	return nil, false
}

// NumericFieldValue extracts a state field as a number, for threshold
// evaluation.
func NumericFieldValue(state map[string]interface{}, key string) (float64, bool) {
	raw, ok := state[key]
	if !ok {
		return 0, false
	}
	norm, ok := NormalizeFieldValue(raw)
	if !ok {
		return 0, false
	}
	f, ok := norm.(float64)
	return f, ok
}
