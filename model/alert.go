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
	"github.com/pkg/errors"
)

// Values for the alert rule type attribute
const (
	AlertRuleTypeThreshold     = "threshold"
	AlertRuleTypeDeviceOffline = "device_offline"
	AlertRuleTypeNoData        = "no_data"
)

// Comparison operators for threshold rules
const (
	OperatorGreater        = ">"
	OperatorLess           = "<"
	OperatorGreaterOrEqual = ">="
	OperatorLessOrEqual    = "<="
	OperatorEqual          = "=="
	OperatorNotEqual       = "!="
)

// Values for the alert status attribute. Status only advances
// active -> acknowledged -> resolved, or active -> resolved directly.
const (
	AlertStatusActive       = "active"
	AlertStatusAcknowledged = "acknowledged"
	AlertStatusResolved     = "resolved"
)

// AlertCondition holds the type-specific part of a rule. Threshold rules
// compare a numeric state field against a bound; no-data rules may override
// the global quiet window.
type AlertCondition struct {
	Metric        string  `json:"metric,omitempty" bson:"metric,omitempty"`
	Operator      string  `json:"operator,omitempty" bson:"operator,omitempty"`
	Value         float64 `json:"value,omitempty" bson:"value,omitempty"`
	WindowSeconds int     `json:"window_seconds,omitempty" bson:"window_seconds,omitempty"`
}

// Compare applies the condition's operator to a reported value.
func (c AlertCondition) Compare(v float64) bool {
	switch c.Operator {
	case OperatorGreater:
		return v > c.Value
	case OperatorLess:
		return v < c.Value
	case OperatorGreaterOrEqual:
		return v >= c.Value
	case OperatorLessOrEqual:
		return v <= c.Value
	case OperatorEqual:
		return v == c.Value
	case OperatorNotEqual:
		return v != c.Value
	}
	return false
}

// AlertRule is a tenant-authored alerting condition. A disabled rule is
// evaluated against no events.
type AlertRule struct {
	ID         string         `json:"id" bson:"_id"`
	TenantID   string         `json:"-" bson:"tenant_id"`
	Name       string         `json:"name" bson:"name"`
	Type       string         `json:"type" bson:"type"`
	Condition  AlertCondition `json:"condition" bson:"condition"`
	Enabled    bool           `json:"enabled" bson:"enabled"`
	AlertCount int64          `json:"alert_count" bson:"alert_count"`
	CreatedTS  time.Time      `json:"created_ts" bson:"created_ts"`
	UpdatedTS  time.Time      `json:"updated_ts" bson:"updated_ts,omitempty"`
}

func (r AlertRule) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Type, validation.Required, validation.In(
			AlertRuleTypeThreshold,
			AlertRuleTypeDeviceOffline,
			AlertRuleTypeNoData,
		)),
	)
	if err != nil {
		return err
	}
	// the condition shape must match the rule type
	switch r.Type {
	case AlertRuleTypeThreshold:
		return validation.ValidateStruct(&r.Condition,
			validation.Field(&r.Condition.Metric, validation.Required),
			validation.Field(&r.Condition.Operator, validation.Required,
				validation.In(
					OperatorGreater, OperatorLess,
					OperatorGreaterOrEqual, OperatorLessOrEqual,
					OperatorEqual, OperatorNotEqual,
				)),
		)
	case AlertRuleTypeNoData:
		if r.Condition.WindowSeconds < 0 {
			return errors.New("condition: window_seconds must not be negative")
		}
	}
	return nil
}

// Alert is an instance of a rule having fired for a device. At most one
// non-resolved alert exists per (rule, device) pair at a time.
type Alert struct {
	ID             string     `json:"id" bson:"_id"`
	TenantID       string     `json:"-" bson:"tenant_id"`
	RuleID         string     `json:"rule_id" bson:"rule_id"`
	RuleName       string     `json:"rule_name" bson:"rule_name"`
	RuleType       string     `json:"rule_type" bson:"rule_type"`
	DeviceID       string     `json:"device_id" bson:"device_id"`
	Status         string     `json:"status" bson:"status"`
	TriggeredTS    time.Time  `json:"triggered_ts" bson:"triggered_ts"`
	AcknowledgedTS *time.Time `json:"acknowledged_ts,omitempty" bson:"acknowledged_ts,omitempty"`
	ResolvedTS     *time.Time `json:"resolved_ts,omitempty" bson:"resolved_ts,omitempty"`
}

// IsOpen returns true while the alert still blocks re-triggering of its
// (rule, device) pair.
func (a *Alert) IsOpen() bool {
	return a.Status == AlertStatusActive || a.Status == AlertStatusAcknowledged
}
