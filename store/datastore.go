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

package store

import (
	"context"
	"errors"

	"github.com/fleetpulse/devicehub/model"
)

// DataStore interface for DataStore services
//
//nolint:lll - skip line length check for interface declaration.
//go:generate ../utils/mockgen.sh
type DataStore interface {
	Ping(ctx context.Context) error

	InsertCommand(ctx context.Context, cmd *model.Command) error
	UpdateCommand(ctx context.Context, cmd *model.Command) error
	GetCommand(ctx context.Context, tenantID, commandID string) (*model.Command, error)
	GetDeviceCommands(ctx context.Context, tenantID, deviceID string) ([]model.Command, error)

	UpsertDeviceShadow(ctx context.Context, shadow *model.DeviceShadow) error
	GetDeviceShadow(ctx context.Context, tenantID, deviceID string) (*model.DeviceShadow, error)
	GetDeviceShadows(ctx context.Context) ([]model.DeviceShadow, error)

	InsertAlertRule(ctx context.Context, rule *model.AlertRule) error
	UpdateAlertRule(ctx context.Context, rule *model.AlertRule) error
	DeleteAlertRule(ctx context.Context, tenantID, ruleID string) error
	GetAlertRule(ctx context.Context, tenantID, ruleID string) (*model.AlertRule, error)
	GetAlertRules(ctx context.Context, tenantID string) ([]model.AlertRule, error)
	IncrementAlertCount(ctx context.Context, tenantID, ruleID string) error

	InsertAlert(ctx context.Context, alert *model.Alert) error
	UpdateAlert(ctx context.Context, alert *model.Alert) error
	GetAlert(ctx context.Context, tenantID, alertID string) (*model.Alert, error)
	GetAlerts(ctx context.Context, tenantID, status string) ([]model.Alert, error)
	GetOpenAlerts(ctx context.Context, tenantID string) ([]model.Alert, error)

	Close() error
}

var (
	// ErrNotFound is returned on lookups of unknown documents
	ErrNotFound = errors.New("store: not found")
)
