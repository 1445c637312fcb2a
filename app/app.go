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

package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/fleetpulse/devicehub/model"
	"github.com/fleetpulse/devicehub/store"
	"github.com/fleetpulse/devicehub/utils"
)

// App errors
var (
	ErrShadowNotFound    = errors.New("device shadow not found")
	ErrCommandNotFound   = errors.New("command not found")
	ErrAlertRuleNotFound = errors.New("alert rule not found")
	ErrAlertNotFound     = errors.New("alert not found")
)

// App interface describes app objects
//
//nolint:lll
//go:generate ../utils/mockgen.sh
type App interface {
	HealthCheck(ctx context.Context) error

	DispatchCommand(ctx context.Context, tenantID string, cmd *model.Command) (*model.Command, error)
	GetCommand(ctx context.Context, tenantID, commandID string) (*model.Command, error)
	GetDeviceCommands(ctx context.Context, tenantID, deviceID string) ([]model.Command, error)

	GetDeviceShadow(ctx context.Context, tenantID, deviceID string) (*model.DeviceShadow, error)

	CreateAlertRule(ctx context.Context, tenantID string, rule *model.AlertRule) (*model.AlertRule, error)
	GetAlertRules(ctx context.Context, tenantID string) ([]model.AlertRule, error)
	GetAlertRule(ctx context.Context, tenantID, ruleID string) (*model.AlertRule, error)
	UpdateAlertRule(ctx context.Context, tenantID string, rule *model.AlertRule) error
	DeleteAlertRule(ctx context.Context, tenantID, ruleID string) error

	GetAlerts(ctx context.Context, tenantID, status string) ([]model.Alert, error)
	AcknowledgeAlert(ctx context.Context, tenantID, alertID string) (*model.Alert, error)
	ResolveAlert(ctx context.Context, tenantID, alertID string) (*model.Alert, error)
}

// app is an app object
type app struct {
	store     store.DataStore
	tracker   *Tracker
	shadows   *ShadowCache
	evaluator *Evaluator
	clock     utils.Clock
}

// New initializes a new devicehub App
func New(
	ds store.DataStore,
	tracker *Tracker,
	shadows *ShadowCache,
	evaluator *Evaluator,
	clock utils.Clock,
) App {
	return &app{
		store:     ds,
		tracker:   tracker,
		shadows:   shadows,
		evaluator: evaluator,
		clock:     clock,
	}
}

// HealthCheck performs a health check and returns an error if it fails
func (a *app) HealthCheck(ctx context.Context) error {
	return a.store.Ping(ctx)
}

// DispatchCommand sends a command to a device and registers it for
// acknowledgment tracking
func (a *app) DispatchCommand(
	ctx context.Context,
	tenantID string,
	cmd *model.Command,
) (*model.Command, error) {
	cmd.TenantID = tenantID
	if err := a.tracker.Dispatch(ctx, cmd); err != nil {
		return nil, err
	}
	return cmd, nil
}

// GetCommand returns a command audit record
func (a *app) GetCommand(
	ctx context.Context,
	tenantID, commandID string,
) (*model.Command, error) {
	cmd, err := a.store.GetCommand(ctx, tenantID, commandID)
	if err == store.ErrNotFound {
		return nil, ErrCommandNotFound
	}
	return cmd, err
}

// GetDeviceCommands returns the command audit records of a device
func (a *app) GetDeviceCommands(
	ctx context.Context,
	tenantID, deviceID string,
) ([]model.Command, error) {
	return a.store.GetDeviceCommands(ctx, tenantID, deviceID)
}

// GetDeviceShadow returns the last-known state of a device
func (a *app) GetDeviceShadow(
	ctx context.Context,
	tenantID, deviceID string,
) (*model.DeviceShadow, error) {
	shadow, err := a.shadows.Get(ctx, tenantID, deviceID)
	if err == store.ErrNotFound {
		return nil, ErrShadowNotFound
	}
	return shadow, err
}

// CreateAlertRule stores a new rule and refreshes the tenant's snapshot
func (a *app) CreateAlertRule(
	ctx context.Context,
	tenantID string,
	rule *model.AlertRule,
) (*model.AlertRule, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	rule.ID = uuid.New().String()
	rule.TenantID = tenantID
	rule.AlertCount = 0
	rule.CreatedTS = a.clock.Now().UTC()
	if err := a.store.InsertAlertRule(ctx, rule); err != nil {
		return nil, err
	}
	a.evaluator.InvalidateRules(tenantID)
	return rule, nil
}

// GetAlertRules returns all rules of a tenant
func (a *app) GetAlertRules(ctx context.Context, tenantID string) ([]model.AlertRule, error) {
	return a.store.GetAlertRules(ctx, tenantID)
}

// GetAlertRule returns a rule
func (a *app) GetAlertRule(
	ctx context.Context,
	tenantID, ruleID string,
) (*model.AlertRule, error) {
	rule, err := a.store.GetAlertRule(ctx, tenantID, ruleID)
	if err == store.ErrNotFound {
		return nil, ErrAlertRuleNotFound
	}
	return rule, err
}

// UpdateAlertRule updates a rule and refreshes the tenant's snapshot.
// Disabling a rule stops new alerts; alerts it already created keep their
// lifecycle.
func (a *app) UpdateAlertRule(
	ctx context.Context,
	tenantID string,
	rule *model.AlertRule,
) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	rule.TenantID = tenantID
	rule.UpdatedTS = a.clock.Now().UTC()
	err := a.store.UpdateAlertRule(ctx, rule)
	if err == store.ErrNotFound {
		return ErrAlertRuleNotFound
	} else if err != nil {
		return err
	}
	a.evaluator.InvalidateRules(tenantID)
	return nil
}

// DeleteAlertRule deletes a rule and refreshes the tenant's snapshot
func (a *app) DeleteAlertRule(ctx context.Context, tenantID, ruleID string) error {
	err := a.store.DeleteAlertRule(ctx, tenantID, ruleID)
	if err == store.ErrNotFound {
		return ErrAlertRuleNotFound
	} else if err != nil {
		return err
	}
	a.evaluator.InvalidateRules(tenantID)
	return nil
}

// GetAlerts returns the alerts of a tenant, optionally filtered by status
func (a *app) GetAlerts(ctx context.Context, tenantID, status string) ([]model.Alert, error) {
	return a.store.GetAlerts(ctx, tenantID, status)
}

// AcknowledgeAlert transitions an alert from active to acknowledged
func (a *app) AcknowledgeAlert(
	ctx context.Context,
	tenantID, alertID string,
) (*model.Alert, error) {
	alert, err := a.evaluator.Acknowledge(ctx, tenantID, alertID)
	if errors.Cause(err) == store.ErrNotFound {
		return nil, ErrAlertNotFound
	}
	return alert, err
}

// ResolveAlert transitions an alert from active or acknowledged to resolved
func (a *app) ResolveAlert(
	ctx context.Context,
	tenantID, alertID string,
) (*model.Alert, error) {
	alert, err := a.evaluator.Resolve(ctx, tenantID, alertID)
	if errors.Cause(err) == store.ErrNotFound {
		return nil, ErrAlertNotFound
	}
	return alert, err
}
