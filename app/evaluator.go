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
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mendersoftware/go-lib-micro/log"
	"github.com/pkg/errors"

	"github.com/fleetpulse/devicehub/model"
	"github.com/fleetpulse/devicehub/store"
	"github.com/fleetpulse/devicehub/utils"
)

// ErrInvalidTransition rejects an alert status change from a wrong source
// state; the original state is left unchanged.
var ErrInvalidTransition = errors.New("invalid alert status transition")

type ruleSnapshot struct {
	rules     []model.AlertRule
	fetchedTS time.Time
}

// Evaluator runs tenant rules against shadow updates and liveness
// transitions. Rule sets are served from per-tenant immutable snapshots
// refreshed on rule mutation or snapshot expiry. At most one open alert
// exists per (rule, device) pair; the open set is rebuilt lazily from the
// store after a restart.
type Evaluator struct {
	store  store.DataStore
	fanout *Fanout
	clock  utils.Clock

	nodataWindow time.Duration
	cacheTTL     time.Duration

	mu     sync.Mutex
	rules  map[string]*ruleSnapshot
	open   map[string]*model.Alert
	warmed map[string]bool
}

// NewEvaluator returns an evaluator with cold caches.
func NewEvaluator(
	ds store.DataStore,
	fanout *Fanout,
	clock utils.Clock,
	nodataWindow time.Duration,
	cacheTTL time.Duration,
) *Evaluator {
	return &Evaluator{
		store:        ds,
		fanout:       fanout,
		clock:        clock,
		nodataWindow: nodataWindow,
		cacheTTL:     cacheTTL,
		rules:        make(map[string]*ruleSnapshot),
		open:         make(map[string]*model.Alert),
		warmed:       make(map[string]bool),
	}
}

func alertKey(tenantID, ruleID, deviceID string) string {
	return strings.Join([]string{tenantID, ruleID, deviceID}, "/")
}

// ProcessStateChange evaluates every enabled rule of the device's tenant
// against one shadow mutation.
func (e *Evaluator) ProcessStateChange(ctx context.Context, change *StateChange) {
	l := log.FromContext(ctx)
	shadow := change.Shadow

	rules, err := e.tenantRules(ctx, shadow.TenantID)
	if err != nil {
		l.Errorf("failed to load rules of tenant %s: %s",
			shadow.TenantID, err.Error())
		return
	}
	e.ensureWarm(ctx, shadow.TenantID)

	for i := range rules {
		rule := &rules[i]
		if !rule.Enabled {
			continue
		}
		switch rule.Type {
		case model.AlertRuleTypeThreshold:
			value, ok := model.NumericFieldValue(shadow.State, rule.Condition.Metric)
			if !ok {
				continue
			}
			if rule.Condition.Compare(value) {
				e.fire(ctx, rule, shadow.DeviceID)
			} else {
				e.resolveOpen(ctx, rule.TenantID, rule.ID, shadow.DeviceID)
			}
		case model.AlertRuleTypeDeviceOffline:
			if !change.OnlineChanged {
				continue
			}
			if !shadow.Online {
				e.fire(ctx, rule, shadow.DeviceID)
			} else {
				e.resolveOpen(ctx, rule.TenantID, rule.ID, shadow.DeviceID)
			}
		case model.AlertRuleTypeNoData:
			if change.TelemetryReceived {
				e.resolveOpen(ctx, rule.TenantID, rule.ID, shadow.DeviceID)
			}
		}
	}
}

// SweepNoData fires no-data alerts for devices quiet for longer than the
// rule's window. Resolution happens on telemetry arrival, not here.
func (e *Evaluator) SweepNoData(ctx context.Context, shadows []*model.DeviceShadow) {
	l := log.FromContext(ctx)
	now := e.clock.Now().UTC()

	for _, shadow := range shadows {
		rules, err := e.tenantRules(ctx, shadow.TenantID)
		if err != nil {
			l.Errorf("failed to load rules of tenant %s: %s",
				shadow.TenantID, err.Error())
			continue
		}
		e.ensureWarm(ctx, shadow.TenantID)

		for i := range rules {
			rule := &rules[i]
			if !rule.Enabled || rule.Type != model.AlertRuleTypeNoData {
				continue
			}
			window := e.nodataWindow
			if rule.Condition.WindowSeconds > 0 {
				window = time.Duration(rule.Condition.WindowSeconds) * time.Second
			}
			if shadow.LastSeen.IsZero() || now.Sub(shadow.LastSeen) > window {
				e.fire(ctx, rule, shadow.DeviceID)
			}
		}
	}
}

// Acknowledge transitions an alert from active to acknowledged. Explicit
// operator action; any other source state is rejected.
func (e *Evaluator) Acknowledge(
	ctx context.Context,
	tenantID, alertID string,
) (*model.Alert, error) {
	alert, err := e.store.GetAlert(ctx, tenantID, alertID)
	if err != nil {
		return nil, err
	}
	if alert.Status != model.AlertStatusActive {
		return nil, errors.Wrapf(ErrInvalidTransition,
			"cannot acknowledge %s alert", alert.Status)
	}
	now := e.clock.Now().UTC()
	alert.Status = model.AlertStatusAcknowledged
	alert.AcknowledgedTS = &now
	if err := e.store.UpdateAlert(ctx, alert); err != nil {
		return nil, err
	}

	// keep the open entry current so the pair stays deduplicated
	e.mu.Lock()
	key := alertKey(tenantID, alert.RuleID, alert.DeviceID)
	if open, ok := e.open[key]; ok && open.ID == alert.ID {
		e.open[key] = alert
	}
	e.mu.Unlock()

	e.fanout.AlertChanged(ctx, alert)
	return alert, nil
}

// Resolve transitions an alert from active or acknowledged to resolved.
func (e *Evaluator) Resolve(
	ctx context.Context,
	tenantID, alertID string,
) (*model.Alert, error) {
	alert, err := e.store.GetAlert(ctx, tenantID, alertID)
	if err != nil {
		return nil, err
	}
	if !alert.IsOpen() {
		return nil, errors.Wrapf(ErrInvalidTransition,
			"cannot resolve %s alert", alert.Status)
	}
	now := e.clock.Now().UTC()
	alert.Status = model.AlertStatusResolved
	alert.ResolvedTS = &now
	if err := e.store.UpdateAlert(ctx, alert); err != nil {
		return nil, err
	}

	e.mu.Lock()
	key := alertKey(tenantID, alert.RuleID, alert.DeviceID)
	if open, ok := e.open[key]; ok && open.ID == alert.ID {
		delete(e.open, key)
	}
	e.mu.Unlock()

	alertsResolvedTotal.WithLabelValues(alert.RuleType).Inc()
	e.fanout.AlertChanged(ctx, alert)
	return alert, nil
}

// InvalidateRules drops the tenant's rule snapshot after a rule mutation.
func (e *Evaluator) InvalidateRules(tenantID string) {
	e.mu.Lock()
	delete(e.rules, tenantID)
	e.mu.Unlock()
}

// fire ensures exactly one open alert exists for the (rule, device) pair:
// it creates one if absent and is a no-op otherwise.
func (e *Evaluator) fire(ctx context.Context, rule *model.AlertRule, deviceID string) {
	l := log.FromContext(ctx)
	key := alertKey(rule.TenantID, rule.ID, deviceID)

	e.mu.Lock()
	if _, ok := e.open[key]; ok {
		e.mu.Unlock()
		return
	}
	alert := &model.Alert{
		ID:          uuid.New().String(),
		TenantID:    rule.TenantID,
		RuleID:      rule.ID,
		RuleName:    rule.Name,
		RuleType:    rule.Type,
		DeviceID:    deviceID,
		Status:      model.AlertStatusActive,
		TriggeredTS: e.clock.Now().UTC(),
	}
	e.open[key] = alert
	e.mu.Unlock()

	if err := e.store.InsertAlert(ctx, alert); err != nil {
		l.Warnf("failed to persist alert %s: %s", alert.ID, err.Error())
	}
	if err := e.store.IncrementAlertCount(ctx, rule.TenantID, rule.ID); err != nil {
		l.Warnf("failed to count alert for rule %s: %s", rule.ID, err.Error())
	}
	alertsFiredTotal.WithLabelValues(rule.Type).Inc()
	e.fanout.AlertChanged(ctx, alert)
}

// resolveOpen resolves the open alert of the (rule, device) pair, if any.
func (e *Evaluator) resolveOpen(ctx context.Context, tenantID, ruleID, deviceID string) {
	l := log.FromContext(ctx)
	key := alertKey(tenantID, ruleID, deviceID)

	e.mu.Lock()
	alert, ok := e.open[key]
	if !ok {
		e.mu.Unlock()
		return
	}
	delete(e.open, key)
	now := e.clock.Now().UTC()
	alert.Status = model.AlertStatusResolved
	alert.ResolvedTS = &now
	e.mu.Unlock()

	if err := e.store.UpdateAlert(ctx, alert); err != nil {
		l.Warnf("failed to persist alert %s: %s", alert.ID, err.Error())
	}
	alertsResolvedTotal.WithLabelValues(alert.RuleType).Inc()
	e.fanout.AlertChanged(ctx, alert)
}

// tenantRules serves the tenant's rule set from its snapshot, refreshing it
// on expiry.
func (e *Evaluator) tenantRules(ctx context.Context, tenantID string) ([]model.AlertRule, error) {
	now := e.clock.Now()
	e.mu.Lock()
	snapshot, ok := e.rules[tenantID]
	if ok && now.Sub(snapshot.fetchedTS) < e.cacheTTL {
		rules := snapshot.rules
		e.mu.Unlock()
		return rules, nil
	}
	e.mu.Unlock()

	rules, err := e.store.GetAlertRules(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.rules[tenantID] = &ruleSnapshot{rules: rules, fetchedTS: now}
	e.mu.Unlock()
	return rules, nil
}

// ensureWarm rebuilds the open alert set of a tenant from the store once
// per process lifetime.
func (e *Evaluator) ensureWarm(ctx context.Context, tenantID string) {
	e.mu.Lock()
	if e.warmed[tenantID] {
		e.mu.Unlock()
		return
	}
	e.warmed[tenantID] = true
	e.mu.Unlock()

	alerts, err := e.store.GetOpenAlerts(ctx, tenantID)
	if err != nil {
		log.FromContext(ctx).Warnf("failed to load open alerts of tenant %s: %s",
			tenantID, err.Error())
		e.mu.Lock()
		e.warmed[tenantID] = false
		e.mu.Unlock()
		return
	}
	e.mu.Lock()
	for i := range alerts {
		alert := alerts[i]
		key := alertKey(tenantID, alert.RuleID, alert.DeviceID)
		if _, ok := e.open[key]; !ok {
			e.open[key] = &alert
		}
	}
	e.mu.Unlock()
}
