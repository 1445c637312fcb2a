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

package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mendersoftware/go-lib-micro/identity"
	"github.com/mendersoftware/go-lib-micro/log"
	"github.com/pkg/errors"

	"github.com/fleetpulse/devicehub/app"
	"github.com/fleetpulse/devicehub/client/nats"
	"github.com/fleetpulse/devicehub/model"
)

// HTTP errors
var (
	ErrMissingUserAuthentication = errors.New(
		"missing or non-user identity in the authorization headers",
	)
)

// ManagementController container for end-points
type ManagementController struct {
	app  app.App
	nats nats.Client
}

// NewManagementController returns a new ManagementController
func NewManagementController(
	app app.App,
	nc nats.Client,
) *ManagementController {
	return &ManagementController{
		app:  app,
		nats: nc,
	}
}

func userTenant(c *gin.Context) (string, bool) {
	idata := identity.FromContext(c.Request.Context())
	if idata == nil || !idata.IsUser {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": ErrMissingUserAuthentication.Error(),
		})
		return "", false
	}
	return idata.Tenant, true
}

// GetDeviceShadow returns the last-known state of a device
func (h ManagementController) GetDeviceShadow(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID, ok := userTenant(c)
	if !ok {
		return
	}
	deviceID := c.Param("deviceId")

	shadow, err := h.app.GetDeviceShadow(ctx, tenantID, deviceID)
	if err == app.ErrShadowNotFound {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, shadow)
}

// DispatchCommand sends a command to a device
func (h ManagementController) DispatchCommand(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.FromContext(ctx)
	tenantID, ok := userTenant(c)
	if !ok {
		return
	}

	cmd := &model.Command{}
	if err := c.ShouldBindJSON(cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": errors.Wrap(err, "invalid request body").Error(),
		})
		return
	}
	cmd.DeviceID = c.Param("deviceId")

	cmd, err := h.app.DispatchCommand(ctx, tenantID, cmd)
	if err != nil {
		cause := errors.Cause(err)
		if _, ok := cause.(validation.Errors); ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		} else if cause == app.ErrDuplicateCorrelation {
			c.JSON(http.StatusConflict, gin.H{
				"error": err.Error(),
			})
		} else if cause == app.ErrPublishFailure {
			c.JSON(http.StatusBadGateway, gin.H{
				"error": err.Error(),
			})
		} else {
			l.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": err.Error(),
			})
		}
		return
	}
	c.JSON(http.StatusCreated, cmd)
}

// GetDeviceCommands returns the command audit records of a device
func (h ManagementController) GetDeviceCommands(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID, ok := userTenant(c)
	if !ok {
		return
	}

	commands, err := h.app.GetDeviceCommands(ctx, tenantID, c.Param("deviceId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, commands)
}

// GetCommand returns a command audit record
func (h ManagementController) GetCommand(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID, ok := userTenant(c)
	if !ok {
		return
	}

	cmd, err := h.app.GetCommand(ctx, tenantID, c.Param("commandId"))
	if err == app.ErrCommandNotFound {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, cmd)
}

// CreateAlertRule stores a new alert rule
func (h ManagementController) CreateAlertRule(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID, ok := userTenant(c)
	if !ok {
		return
	}

	rule := &model.AlertRule{}
	if err := c.ShouldBindJSON(rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": errors.Wrap(err, "invalid request body").Error(),
		})
		return
	}

	rule, err := h.app.CreateAlertRule(ctx, tenantID, rule)
	if err != nil {
		status := http.StatusInternalServerError
		if _, ok := errors.Cause(err).(validation.Errors); ok {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// GetAlertRules returns all alert rules of the tenant
func (h ManagementController) GetAlertRules(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID, ok := userTenant(c)
	if !ok {
		return
	}

	rules, err := h.app.GetAlertRules(ctx, tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, rules)
}

// GetAlertRule returns an alert rule
func (h ManagementController) GetAlertRule(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID, ok := userTenant(c)
	if !ok {
		return
	}

	rule, err := h.app.GetAlertRule(ctx, tenantID, c.Param("ruleId"))
	if err == app.ErrAlertRuleNotFound {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, rule)
}

// UpdateAlertRule updates an alert rule
func (h ManagementController) UpdateAlertRule(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID, ok := userTenant(c)
	if !ok {
		return
	}

	rule := &model.AlertRule{}
	if err := c.ShouldBindJSON(rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": errors.Wrap(err, "invalid request body").Error(),
		})
		return
	}
	rule.ID = c.Param("ruleId")

	err := h.app.UpdateAlertRule(ctx, tenantID, rule)
	if err == app.ErrAlertRuleNotFound {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	} else if err != nil {
		status := http.StatusInternalServerError
		if _, ok := errors.Cause(err).(validation.Errors); ok {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, rule)
}

// DeleteAlertRule deletes an alert rule
func (h ManagementController) DeleteAlertRule(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID, ok := userTenant(c)
	if !ok {
		return
	}

	err := h.app.DeleteAlertRule(ctx, tenantID, c.Param("ruleId"))
	if err == app.ErrAlertRuleNotFound {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	c.Writer.WriteHeader(http.StatusNoContent)
}

// GetAlerts returns the alerts of the tenant
func (h ManagementController) GetAlerts(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID, ok := userTenant(c)
	if !ok {
		return
	}

	alerts, err := h.app.GetAlerts(ctx, tenantID, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// AcknowledgeAlert transitions an alert from active to acknowledged
func (h ManagementController) AcknowledgeAlert(c *gin.Context) {
	h.alertTransition(c, h.app.AcknowledgeAlert)
}

// ResolveAlert transitions an alert from active or acknowledged to resolved
func (h ManagementController) ResolveAlert(c *gin.Context) {
	h.alertTransition(c, h.app.ResolveAlert)
}

func (h ManagementController) alertTransition(
	c *gin.Context,
	transition func(ctx context.Context, tenantID, alertID string) (*model.Alert, error),
) {
	ctx := c.Request.Context()
	tenantID, ok := userTenant(c)
	if !ok {
		return
	}

	alert, err := transition(ctx, tenantID, c.Param("alertId"))
	if err == app.ErrAlertNotFound {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	} else if err != nil {
		if errors.Cause(err) == app.ErrInvalidTransition {
			c.JSON(http.StatusConflict, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, alert)
}
