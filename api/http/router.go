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
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mendersoftware/go-lib-micro/accesslog"
	"github.com/mendersoftware/go-lib-micro/identity"
	"github.com/mendersoftware/go-lib-micro/requestid"

	"github.com/fleetpulse/devicehub/app"
	"github.com/fleetpulse/devicehub/client/nats"
)

// API URL used by the HTTP router
const (
	APIURLInternal   = "/api/internal/v1/devicehub"
	APIURLManagement = "/api/management/v1/devicehub"

	APIURLInternalAlive  = APIURLInternal + "/alive"
	APIURLInternalHealth = APIURLInternal + "/health"

	APIURLManagementDeviceShadow   = APIURLManagement + "/devices/:deviceId/shadow"
	APIURLManagementDeviceCommands = APIURLManagement + "/devices/:deviceId/commands"
	APIURLManagementCommand        = APIURLManagement + "/devices/:deviceId/commands/:commandId"

	APIURLManagementAlertRules   = APIURLManagement + "/alerts/rules"
	APIURLManagementAlertRule    = APIURLManagement + "/alerts/rules/:ruleId"
	APIURLManagementAlerts       = APIURLManagement + "/alerts"
	APIURLManagementAlertAck     = APIURLManagement + "/alerts/:alertId/acknowledge"
	APIURLManagementAlertResolve = APIURLManagement + "/alerts/:alertId/resolve"

	APIURLManagementEvents = APIURLManagement + "/events"

	APIURLMetrics = "/metrics"
)

// NewRouter returns the gin router
func NewRouter(
	app app.App,
	natsClient nats.Client,
) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	gin.DisableConsoleColor()

	router := gin.New()
	router.Use(accesslog.Middleware())
	router.Use(gin.Recovery())
	router.Use(identity.Middleware(
		identity.NewMiddlewareOptions().
			SetPathRegex(`^/api/management/v[0-9]/`),
	))
	router.Use(requestid.Middleware())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowCredentials: true,
		AllowHeaders: []string{
			"Accept",
			"Allow",
			"Content-Type",
			"Origin",
			"Authorization",
			"Accept-Encoding",
			"Access-Control-Request-Headers",
			"Header-Access-Control-Request",
		},
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowWebSockets: true,
		ExposeHeaders: []string{
			"Location",
			"Link",
		},
		MaxAge: time.Hour * 12,
	}))

	status := NewStatusController(app)
	router.GET(APIURLInternalAlive, status.Alive)
	router.GET(APIURLInternalHealth, status.Health)
	router.GET(APIURLMetrics, gin.WrapH(promhttp.Handler()))

	management := NewManagementController(app, natsClient)
	router.GET(APIURLManagementDeviceShadow, management.GetDeviceShadow)
	router.POST(APIURLManagementDeviceCommands, management.DispatchCommand)
	router.GET(APIURLManagementDeviceCommands, management.GetDeviceCommands)
	router.GET(APIURLManagementCommand, management.GetCommand)

	router.POST(APIURLManagementAlertRules, management.CreateAlertRule)
	router.GET(APIURLManagementAlertRules, management.GetAlertRules)
	router.GET(APIURLManagementAlertRule, management.GetAlertRule)
	router.PUT(APIURLManagementAlertRule, management.UpdateAlertRule)
	router.DELETE(APIURLManagementAlertRule, management.DeleteAlertRule)

	router.GET(APIURLManagementAlerts, management.GetAlerts)
	router.PUT(APIURLManagementAlertAck, management.AcknowledgeAlert)
	router.PUT(APIURLManagementAlertResolve, management.ResolveAlert)

	router.GET(APIURLManagementEvents, management.Events)

	return router, nil
}
