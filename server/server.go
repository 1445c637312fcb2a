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

package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sys/unix"

	"github.com/mendersoftware/go-lib-micro/config"
	"github.com/mendersoftware/go-lib-micro/log"

	api "github.com/fleetpulse/devicehub/api/http"
	"github.com/fleetpulse/devicehub/app"
	"github.com/fleetpulse/devicehub/client/mqtt"
	"github.com/fleetpulse/devicehub/client/nats"
	dconfig "github.com/fleetpulse/devicehub/config"
	"github.com/fleetpulse/devicehub/store"
	"github.com/fleetpulse/devicehub/utils"
)

// InitAndRun initializes the server and runs it
func InitAndRun(conf config.Reader, dataStore store.DataStore) error {
	ctx := context.Background()

	log.Setup(conf.GetBool(dconfig.SettingDebugLog))
	l := log.FromContext(ctx)

	natsClient, err := nats.NewClient(conf.GetString(dconfig.SettingNatsURI))
	if err != nil {
		return err
	}
	defer natsClient.Close()

	mqttClient, err := mqtt.NewClient(
		conf.GetString(dconfig.SettingMqttURI),
		conf.GetString(dconfig.SettingMqttClientID),
	)
	if err != nil {
		return err
	}
	defer mqttClient.Close()

	clock := utils.RealClock{}
	router := app.NewTopicRouter(conf.GetString(dconfig.SettingTopicNamespace))
	fanout := app.NewFanout(natsClient)
	shadows := app.NewShadowCache(dataStore, fanout, clock)
	evaluator := app.NewEvaluator(
		dataStore,
		fanout,
		clock,
		time.Duration(conf.GetInt(dconfig.SettingNoDataWindow))*time.Second,
		time.Duration(conf.GetInt(dconfig.SettingRulesCacheTTL))*time.Second,
	)
	tracker := app.NewTracker(
		dataStore,
		router,
		mqttClient,
		fanout,
		clock,
		time.Duration(conf.GetInt(dconfig.SettingCommandTimeout))*time.Second,
	)

	devicehubApp := app.New(dataStore, tracker, shadows, evaluator, clock)

	pipeline := app.NewPipeline(router, tracker, shadows, evaluator, mqttClient,
		app.PipelineConfig{
			Workers: conf.GetInt(dconfig.SettingPipelineWorkers),
			CommandSweepInterval: time.Duration(
				conf.GetInt(dconfig.SettingCommandSweepInterval)) * time.Second,
			NoDataSweepInterval: time.Duration(
				conf.GetInt(dconfig.SettingNoDataSweepInterval)) * time.Second,
		})
	if err := pipeline.Start(ctx); err != nil {
		return err
	}

	var listen = conf.GetString(dconfig.SettingListen)
	ginRouter, err := api.NewRouter(devicehubApp, natsClient)
	if err != nil {
		l.Fatal(err)
	}
	srv := &http.Server{
		Addr:    listen,
		Handler: ginRouter,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, unix.SIGINT, unix.SIGTERM)
	<-quit

	l.Info("Shutdown Server ...")

	pipeline.Stop()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxWithTimeout); err != nil {
		l.Fatal("Server Shutdown: ", err)
	}

	return nil
}
