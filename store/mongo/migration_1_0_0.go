// Copyright 2026 Fleetpulse AS
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

package mongo

import (
	"context"

	"github.com/mendersoftware/go-lib-micro/mongo/migrate"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mopts "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fleetpulse/devicehub/model"
)

type migration1_0_0 struct {
	client *mongo.Client
	db     string
}

// Up creates the pipeline collections' indexes
func (m *migration1_0_0) Up(from migrate.Version) error {
	ctx := context.Background()
	database := m.client.Database(m.db)

	// commands: per-device audit listing
	idxCommands := database.Collection(CommandsCollectionName).Indexes()
	indexOptions := mopts.Index()
	indexOptions.SetName("tenant_device_created")
	commandsIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "tenant_id", Value: 1},
			{Key: "device_id", Value: 1},
			{Key: "created_ts", Value: -1},
		},
		Options: indexOptions,
	}
	if _, err := idxCommands.CreateOne(ctx, commandsIndex); err != nil {
		return err
	}

	// shadows: one document per (tenant, device)
	idxShadows := database.Collection(ShadowsCollectionName).Indexes()
	indexOptions = mopts.Index()
	indexOptions.SetName("tenant_device")
	indexOptions.SetUnique(true)
	shadowsIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "tenant_id", Value: 1},
			{Key: "device_id", Value: 1},
		},
		Options: indexOptions,
	}
	if _, err := idxShadows.CreateOne(ctx, shadowsIndex); err != nil {
		return err
	}

	// alert_rules: per-tenant listing
	idxRules := database.Collection(AlertRulesCollectionName).Indexes()
	indexOptions = mopts.Index()
	indexOptions.SetName("tenant")
	rulesIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "tenant_id", Value: 1}},
		Options: indexOptions,
	}
	if _, err := idxRules.CreateOne(ctx, rulesIndex); err != nil {
		return err
	}

	// alerts: at most one active alert per (tenant, rule, device)
	idxAlerts := database.Collection(AlertsCollectionName).Indexes()
	indexOptions = mopts.Index()
	indexOptions.SetName("one_active_per_rule_device")
	indexOptions.SetUnique(true)
	indexOptions.SetPartialFilterExpression(bson.M{
		"status": model.AlertStatusActive,
	})
	activeAlertIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "tenant_id", Value: 1},
			{Key: "rule_id", Value: 1},
			{Key: "device_id", Value: 1},
		},
		Options: indexOptions,
	}
	if _, err := idxAlerts.CreateOne(ctx, activeAlertIndex); err != nil {
		return err
	}

	indexOptions = mopts.Index()
	indexOptions.SetName("tenant_status_triggered")
	alertListIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "tenant_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "triggered_ts", Value: -1},
		},
		Options: indexOptions,
	}
	if _, err := idxAlerts.CreateOne(ctx, alertListIndex); err != nil {
		return err
	}

	return nil
}

func (m *migration1_0_0) Version() migrate.Version {
	return migrate.MakeVersion(1, 0, 0)
}
