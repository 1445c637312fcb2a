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
	"crypto/tls"
	"strings"
	"time"

	"github.com/mendersoftware/go-lib-micro/config"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mopts "go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	dconfig "github.com/fleetpulse/devicehub/config"
	"github.com/fleetpulse/devicehub/model"
	"github.com/fleetpulse/devicehub/store"
)

const (
	// CommandsCollectionName refers to the collection of command audit records
	CommandsCollectionName = "commands"

	// ShadowsCollectionName refers to the collection of device shadows
	ShadowsCollectionName = "shadows"

	// AlertRulesCollectionName refers to the collection of alert rules
	AlertRulesCollectionName = "alert_rules"

	// AlertsCollectionName refers to the collection of alert instances
	AlertsCollectionName = "alerts"
)

// SetupDataStore returns the mongo data store and optionally runs migrations
func SetupDataStore(automigrate bool) (*DataStoreMongo, error) {
	ctx := context.Background()
	dbClient, err := NewClient(ctx, config.Config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to db")
	}
	dbName := config.Config.GetString(dconfig.SettingDbName)
	err = Migrate(ctx, dbName, DbVersion, dbClient, automigrate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to run migrations")
	}
	dataStore := NewDataStoreWithClient(dbClient, config.Config)
	return dataStore, nil
}

// NewClient returns a mongo client
func NewClient(ctx context.Context, c config.Reader) (*mongo.Client, error) {

	clientOptions := mopts.Client()
	mongoURL := c.GetString(dconfig.SettingMongo)
	if !strings.Contains(mongoURL, "://") {
		return nil, errors.Errorf("Invalid mongoURL %q: missing schema.",
			mongoURL)
	}
	clientOptions.ApplyURI(mongoURL)

	username := c.GetString(dconfig.SettingDbUsername)
	if username != "" {
		credentials := mopts.Credential{
			Username: c.GetString(dconfig.SettingDbUsername),
		}
		password := c.GetString(dconfig.SettingDbPassword)
		if password != "" {
			credentials.Password = password
			credentials.PasswordSet = true
		}
		clientOptions.SetAuth(credentials)
	}

	if c.GetBool(dconfig.SettingDbSSL) {
		tlsConfig := &tls.Config{}
		tlsConfig.InsecureSkipVerify = c.GetBool(dconfig.SettingDbSSLSkipVerify)
		clientOptions.SetTLSConfig(tlsConfig)
	}

	// Acknowledge writes after they propagated to the mongod instance and
	// committed to the file system journal.
	wc := writeconcern.New(writeconcern.W(1), writeconcern.J(true))
	clientOptions.SetWriteConcern(wc)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to connect to mongo server")
	}

	// Validate connection
	if err = client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "Error reaching mongo server")
	}

	return client, nil
}

// DataStoreMongo is the data storage service
type DataStoreMongo struct {
	client *mongo.Client
	dbName string
}

// NewDataStoreWithClient initializes a DataStore object
func NewDataStoreWithClient(client *mongo.Client, c config.Reader) *DataStoreMongo {
	return &DataStoreMongo{
		client: client,
		dbName: c.GetString(dconfig.SettingDbName),
	}
}

// Ping verifies the connection to the database
func (db *DataStoreMongo) Ping(ctx context.Context) error {
	res := db.client.Database(db.dbName).RunCommand(ctx, bson.M{"ping": 1})
	return res.Err()
}

func (db *DataStoreMongo) collection(name string) *mongo.Collection {
	return db.client.Database(db.dbName).Collection(name)
}

// InsertCommand stores a new command audit record
func (db *DataStoreMongo) InsertCommand(ctx context.Context, cmd *model.Command) error {
	_, err := db.collection(CommandsCollectionName).InsertOne(ctx, cmd)
	return errors.Wrap(err, "failed to insert command")
}

// UpdateCommand updates the mutable part of a command audit record
func (db *DataStoreMongo) UpdateCommand(ctx context.Context, cmd *model.Command) error {
	_, err := db.collection(CommandsCollectionName).UpdateOne(ctx,
		bson.M{"_id": cmd.ID, "tenant_id": cmd.TenantID},
		bson.M{"$set": bson.M{
			"status":       cmd.Status,
			"error":        cmd.ErrorMessage,
			"sent_ts":      cmd.SentTS,
			"completed_ts": cmd.CompletedTS,
		}},
	)
	return errors.Wrap(err, "failed to update command")
}

// GetCommand returns a command audit record
func (db *DataStoreMongo) GetCommand(
	ctx context.Context,
	tenantID, commandID string,
) (*model.Command, error) {
	cmd := &model.Command{}
	err := db.collection(CommandsCollectionName).
		FindOne(ctx, bson.M{"_id": commandID, "tenant_id": tenantID}).
		Decode(cmd)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return cmd, nil
}

// GetDeviceCommands returns the command audit records of one device, most
// recent first
func (db *DataStoreMongo) GetDeviceCommands(
	ctx context.Context,
	tenantID, deviceID string,
) ([]model.Command, error) {
	findOpts := mopts.Find().SetSort(bson.M{"created_ts": -1})
	cur, err := db.collection(CommandsCollectionName).Find(ctx,
		bson.M{"tenant_id": tenantID, "device_id": deviceID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	commands := []model.Command{}
	if err := cur.All(ctx, &commands); err != nil {
		return nil, err
	}
	return commands, nil
}

// UpsertDeviceShadow writes through the latest shadow of a device
func (db *DataStoreMongo) UpsertDeviceShadow(
	ctx context.Context,
	shadow *model.DeviceShadow,
) error {
	updateOpts := mopts.Update().SetUpsert(true)
	_, err := db.collection(ShadowsCollectionName).UpdateOne(ctx,
		bson.M{"tenant_id": shadow.TenantID, "device_id": shadow.DeviceID},
		bson.M{"$set": bson.M{
			"online":     shadow.Online,
			"last_seen":  shadow.LastSeen,
			"state":      shadow.State,
			"updated_ts": shadow.UpdatedTS,
		}},
		updateOpts,
	)
	return errors.Wrap(err, "failed to upsert shadow")
}

// GetDeviceShadow returns the stored shadow of a device
func (db *DataStoreMongo) GetDeviceShadow(
	ctx context.Context,
	tenantID, deviceID string,
) (*model.DeviceShadow, error) {
	shadow := &model.DeviceShadow{}
	err := db.collection(ShadowsCollectionName).
		FindOne(ctx, bson.M{"tenant_id": tenantID, "device_id": deviceID}).
		Decode(shadow)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return shadow, nil
}

// GetDeviceShadows returns every stored shadow, used to warm the in-memory
// cache after a restart
func (db *DataStoreMongo) GetDeviceShadows(
	ctx context.Context,
) ([]model.DeviceShadow, error) {
	cur, err := db.collection(ShadowsCollectionName).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	shadows := []model.DeviceShadow{}
	if err := cur.All(ctx, &shadows); err != nil {
		return nil, err
	}
	return shadows, nil
}

// InsertAlertRule stores a new alert rule
func (db *DataStoreMongo) InsertAlertRule(ctx context.Context, rule *model.AlertRule) error {
	_, err := db.collection(AlertRulesCollectionName).InsertOne(ctx, rule)
	return errors.Wrap(err, "failed to insert alert rule")
}

// UpdateAlertRule updates the tenant-editable attributes of an alert rule
func (db *DataStoreMongo) UpdateAlertRule(ctx context.Context, rule *model.AlertRule) error {
	res, err := db.collection(AlertRulesCollectionName).UpdateOne(ctx,
		bson.M{"_id": rule.ID, "tenant_id": rule.TenantID},
		bson.M{"$set": bson.M{
			"name":       rule.Name,
			"type":       rule.Type,
			"condition":  rule.Condition,
			"enabled":    rule.Enabled,
			"updated_ts": rule.UpdatedTS,
		}},
	)
	if err != nil {
		return errors.Wrap(err, "failed to update alert rule")
	} else if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteAlertRule deletes an alert rule
func (db *DataStoreMongo) DeleteAlertRule(ctx context.Context, tenantID, ruleID string) error {
	res, err := db.collection(AlertRulesCollectionName).DeleteOne(ctx,
		bson.M{"_id": ruleID, "tenant_id": tenantID})
	if err != nil {
		return err
	} else if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// GetAlertRule returns an alert rule
func (db *DataStoreMongo) GetAlertRule(
	ctx context.Context,
	tenantID, ruleID string,
) (*model.AlertRule, error) {
	rule := &model.AlertRule{}
	err := db.collection(AlertRulesCollectionName).
		FindOne(ctx, bson.M{"_id": ruleID, "tenant_id": tenantID}).
		Decode(rule)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return rule, nil
}

// GetAlertRules returns all alert rules of a tenant
func (db *DataStoreMongo) GetAlertRules(
	ctx context.Context,
	tenantID string,
) ([]model.AlertRule, error) {
	cur, err := db.collection(AlertRulesCollectionName).Find(ctx,
		bson.M{"tenant_id": tenantID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	rules := []model.AlertRule{}
	if err := cur.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// IncrementAlertCount bumps the fire counter of a rule
func (db *DataStoreMongo) IncrementAlertCount(ctx context.Context, tenantID, ruleID string) error {
	_, err := db.collection(AlertRulesCollectionName).UpdateOne(ctx,
		bson.M{"_id": ruleID, "tenant_id": tenantID},
		bson.M{"$inc": bson.M{"alert_count": 1}},
	)
	return errors.Wrap(err, "failed to increment alert count")
}

// InsertAlert stores a new alert instance
func (db *DataStoreMongo) InsertAlert(ctx context.Context, alert *model.Alert) error {
	_, err := db.collection(AlertsCollectionName).InsertOne(ctx, alert)
	return errors.Wrap(err, "failed to insert alert")
}

// UpdateAlert updates the status attributes of an alert
func (db *DataStoreMongo) UpdateAlert(ctx context.Context, alert *model.Alert) error {
	res, err := db.collection(AlertsCollectionName).UpdateOne(ctx,
		bson.M{"_id": alert.ID, "tenant_id": alert.TenantID},
		bson.M{"$set": bson.M{
			"status":          alert.Status,
			"acknowledged_ts": alert.AcknowledgedTS,
			"resolved_ts":     alert.ResolvedTS,
		}},
	)
	if err != nil {
		return errors.Wrap(err, "failed to update alert")
	} else if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// GetAlert returns an alert instance
func (db *DataStoreMongo) GetAlert(
	ctx context.Context,
	tenantID, alertID string,
) (*model.Alert, error) {
	alert := &model.Alert{}
	err := db.collection(AlertsCollectionName).
		FindOne(ctx, bson.M{"_id": alertID, "tenant_id": tenantID}).
		Decode(alert)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return alert, nil
}

// GetAlerts returns the alerts of a tenant, optionally filtered by status,
// most recent first
func (db *DataStoreMongo) GetAlerts(
	ctx context.Context,
	tenantID, status string,
) ([]model.Alert, error) {
	filter := bson.M{"tenant_id": tenantID}
	if status != "" {
		filter["status"] = status
	}
	findOpts := mopts.Find().SetSort(bson.M{"triggered_ts": -1})
	cur, err := db.collection(AlertsCollectionName).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	alerts := []model.Alert{}
	if err := cur.All(ctx, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// GetOpenAlerts returns the active and acknowledged alerts of a tenant,
// used to rebuild the evaluator's dedup state after a restart
func (db *DataStoreMongo) GetOpenAlerts(
	ctx context.Context,
	tenantID string,
) ([]model.Alert, error) {
	cur, err := db.collection(AlertsCollectionName).Find(ctx, bson.M{
		"tenant_id": tenantID,
		"status": bson.M{"$in": []string{
			model.AlertStatusActive, model.AlertStatusAcknowledged,
		}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	alerts := []model.Alert{}
	if err := cur.All(ctx, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// Close disconnects the client
func (db *DataStoreMongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return db.client.Disconnect(ctx)
}
