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

package config

import (
	"github.com/mendersoftware/go-lib-micro/config"
)

const (
	// SettingListen is the config key for the listen address
	SettingListen = "listen"
	// SettingListenDefault is the default value for the listen address
	SettingListenDefault = ":8080"

	// SettingMqttURI is the config key for the MQTT broker uri
	SettingMqttURI = "mqtt_uri"
	// SettingMqttURIDefault is the default value for the MQTT broker uri
	SettingMqttURIDefault = "tcp://localhost:1883"

	// SettingMqttClientID is the config key for the MQTT client id
	SettingMqttClientID = "mqtt_client_id"
	// SettingMqttClientIDDefault is the default value for the MQTT client id
	SettingMqttClientIDDefault = "devicehub"

	// SettingTopicNamespace is the config key for the device topic namespace
	SettingTopicNamespace = "mqtt_topic_namespace"
	// SettingTopicNamespaceDefault is the default value for the topic namespace
	SettingTopicNamespaceDefault = "fleetpulse"

	// SettingNatsURI is the config key for the nats uri
	SettingNatsURI = "nats_uri"
	// SettingNatsURIDefault is the default value for the nats uri
	SettingNatsURIDefault = "nats://localhost:4222"

	// SettingMongo is the config key for the mongo URL
	SettingMongo = "mongo_url"
	// SettingMongoDefault is the default value for the mongo URL
	SettingMongoDefault = "mongodb://devicehub-mongo:27017"

	// SettingDbName is the config key for the mongo database name
	SettingDbName = "mongo_dbname"
	// SettingDbNameDefault is the default value for the mongo database name
	SettingDbNameDefault = "devicehub"

	// SettingDbSSL is the config key for the mongo SSL setting
	SettingDbSSL = "mongo_ssl"
	// SettingDbSSLDefault is the default value for the mongo SSL setting
	SettingDbSSLDefault = false

	// SettingDbSSLSkipVerify is the config key for the mongo SSL skip verify setting
	SettingDbSSLSkipVerify = "mongo_ssl_skipverify"
	// SettingDbSSLSkipVerifyDefault is the default value for the mongo SSL skip verify setting
	SettingDbSSLSkipVerifyDefault = false

	// SettingDbUsername is the config key for the mongo username
	SettingDbUsername = "mongo_username"

	// SettingDbPassword is the config key for the mongo password
	SettingDbPassword = "mongo_password"

	// SettingCommandTimeout is the config key for the command ack wait window,
	// in seconds
	SettingCommandTimeout = "command_timeout"
	// SettingCommandTimeoutDefault is the default value for the command ack
	// wait window
	SettingCommandTimeoutDefault = 30

	// SettingCommandSweepInterval is the config key for the command timeout
	// sweep cadence, in seconds
	SettingCommandSweepInterval = "command_sweep_interval"
	// SettingCommandSweepIntervalDefault is the default value for the command
	// timeout sweep cadence
	SettingCommandSweepIntervalDefault = 5

	// SettingNoDataWindow is the config key for the no-data alert quiet
	// window, in seconds; alert rules may override it per rule
	SettingNoDataWindow = "nodata_window"
	// SettingNoDataWindowDefault is the default value for the no-data quiet window
	SettingNoDataWindowDefault = 300

	// SettingNoDataSweepInterval is the config key for the no-data sweep
	// cadence, in seconds
	SettingNoDataSweepInterval = "nodata_sweep_interval"
	// SettingNoDataSweepIntervalDefault is the default value for the no-data
	// sweep cadence
	SettingNoDataSweepIntervalDefault = 30

	// SettingRulesCacheTTL is the config key for the per-tenant alert rule
	// snapshot time to live, in seconds
	SettingRulesCacheTTL = "rules_cache_ttl"
	// SettingRulesCacheTTLDefault is the default value for the rule snapshot
	// time to live
	SettingRulesCacheTTLDefault = 30

	// SettingPipelineWorkers is the config key for the number of pipeline
	// partition workers
	SettingPipelineWorkers = "pipeline_workers"
	// SettingPipelineWorkersDefault is the default value for the number of
	// partition workers
	SettingPipelineWorkersDefault = 16

	// SettingDebugLog is the config key for the turning on the debug log
	SettingDebugLog = "debug_log"
	// SettingDebugLogDefault is the default value for the debug log enabling
	SettingDebugLogDefault = false
)

var (
	// Defaults are the default configuration settings
	Defaults = []config.Default{
		{Key: SettingListen, Value: SettingListenDefault},
		{Key: SettingMqttURI, Value: SettingMqttURIDefault},
		{Key: SettingMqttClientID, Value: SettingMqttClientIDDefault},
		{Key: SettingTopicNamespace, Value: SettingTopicNamespaceDefault},
		{Key: SettingNatsURI, Value: SettingNatsURIDefault},
		{Key: SettingMongo, Value: SettingMongoDefault},
		{Key: SettingDbName, Value: SettingDbNameDefault},
		{Key: SettingDbSSL, Value: SettingDbSSLDefault},
		{Key: SettingDbSSLSkipVerify, Value: SettingDbSSLSkipVerifyDefault},
		{Key: SettingCommandTimeout, Value: SettingCommandTimeoutDefault},
		{Key: SettingCommandSweepInterval, Value: SettingCommandSweepIntervalDefault},
		{Key: SettingNoDataWindow, Value: SettingNoDataWindowDefault},
		{Key: SettingNoDataSweepInterval, Value: SettingNoDataSweepIntervalDefault},
		{Key: SettingRulesCacheTTL, Value: SettingRulesCacheTTLDefault},
		{Key: SettingPipelineWorkers, Value: SettingPipelineWorkersDefault},
		{Key: SettingDebugLog, Value: SettingDebugLogDefault},
	}
)
