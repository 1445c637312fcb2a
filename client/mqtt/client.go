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

package mqtt

import (
	"context"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"

	"github.com/mendersoftware/go-lib-micro/log"
)

const (
	// Device traffic is published and consumed at least once
	qosAtLeastOnce = 1
	// Upper bound on waiting for broker round trips
	tokenTimeout = 10 * time.Second
	// Interval between reconnect attempts
	reconnectWaitTime = 5 * time.Second
)

// MessageHandler is the inbound message callback type of the underlying
// paho client.
type MessageHandler = mqtt.MessageHandler

// Client is the MQTT device transport client
//
//go:generate ../../utils/mockgen.sh
type Client interface {
	Publish(topic string, payload []byte) error
	Subscribe(topic string, handler MessageHandler) error
	Close()
}

type client struct {
	cli  mqtt.Client
	mu   sync.Mutex
	subs map[string]MessageHandler
}

// NewClient connects to the broker and returns a new MQTT client. The
// client reconnects on connection loss and restores its subscriptions on
// every (re)connect.
func NewClient(url, clientID string) (Client, error) {
	ctx := context.Background()
	l := log.FromContext(ctx)

	c := &client{
		subs: make(map[string]MessageHandler),
	}

	opts := mqtt.NewClientOptions().
		AddBroker(url).
		SetClientID(clientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(reconnectWaitTime)
	opts.OnConnect = func(cli mqtt.Client) {
		l.Infof("mqtt client connected to %s", url)
		c.resubscribe()
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		l.Warnf("mqtt client lost the connection: %v", err)
	}

	c.cli = mqtt.NewClient(opts)
	if err := waitToken(c.cli.Connect()); err != nil {
		return nil, errors.Wrap(err, "failed to connect to the mqtt broker")
	}
	return c, nil
}

func (c *client) Publish(topic string, payload []byte) error {
	token := c.cli.Publish(topic, qosAtLeastOnce, false, payload)
	if err := waitToken(token); err != nil {
		return errors.Wrapf(err, "failed to publish to topic %s", topic)
	}
	return nil
}

func (c *client) Subscribe(topic string, handler MessageHandler) error {
	c.mu.Lock()
	c.subs[topic] = handler
	c.mu.Unlock()

	token := c.cli.Subscribe(topic, qosAtLeastOnce, handler)
	if err := waitToken(token); err != nil {
		return errors.Wrapf(err, "failed to subscribe to topic %s", topic)
	}
	return nil
}

func (c *client) Close() {
	c.cli.Disconnect(uint(tokenTimeout / time.Millisecond))
}

// resubscribe restores all registered subscriptions after a reconnect
func (c *client) resubscribe() {
	l := log.FromContext(context.Background())
	c.mu.Lock()
	defer c.mu.Unlock()
	for topic, handler := range c.subs {
		token := c.cli.Subscribe(topic, qosAtLeastOnce, handler)
		if err := waitToken(token); err != nil {
			l.Errorf("failed to restore subscription to %s: %v", topic, err)
		}
	}
}

func waitToken(token mqtt.Token) error {
	if !token.WaitTimeout(tokenTimeout) {
		return errors.New("timed out waiting for the mqtt broker")
	}
	return token.Error()
}
