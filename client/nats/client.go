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

package nats

import (
	"context"
	"time"

	natsio "github.com/nats-io/nats.go"

	"github.com/mendersoftware/go-lib-micro/log"
)

const (
	// Set reconnect buffer size in bytes (10 MB)
	reconnectBufSize = 10 * 1024 * 1024
	// Set reconnect interval to 1 second
	reconnectWaitTime = 1 * time.Second
)

// Client is the internal event bus client carrying tenant-scoped fanout
// traffic between the pipeline and the realtime API endpoints.
//
//go:generate ../../utils/mockgen.sh
type Client interface {
	Publish(subject string, data []byte) error
	ChanSubscribe(subject string, channel chan *natsio.Msg) (*natsio.Subscription, error)
	Close()
}

// NewClient connects to the bus with reconnect-and-resume behavior and
// returns a new client.
func NewClient(url string) (Client, error) {
	l := log.FromContext(context.Background())

	conn, err := natsio.Connect(url,
		func(o *natsio.Options) error {
			o.AllowReconnect = true
			o.MaxReconnect = -1
			o.ReconnectBufSize = reconnectBufSize
			o.ReconnectWait = reconnectWaitTime
			o.RetryOnFailedConnect = true
			o.ClosedCB = func(_ *natsio.Conn) {
				l.Info("nats client closed the connection")
			}
			o.DisconnectedErrCB = func(_ *natsio.Conn, e error) {
				if e != nil {
					l.Warnf("nats client disconnected, err: %v", e)
				}
			}
			o.ReconnectedCB = func(_ *natsio.Conn) {
				l.Warn("nats client reconnected")
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return &client{nats: conn}, nil
}

type client struct {
	nats *natsio.Conn
}

func (c *client) Publish(subject string, data []byte) error {
	return c.nats.Publish(subject, data)
}

func (c *client) ChanSubscribe(subject string,
	channel chan *natsio.Msg) (*natsio.Subscription, error) {
	return c.nats.ChanSubscribe(subject, channel)
}

func (c *client) Close() {
	c.nats.Close()
}
