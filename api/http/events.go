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
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/mendersoftware/go-lib-micro/log"
	natsio "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/fleetpulse/devicehub/model"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	channelSize = 25

	websocketReadBufferSize  = 1024
	websocketWriteBufferSize = 1024
)

// Events streams the tenant's pipeline events (shadow changes, command
// transitions, alert lifecycle) over a websocket.
func (h ManagementController) Events(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.FromContext(ctx)

	tenantID, ok := userTenant(c)
	if !ok {
		return
	}

	eventChan := make(chan *natsio.Msg, channelSize)
	sub, err := h.nats.ChanSubscribe(model.GetEventsSubject(tenantID), eventChan)
	if err != nil {
		l.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to subscribe to the event stream",
		})
		return
	}
	//nolint:errcheck
	defer sub.Unsubscribe()

	upgrader := websocket.Upgrader{
		ReadBufferSize:  websocketReadBufferSize,
		WriteBufferSize: websocketWriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		err = errors.Wrap(err, "unable to upgrade the request to websocket protocol")
		l.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal error",
		})
		return
	}

	errChan := make(chan error, 1)
	go func() {
		// keep reading to service the ping/pong handlers; the client is
		// not expected to send application data
		for {
			if _, _, err := conn.NextReader(); err != nil {
				errChan <- err
				return
			}
		}
	}()

	//nolint:errcheck
	h.eventsWriter(ctx, conn, eventChan, errChan)
}

// eventsWriter forwards events posted on the tenant's NATS subject to the
// websocket and periodically pings the connection. A write error or a ping
// timeout closes the connection; a client that cannot keep up is dropped
// rather than allowed to stall the stream.
func (h ManagementController) eventsWriter(
	ctx context.Context,
	conn *websocket.Conn,
	eventChan <-chan *natsio.Msg,
	errChan <-chan error,
) (err error) {
	l := log.FromContext(ctx)
	defer conn.Close()

	err = conn.SetReadDeadline(time.Now().Add(pongWait))
	if err != nil {
		l.Error(err)
		return err
	}
	pingPeriod := (pongWait * 9) / 10
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	conn.SetPongHandler(func(string) error {
		ticker.Reset(pingPeriod)
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

Loop:
	for {
		select {
		case msg := <-eventChan:
			event := &model.Event{}
			err = msgpack.Unmarshal(msg.Data, event)
			if err != nil {
				l.Errorf("skipping malformed event: %s", err.Error())
				err = nil
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			err = conn.WriteJSON(event)
			if err != nil {
				l.Error(err)
				break Loop
			}
		case <-ticker.C:
			if !websocketPing(conn) {
				err = errors.New("connection timeout")
				break Loop
			}
		case err = <-errChan:
			if websocket.IsCloseError(errors.Cause(err),
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway) {
				err = nil
			}
			break Loop
		case <-ctx.Done():
			break Loop
		}
	}
	if err != nil {
		l.Errorf("websocket closed with error: %s", err.Error())
	}
	return err
}

func websocketPing(conn *websocket.Conn) bool {
	err := conn.WriteControl(
		websocket.PingMessage,
		[]byte{},
		time.Now().Add(writeWait),
	)
	return err == nil
}
