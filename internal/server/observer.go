package server

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rxtech-lab/argo-dashboard/pkg/errors"
)

// wsObserver delivers hub events to one dashboard WebSocket client.
type wsObserver struct {
	id           string
	conn         *websocket.Conn
	writeTimeout time.Duration

	mu        sync.Mutex
	closeOnce sync.Once
}

func newWSObserver(id string, conn *websocket.Conn, writeTimeout time.Duration) *wsObserver {
	return &wsObserver{
		id:           id,
		conn:         conn,
		writeTimeout: writeTimeout,
	}
}

func (o *wsObserver) ID() string {
	return o.id
}

// Send writes one text frame. The write deadline is the earlier of the
// context deadline and the configured write timeout.
func (o *wsObserver) Send(ctx context.Context, payload []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	deadline := time.Now().Add(o.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := o.conn.SetWriteDeadline(deadline); err != nil {
		return errors.Wrap(errors.ErrCodeDeliveryFailed, "failed to set write deadline", err)
	}

	if err := o.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return errors.Wrapf(errors.ErrCodeDeliveryFailed, err, "failed to write to observer %s", o.id)
	}

	return nil
}

// Ping sends a keepalive control frame.
func (o *wsObserver) Ping() error {
	return o.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(o.writeTimeout))
}

// Close closes the connection once.
func (o *wsObserver) Close() {
	o.closeOnce.Do(func() {
		_ = o.conn.Close()
	})
}
