package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsHandshakeTimeout = 5 * time.Second
	wsPongWait         = 60 * time.Second
	wsPingPeriod       = wsPongWait * 9 / 10
	wsWriteWait        = 10 * time.Second
	wsMaxFrame         = 4 << 20
	frameQueue         = 128
)

// dialServer connects to the game server and returns a channel of raw
// frames. The channel is closed when the connection ends or ctx is done.
// There is no reconnection; the session ends with the connection.
func dialServer(ctx context.Context, url string) (<-chan []byte, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout:  wsHandshakeTimeout,
		EnableCompression: true,
	}
	conn, resp, err := dialer.DialContext(ctx, url, http.Header{})
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %s: %w", url, resp.Status, err)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	logger.WithField("url", url).Info("connected")
	addNotice("Connected to " + url)

	out := make(chan []byte, frameQueue)
	go readLoop(ctx, conn, out)
	go pingLoop(ctx, conn)
	return out, nil
}

// readLoop pumps text frames from conn to out in arrival order, which the
// coordinate continuation of map batches relies on.
func readLoop(ctx context.Context, conn *websocket.Conn, out chan<- []byte) {
	defer close(out)
	defer conn.Close()

	conn.SetReadLimit(wsMaxFrame)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	go func() {
		<-ctx.Done()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(wsWriteWait))
		conn.Close()
	}()

	for {
		typ, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logError("websocket read: %v", err)
			}
			return
		}
		if typ != websocket.TextMessage {
			logDebug("ignoring websocket frame type %d", typ)
			continue
		}
		logDebug("recv frame len %d", len(data))
		select {
		case out <- data:
		case <-ctx.Done():
			return
		}
	}
}

func pingLoop(ctx context.Context, conn *websocket.Conn) {
	t := time.NewTicker(wsPingPeriod)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
			if err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					logDebug("websocket ping: %v", err)
				}
				return
			}
		}
	}
}
