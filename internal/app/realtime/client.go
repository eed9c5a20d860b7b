package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"talentx/internal/app/message"
	"talentx/internal/app/metrics"
	"talentx/internal/pkg/auth/jwt"
	"talentx/internal/pkg/errs"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192

	// capacity of the outbound queue per connection.
	sendBufferSize = 256
)

// Client is one WebSocket connection and its protocol state.
type Client struct {
	gateway *Gateway

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// a buffered channel used to queue messages waiting to be sent to the client.
	send chan []byte

	// done is closed once when the connection terminates; send is never closed.
	done      chan struct{}
	closeOnce sync.Once

	// identity is nil until an auth envelope succeeds. Only ReadPump touches it.
	identity *jwt.Identity

	// base carries the connection fields. logger is base plus the identity
	// fields and is swapped atomically, since Deliver and WritePump read it
	// from other goroutines.
	base   zerolog.Logger
	logger atomic.Pointer[zerolog.Logger]
}

func newClient(g *Gateway, conn *websocket.Conn) *Client {
	return newClientWithLogger(g, conn, g.logger.With().
		Str("sub", "client").
		Str("remote_addr", conn.RemoteAddr().String()).
		Logger())
}

func newClientWithLogger(g *Gateway, conn *websocket.Conn, base zerolog.Logger) *Client {
	c := &Client{
		gateway: g,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		done:    make(chan struct{}),
		base:    base,
	}
	c.logger.Store(&base)
	return c
}

func (c *Client) log() *zerolog.Logger {
	return c.logger.Load()
}

// Push queues payload without blocking. It returns false when the connection has
// terminated or its queue is full; in both cases the payload is dropped.
func (c *Client) Push(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- payload:
		return true
	default:
		c.log().Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping message")
		return false
	}
}

// close signals both pumps to stop. WritePump then sends a close frame and
// closes the socket, which ends ReadPump. Safe to call any number of times.
func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// ReadPump handles reading envelopes from the WebSocket connection. Envelopes are
// processed one at a time, so a slow store call delays only this connection.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log().Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log().Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		c.processInbound(data)
	}
}

// cleanupOnDisconnect runs when ReadPump ends.
func (c *Client) cleanupOnDisconnect() {
	if c.identity != nil {
		c.gateway.unregister(c.identity.ID, c)
	}
	c.close()

	if err := c.conn.Close(); err != nil {
		c.log().Debug().Err(err).Msg("Client connection close error")
	}
	c.log().Debug().Msg("Client connection cleaned up.")
}

// processInbound parses one envelope and dispatches it according to the
// connection state. Malformed JSON is logged and dropped.
func (c *Client) processInbound(data []byte) {
	var env inboundEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.log().Warn().Err(err).Int("size", len(data)).Msg("Client sent invalid JSON")
		c.gateway.metrics.EnvelopeDropped("malformed")
		return
	}

	if env.Type == TypeAuth {
		c.handleAuth(env.Token)
		return
	}

	if c.identity == nil {
		c.Push(encodeError(ErrTextNotAuthenticated))
		return
	}

	switch env.Type {
	case TypeMessage:
		c.handleMessage(env)
	default:
		c.log().Warn().Str("msg_type", string(env.Type)).Msg("Client sent unsupported message type")
		c.gateway.metrics.EnvelopeDropped("unknown_type")
	}
}

// handleAuth verifies token and registers the connection under the token's user id.
// A failed attempt leaves the current state unchanged.
func (c *Client) handleAuth(token string) {
	identity, err := jwt.Verify(token, c.gateway.secret)
	if err != nil {
		c.log().Info().Err(err).Msg("WebSocket authentication failed")
		c.gateway.metrics.AuthFailed()
		c.Push(encodeError(ErrTextAuthFailed))
		return
	}

	if c.identity != nil && c.identity.ID != identity.ID {
		c.gateway.unregister(c.identity.ID, c)
	}

	c.identity = &identity
	scoped := c.base.With().Str("user_id", identity.ID).Str("role", string(identity.Role)).Logger()
	c.logger.Store(&scoped)

	c.gateway.register(identity, c)
	c.Push(encodeAuthenticated())
}

// handleMessage persists a message envelope and routes the result.
func (c *Client) handleMessage(env inboundEnvelope) {
	g := c.gateway
	sender := message.Sender{ID: c.identity.ID, Role: c.identity.Role}

	ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
	defer cancel()

	allowed, err := g.limiter.Allow(ctx, sender.ID)
	if err != nil {
		c.log().Warn().Err(err).Msg("Send limiter unavailable, allowing message")
	} else if !allowed {
		c.sendError(errs.ErrMessageRateLimited)
		return
	}

	msg, err := g.service.CreateMessage(ctx, sender, env.createInput())
	if err != nil {
		c.handleCreateError(err)
		return
	}

	g.metrics.MessageCreated(metrics.SourceWebSocket, env.IsSupport)
	g.Deliver(msg)
}

// handleCreateError reports validation failures to the sender. Storage failures
// and timeouts are logged only; the message is not delivered.
func (c *Client) handleCreateError(err error) {
	switch {
	case errors.Is(err, message.ErrContentEmpty):
		c.sendError(errs.ErrMessageContentEmpty)
	case errors.Is(err, message.ErrContentTooLong):
		c.sendError(errs.ErrMessageContentTooLong)
	case errors.Is(err, message.ErrReceiverRequired):
		c.sendError(errs.ErrReceiverRequired)
	default:
		c.log().Error().Err(err).
			Bool("timeout", errors.Is(err, context.DeadlineExceeded)).
			Msg("Failed to persist message; dropping.")
	}
}

func (c *Client) sendError(code int) {
	c.Push(encodeError(errs.NewError(code).Message))
}

// WritePump handles writing messages from the Client.send channel to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.close()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload := <-c.send:
			if !c.writeMessage(websocket.TextMessage, payload) {
				return
			}

		case <-ticker.C:
			if !c.writeMessage(websocket.PingMessage, nil) {
				return
			}

		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// writeMessage writes one frame. It returns false if the WritePump loop should terminate.
func (c *Client) writeMessage(messageType int, payload []byte) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.log().Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if err := c.conn.WriteMessage(messageType, payload); err != nil {
		c.log().Debug().Err(err).Int("frame_type", messageType).Msg("Error writing frame")
		return false
	}

	return true
}
