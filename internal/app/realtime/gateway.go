package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"talentx/internal/app/message"
	"talentx/internal/app/metrics"
	"talentx/internal/app/user"
	"talentx/internal/pkg/auth/jwt"
	"talentx/internal/pkg/limiter"
	"talentx/internal/pkg/logx"
)

// DefaultMessageTimeout bounds the store work for one inbound message.
const DefaultMessageTimeout = 10 * time.Second

// MessageCreator persists a message on behalf of an authenticated sender.
type MessageCreator interface {
	CreateMessage(ctx context.Context, sender message.Sender, in message.CreateInput) (message.FormattedMessage, error)
}

// Options configures a Gateway. JWTSecret is required; the rest have defaults.
type Options struct {
	JWTSecret      string
	Limiter        limiter.Limiter
	Metrics        *metrics.Metrics
	MessageTimeout time.Duration
}

type allowAll struct{}

func (allowAll) Allow(context.Context, string) (bool, error) { return true, nil }

// Gateway accepts WebSocket connections, authenticates them and routes messages
// between registered users.
type Gateway struct {
	registry *Registry
	service  MessageCreator
	secret   string
	limiter  limiter.Limiter
	metrics  *metrics.Metrics
	timeout  time.Duration

	// clients tracks live connections so Shutdown can close them.
	mu      sync.Mutex
	clients map[*Client]struct{}
	closed  bool
	wg      sync.WaitGroup

	logger zerolog.Logger
}

// NewGateway constructs a Gateway routing through registry.
func NewGateway(registry *Registry, service MessageCreator, opts Options) *Gateway {
	g := &Gateway{
		registry: registry,
		service:  service,
		secret:   opts.JWTSecret,
		limiter:  opts.Limiter,
		metrics:  opts.Metrics,
		timeout:  opts.MessageTimeout,
		clients:  make(map[*Client]struct{}),
		logger:   logx.Component("gateway"),
	}

	if g.limiter == nil {
		g.limiter = allowAll{}
	}
	if g.timeout <= 0 {
		g.timeout = DefaultMessageTimeout
	}

	return g
}

// Registry returns the connection registry used for routing.
func (g *Gateway) Registry() *Registry {
	return g.registry
}

// Serve runs the protocol on an upgraded connection and blocks until it closes.
func (g *Gateway) Serve(conn *websocket.Conn) {
	c := newClient(g, conn)

	if !g.track(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	defer g.untrack(c)

	g.metrics.ConnectionOpened()
	defer g.metrics.ConnectionClosed()

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		c.WritePump()
	}()

	c.ReadPump()
}

func (g *Gateway) track(c *Client) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return false
	}
	g.clients[c] = struct{}{}
	g.wg.Add(1)
	return true
}

func (g *Gateway) untrack(c *Client) {
	g.mu.Lock()
	delete(g.clients, c)
	g.mu.Unlock()

	g.wg.Done()
}

func (g *Gateway) register(id jwt.Identity, c *Client) {
	if replaced := g.registry.Register(id.ID, id.Role, c); replaced != nil && replaced != Conn(c) {
		g.logger.Info().Str("user_id", id.ID).Msg("Newer connection replaced an existing registration.")
	}
	g.metrics.SetRegistered(g.registry.Len())
}

func (g *Gateway) unregister(userID string, c *Client) {
	g.registry.Unregister(userID, c)
	g.metrics.SetRegistered(g.registry.Len())
}

// Deliver pushes msg as a new_message envelope to its live recipients and returns
// how many connections accepted it. Messages addressed to the support account go
// to every registered admin; anything else goes to the receiver, if connected.
// Delivery is best-effort: offline or saturated recipients are skipped.
func (g *Gateway) Deliver(msg message.FormattedMessage) int {
	payload, err := encodeNewMessage(msg)
	if err != nil {
		g.logger.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to encode new_message envelope.")
		return 0
	}

	if user.IsSupport(msg.ReceiverID) {
		return g.deliverToAdmins(msg, payload)
	}

	conn, ok := g.registry.Lookup(msg.ReceiverID)
	if !ok {
		g.metrics.RecordDelivery(metrics.DeliveryOffline)
		return 0
	}

	return g.push(conn, msg, payload)
}

func (g *Gateway) deliverToAdmins(msg message.FormattedMessage, payload []byte) int {
	delivered, admins := 0, 0

	g.registry.ForEach(func(userID string, role user.Role, c Conn) {
		if !role.IsAdmin() || userID == msg.SenderID {
			return
		}
		admins++
		delivered += g.push(c, msg, payload)
	})

	if admins == 0 {
		g.metrics.RecordDelivery(metrics.DeliveryOffline)
	}
	return delivered
}

func (g *Gateway) push(c Conn, msg message.FormattedMessage, payload []byte) int {
	if !c.Push(payload) {
		g.logger.Warn().Str("message_id", msg.ID).Msg("Live delivery dropped.")
		g.metrics.RecordDelivery(metrics.DeliveryDropped)
		return 0
	}
	g.metrics.RecordDelivery(metrics.DeliveryPushed)
	return 1
}

// Shutdown closes every live connection and waits for their pumps to exit.
// Connections arriving afterwards are refused.
func (g *Gateway) Shutdown() {
	g.mu.Lock()
	g.closed = true
	clients := make([]*Client, 0, len(g.clients))
	for c := range g.clients {
		clients = append(clients, c)
	}
	g.mu.Unlock()

	g.logger.Info().Int("connections", len(clients)).Msg("Shutting down gateway...")

	for _, c := range clients {
		c.close()
	}
	g.wg.Wait()

	g.logger.Info().Msg("Gateway shutdown complete.")
}
