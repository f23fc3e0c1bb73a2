package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait           = 10 * time.Second
	pongWait            = 60 * time.Second
	pingPeriod          = (pongWait * 9) / 10
	maxMessageSize      = 512 * 1024
	defaultSendBuf      = 256
	defaultPublishBuf   = 4096
	maxConsecutiveDrops = 50
)

// ScenarioUpdate is pushed to subscribers of an instrument whenever a new
// comparison has been computed for it, so open dashboards refresh without
// polling.
type ScenarioUpdate struct {
	Instrument        string  `json:"instrument"`
	TotalRevenueA     float64 `json:"totalRevenueA"`
	TotalRevenueB     float64 `json:"totalRevenueB"`
	TotalRevenueDelta float64 `json:"totalRevenueDelta"`
	Ts                int64   `json:"ts"`
	Seq               uint64  `json:"seq,omitempty"`
}

type publishMsg struct {
	Topic string
	Data  []byte
}

type subscription struct {
	client *Client
	topic  string
}

// Hub manages clients, per-instrument subscriptions and publishes.
type Hub struct {
	register    chan *Client
	unregister  chan *Client
	subscribe   chan subscription
	unsubscribe chan subscription
	publish     chan publishMsg

	clients map[*Client]struct{}
	topics  map[string]map[*Client]struct{}

	sendBuf int

	publishDrops uint64

	logger zerolog.Logger
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	subscribed map[string]struct{}

	// consecutive drops counter: if it grows too large we evict the client
	drops int
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan subscription),
		unsubscribe: make(chan subscription),
		publish:     make(chan publishMsg, defaultPublishBuf),
		clients:     make(map[*Client]struct{}),
		topics:      make(map[string]map[*Client]struct{}),
		sendBuf:     defaultSendBuf,
		logger:      logger,
	}
}

// drop removes a client from the hub and every topic it followed.
func (h *Hub) drop(c *Client, closeConn bool) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	for t := range c.subscribed {
		if subs := h.topics[t]; subs != nil {
			delete(subs, c)
			if len(subs) == 0 {
				delete(h.topics, t)
			}
		}
	}
	close(c.send)
	if closeConn {
		_ = c.conn.Close()
	}
}

// deliver queues data for one client, evicting it after too many
// consecutive full-buffer drops.
func (h *Hub) deliver(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		atomic.AddUint64(&h.publishDrops, 1)
		c.drops++
		if c.drops > maxConsecutiveDrops {
			h.logger.Warn().Int("drops", c.drops).Msg("evicting slow ws client")
			h.drop(c, true)
		}
	}
}

// Run runs the hub event loop. Call as: go hub.Run(ctx).
// The hub stops when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info().Msg("ws hub started")
	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}

		case c := <-h.unregister:
			h.drop(c, false)

		case sub := <-h.subscribe:
			subs := h.topics[sub.topic]
			if subs == nil {
				subs = make(map[*Client]struct{})
				h.topics[sub.topic] = subs
			}
			subs[sub.client] = struct{}{}
			sub.client.subscribed[sub.topic] = struct{}{}

		case sub := <-h.unsubscribe:
			if subs := h.topics[sub.topic]; subs != nil {
				delete(subs, sub.client)
				if len(subs) == 0 {
					delete(h.topics, sub.topic)
				}
			}
			delete(sub.client.subscribed, sub.topic)

		case p := <-h.publish:
			if p.Topic == "" {
				for c := range h.clients {
					h.deliver(c, p.Data)
				}
				continue
			}
			for c := range h.topics[p.Topic] {
				h.deliver(c, p.Data)
			}

		case <-ctx.Done():
			h.logger.Info().Msg("ws hub shutting down")
			for c := range h.clients {
				close(c.send)
				_ = c.conn.Close()
				delete(h.clients, c)
			}
			return
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// In prod, check origin and require auth.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and registers a client.
// Initial instruments can be passed via ?instruments=FUTURES,SPOT
func ServeWS(h *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "upgrade failed", http.StatusBadRequest)
		return
	}

	client := &Client{
		hub:        h,
		conn:       conn,
		send:       make(chan []byte, h.sendBuf),
		subscribed: make(map[string]struct{}),
	}

	if s := r.URL.Query().Get("instruments"); s != "" {
		for _, sym := range strings.Split(s, ",") {
			sym = strings.TrimSpace(sym)
			if sym == "" {
				continue
			}
			client.subscribed[sym] = struct{}{}
		}
	}

	h.register <- client
	for sym := range client.subscribed {
		h.subscribe <- subscription{client: client, topic: sym}
	}

	go client.writePump()
	go client.readPump()
}

// readPump reads control messages from the client and turns them into
// subscribe/unsubscribe requests.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
			) {
				c.hub.logger.Warn().Err(err).Msg("ws read error")
			}
			return
		}

		// any incoming activity -> reset drops counter
		c.drops = 0

		var cmd struct {
			Type       string `json:"type"`       // "subscribe" | "unsubscribe"
			Instrument string `json:"instrument"` // e.g. "FUTURES"
		}
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.hub.logger.Warn().Err(err).Msg("invalid ws client msg")
			continue
		}

		switch cmd.Type {
		case "subscribe":
			if cmd.Instrument != "" {
				c.hub.subscribe <- subscription{client: c, topic: cmd.Instrument}
			}
		case "unsubscribe":
			if cmd.Instrument != "" {
				c.hub.unsubscribe <- subscription{client: c, topic: cmd.Instrument}
			}
		}
	}
}

// writePump serializes all writes to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				)
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			if _, err := w.Write(message); err != nil {
				_ = w.Close()
				return
			}

			// batch queued messages into same frame
			n := len(c.send)
			for i := 0; i < n; i++ {
				if msg := <-c.send; msg != nil {
					if _, err := w.Write([]byte("\n")); err != nil {
						break
					}
					if _, err := w.Write(msg); err != nil {
						break
					}
				}
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// PublishUpdate publishes a scenario update to subscribers of its
// instrument. Non-blocking: if the hub publish buffer is full the update is
// dropped, the next recompute supersedes it anyway.
func (h *Hub) PublishUpdate(u ScenarioUpdate) {
	u.Seq = nextSeq(u.Instrument)
	payload := struct {
		Type   string         `json:"type"`
		Update ScenarioUpdate `json:"update"`
	}{"scenario_update", u}
	b, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error().Err(err).Msg("marshal scenario update")
		return
	}

	select {
	case h.publish <- publishMsg{Topic: u.Instrument, Data: b}:
	default:
		atomic.AddUint64(&h.publishDrops, 1)
		h.logger.Warn().Msg("publish channel full, dropping update")
	}
}

// Stats returns simple metrics (clients count and publish drops).
func (h *Hub) Stats() (clients int, drops uint64) {
	clients = len(h.clients)
	drops = atomic.LoadUint64(&h.publishDrops)
	return
}
