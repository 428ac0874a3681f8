// Package feed pushes live jackpot changes to WebSocket clients.
package feed

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Message is one frame sent to feed clients
type Message struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	Payload   any    `json:"payload"`

	wheel string
}

// Payloads that belong to one wheel implement this so filtered clients
// only see their wheels.
type wheelScoped interface {
	wheel() string
}

// Client is a connected feed subscriber. Events is closed when the client
// is unregistered or the hub stops.
type Client struct {
	ID     string
	Events chan Message

	wheels []string
	closed bool
}

// Hub fans messages out to registered clients. Registration is
// synchronous; delivery happens on the hub goroutine started by Start.
type Hub struct {
	mu      sync.Mutex
	all     map[*Client]struct{}    // clients without a wheel filter
	byWheel map[string]map[*Client]struct{}
	count   int
	stopped bool

	queue   chan Message
	done    chan struct{}
	wg      sync.WaitGroup
	dropped atomic.Int64
	now     func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		all:     make(map[*Client]struct{}),
		byWheel: make(map[string]map[*Client]struct{}),
		queue:   make(chan Message, BroadcastBufferSize),
		done:    make(chan struct{}),
		now:     time.Now,
	}
}

// Start launches the delivery loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop ends delivery and closes every client. Calling it twice is a no-op.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	h.mu.Unlock()

	close(h.done)
	h.wg.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.all {
		h.closeLocked(c)
	}
	for _, set := range h.byWheel {
		for c := range set {
			h.closeLocked(c)
		}
	}
	clear(h.all)
	clear(h.byWheel)
	h.count = 0
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case msg := <-h.queue:
			h.deliver(msg)
		case <-h.done:
			return
		}
	}
}

func (h *Hub) deliver(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	send := func(c *Client) {
		select {
		case c.Events <- msg:
		default:
			// a slow client misses the frame instead of stalling everyone
			h.dropped.Add(1)
		}
	}
	for c := range h.all {
		send(c)
	}
	if msg.wheel == "" {
		// unscoped messages reach every client
		for _, set := range h.byWheel {
			for c := range set {
				send(c)
			}
		}
		return
	}
	for c := range h.byWheel[msg.wheel] {
		send(c)
	}
}

// Register adds a client for the given wheels, or for every wheel when
// wheels is empty. After Stop the returned client is already closed.
func (h *Hub) Register(wheels []string) *Client {
	c := &Client{
		ID:     uuid.NewString(),
		Events: make(chan Message, ClientEventBuffer),
		wheels: wheels,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		c.closed = true
		close(c.Events)
		return c
	}
	if len(wheels) == 0 {
		h.all[c] = struct{}{}
	}
	for _, w := range wheels {
		set, ok := h.byWheel[w]
		if !ok {
			set = make(map[*Client]struct{})
			h.byWheel[w] = set
		}
		set[c] = struct{}{}
	}
	h.count++
	return c
}

// Unregister removes c and closes its channel
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.closed {
		return
	}
	delete(h.all, c)
	for _, w := range c.wheels {
		if set, ok := h.byWheel[w]; ok {
			delete(set, c)
			if len(set) == 0 {
				delete(h.byWheel, w)
			}
		}
	}
	h.closeLocked(c)
	h.count--
}

func (h *Hub) closeLocked(c *Client) {
	if !c.closed {
		c.closed = true
		close(c.Events)
	}
}

// Broadcast queues a message. It never blocks; a full queue drops it.
func (h *Hub) Broadcast(msgType string, payload any) {
	msg := Message{
		ID:        uuid.NewString(),
		Type:      msgType,
		Timestamp: h.now().Unix(),
		Payload:   payload,
	}
	if w, ok := payload.(wheelScoped); ok {
		msg.wheel = w.wheel()
	}

	select {
	case h.queue <- msg:
	default:
		h.dropped.Add(1)
		slog.Warn(LogMsgBroadcastDropped, "type", msgType, "wheel_id", msg.wheel)
	}
}

// ClientCount is the number of registered clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

// Dropped counts messages lost to a full queue or a slow client
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}
