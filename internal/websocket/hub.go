package websocket

import (
	"context"
	"encoding/json"
	"time"

	"jamp-chat/internal/models"
	"jamp-chat/pkg/logger"
)

// EventHandler receives connection events, one at a time, from the hub loop.
type EventHandler interface {
	OnConnect(connID string)
	OnJoin(connID, name string)
	OnMessage(connID, text string)
	OnLeave(connID string)
	OnDisconnect(connID string)
}

// inboundFrame is a frame or, with gone set, the end of the connection. Both share
// one channel so a client's last frames are handled before its disconnect.
type inboundFrame struct {
	client *Client
	frame  models.InboundFrame
	gone   bool
}

// Hub owns the room's connections. Everything that touches room state runs inside
// Run, so handlers see events strictly one after another.
type Hub struct {
	clients  map[string]*Client
	members  map[string]struct{} // joined connections; room events reach only these
	register chan *Client
	inbound  chan inboundFrame
	deferred chan func()
	done     chan struct{}
	handler  EventHandler
}

func NewHub() *Hub {
	return &Hub{
		clients:  make(map[string]*Client),
		members:  make(map[string]struct{}),
		register: make(chan *Client),
		inbound:  make(chan inboundFrame, 64),
		deferred: make(chan func(), 64),
		done:     make(chan struct{}),
	}
}

// Attach sets the handler. It must be called before Run.
func (h *Hub) Attach(handler EventHandler) {
	h.handler = handler
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			clear(h.members)
			logger.Info("Hub stopped")
			return

		case client := <-h.register:
			h.clients[client.id] = client
			h.handler.OnConnect(client.id)

		case in := <-h.inbound:
			if in.gone {
				h.drop(in.client)
				continue
			}
			h.dispatch(in)

		case fn := <-h.deferred:
			fn()
		}
	}
}

func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client.id]; ok {
		delete(h.clients, client.id)
		close(client.send)
	}
	delete(h.members, client.id)
	// also reached for clients already dropped as slow consumers
	h.handler.OnDisconnect(client.id)
}

func (h *Hub) dispatch(in inboundFrame) {
	id := in.client.id
	if _, ok := h.clients[id]; !ok {
		return
	}
	switch in.frame.Type {
	case models.FrameJoin:
		h.handler.OnJoin(id, in.frame.Username)
	case models.FrameSendMessage:
		h.handler.OnMessage(id, in.frame.Message)
	case models.FrameLeave:
		h.handler.OnLeave(id)
	default:
		logger.Debug("Unknown frame type %q from %s", in.frame.Type, id)
	}
}

// Emit implements chat.Emitter. It is only called from inside Run.
func (h *Hub) Emit(evt models.ChatEvent, to models.Target) {
	data, err := json.Marshal(evt)
	if err != nil {
		logger.Error("Error marshaling %s event: %v", evt.Type, err)
		return
	}

	if !to.IsRoom() {
		if client, ok := h.clients[to.ConnID]; ok {
			h.deliver(client, data)
		}
		return
	}
	for id := range h.members {
		if client, ok := h.clients[id]; ok {
			h.deliver(client, data)
		}
	}
}

// JoinRoom implements chat.Emitter. Unknown connections are ignored.
func (h *Hub) JoinRoom(connID string) {
	if _, ok := h.clients[connID]; ok {
		h.members[connID] = struct{}{}
	}
}

// LeaveRoom implements chat.Emitter.
func (h *Hub) LeaveRoom(connID string) {
	delete(h.members, connID)
}

func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		// slow consumer: closing send ends WritePump, whose close ends ReadPump,
		// which unregisters and triggers the disconnect handling
		logger.Error("Dropping slow client %s", client.id)
		close(client.send)
		delete(h.clients, client.id)
		delete(h.members, client.id)
	}
}

// Schedule implements chat.Scheduler: fn runs on the hub loop after d.
func (h *Hub) Schedule(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		select {
		case h.deferred <- fn:
		case <-h.done:
		}
	})
}

// Register hands a freshly upgraded client to the loop. False once the hub stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.inbound <- inboundFrame{client: c, gone: true}:
	case <-h.done:
	}
}

func (h *Hub) submit(c *Client, frame models.InboundFrame) {
	select {
	case h.inbound <- inboundFrame{client: c, frame: frame}:
	case <-h.done:
	}
}

// Done is closed when Run returns.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}
