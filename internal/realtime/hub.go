// Package realtime fans channel message events out to websocket subscribers.
package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"teamwork/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SendBuffer is how many events may queue for one subscriber before the hub
// gives up on it.
const SendBuffer = 32

// Subscriber receives encoded events. Send runs on a goroutine owned by the
// subscription, so a slow Send only delays its own subscriber.
type Subscriber interface {
	Send([]byte) error
	Close()
}

// Stream identifies a subscription: who listens to which channel of which
// team. Disconnects match on it.
type Stream struct {
	TeamID    primitive.ObjectID
	ChannelID primitive.ObjectID
	UserID    primitive.ObjectID
}

type subscription struct {
	stream Stream
	client Subscriber
	out    chan []byte
}

type message struct {
	channelID primitive.ObjectID
	payload   []byte
}

type disconnect struct {
	match func(Stream) bool
	reply chan int
}

// Hub manages stream subscriptions by channel ID. All bookkeeping happens on
// one goroutine; delivery happens on one goroutine per subscription.
type Hub struct {
	clients    map[primitive.ObjectID]map[Subscriber]*subscription
	register   chan *subscription
	unreg      chan Subscriber
	broadcast  chan message
	disconnect chan disconnect
	count      chan chan int

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewHub creates a running Hub.
func NewHub() *Hub {
	h := &Hub{
		clients:    make(map[primitive.ObjectID]map[Subscriber]*subscription),
		register:   make(chan *subscription),
		unreg:      make(chan Subscriber),
		broadcast:  make(chan message, 64),
		disconnect: make(chan disconnect),
		count:      make(chan chan int),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.done)
	for {
		select {
		case <-h.stop:
			for _, subs := range h.clients {
				for _, sub := range subs {
					close(sub.out)
					sub.client.Close()
				}
			}
			h.clients = nil
			return
		case sub := <-h.register:
			subs, ok := h.clients[sub.stream.ChannelID]
			if !ok {
				subs = make(map[Subscriber]*subscription)
				h.clients[sub.stream.ChannelID] = subs
			}
			subs[sub.client] = sub
			go h.pump(sub)
		case client := <-h.unreg:
			for _, subs := range h.clients {
				if sub, ok := subs[client]; ok {
					h.drop(sub)
					break
				}
			}
		case msg := <-h.broadcast:
			for _, sub := range h.clients[msg.channelID] {
				select {
				case sub.out <- msg.payload:
				default:
					slog.Warn("dropping slow stream subscriber",
						"channel_id", sub.stream.ChannelID.Hex(), "user_id", sub.stream.UserID.Hex())
					h.drop(sub)
				}
			}
		case req := <-h.disconnect:
			n := 0
			for _, subs := range h.clients {
				for _, sub := range subs {
					if req.match(sub.stream) {
						h.drop(sub)
						n++
					}
				}
			}
			req.reply <- n
		case reply := <-h.count:
			n := 0
			for _, subs := range h.clients {
				n += len(subs)
			}
			reply <- n
		}
	}
}

// drop forgets sub and closes its client without waiting on it.
func (h *Hub) drop(sub *subscription) {
	subs := h.clients[sub.stream.ChannelID]
	delete(subs, sub.client)
	if len(subs) == 0 {
		delete(h.clients, sub.stream.ChannelID)
	}
	close(sub.out)
	go sub.client.Close()
}

// pump delivers queued events until the subscription is dropped or a send
// fails.
func (h *Hub) pump(sub *subscription) {
	for payload := range sub.out {
		if err := sub.client.Send(payload); err != nil {
			sub.client.Close()
			h.Unregister(sub.client)
			return
		}
	}
}

// Register subscribes client to stream.ChannelID.
func (h *Hub) Register(stream Stream, client Subscriber) {
	sub := &subscription{stream: stream, client: client, out: make(chan []byte, SendBuffer)}
	select {
	case h.register <- sub:
	case <-h.done:
		client.Close()
	}
}

// Unregister removes client. Unknown clients are ignored.
func (h *Hub) Unregister(client Subscriber) {
	select {
	case h.unreg <- client:
	case <-h.done:
	}
}

// Broadcast queues payload for every subscriber of a channel. It never waits
// on a subscriber.
func (h *Hub) Broadcast(channelID primitive.ObjectID, payload []byte) {
	select {
	case h.broadcast <- message{channelID: channelID, payload: payload}:
	case <-h.done:
	}
}

// Publish encodes event and broadcasts it on channelID.
func (h *Hub) Publish(channelID primitive.ObjectID, event models.MessageEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to encode message event", "channel_id", channelID.Hex(), "error", err)
		return
	}
	h.Broadcast(channelID, payload)
}

// DisconnectMember closes userID's streams in teamID and returns how many
// were closed.
func (h *Hub) DisconnectMember(teamID, userID primitive.ObjectID) int {
	return h.disconnectWhere(func(s Stream) bool { return s.TeamID == teamID && s.UserID == userID })
}

// DisconnectUser closes every stream of userID.
func (h *Hub) DisconnectUser(userID primitive.ObjectID) int {
	return h.disconnectWhere(func(s Stream) bool { return s.UserID == userID })
}

// DisconnectChannel closes every stream of channelID.
func (h *Hub) DisconnectChannel(channelID primitive.ObjectID) int {
	return h.disconnectWhere(func(s Stream) bool { return s.ChannelID == channelID })
}

// DisconnectTeam closes every stream in teamID.
func (h *Hub) DisconnectTeam(teamID primitive.ObjectID) int {
	return h.disconnectWhere(func(s Stream) bool { return s.TeamID == teamID })
}

func (h *Hub) disconnectWhere(match func(Stream) bool) int {
	req := disconnect{match: match, reply: make(chan int, 1)}
	select {
	case h.disconnect <- req:
		return <-req.reply
	case <-h.done:
		return 0
	}
}

// Subscribers returns the number of connected clients.
func (h *Hub) Subscribers() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

// Close disconnects every client and stops the hub.
func (h *Hub) Close() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}
