package realtime

import (
	"context"
	"time"
)

// Event is a league change pushed to live subscribers after a commit.
type Event struct {
	LeagueID string    `json:"league_id"`
	Type     string    `json:"type"`
	Version  int64     `json:"version"`
	Payload  any       `json:"payload,omitempty"`
	At       time.Time `json:"at"`
}

type hubMsg interface{ isHubMsg() }

type subscribe struct {
	leagueID string
	reply    chan subscription
}

type unsubscribe struct {
	leagueID string
	id       int
}

type publish struct {
	event Event
}

func (subscribe) isHubMsg()   {}
func (unsubscribe) isHubMsg() {}
func (publish) isHubMsg()     {}

type subscription struct {
	id int
	ch chan Event
}

// Hub fans league events out to subscribers. All subscriber state is owned by
// the loop goroutine; callers talk to it through the inbox.
type Hub struct {
	inbox  chan hubMsg
	buffer int
	subs   map[string]map[int]chan Event
	nextID int
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewHub(parent context.Context, buffer int) *Hub {
	if buffer < 1 {
		buffer = 16
	}
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan hubMsg, 64),
		buffer: buffer,
		subs:   make(map[string]map[int]chan Event),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go h.loop()
	return h
}

// Subscribe registers for events of one league. The channel closes when the
// returned cancel func runs or the hub stops.
func (h *Hub) Subscribe(ctx context.Context, leagueID string) (<-chan Event, func(), error) {
	if err := h.ctx.Err(); err != nil {
		return nil, nil, err
	}

	reply := make(chan subscription, 1)
	select {
	case h.inbox <- subscribe{leagueID: leagueID, reply: reply}:
	case <-h.ctx.Done():
		return nil, nil, h.ctx.Err()
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}

	var sub subscription
	select {
	case sub = <-reply:
	case <-h.ctx.Done():
		return nil, nil, h.ctx.Err()
	}

	cancel := func() {
		select {
		case h.inbox <- unsubscribe{leagueID: leagueID, id: sub.id}:
		case <-h.ctx.Done():
		}
	}
	return sub.ch, cancel, nil
}

// Publish queues an event without blocking. It reports false when the hub is
// saturated or stopped and the event was dropped.
func (h *Hub) Publish(event Event) bool {
	if h.ctx.Err() != nil {
		return false
	}
	select {
	case h.inbox <- publish{event: event}:
		return true
	case <-h.ctx.Done():
		return false
	default:
		return false
	}
}

// Close stops the loop and closes every subscriber channel.
func (h *Hub) Close() {
	h.cancel()
	<-h.done
}

func (h *Hub) loop() {
	defer close(h.done)
	for {
		select {
		case <-h.ctx.Done():
			for leagueID, subs := range h.subs {
				for id, ch := range subs {
					close(ch)
					delete(subs, id)
				}
				delete(h.subs, leagueID)
			}
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case subscribe:
				h.nextID++
				ch := make(chan Event, h.buffer)
				if h.subs[msg.leagueID] == nil {
					h.subs[msg.leagueID] = make(map[int]chan Event)
				}
				h.subs[msg.leagueID][h.nextID] = ch
				msg.reply <- subscription{id: h.nextID, ch: ch}

			case unsubscribe:
				subs := h.subs[msg.leagueID]
				if ch, ok := subs[msg.id]; ok {
					close(ch)
					delete(subs, msg.id)
				}
				if len(subs) == 0 {
					delete(h.subs, msg.leagueID)
				}

			case publish:
				for _, ch := range h.subs[msg.event.LeagueID] {
					// Slow subscribers miss events rather than stall the hub.
					select {
					case ch <- msg.event:
					default:
					}
				}
			}
		}
	}
}
