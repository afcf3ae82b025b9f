package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Channel naming for the redis bridge. Per-user channels carry direct
// messages, per-group channels carry group messages; the hub resolves group
// channels to member connections itself.
const (
	userChannelPrefix  = "chat:user:"
	groupChannelPrefix = "chat:group:"
)

// Event is the wire shape published over redis and written to websockets
type Event struct {
	Kind        string `json:"kind"` // message, group_message
	SenderID    uint   `json:"sender_id"`
	RecipientID uint   `json:"recipient_id,omitempty"`
	GroupID     uint   `json:"group_id,omitempty"`
	Content     string `json:"content"`
	MediaURL    string `json:"media_url,omitempty"`
}

// Bridge publishes chat events to redis and feeds subscribed events into a
// Hub, so delivery works across server instances.
type Bridge struct {
	rdb *redis.Client
	hub *Hub

	// resolveMembers maps a group ID to its member user IDs for fan-out.
	resolveMembers func(groupID uint) ([]uint, error)
}

// NewBridge creates a Bridge over the given redis client and hub
func NewBridge(rdb *redis.Client, hub *Hub, resolveMembers func(groupID uint) ([]uint, error)) *Bridge {
	return &Bridge{rdb: rdb, hub: hub, resolveMembers: resolveMembers}
}

// PublishDirect publishes a direct-message event. Publish failures are
// logged and swallowed: the message row is already persisted and realtime
// delivery is best effort.
func (b *Bridge) PublishDirect(ctx context.Context, ev Event) {
	if b.rdb == nil {
		b.hub.Broadcast(ev.RecipientID, mustMarshal(ev))
		return
	}
	payload := mustMarshal(ev)
	if err := b.rdb.Publish(ctx, fmt.Sprintf("%s%d", userChannelPrefix, ev.RecipientID), payload).Err(); err != nil {
		log.Printf("failed to publish direct message event: %v", err)
	}
}

// PublishGroup publishes a group-message event
func (b *Bridge) PublishGroup(ctx context.Context, ev Event) {
	if b.rdb == nil {
		b.fanOutGroup(ev)
		return
	}
	payload := mustMarshal(ev)
	if err := b.rdb.Publish(ctx, fmt.Sprintf("%s%d", groupChannelPrefix, ev.GroupID), payload).Err(); err != nil {
		log.Printf("failed to publish group message event: %v", err)
	}
}

// Run subscribes to the chat channel patterns and forwards events to the
// hub until the context is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	if b.rdb == nil {
		return nil
	}

	sub := b.rdb.PSubscribe(ctx, userChannelPrefix+"*", groupChannelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.dispatch(msg.Channel, []byte(msg.Payload))
		}
	}
}

func (b *Bridge) dispatch(channel string, payload []byte) {
	switch {
	case strings.HasPrefix(channel, userChannelPrefix):
		var userID uint
		if _, err := fmt.Sscanf(channel, userChannelPrefix+"%d", &userID); err != nil {
			log.Printf("invalid chat channel: %s", channel)
			return
		}
		b.hub.Broadcast(userID, payload)
	case strings.HasPrefix(channel, groupChannelPrefix):
		var ev Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			log.Printf("invalid group chat payload on %s: %v", channel, err)
			return
		}
		b.fanOutGroup(ev)
	}
}

func (b *Bridge) fanOutGroup(ev Event) {
	memberIDs, err := b.resolveMembers(ev.GroupID)
	if err != nil {
		log.Printf("failed to resolve members of group %d: %v", ev.GroupID, err)
		return
	}
	payload := mustMarshal(ev)
	for _, id := range memberIDs {
		if id == ev.SenderID {
			continue
		}
		b.hub.Broadcast(id, payload)
	}
}

func mustMarshal(ev Event) []byte {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("failed to marshal chat event: %v", err)
		return []byte("{}")
	}
	return payload
}
