// Package notifications publishes application events into Redis channels so
// other processes (push workers, live counter streams) can react to them.
package notifications

import (
	"context"
	"encoding/json"
	"log"
	"runtime/debug"
	"strconv"

	"quadside/internal/service"

	"github.com/redis/go-redis/v9"
)

// Notifier publishes engagement and notification events into Redis channels.
// A nil Redis client turns every publish into a no-op so the app runs
// without Redis in development.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishEngagement sends an engagement event to the content item's channel
// and, when the actor is not the owner, to the owner's notification channel.
// Publish failures are logged and swallowed; engagement writes never fail
// because the event bus is down.
func (n *Notifier) PublishEngagement(ctx context.Context, event service.EngagementEvent) {
	if n.rdb == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("notifier: marshal engagement event: %v", err)
		return
	}

	channel := ContentChannel(string(event.ContentType), event.ContentID)
	if err := n.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		log.Printf("notifier: publish %s: %v", channel, err)
	}

	// Only positive actions from someone else notify the owner; removing a
	// like or repost is not notification-worthy.
	if !event.Active || event.ActorID == event.OwnerID || event.OwnerID == 0 {
		return
	}
	userCh := UserChannel(event.OwnerID)
	if err := n.rdb.Publish(ctx, userCh, payload).Err(); err != nil {
		log.Printf("notifier: publish %s: %v", userCh, err)
	}
}

// PublishUser sends a raw notification payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// StartSubscriber subscribes to engagement and user notification patterns
// and calls onMessage for each incoming message.
func (n *Notifier) StartSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "engagement:*", "notifications:user:*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in notification subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "notifications:user:" + strconv.FormatUint(uint64(userID), 10)
}

// ContentChannel derives the Redis channel name for a content item.
func ContentChannel(contentType string, contentID uint) string {
	return "engagement:" + contentType + ":" + strconv.FormatUint(uint64(contentID), 10)
}
