package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const channelPrefix = "changes:"

// Change tells subscribed clients that rows in a table were written and
// should be re-read. It carries no row data — the feed is a re-read signal,
// not a consistency mechanism.
type Change struct {
	Table string   `json:"table"`
	Keys  []string `json:"keys,omitempty"`
	At    int64    `json:"at"`
}

// Publisher fans table-change events out over Redis pub/sub. A nil
// Publisher is valid and drops every event, which keeps tests and offline
// tools free of a Redis dependency.
type Publisher struct {
	rdb *redis.Client
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

func (p *Publisher) TableChanged(ctx context.Context, table string, keys ...string) {
	if p == nil || p.rdb == nil {
		return
	}
	payload, err := json.Marshal(Change{Table: table, Keys: keys, At: time.Now().UnixMilli()})
	if err != nil {
		return
	}
	// Fire and forget: a dropped notification only delays a client re-read.
	p.rdb.Publish(ctx, channelPrefix+table, payload)
}

// Subscribe returns a channel of parsed change events for the given tables.
// The cancel func must be called to release the underlying subscription.
func Subscribe(ctx context.Context, rdb *redis.Client, tables ...string) (<-chan Change, func()) {
	channels := make([]string, len(tables))
	for i, t := range tables {
		channels[i] = channelPrefix + t
	}
	sub := rdb.Subscribe(ctx, channels...)

	out := make(chan Change, 16)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var ch Change
			if err := json.Unmarshal([]byte(msg.Payload), &ch); err != nil {
				continue
			}
			select {
			case out <- ch:
			default:
				// Slow consumer: drop rather than block the feed.
			}
		}
	}()

	return out, func() { sub.Close() }
}
