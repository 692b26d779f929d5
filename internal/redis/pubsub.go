package redisx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// ActivitiesPubSub fans out availability and listing changes so other
// processes (socket pushers, cache warmers) can react without polling.
type ActivitiesPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewActivitiesPubSub(rdb *redis.Client) *ActivitiesPubSub {
	return &ActivitiesPubSub{
		rdb:     rdb,
		channel: ChannelActivitiesChanged(),
	}
}

type activityChangedMsg struct {
	Type       string `json:"type"`
	ActivityID string `json:"activity_id"`
	Date       string `json:"date,omitempty"`
	TsUnix     int64  `json:"ts_unix"`
}

func (p *ActivitiesPubSub) PublishAvailabilityChanged(ctx context.Context, activityID, date string) error {
	return p.publish(ctx, activityChangedMsg{
		Type:       "availability_changed",
		ActivityID: activityID,
		Date:       date,
		TsUnix:     time.Now().Unix(),
	})
}

func (p *ActivitiesPubSub) PublishListingChanged(ctx context.Context, activityID string) error {
	return p.publish(ctx, activityChangedMsg{
		Type:       "listing_changed",
		ActivityID: activityID,
		TsUnix:     time.Now().Unix(),
	})
}

func (p *ActivitiesPubSub) publish(ctx context.Context, msg activityChangedMsg) error {
	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *ActivitiesPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, kind, activityID string)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev activityChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil &&
				ev.ActivityID != "" {
				handler(ctx, ev.Type, ev.ActivityID)
			}
		}
	}
}
