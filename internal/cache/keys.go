package cache

import (
	"context"
	"time"

	"campusvibe/internal/models"
)

const (
	StoryFeedKey      = "stories:active"
	PollListKeyPrefix = "polls:list:"
)

const (
	StoryFeedTTL = 30 * time.Second
	PollListTTL  = 15 * time.Second
)

// PollListKey is the key of the poll list for a category; the empty
// category is the unfiltered list.
func PollListKey(category models.Category) string {
	if category == "" {
		return PollListKeyPrefix + "all"
	}
	return PollListKeyPrefix + string(category)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateStoryFeed(ctx context.Context) {
	Invalidate(ctx, StoryFeedKey)
}

// InvalidatePollLists drops every cached poll list, filtered or not.
func InvalidatePollLists(ctx context.Context) {
	keys := []string{PollListKey("")}
	for _, c := range models.Categories {
		keys = append(keys, PollListKey(c))
	}
	Invalidate(ctx, keys...)
}
