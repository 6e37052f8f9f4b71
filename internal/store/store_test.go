package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func openTest(t *testing.T, c *clock) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:", Options{Salt: "pepper", Now: c.now})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestHashIP(t *testing.T) {
	s := openTest(t, &clock{t: time.Now()})
	h := s.HashIP("203.0.113.9")
	assert.Len(t, h, 16)
	assert.Equal(t, h, s.HashIP("203.0.113.9"))
	assert.NotEqual(t, h, s.HashIP("203.0.113.10"))
	assert.NotContains(t, h, "203")
}

func TestVisitsAndCleanup(t *testing.T) {
	c := &clock{t: time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)}
	s := openTest(t, c)
	ctx := context.Background()

	// two years ago, two months ago, and today
	c.t = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordVisit(ctx, "198.51.100.1", "old-agent", "/"))
	c.t = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordVisit(ctx, "198.51.100.2", "ua", "/"))
	c.t = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordVisit(ctx, "198.51.100.2", "ua", "/api/content"))

	visitors, err := s.Visitors(ctx, 10)
	require.NoError(t, err)
	require.Len(t, visitors, 3)
	assert.Equal(t, "/api/content", visitors[0].Path)
	assert.Equal(t, c.t, visitors[0].Timestamp)
	assert.Equal(t, s.HashIP("198.51.100.2"), visitors[0].HashedIP)

	n, err := s.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	visitors, err = s.Visitors(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, visitors, 2)
}

func TestMessages(t *testing.T) {
	c := &clock{t: time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)}
	s := openTest(t, c)
	ctx := context.Background()

	require.NoError(t, s.RecordMessage(ctx, "m1", "Ada", "ada@example.com", "hi", "transport", c.t.Add(-time.Hour)))
	require.NoError(t, s.RecordMessage(ctx, "m2", "Bob", "bob@example.com", "yo", "sent", c.t))
	// a retried id updates the status in place
	require.NoError(t, s.RecordMessage(ctx, "m1", "Ada", "ada@example.com", "hi", "sent", c.t))

	msgs, err := s.Messages(ctx, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m2", msgs[0].ID)
	assert.Equal(t, "sent", msgs[1].Status)
	assert.Equal(t, c.t.Add(-time.Hour), msgs[1].CreatedAt)

	require.NoError(t, s.DeleteMessage(ctx, "m1"))
	assert.ErrorIs(t, s.DeleteMessage(ctx, "m1"), ErrNotFound)
}

func TestStats(t *testing.T) {
	c := &clock{t: time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)}
	s := openTest(t, c)
	ctx := context.Background()

	c.t = time.Date(2026, 5, 5, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordVisit(ctx, "a", "ua", "/"))
	c.t = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordVisit(ctx, "b", "ua", "/"))
	c.t = time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordVisit(ctx, "a", "ua", "/api/content"))
	require.NoError(t, s.RecordMessage(ctx, "m1", "Ada", "a@b.co", "hi", "sent", c.t))
	require.NoError(t, s.RecordMessage(ctx, "m2", "Eve", "e@b.co", "hi", "transport", c.t))
	c.t = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalVisitors)
	assert.Equal(t, int64(2), stats.UniqueVisitors)
	assert.Equal(t, int64(1), stats.VisitorsToday)
	assert.Equal(t, int64(2), stats.VisitorsThisWeek)
	assert.Equal(t, int64(2), stats.TotalMessages)
	assert.Equal(t, map[string]int{"sent": 1, "transport": 1}, stats.MessagesByStatus)
	require.NotEmpty(t, stats.TopPaths)
	assert.Equal(t, PathStat{Path: "/", Views: 2}, stats.TopPaths[0])
	assert.Len(t, stats.RecentVisitors, 3)
	assert.Len(t, stats.RecentMessages, 2)
}
