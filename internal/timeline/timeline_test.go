package timeline

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeliner/internal/model"
	"timeliner/internal/temporal"
)

func sampleDocuments() []model.Document {
	return []model.Document{
		{
			ID:            "doc1",
			Title:         "Annual report",
			ReferenceDate: "2016-12-30",
			Events: []model.Event{
				{ID: "decade", Sentence: "The plant opened in the 1980s.", Tokens: []string{"198X"}},
				{ID: "summer", Sentence: "A strike hit in the summer of 1985.", Tokens: []string{"1985-SU"}},
				{ID: "duration", Sentence: "It lasted four years.", Tokens: []string{"P4Y"}},
				{Sentence: "Today the plant is closed.", Tokens: []string{"PRESENT_REF"}},
			},
		},
		{
			ID:            "doc2",
			ReferenceDate: "yesterday",
			Events: []model.Event{
				{ID: "now", Sentence: "Now is a good time.", Tokens: []string{"PRESENT_REF"}},
			},
		},
	}
}

func eventByID(t *testing.T, tl *Timeline, id string) *Event {
	t.Helper()
	for _, e := range tl.Events {
		if e.Event.ID == id {
			return e
		}
	}
	require.Failf(t, "event not found", "id %q", id)
	return nil
}

func TestBuild(t *testing.T) {
	b, err := NewBuilder(Options{
		DefaultReference: temporal.Date(2000, time.June, 15),
		Workers:          2,
		TokenCacheSize:   16,
	})
	require.NoError(t, err)

	tl, err := b.Build(context.Background(), sampleDocuments())
	require.NoError(t, err)

	assert.Len(t, tl.Events, 4)
	assert.Equal(t, 1, tl.Undated)
	assert.Equal(t, 4, tl.Forest.Len())

	decade := eventByID(t, tl, "decade")
	assert.Equal(t, "1980-01-01 -> 1989-12-31", decade.When())
	assert.Equal(t, "Annual report", decade.DocumentTitle)

	now := eventByID(t, tl, "now")
	assert.Equal(t, temporal.Date(2000, time.June, 15), now.Reference, "malformed reference falls back to the default")
	assert.Equal(t, "2000-06-15", now.When())

	var generated *Event
	for _, e := range tl.Events {
		if e.Event.Sentence == "Today the plant is closed." {
			generated = e
		}
	}
	require.NotNil(t, generated)
	_, err = uuid.Parse(generated.Event.ID)
	assert.NoError(t, err, "missing event IDs are generated")
	assert.Equal(t, "2016-12-30", generated.When())

	node := tl.Forest.Find(decade.Range())
	require.NotNil(t, node)
	require.Len(t, node.Children, 1)
	assert.Equal(t, "1985-06-01 -> 1985-08-31", node.Children[0].Range.String())
	assert.Equal(t, "summer", node.Children[0].Bucket[0].Event.ID)
}

func TestBuildCanceled(t *testing.T) {
	b, err := NewBuilder(Options{Workers: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = b.Build(ctx, sampleDocuments())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildEmpty(t *testing.T) {
	b, err := NewBuilder(Options{})
	require.NoError(t, err)

	tl, err := b.Build(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, tl.Events)
	assert.Empty(t, tl.Forest.Roots)
	assert.Empty(t, tl.Outline())
}

func TestOutline(t *testing.T) {
	b, err := NewBuilder(Options{Workers: 4})
	require.NoError(t, err)

	docs := sampleDocuments()[:1]
	docs[0].Events = docs[0].Events[:2]
	docs[0].Events[1].Summary = "Strike"
	docs[0].Events[1].Tokens = []string{"1985-SU INTERSECT P3M"}

	tl, err := b.Build(context.Background(), docs)
	require.NoError(t, err)

	assert.Equal(t, []OutlineItem{
		{Depth: 0, Text: "1980-01-01 -> 1989-12-31", Node: true},
		{Depth: 1, Text: "The plant opened in the 1980s. [Annual report]"},
		{Depth: 1, Text: "1985-06-01 -> 1985-08-31", Node: true},
		{Depth: 2, Text: "Strike (Period: 3 Month(s)) [Annual report]"},
	}, tl.Outline())
}

type countingResolver struct {
	calls atomic.Int32
}

func (c *countingResolver) Resolve(token string, ref temporal.CalendarDate) []temporal.CalendarDate {
	c.calls.Add(1)
	return temporal.Resolve(token, ref)
}

func TestCachedResolver(t *testing.T) {
	next := &countingResolver{}
	r, err := newCachedResolver(next, 2)
	require.NoError(t, err)

	ref := temporal.Date(2016, time.December, 30)
	first := r.Resolve("PRESENT_REF", ref)
	second := r.Resolve("PRESENT_REF", ref)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), next.calls.Load())

	r.Resolve("PRESENT_REF", temporal.Date(2017, time.January, 1))
	assert.Equal(t, int32(2), next.calls.Load(), "reference is part of the key")

	_, err = newCachedResolver(next, 0)
	assert.Error(t, err)
}
