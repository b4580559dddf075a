// Package timeline turns annotated documents into resolved events and a
// containment forest.
package timeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"timeliner/internal/forest"
	appLog "timeliner/internal/log"
	"timeliner/internal/model"
	"timeliner/internal/temporal"
)

// Event is one document event with its settled date window.
type Event struct {
	DocumentID    string
	DocumentTitle string
	Event         model.Event
	Reference     temporal.CalendarDate

	acc *temporal.Accumulator
}

func (e *Event) Range() temporal.Range { return e.acc.Range() }
func (e *Event) Label() string         { return e.acc.Label() }
func (e *Event) WidthDays() int        { return e.acc.WidthDays() }

// When formats the window as "<start>[ -> <end>][ (<label>)]".
func (e *Event) When() string { return e.acc.String() }

// Timeline is the result of one build.
type Timeline struct {
	Events []*Event
	Forest *forest.Forest[*Event]

	// Undated counts events none of whose tokens resolved to a date.
	Undated int
}

// Options configures a Builder.
type Options struct {
	// DefaultReference replaces missing or malformed document reference
	// dates.
	DefaultReference temporal.CalendarDate
	// Workers bounds concurrent event resolution.
	Workers int
	// TokenCacheSize enables memoized token resolution when positive.
	TokenCacheSize int
}

// Builder resolves documents into timelines. It is safe for concurrent use.
type Builder struct {
	resolver temporal.DateResolver
	fallback temporal.CalendarDate
	workers  int
}

func NewBuilder(opts Options) (*Builder, error) {
	base := temporal.NewResolver(opts.DefaultReference)

	var resolver temporal.DateResolver = base
	if opts.TokenCacheSize > 0 {
		cached, err := newCachedResolver(base, opts.TokenCacheSize)
		if err != nil {
			return nil, err
		}
		resolver = cached
	}

	return &Builder{
		resolver: resolver,
		fallback: base.Fallback(),
		workers:  max(opts.Workers, 1),
	}, nil
}

// Build resolves every event of docs in parallel, then builds the forest
// from the dated ones.
func (b *Builder) Build(ctx context.Context, docs []model.Document) (*Timeline, error) {
	var events []*Event
	for _, doc := range docs {
		ref := b.reference(doc)
		for _, ev := range doc.Events {
			if ev.ID == "" {
				ev.ID = uuid.NewString()
			}
			events = append(events, &Event{
				DocumentID:    doc.ID,
				DocumentTitle: doc.Title,
				Event:         ev,
				Reference:     ref,
				acc:           temporal.NewAccumulator(b.resolver),
			})
		}
	}

	// Each accumulator is touched by exactly one goroutine.
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for _, e := range events {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for _, token := range e.Event.Tokens {
				if n := e.acc.Absorb(token, e.Reference); n == 0 {
					appLog.Debug("token produced no date", "event", e.Event.ID, "token", token)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	t := &Timeline{Events: make([]*Event, 0, len(events))}
	for _, e := range events {
		if e.acc.Empty() {
			t.Undated++
			continue
		}
		t.Events = append(t.Events, e)
	}
	t.Forest = forest.Build(t.Events)

	appLog.Info("timeline built",
		"documents", len(docs),
		"events", len(t.Events),
		"undated", t.Undated,
		"roots", len(t.Forest.Roots),
	)
	return t, nil
}

func (b *Builder) reference(doc model.Document) temporal.CalendarDate {
	if doc.ReferenceDate == "" {
		return b.fallback
	}
	ref, err := temporal.ParseReferenceDate(doc.ReferenceDate)
	if err != nil {
		appLog.Error("invalid reference date; using default", err, "document", doc.ID, "default", b.fallback.String())
		return b.fallback
	}
	return ref
}

// OutlineItem is one line of a rendered forest.
type OutlineItem struct {
	Depth int
	Text  string
	// Node marks a date-window line; other lines are events.
	Node bool
}

// Outline flattens the forest parent first: each node line is followed by
// its bucket entries one level deeper, then its child nodes.
func (t *Timeline) Outline() []OutlineItem {
	var out []OutlineItem
	var visit func(n *forest.Node[*Event], depth int)
	visit = func(n *forest.Node[*Event], depth int) {
		out = append(out, OutlineItem{Depth: depth, Text: n.Range.String(), Node: true})
		for _, e := range n.Bucket {
			out = append(out, OutlineItem{Depth: depth + 1, Text: e.describe()})
		}
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	for _, root := range t.Forest.Roots {
		visit(root, 0)
	}
	return out
}

func (e *Event) describe() string {
	s := e.Event.Text()
	if label := e.Label(); label != "" {
		s += fmt.Sprintf(" (%s)", label)
	}
	if e.DocumentTitle != "" {
		s += " [" + e.DocumentTitle + "]"
	}
	return s
}
