package year

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/lysyi3m/yearbook/app/wiki"
)

const DefaultMemoSize = 512

// Source is the remote data the service aggregates.
type Source interface {
	Summary(ctx context.Context, title string) *wiki.Summary
	Sections(ctx context.Context, title string, names []wiki.SectionName, limit int) map[wiki.SectionName][]string
}

var _ Source = (*wiki.Client)(nil)

// Data is everything shown for one year. Summary is nil when unavailable.
type Data struct {
	Summary  *wiki.Summary                 `json:"summary"`
	Sections map[wiki.SectionName][]string `json:"sections"`
}

// Degraded reports whether nothing at all could be fetched for the year.
func (d *Data) Degraded() bool {
	if d.Summary != nil {
		return false
	}
	for _, items := range d.Sections {
		if len(items) > 0 {
			return false
		}
	}
	return true
}

type Stats struct {
	Entries  int   `json:"entries"`
	Capacity int   `json:"capacity"`
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
}

type Service struct {
	source    Source
	memo      *lru.Cache[int, *Data]
	capacity  int
	itemLimit int
	group     singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
}

func NewService(source Source, memoSize, itemLimit int) (*Service, error) {
	if memoSize <= 0 {
		memoSize = DefaultMemoSize
	}

	memo, err := lru.New[int, *Data](memoSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create year memo: %w", err)
	}

	return &Service{
		source:    source,
		memo:      memo,
		capacity:  memoSize,
		itemLimit: itemLimit,
	}, nil
}

func (s *Service) GetSummary(ctx context.Context, y int) *wiki.Summary {
	return s.source.Summary(ctx, wiki.PageTitle(y))
}

// GetSections always returns exactly the default section keys, each mapped to
// a non-nil slice.
func (s *Service) GetSections(ctx context.Context, y int) map[wiki.SectionName][]string {
	fetched := s.source.Sections(ctx, wiki.PageTitle(y), wiki.DefaultSections, s.itemLimit)

	sections := make(map[wiki.SectionName][]string, len(wiki.DefaultSections))
	for _, name := range wiki.DefaultSections {
		items := fetched[name]
		if items == nil {
			items = []string{}
		}
		sections[name] = items
	}

	return sections
}

// GetYearData returns the summary and sections for a year. Results are
// memoized per year, degraded ones included; concurrent misses for the same
// year share one computation.
func (s *Service) GetYearData(ctx context.Context, y int) *Data {
	if data, ok := s.memo.Get(y); ok {
		s.hits.Add(1)
		return data
	}

	v, _, _ := s.group.Do(strconv.Itoa(y), func() (any, error) {
		if data, ok := s.memo.Get(y); ok {
			s.hits.Add(1)
			return data, nil
		}
		s.misses.Add(1)

		// Shared by every waiter, so one caller going away must not cancel it.
		data := s.compute(context.WithoutCancel(ctx), y)
		s.memo.Add(y, data)

		slog.Debug("Year data computed", "year", y,
			"events", len(data.Sections[wiki.Events]),
			"births", len(data.Sections[wiki.Births]),
			"deaths", len(data.Sections[wiki.Deaths]),
			"summary", data.Summary != nil)

		return data, nil
	})

	return v.(*Data)
}

func (s *Service) compute(ctx context.Context, y int) *Data {
	data := &Data{}

	var g errgroup.Group
	g.Go(func() error {
		data.Summary = s.GetSummary(ctx, y)
		return nil
	})
	g.Go(func() error {
		data.Sections = s.GetSections(ctx, y)
		return nil
	})
	_ = g.Wait()

	return data
}

func (s *Service) Contains(y int) bool {
	return s.memo.Contains(y)
}

// Forget drops a memoized year so the next request recomputes it.
func (s *Service) Forget(y int) {
	s.memo.Remove(y)
}

func (s *Service) Stats() Stats {
	return Stats{
		Entries:  s.memo.Len(),
		Capacity: s.capacity,
		Hits:     s.hits.Load(),
		Misses:   s.misses.Load(),
	}
}
