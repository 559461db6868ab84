// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package candidates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/danielhkuo/movie-night/metrics"
	"github.com/danielhkuo/movie-night/models"
)

const DefaultSize = 256

// Lookup is the external movie source.
type Lookup interface {
	Lookup(ctx context.Context, q models.CandidateQuery) (*models.Candidate, error)
}

// Store is the persistent, write-once candidate table.
type Store interface {
	Candidate(ctx context.Context, id string) (*models.Candidate, error)
	CreateCandidate(ctx context.Context, c *models.Candidate) (*models.Candidate, error)
}

// Cache resolves queries to candidates. A given IMDb id is fetched from the
// lookup service at most once; afterwards it is served from memory or the store.
type Cache struct {
	lookup     Lookup
	store      Store
	byID       *lru.Cache[string, *models.Candidate]
	byTitle    *lru.Cache[string, string]
	group      singleflight.Group
	retryDelay time.Duration
}

func NewCache(lookup Lookup, store Store, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	byID, err := lru.New[string, *models.Candidate](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create candidate cache: %w", err)
	}
	byTitle, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create title cache: %w", err)
	}
	return &Cache{
		lookup:     lookup,
		store:      store,
		byID:       byID,
		byTitle:    byTitle,
		retryDelay: 200 * time.Millisecond,
	}, nil
}

// SetRetryDelay sets the pause before the single retry of a timed-out lookup.
func (c *Cache) SetRetryDelay(d time.Duration) {
	c.retryDelay = d
}

// Resolve returns the candidate for q, fetching and storing it on first use.
// nominator is recorded as the first nominator of a newly stored candidate.
func (c *Cache) Resolve(ctx context.Context, q models.CandidateQuery, nominator string) (*models.Candidate, error) {
	if q.ID == "" && q.Title == "" {
		return nil, fmt.Errorf("empty query: %w", models.ErrCandidateNotFound)
	}
	if q.ID == "" {
		if id, ok := c.byTitle.Get(titleKey(q)); ok {
			q = models.CandidateQuery{ID: id}
		}
	}

	if q.ID != "" {
		candidate, err := c.cached(ctx, q.ID)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
	}

	v, err, _ := c.group.Do(flightKey(q), func() (any, error) {
		return c.fetch(ctx, q, nominator)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Candidate), nil
}

func (c *Cache) cached(ctx context.Context, id string) (*models.Candidate, error) {
	if candidate, ok := c.byID.Get(id); ok {
		metrics.Lookups.WithLabelValues("memory", "hit").Inc()
		return candidate, nil
	}
	candidate, err := c.store.Candidate(ctx, id)
	if err != nil {
		return nil, err
	}
	metrics.Lookups.WithLabelValues("store", "hit").Inc()
	c.byID.Add(id, candidate)
	return candidate, nil
}

func (c *Cache) fetch(ctx context.Context, q models.CandidateQuery, nominator string) (*models.Candidate, error) {
	start := time.Now()
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryDelay), 1), ctx)
	found, err := backoff.RetryWithData(func() (*models.Candidate, error) {
		candidate, err := c.lookup.Lookup(ctx, q)
		if err != nil && !errors.Is(err, models.ErrLookupTimeout) {
			return nil, backoff.Permanent(err)
		}
		return candidate, err
	}, policy)
	metrics.LookupDuration.Observe(time.Since(start).Seconds())

	// The retry policy reports a spent request deadline as the bare context
	// error; to callers that is still a lookup that ran out of time.
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, models.ErrLookupTimeout) {
		err = fmt.Errorf("lookup %s: %w: %w", q, models.ErrLookupTimeout, err)
	}

	if err != nil {
		switch {
		case errors.Is(err, models.ErrCandidateNotFound):
			metrics.Lookups.WithLabelValues("remote", "not_found").Inc()
		case errors.Is(err, models.ErrLookupTimeout):
			metrics.Lookups.WithLabelValues("remote", "timeout").Inc()
		default:
			metrics.Lookups.WithLabelValues("remote", "error").Inc()
		}
		return nil, err
	}
	metrics.Lookups.WithLabelValues("remote", "hit").Inc()

	// A title query can land on a movie that is already stored.
	if existing, err := c.cached(ctx, found.ID); err == nil {
		c.rememberTitle(q, existing.ID)
		return existing, nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	found.FillUnknown()
	found.FirstNominator = nominator
	stored, err := c.store.CreateCandidate(ctx, found)
	if err != nil {
		return nil, err
	}

	c.byID.Add(stored.ID, stored)
	c.rememberTitle(q, stored.ID)
	slog.Info("candidate cached", "candidate_id", stored.ID, "title", stored.Title, "nominator", nominator)
	return stored, nil
}

func (c *Cache) rememberTitle(q models.CandidateQuery, id string) {
	if q.ID == "" {
		c.byTitle.Add(titleKey(q), id)
	}
}
