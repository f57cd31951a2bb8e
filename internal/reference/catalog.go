// Package reference keeps the read-only lists (subjects, categories,
// activities, nuclei, knowledge areas, courses) the views resolve names against.
package reference

import (
	"alizia-planner/internal/domain"
	"alizia-planner/redis"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	versionKey = "reference:version"
	flightKey  = "reference"
)

// Source is the remote API the lists are fetched from.
type Source interface {
	Subjects(ctx context.Context) ([]domain.Subject, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	Activities(ctx context.Context) ([]domain.Activity, error)
	Nuclei(ctx context.Context) ([]domain.Nucleus, error)
	KnowledgeAreas(ctx context.Context) ([]domain.KnowledgeArea, error)
	Courses(ctx context.Context) ([]domain.Course, error)
}

type Data struct {
	Subjects       []domain.Subject       `json:"subjects"`
	Categories     []domain.Category      `json:"categories"`
	Activities     []domain.Activity      `json:"activities"`
	Nuclei         []domain.Nucleus       `json:"nuclei"`
	KnowledgeAreas []domain.KnowledgeArea `json:"knowledge_areas"`
	Courses        []domain.Course        `json:"courses"`
}

type Catalog struct {
	source Source
	cache  *redis.Cache
	ttl    time.Duration
	group  singleflight.Group
	logger zerolog.Logger
}

func NewCatalog(source Source, cache *redis.Cache, ttl time.Duration, logger zerolog.Logger) *Catalog {
	return &Catalog{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "reference").Logger(),
	}
}

// Load returns the reference lists, from redis when a current copy exists.
// Concurrent callers share one fetch.
func (c *Catalog) Load(ctx context.Context) (*Data, error) {
	v, err, _ := c.group.Do(flightKey, func() (any, error) {
		return c.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Data), nil
}

func (c *Catalog) load(ctx context.Context) (*Data, error) {
	cacheKey := fmt.Sprintf("reference:v%d", c.cache.GetVersion(ctx, versionKey))

	var cached Data
	found, err := c.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", cacheKey).Msg("reading reference cache")
	}
	if found {
		return &cached, nil
	}

	data, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, cacheKey, data, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", cacheKey).Msg("writing reference cache")
	}
	return data, nil
}

func (c *Catalog) fetch(ctx context.Context) (*Data, error) {
	data := &Data{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		data.Subjects, err = c.source.Subjects(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Categories, err = c.source.Categories(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Activities, err = c.source.Activities(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Nuclei, err = c.source.Nuclei(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.KnowledgeAreas, err = c.source.KnowledgeAreas(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Courses, err = c.source.Courses(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	c.logger.Debug().
		Int("subjects", len(data.Subjects)).
		Int("categories", len(data.Categories)).
		Int("activities", len(data.Activities)).
		Msg("reference data fetched")
	return data, nil
}

// Invalidate makes the next Load go to the remote API.
func (c *Catalog) Invalidate(ctx context.Context) {
	c.cache.IncrementVersion(ctx, versionKey)
}
