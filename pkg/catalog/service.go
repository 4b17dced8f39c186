package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/doingodswork/ertflix-jellyfin/pkg/ertflix"
)

type Options struct {
	// Toplist codename of the section with all movies
	MovieCodename string
	// Toplist codename of the section with all complete TV series
	ShowCodename string
	// Fetch the movie and show sections via the section content endpoint
	// instead of scanning the whole catalog.
	DirectSectionFetch bool
	// Maximum number of tile IDs per batch request. 0 means no chunking.
	TileBatchSize int
	// Maximum age of cached results. 0 disables caching.
	CacheAge time.Duration
}

var DefaultOptions = Options{
	MovieCodename: "ert-oles-oi-tainies",
	ShowCodename:  "ert-seires-plereis",
}

// Service runs the fetch, classify and resolve pipeline per content kind.
// It doesn't hold any state between calls apart from the optional cache.
type Service struct {
	upstream           Upstream
	movieCodename      string
	showCodename       string
	directSectionFetch bool
	tileBatchSize      int
	cache              Cache
	cacheAge           time.Duration
	logger             *zap.Logger
}

// NewService creates a new Service.
// The cache is only used if it's not nil and opts.CacheAge is positive.
func NewService(upstream Upstream, opts Options, cache Cache, logger *zap.Logger) (*Service, error) {
	// Precondition check
	if upstream == nil {
		return nil, errors.New("upstream must not be nil")
	}
	if opts.MovieCodename == "" {
		return nil, errors.New("opts.MovieCodename must not be empty")
	}
	if opts.ShowCodename == "" {
		return nil, errors.New("opts.ShowCodename must not be empty")
	}
	if opts.TileBatchSize < 0 {
		return nil, errors.New("opts.TileBatchSize must not be negative")
	}
	if opts.CacheAge <= 0 {
		cache = nil
	}

	return &Service{
		upstream:           upstream,
		movieCodename:      opts.MovieCodename,
		showCodename:       opts.ShowCodename,
		directSectionFetch: opts.DirectSectionFetch,
		tileBatchSize:      opts.TileBatchSize,
		cache:              cache,
		cacheAge:           opts.CacheAge,
		logger:             logger,
	}, nil
}

// Movies returns all movies of the configured movie section.
func (s *Service) Movies(ctx context.Context) ([]Movie, error) {
	return cached(s, "movies", func() ([]Movie, error) {
		section, err := s.section(ctx, s.movieCodename)
		if err != nil {
			return nil, err
		}
		return Resolve[Movie](ctx, s.upstream, section.TileIDs(), MovieConverter{}, s.tileBatchSize)
	})
}

// TVShows returns all TV shows of the configured show section.
func (s *Service) TVShows(ctx context.Context) ([]TVShow, error) {
	return cached(s, "shows", func() ([]TVShow, error) {
		section, err := s.section(ctx, s.showCodename)
		if err != nil {
			return nil, err
		}
		return Resolve[TVShow](ctx, s.upstream, section.TileIDs(), ShowConverter{}, s.tileBatchSize)
	})
}

// Collections returns all named toplists of the catalog.
func (s *Service) Collections(ctx context.Context) ([]Collection, error) {
	return cached(s, "collections", func() ([]Collection, error) {
		sections, err := s.upstream.FetchCatalog(ctx)
		if err != nil {
			return nil, fmt.Errorf("Couldn't fetch catalog: %w", err)
		}
		return CollectionsFromSections(sections), nil
	})
}

// CollectionEntries returns the entries of the collection with the given section ID.
func (s *Service) CollectionEntries(ctx context.Context, sectionID int) ([]CollectionEntry, error) {
	return cached(s, "collection:"+strconv.Itoa(sectionID), func() ([]CollectionEntry, error) {
		sections, err := s.upstream.FetchCatalog(ctx)
		if err != nil {
			return nil, fmt.Errorf("Couldn't fetch catalog: %w", err)
		}
		section, err := ClassifyByID(sections, sectionID)
		if err != nil {
			return nil, err
		}
		return Resolve[CollectionEntry](ctx, s.upstream, section.TileIDs(), CollectionEntryConverter{}, s.tileBatchSize)
	})
}

func (s *Service) section(ctx context.Context, codename string) (ertflix.Section, error) {
	var sections []ertflix.Section
	var err error
	if s.directSectionFetch {
		sections, err = s.upstream.FetchSection(ctx, codename)
		if err != nil {
			return ertflix.Section{}, fmt.Errorf("Couldn't fetch section: %w", err)
		}
	} else {
		sections, err = s.upstream.FetchCatalog(ctx)
		if err != nil {
			return ertflix.Section{}, fmt.Errorf("Couldn't fetch catalog: %w", err)
		}
	}
	return Classify(sections, codename)
}

// cached returns the cached result for key if it's fresh enough, otherwise the result of fetch.
// Cache failures are logged and never fail the call.
func cached[T any](s *Service, key string, fetch func() ([]T, error)) ([]T, error) {
	if s.cache == nil {
		return fetch()
	}

	logger := s.logger.With(zap.String("cacheKey", key))
	data, created, found, err := s.cache.Get(key)
	if err != nil {
		logger.Error("Couldn't get result from cache", zap.Error(err))
	} else if !found {
		logger.Debug("Result not found in cache")
	} else if time.Since(created) > s.cacheAge {
		expiredSince := time.Since(created.Add(s.cacheAge))
		logger.Debug("Hit cache for result, but entry is expired", zap.Duration("expiredSince", expiredSince))
	} else {
		var result []T
		if err = json.Unmarshal(data, &result); err != nil {
			logger.Error("Couldn't decode cached result", zap.Error(err))
		} else {
			logger.Debug("Hit cache for result, returning it")
			return result, nil
		}
	}

	result, err := fetch()
	if err != nil {
		return nil, err
	}
	if data, err = json.Marshal(result); err != nil {
		logger.Error("Couldn't encode result for cache", zap.Error(err))
	} else if err = s.cache.Set(key, data); err != nil {
		logger.Error("Couldn't cache result", zap.Error(err))
	}
	return result, nil
}
