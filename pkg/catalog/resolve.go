package catalog

import (
	"context"
	"fmt"

	"github.com/doingodswork/ertflix-jellyfin/pkg/ertflix"
)

// Upstream is the part of the ERTFLIX API the catalog needs.
// *ertflix.Client implements it, tests use fakes with canned sections and tiles.
type Upstream interface {
	FetchCatalog(ctx context.Context) ([]ertflix.Section, error)
	FetchSection(ctx context.Context, codename string) ([]ertflix.Section, error)
	ResolveTiles(ctx context.Context, ids []string) ([]ertflix.Tile, error)
}

var _ Upstream = (*ertflix.Client)(nil)

// TileResolver resolves tile IDs to tiles.
type TileResolver interface {
	ResolveTiles(ctx context.Context, ids []string) ([]ertflix.Tile, error)
}

// Converter converts an upstream tile into a domain object.
type Converter[T any] interface {
	Convert(tile ertflix.Tile) T
}

// Fallback for tiles without a year
const unknownYear = 1970

type MovieConverter struct{}

func (MovieConverter) Convert(tile ertflix.Tile) Movie {
	movie := Movie{
		ID:    tile.ID,
		Year:  unknownYear,
		Genre: []string{},
	}
	if tile.Title != nil {
		movie.Title = *tile.Title
	}
	if tile.Year != nil {
		movie.Year = *tile.Year
	}
	if tile.Description != nil {
		movie.Description = *tile.Description
	}
	return movie
}

type ShowConverter struct{}

func (ShowConverter) Convert(tile ertflix.Tile) TVShow {
	show := TVShow{
		ID:      tile.ID,
		Title:   tile.Codename,
		Seasons: []Season{},
	}
	if tile.Title != nil {
		show.Title = *tile.Title
	}
	return show
}

type CollectionEntryConverter struct{}

func (CollectionEntryConverter) Convert(tile ertflix.Tile) CollectionEntry {
	entry := CollectionEntry{
		ID:   tile.ID,
		Name: tile.Codename,
	}
	if tile.Title != nil && *tile.Title != "" {
		entry.Name = *tile.Title
	}
	return entry
}

// Resolve resolves the tiles with the given IDs and converts each of them.
// The result has the order of the upstream response, not the order of ids.
// With a batchSize > 0 the IDs are resolved in consecutive chunks of at most batchSize,
// and the results are concatenated in chunk order.
func Resolve[T any](ctx context.Context, resolver TileResolver, ids []string, conv Converter[T], batchSize int) ([]T, error) {
	if batchSize <= 0 {
		batchSize = len(ids)
	}

	result := make([]T, 0, len(ids))
	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		tiles, err := resolver.ResolveTiles(ctx, ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("Couldn't resolve tiles: %w", err)
		}
		for _, tile := range tiles {
			result = append(result, conv.Convert(tile))
		}
	}
	return result, nil
}
