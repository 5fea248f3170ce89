package loader

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/gdp-dashboard/internal/geo"
	"github.com/sells-group/gdp-dashboard/internal/model"
)

// Options controls how raw rows become a table.
type Options struct {
	// Strict fails the load on duplicate keys or non-positive GDP.
	Strict bool
	// SectorCutoff overrides the inferred last year with value added.
	SectorCutoff int
	// FirstYear and LastYear drop rows outside the range when non-zero.
	FirstYear int
	LastYear  int
	Catalog   *geo.Catalog
}

// Cache loads the fact table once and hands the same table to every caller.
type Cache struct {
	src  Source
	opts Options

	mu    sync.Mutex
	table *model.Table
}

// NewCache wraps src. Nothing is read until the first call to Table.
func NewCache(src Source, opts Options) *Cache {
	if opts.Catalog == nil {
		opts.Catalog = geo.Default()
	}
	return &Cache{src: src, opts: opts}
}

// Table returns the cached table, loading it on first use. Only a successful
// load is kept: after a failure, such as a cancelled caller context, the next
// call loads again.
func (c *Cache) Table(ctx context.Context) (*model.Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.table != nil {
		return c.table, nil
	}
	t, err := Build(ctx, c.src, c.opts)
	if err != nil {
		return nil, err
	}
	c.table = t
	return t, nil
}

// Build loads src and validates the rows.
func Build(ctx context.Context, src Source, opts Options) (*model.Table, error) {
	start := time.Now()
	rows, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}

	rows = prepare(rows, opts)

	rep := model.CheckIntegrity(rows)
	if !rep.OK() {
		log := zap.L().With(
			zap.Int("duplicates", len(rep.Duplicates)),
			zap.Int("non_positive", len(rep.NonPositive)),
			zap.Int("value_added_mismatch", len(rep.ValueAddedMismatch)),
		)
		if opts.Strict && (len(rep.Duplicates) > 0 || len(rep.NonPositive) > 0) {
			return nil, eris.Errorf("loader: integrity check failed: %d duplicate keys, %d non-positive rows",
				len(rep.Duplicates), len(rep.NonPositive))
		}
		log.Warn("loader: integrity issues in fact table")
	}

	var topts []model.TableOption
	if opts.SectorCutoff > 0 {
		topts = append(topts, model.WithSectorCutoff(opts.SectorCutoff))
	}
	t := model.NewTable(rows, topts...)

	zap.L().Info("loader: fact table ready",
		zap.Int("rows", t.Len()),
		zap.Int("sector_cutoff", t.SectorCutoff()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return t, nil
}

// prepare drops rows outside the year range, clears sector data after the
// cutoff and fills a missing region from the catalog.
func prepare(rows []model.FactRow, opts Options) []model.FactRow {
	out := rows[:0]
	for _, r := range rows {
		if opts.FirstYear > 0 && r.Year < opts.FirstYear {
			continue
		}
		if opts.LastYear > 0 && r.Year > opts.LastYear {
			continue
		}
		if opts.SectorCutoff > 0 && r.Year > opts.SectorCutoff {
			r.HasSectors = false
			r.Sectors = model.SectorValues{}
		}
		if r.Region == "" && opts.Catalog != nil {
			if region, ok := opts.Catalog.RegionOf(r.State); ok {
				r.Region = region
			}
		}
		out = append(out, r)
	}
	return out
}
