package loader

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/gdp-dashboard/internal/db"
	"github.com/sells-group/gdp-dashboard/internal/model"
)

// PostgresSource reads the fact table from Postgres. When Pool is nil a
// pool is opened from URL for the duration of Load.
type PostgresSource struct {
	URL   string
	Table string
	Pool  db.Pool
}

// Load implements Source.
func (s PostgresSource) Load(ctx context.Context) ([]model.FactRow, error) {
	pool := s.Pool
	if pool == nil {
		p, err := db.Connect(ctx, s.URL)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: connect")
		}
		defer p.Close()
		pool = p
	}

	rows, err := pool.Query(ctx, db.SelectSQL(s.Table, Columns))
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: query %s", s.Table)
	}
	defer rows.Close()

	var out []model.FactRow
	for rows.Next() {
		f, err := scanFact(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan row")
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate rows")
	}
	return out, nil
}

// WritePostgres creates table if needed and replaces its content with rows.
func WritePostgres(ctx context.Context, pool db.Pool, table string, rows []model.FactRow) (int64, error) {
	if _, err := pool.Exec(ctx, createTableSQL(table)); err != nil {
		return 0, eris.Wrapf(err, "postgres: create %s", table)
	}

	recs := make([][]any, len(rows))
	for i, r := range rows {
		recs[i] = toRecord(r)
	}
	n, err := db.ReplaceAll(ctx, pool, table, Columns, recs)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: write facts")
	}
	zap.L().Info("postgres: facts written", zap.String("table", table), zap.Int64("rows", n))
	return n, nil
}
