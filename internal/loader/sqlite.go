package loader

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/gdp-dashboard/internal/db"
	"github.com/sells-group/gdp-dashboard/internal/model"
)

// SQLiteSource reads the fact table from a SQLite database.
type SQLiteSource struct {
	DSN   string
	Table string
}

// rowScanner is implemented by *sql.Rows and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanFact reads one row selected with db.SelectSQL(table, Columns).
func scanFact(s rowScanner) (model.FactRow, error) {
	var (
		r                    rawRow
		region, dominant     sql.NullString
		agro, ind, serv, pub sql.NullFloat64
		vaTotal              sql.NullFloat64
	)
	if err := s.Scan(&r.Year, &r.State, &r.Municipality, &region, &r.GDPTotal, &r.GDPPerCapita,
		&agro, &ind, &serv, &pub, &vaTotal, &dominant); err != nil {
		return model.FactRow{}, err
	}
	r.Region = region.String
	r.DominantSector = dominant.String
	r.Agriculture = nullable(agro)
	r.Industry = nullable(ind)
	r.Services = nullable(serv)
	r.PublicAdmin = nullable(pub)
	r.VATotal = nullable(vaTotal)
	return r.toFact(), nil
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

// Load implements Source.
func (s SQLiteSource) Load(ctx context.Context) ([]model.FactRow, error) {
	conn, err := sql.Open("sqlite", s.DSN)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	defer conn.Close() //nolint:errcheck

	rows, err := conn.QueryContext(ctx, db.SelectSQL(s.Table, Columns))
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query %s", s.Table)
	}
	defer rows.Close() //nolint:errcheck

	var out []model.FactRow
	for rows.Next() {
		f, err := scanFact(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan row")
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate rows")
	}
	return out, nil
}

// createTableSQL is the schema shared by the SQLite and Postgres writers.
func createTableSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	ano                           INTEGER NOT NULL,
	sigla_uf                      TEXT NOT NULL,
	nome_municipio                TEXT NOT NULL,
	nome_grande_regiao            TEXT,
	pib_total                     DOUBLE PRECISION NOT NULL,
	pib_per_capita                DOUBLE PRECISION NOT NULL,
	vab_agropecuaria              DOUBLE PRECISION,
	vab_industria                 DOUBLE PRECISION,
	vab_servicos                  DOUBLE PRECISION,
	vab_adm_defesa_educacao_saude DOUBLE PRECISION,
	vab_total                     DOUBLE PRECISION,
	atividade_maior_vab           TEXT,
	PRIMARY KEY (nome_municipio, sigla_uf, ano)
)`, db.Identifier(table).Sanitize())
}

// WriteSQLite replaces the content of table in the database at dsn.
func WriteSQLite(ctx context.Context, dsn, table string, rows []model.FactRow) error {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return eris.Wrap(err, "sqlite: open")
	}
	defer conn.Close() //nolint:errcheck

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, createTableSQL(table)); err != nil {
		return eris.Wrapf(err, "sqlite: create %s", table)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+db.Identifier(table).Sanitize()); err != nil {
		return eris.Wrapf(err, "sqlite: clear %s", table)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(Columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		db.Identifier(table).Sanitize(), strings.Join(Columns, ", "), placeholders))
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, toRecord(r)...); err != nil {
			return eris.Wrapf(err, "sqlite: insert %s/%s/%d", r.Municipality, r.State, r.Year)
		}
	}
	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "sqlite: commit")
	}
	return nil
}
