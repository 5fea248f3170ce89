package loader

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/gdp-dashboard/internal/config"
	"github.com/sells-group/gdp-dashboard/internal/model"
)

// Source produces the raw rows of the fact table.
type Source interface {
	Load(ctx context.Context) ([]model.FactRow, error)
}

// Driver names accepted by Open.
const (
	DriverParquet  = "parquet"
	DriverCSV      = "csv"
	DriverXLSX     = "xlsx"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DetectDriver infers the driver from the data config: an explicit driver
// wins, then a database URL, then the file extension.
func DetectDriver(cfg config.DataConfig) (string, error) {
	if d := strings.ToLower(strings.TrimSpace(cfg.Driver)); d != "" {
		switch d {
		case DriverParquet, DriverCSV, DriverXLSX, DriverSQLite, DriverPostgres:
			return d, nil
		case "postgresql", "pg":
			return DriverPostgres, nil
		case "sqlite3":
			return DriverSQLite, nil
		}
		return "", eris.Errorf("loader: unknown driver %q", cfg.Driver)
	}
	if cfg.DatabaseURL != "" {
		return DriverPostgres, nil
	}

	switch strings.ToLower(filepath.Ext(cfg.Path)) {
	case ".parquet", ".pq":
		return DriverParquet, nil
	case ".csv", ".txt":
		return DriverCSV, nil
	case ".xlsx":
		return DriverXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return DriverSQLite, nil
	}
	return "", eris.Errorf("loader: cannot infer driver from %q", cfg.Path)
}

// Open returns the Source described by cfg.
func Open(cfg config.DataConfig) (Source, error) {
	driver, err := DetectDriver(cfg)
	if err != nil {
		return nil, err
	}

	table := cfg.Table
	if table == "" {
		table = "pib_municipios"
	}

	switch driver {
	case DriverParquet:
		return ParquetSource{Path: cfg.Path}, nil
	case DriverCSV:
		return CSVSource{Path: cfg.Path}, nil
	case DriverXLSX:
		return XLSXSource{Path: cfg.Path, Sheet: cfg.Sheet}, nil
	case DriverSQLite:
		return SQLiteSource{DSN: cfg.Path, Table: table}, nil
	default:
		url := cfg.DatabaseURL
		if url == "" {
			url = cfg.Path
		}
		return PostgresSource{URL: url, Table: table}, nil
	}
}
