package loader

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/sells-group/gdp-dashboard/internal/model"
)

// parquetRow mirrors the columnar dataset. Value-added columns are null
// after the sector cutoff.
type parquetRow struct {
	Year           int64    `parquet:"name=ano, type=INT64"`
	State          string   `parquet:"name=sigla_uf, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Municipality   string   `parquet:"name=nome_municipio, type=BYTE_ARRAY, convertedtype=UTF8"`
	Region         *string  `parquet:"name=nome_grande_regiao, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	GDPTotal       float64  `parquet:"name=pib_total, type=DOUBLE"`
	GDPPerCapita   float64  `parquet:"name=pib_per_capita, type=DOUBLE"`
	Agriculture    *float64 `parquet:"name=vab_agropecuaria, type=DOUBLE, repetitiontype=OPTIONAL"`
	Industry       *float64 `parquet:"name=vab_industria, type=DOUBLE, repetitiontype=OPTIONAL"`
	Services       *float64 `parquet:"name=vab_servicos, type=DOUBLE, repetitiontype=OPTIONAL"`
	PublicAdmin    *float64 `parquet:"name=vab_adm_defesa_educacao_saude, type=DOUBLE, repetitiontype=OPTIONAL"`
	VATotal        *float64 `parquet:"name=vab_total, type=DOUBLE, repetitiontype=OPTIONAL"`
	DominantSector *string  `parquet:"name=atividade_maior_vab, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
}

func (p parquetRow) raw() rawRow {
	return rawRow{
		Year:           int(p.Year),
		State:          p.State,
		Municipality:   p.Municipality,
		Region:         deref(p.Region),
		GDPTotal:       p.GDPTotal,
		GDPPerCapita:   p.GDPPerCapita,
		Agriculture:    p.Agriculture,
		Industry:       p.Industry,
		Services:       p.Services,
		PublicAdmin:    p.PublicAdmin,
		VATotal:        p.VATotal,
		DominantSector: deref(p.DominantSector),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ParquetSource reads the fact table from a local Parquet file.
type ParquetSource struct {
	Path string
	// Parallel is the number of column readers. Zero means 4.
	Parallel int64
}

// Load implements Source.
func (s ParquetSource) Load(ctx context.Context) ([]model.FactRow, error) {
	fr, err := local.NewLocalFileReader(s.Path)
	if err != nil {
		return nil, eris.Wrap(err, "parquet: open file")
	}
	defer fr.Close() //nolint:errcheck

	np := s.Parallel
	if np <= 0 {
		np = 4
	}
	pr, err := reader.NewParquetReader(fr, new(parquetRow), np)
	if err != nil {
		return nil, eris.Wrap(err, "parquet: new reader")
	}
	defer pr.ReadStop()

	const batch = 4096
	total := int(pr.GetNumRows())
	rows := make([]model.FactRow, 0, total)
	for read := 0; read < total; read += batch {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "parquet: context cancelled")
		}
		n := min(batch, total-read)
		buf := make([]parquetRow, n)
		if err := pr.Read(&buf); err != nil {
			return nil, eris.Wrapf(err, "parquet: read rows %d-%d", read, read+n)
		}
		for _, p := range buf {
			rows = append(rows, p.raw().toFact())
		}
	}
	return rows, nil
}

// WriteParquet writes rows to path with Snappy compression.
func WriteParquet(path string, rows []model.FactRow) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return eris.Wrap(err, "parquet: create file")
	}
	defer fw.Close() //nolint:errcheck

	pw, err := writer.NewParquetWriter(fw, new(parquetRow), 2)
	if err != nil {
		return eris.Wrap(err, "parquet: new writer")
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, r := range rows {
		if err := pw.Write(toParquet(r)); err != nil {
			return eris.Wrapf(err, "parquet: write %s/%s/%d", r.Municipality, r.State, r.Year)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return eris.Wrap(err, "parquet: flush")
	}
	return nil
}

func toParquet(r model.FactRow) parquetRow {
	p := parquetRow{
		Year:         int64(r.Year),
		State:        r.State,
		Municipality: r.Municipality,
		GDPTotal:     r.GDPTotal,
		GDPPerCapita: r.GDPPerCapita,
	}
	if r.Region != "" {
		region := r.Region
		p.Region = &region
	}
	if r.DominantSector != "" {
		ds := r.DominantSector
		p.DominantSector = &ds
	}
	if r.HasSectors {
		v := r.Sectors
		p.Agriculture, p.Industry, p.Services = &v.Agriculture, &v.Industry, &v.Services
		p.PublicAdmin, p.VATotal = &v.PublicAdmin, &v.Total
	}
	return p
}
