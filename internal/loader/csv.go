package loader

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/gdp-dashboard/internal/model"
)

// CSVSource reads the fact table from a delimited text file with a header row.
type CSVSource struct {
	Path string
	// Delimiter defaults to ';' when the header contains one, ',' otherwise.
	Delimiter rune
}

// Load implements Source.
func (s CSVSource) Load(ctx context.Context) ([]model.FactRow, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, eris.Wrap(err, "csv: open file")
	}
	defer f.Close() //nolint:errcheck

	return readCSV(ctx, f, s.Delimiter)
}

func readCSV(ctx context.Context, r io.Reader, delim rune) ([]model.FactRow, error) {
	br := bufio.NewReader(r)
	if delim == 0 {
		delim = sniffDelimiter(br)
	}

	headerCh := make(chan []string, 1)
	rowCh, errCh := streamCSV(ctx, br, delim, headerCh)

	var (
		h    header
		rows []model.FactRow
		line = 1
	)
	for rec := range rowCh {
		line++
		if h == nil {
			hdr, ok := <-headerCh
			if !ok {
				return nil, eris.New("csv: missing header")
			}
			var err error
			if h, err = newHeader(hdr); err != nil {
				drain(rowCh)
				return nil, err
			}
		}
		raw, err := fromRecord(h, rec)
		if err != nil {
			drain(rowCh)
			return nil, eris.Wrapf(err, "csv: line %d", line)
		}
		rows = append(rows, raw.toFact())
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	if h == nil {
		hdr, ok := <-headerCh
		if !ok {
			return nil, eris.New("csv: missing header")
		}
		if _, err := newHeader(hdr); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func drain(ch <-chan []string) {
	for range ch { //nolint:revive
	}
}

// sniffDelimiter peeks at the first line.
func sniffDelimiter(br *bufio.Reader) rune {
	line, _ := br.Peek(4096)
	first := string(line)
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	if strings.Count(first, ";") > strings.Count(first, ",") {
		return ';'
	}
	return ','
}

// streamCSV reads records and sends them to a channel. The first record goes
// to headerCh, which is closed afterwards. Both returned channels are closed
// when processing completes.
func streamCSV(ctx context.Context, r io.Reader, delim rune, headerCh chan<- []string) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		reader := csv.NewReader(r)
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1 // allow variable fields
		reader.ReuseRecord = false

		first := true
		defer func() {
			if first {
				close(headerCh)
			}
		}()
		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "csv: read row")
				return
			}

			if first {
				first = false
				headerCh <- record
				close(headerCh)
				continue
			}

			select {
			case rowCh <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}
