package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"pastegate/internal/paste"
)

// CSVImporter handles CSV files. Rows are flattened to labeled lines; the
// first row is treated as headers.
type CSVImporter struct{}

func (p *CSVImporter) Import(r io.Reader, filename string) (*paste.Event, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return paste.NewEvent(), nil
	}

	headers := records[0]
	var text strings.Builder
	for _, row := range records[1:] {
		for j, cell := range row {
			if j > 0 {
				text.WriteString(", ")
			}
			if j < len(headers) {
				text.WriteString(headers[j] + ": " + cell)
			} else {
				text.WriteString(cell)
			}
		}
		text.WriteByte('\n')
	}

	ev := paste.NewEvent()
	ev.Set(paste.TypePlain, strings.TrimRight(text.String(), "\n"))
	return ev, nil
}
