package importer

import (
	"bufio"
	"io"
	"strings"

	"pastegate/internal/paste"
)

// TextImporter handles plain text files.
type TextImporter struct{}

func (p *TextImporter) Import(r io.Reader, filename string) (*paste.Event, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var sb strings.Builder
	for scanner.Scan() {
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	ev := paste.NewEvent()
	ev.Set(paste.TypePlain, sb.String())
	return ev, nil
}
