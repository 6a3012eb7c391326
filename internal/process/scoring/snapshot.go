package scoring

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
	"github.com/lueurxax/ytmusic-trends/internal/platform/outfile"
)

// SnapshotFileName is the CSV written on every scoring run.
const SnapshotFileName = "themes_latest.csv"

// RenderCSV renders themes as a "theme,score" CSV document.
func RenderCSV(themes []domain.ThemeEntry) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"theme", "score"}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, t := range themes {
		if err := w.Write([]string{t.Theme, strconv.FormatFloat(t.Score, 'f', -1, 64)}); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

// writeSnapshot writes the CSV to the output dir and, best effort, the mirror dir.
func (s *Service) writeSnapshot(log *zerolog.Logger, themes []domain.ThemeEntry) (string, error) {
	data, err := RenderCSV(themes)
	if err != nil {
		return "", err
	}

	path, mirrorErr, err := outfile.Writer{Dir: s.opts.OutputDir, MirrorDir: s.opts.MirrorDir}.Write(SnapshotFileName, data)
	if err != nil {
		return "", err
	}

	if mirrorErr != nil {
		log.Warn().Err(mirrorErr).Msg("mirror snapshot write failed")
	}

	return path, nil
}
