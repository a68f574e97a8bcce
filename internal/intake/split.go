package intake

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Split copies the CSV read from r into outDir as chunk_1.csv,
// chunk_2.csv, ... with at most chunkRows data rows each. Every chunk
// repeats the header. It returns the paths written, in order.
func Split(r io.Reader, outDir string, chunkRows int) ([]string, error) {
	if chunkRows < 1 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkRows)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	cr := csv.NewReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("splitting CSV: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("splitting CSV: %w", err)
	}

	var (
		paths []string
		f     *os.File
		cw    *csv.Writer
		rows  int
	)
	closeChunk := func() error {
		if f == nil {
			return nil
		}
		cw.Flush()
		werr := cw.Error()
		cerr := f.Close()
		f = nil
		if werr != nil {
			return werr
		}
		return cerr
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			closeChunk()
			return paths, fmt.Errorf("splitting CSV: %w", err)
		}

		if f == nil || rows == chunkRows {
			if err := closeChunk(); err != nil {
				return paths, fmt.Errorf("writing chunk: %w", err)
			}
			path := filepath.Join(outDir, fmt.Sprintf("chunk_%d.csv", len(paths)+1))
			f, err = os.Create(path)
			if err != nil {
				return paths, fmt.Errorf("creating chunk: %w", err)
			}
			cw = csv.NewWriter(f)
			if err := cw.Write(header); err != nil {
				closeChunk()
				return paths, fmt.Errorf("writing chunk header: %w", err)
			}
			paths = append(paths, path)
			rows = 0
		}

		if err := cw.Write(rec); err != nil {
			closeChunk()
			return paths, fmt.Errorf("writing chunk row: %w", err)
		}
		rows++
	}

	if err := closeChunk(); err != nil {
		return paths, fmt.Errorf("writing chunk: %w", err)
	}
	return paths, nil
}
