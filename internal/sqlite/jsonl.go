package sqlite

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/crudkit/pkg/mapper"
	"github.com/mesh-intelligence/crudkit/pkg/types"
)

// Export writes every live entity of t to path as JSON Lines, one entity
// per line in insertion order. The file is replaced atomically.
func (t *Table[E, ID]) Export(ctx context.Context, path string) (int, error) {
	// Export ignores the list limit.
	entities, err := t.query(ctx, t.selectLive+" ORDER BY seq")
	if err != nil {
		return 0, err
	}
	records := make([]json.RawMessage, 0, len(entities))
	for _, e := range entities {
		data, err := json.Marshal(e)
		if err != nil {
			return 0, fmt.Errorf("%w: encode %s: %v", types.ErrInvalidData, e.ExternalKey(), err)
		}
		records = append(records, data)
	}
	if err := writeJSONL(path, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// ImportResult counts the outcome of an Import.
type ImportResult struct {
	Inserted  int `json:"inserted"`
	Skipped   int `json:"skipped"`
	Malformed int `json:"malformed"`
}

// Import inserts each entity read from a JSON Lines file. Entities whose
// key is already stored are skipped and keep the stored state. Lines that
// do not decode are counted as malformed and skipped. Imported entities
// receive fresh identities.
func (t *Table[E, ID]) Import(ctx context.Context, path string) (ImportResult, error) {
	var res ImportResult
	records, malformed, err := readJSONL(path)
	if err != nil {
		return res, err
	}
	res.Malformed = malformed
	for _, rec := range records {
		e := mapper.New[E]()
		if err := json.Unmarshal(rec, e); err != nil {
			res.Malformed++
			continue
		}
		var zero ID
		e.SetEntityID(zero)
		_, err := t.Insert(ctx, e)
		switch {
		case errors.Is(err, types.ErrAlreadyExists):
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("import %s: %w", path, err)
		default:
			res.Inserted++
		}
	}
	return res, nil
}

// readJSONL reads a JSONL file and returns each non-empty, valid line.
// Invalid lines are skipped and counted.
func readJSONL(path string) ([]json.RawMessage, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var (
		records   []json.RawMessage
		malformed int
	)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			malformed++
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, malformed, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(step string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", step, err)
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail("writing record", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
