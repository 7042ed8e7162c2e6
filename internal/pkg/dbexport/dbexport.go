package dbexport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2/log"
)

// Export writes every table as an indented JSON array into dir and returns the written paths.
func Export(ctx context.Context, store Store, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	paths := make([]string, 0, len(Tables))
	for _, t := range Tables {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		rows, err := store.Load(ctx, t)
		if err != nil {
			return paths, err
		}
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return paths, fmt.Errorf("encode %s: %w", t.Name, err)
		}
		path := filepath.Join(dir, t.FileName())
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		log.Infof("[Export] %s: %d rows -> %s", t.Name, rowCount(rows), path)
		paths = append(paths, path)
	}
	return paths, nil
}

// Import loads the JSON files of dir into the store. Missing files are skipped. The result
// maps table names to the number of imported rows.
func Import(ctx context.Context, store Store, dir string, replace bool) (map[string]int, error) {
	counts := map[string]int{}
	for _, t := range Tables {
		if err := ctx.Err(); err != nil {
			return counts, err
		}
		path := filepath.Join(dir, t.FileName())
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			log.Warnf("[Import] %s not found, skipping %s", path, t.Name)
			continue
		}
		if err != nil {
			return counts, fmt.Errorf("read %s: %w", path, err)
		}

		rows := t.New()
		if err := json.Unmarshal(data, rows); err != nil {
			return counts, fmt.Errorf("decode %s: %w", path, err)
		}
		n, err := store.Save(ctx, t, rows, replace)
		if err != nil {
			return counts, err
		}
		counts[t.Name] = n
		log.Infof("[Import] %s: %d rows", t.Name, n)
	}
	return counts, nil
}
