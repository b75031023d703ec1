package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
)

// LoadFiles reads one or more JSON snapshot files and merges them into a
// single listing. Each file holds a top-level array of function entries:
//
//	[{"id": "main.c:main", "callers": [], "callees": ["util.c:helper"]}, ...]
//
// Files are parsed concurrently; the merged result keeps the order of the
// file arguments and, within each file, the order of its entries, so the
// listing stays deterministic regardless of which file finishes first.
func LoadFiles(ctx context.Context, filePaths []string) (Snapshot, error) {
	parsed := make([]Snapshot, len(filePaths))
	group, groupCtx := errgroup.WithContext(ctx)
	for index, filePath := range filePaths {
		index, filePath := index, filePath
		group.Go(func() error {
			if contextError := groupCtx.Err(); contextError != nil {
				return contextError
			}
			listing, loadError := loadFile(filePath)
			if loadError != nil {
				return loadError
			}
			parsed[index] = listing
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}
	return Merge(parsed...), nil
}

func loadFile(filePath string) (Snapshot, error) {
	// #nosec G304
	fileData, readError := os.ReadFile(filePath)
	if readError != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", filePath, readError)
	}
	var listing Snapshot
	if decodeError := json.Unmarshal(fileData, &listing); decodeError != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", filePath, decodeError)
	}
	for entryIndex, function := range listing {
		if function.ID == "" {
			return nil, fmt.Errorf("decode snapshot %s: entry %d has no id", filePath, entryIndex)
		}
	}
	return listing, nil
}
