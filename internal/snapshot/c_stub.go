//go:build !cgo

package snapshot

import "errors"

// LoadCSources requires the cgo-backed tree-sitter bindings. Builds without
// cgo report the limitation instead of producing an empty snapshot.
func LoadCSources(rootDirectoryPath string) (Snapshot, error) {
	return nil, errors.New("c snapshot support requires a cgo-enabled build")
}
