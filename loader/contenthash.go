package loader

import (
	"os"

	"golang.org/x/crypto/blake2b"
)

// ContentHash digests a script file's bytes with BLAKE2b-256, letting
// the watcher distinguish a real content change from a metadata-only
// filesystem event (touch, permission change) before paying for a full
// reload (spec.md §5 doesn't mandate this, but its "single-threaded
// cooperative per script load" cost model makes a cheap pre-filter
// worthwhile for a filesystem watcher driving many scripts).
func ContentHash(path string) ([32]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return [32]byte{}, err
	}
	return blake2b.Sum256(data), nil
}
