package app

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/artpar/windowkit/domain/gui"
)

// fingerprint derives a stable version string from an expanded tree. The
// tree is encoded as canonical JSON (struct fields in declaration order,
// map keys sorted), so a fingerprint changes exactly when the structure a
// user would see changes: template edits, parameter defaults, reordered
// children. Handler functions are not part of the encoding.
func fingerprint(tree []*gui.Node) (string, error) {
	data, err := json.Marshal(tree)
	if err != nil {
		return "", fmt.Errorf("encode tree: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:8]), nil
}
