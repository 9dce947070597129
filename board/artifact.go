package board

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ArtifactName returns the deterministic filename for the board produced
// by applying the move at catalog index idx to the named source board.
func ArtifactName(source string, idx int) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_move%d.csv", stem, idx)
}

// Materialize persists a modified board into dir under its deterministic
// artifact name and returns the artifact path. An artifact that already
// exists is reused verbatim rather than regenerated, so repeated runs
// against the same inputs are cheap and stable. The second return value
// reports whether an existing artifact was reused.
func Materialize(modified Board, dir, source string, idx int) (string, bool, error) {
	path := filepath.Join(dir, ArtifactName(source, idx))

	if _, err := os.Stat(path); err == nil {
		return path, true, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", false, fmt.Errorf("failed to stat artifact %s: %w", path, err)
	}

	if err := modified.Save(path); err != nil {
		return "", false, err
	}
	return path, false, nil
}
