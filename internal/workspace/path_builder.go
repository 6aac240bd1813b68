package workspace

import (
	"fmt"
	"path/filepath"
	"strings"
)

// pathBuilder maps gist ids to clone directories.
type pathBuilder struct {
	basePath string
}

func newPathBuilder(basePath string) *pathBuilder {
	return &pathBuilder{basePath: basePath}
}

// BuildPath returns the clone directory of a gist.
func (p *pathBuilder) BuildPath(gistID string) (string, error) {
	if gistID == "" || gistID == "." || gistID == ".." || strings.ContainsAny(gistID, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, gistID)
	}

	return filepath.Join(p.basePath, gistID), nil
}
