package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// ErrNoModule is returned when the project has no go.mod or it declares no
// module path
var ErrNoModule = errors.New("no module path found")

// DetectModule returns the module path declared by root/go.mod
func DetectModule(root string) (string, error) {
	gomod := filepath.Join(root, "go.mod")
	content, err := os.ReadFile(gomod)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s does not exist", ErrNoModule, gomod)
		}
		return "", fmt.Errorf("failed to read %s: %w", gomod, err)
	}
	module := modfile.ModulePath(content)
	if module == "" {
		return "", fmt.Errorf("%w: %s has no module directive", ErrNoModule, gomod)
	}
	return module, nil
}
