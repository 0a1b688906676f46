package lua

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dshills/keyguard/internal/logging"
)

// LoadDir loads every *.lua file in dir, sorted by name. A script that
// fails to load is skipped and its error joined into the result. A missing
// or empty dir loads nothing.
func LoadDir(dir string, logger *logging.Logger, opts ...StateOption) ([]*Extension, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read extensions dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lua") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var exts []*Extension
	var errs []error
	for _, name := range names {
		ext, err := Load(filepath.Join(dir, name), logger, opts...)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		exts = append(exts, ext)
	}
	return exts, errors.Join(errs...)
}
