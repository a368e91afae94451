package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/primetrain/primetrain/internal/domain"
	"gopkg.in/yaml.v3"
)

// TreeLoader implements domain.ConfigLoader for training configs. TOML is
// the native format; .yaml and .yml files are accepted as well.
type TreeLoader struct{}

func NewTreeLoader() *TreeLoader { return &TreeLoader{} }

// Format picks the syntax from the file extension.
func (l *TreeLoader) Format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "toml"
}

// Load parses path into a tree. A missing file wraps domain.ErrConfigNotFound
// and a syntax error is a *domain.ParseError.
func (l *TreeLoader) Load(path string) (domain.ConfigTree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, domain.ErrConfigNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	format := l.Format(path)
	tree := map[string]any{}
	switch format {
	case "yaml":
		err = yaml.Unmarshal(data, &tree)
	default:
		err = toml.Unmarshal(data, &tree)
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			err = fmt.Errorf("line %d, column %d: %w", row, col, derr)
		}
	}
	if err != nil {
		return nil, &domain.ParseError{Format: format, Err: err}
	}
	return domain.ConfigTree(tree), nil
}
