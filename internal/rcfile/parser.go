package rcfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// FileNames lists the rc file names in lookup order.
var FileNames = []string{".svrxrc.yaml", ".svrxrc.yml", ".svrxrc.json"}

// Find returns the path of the first rc file present in dir, or "" when
// dir has none.
func Find(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("checking %s: %w", path, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("%s is a directory", path)
		}
		return path, nil
	}
	return "", nil
}

// Load finds, validates and parses the rc file in dir. A directory without
// an rc file yields an empty RC.
func Load(dir string) (*RC, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return &RC{}, nil
	}
	return ParseFile(path)
}

// ParseFile validates and parses the rc file at path.
func ParseFile(path string) (*RC, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	if !result.Valid {
		return nil, &InvalidError{File: path, Issues: result.Issues}
	}

	rc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	rc.File = path
	return rc, nil
}

// Parse decodes rc content without validating it.
func Parse(data []byte) (*RC, error) {
	rc := &RC{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return rc, nil
	}
	if err := yaml.Unmarshal(data, rc); err != nil {
		return nil, fmt.Errorf("unmarshaling YAML: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling YAML: %w", err)
	}
	for _, known := range []string{KeyVersion, KeyPath, KeyRegistry, KeyPlugins} {
		delete(raw, known)
	}
	if len(raw) > 0 {
		rc.Extra = normalizeYAML(raw).(map[string]any)
	}
	return rc, nil
}
