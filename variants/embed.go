package variants

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var VariantsFS embed.FS

// OverrideDir is checked before the embedded files, so edits on disk win.
var OverrideDir = "variants"

func Load(name string) ([]byte, error) {
	clean := cleanVariantPath(name)
	if data, err := os.ReadFile(diskVariantPath(clean)); err == nil {
		return data, nil
	}
	return VariantsFS.ReadFile(clean)
}

func ModTime(name string) (time.Time, bool) {
	clean := cleanVariantPath(name)
	info, err := os.Stat(diskVariantPath(clean))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// LoadSpec reads a YAML document into T without validating it.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("variants: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("variants: unmarshal %s: %w", filename, err)
	}
	return spec, nil
}

// ByName loads and validates the named variant.
func ByName(name string) (*Spec, error) {
	data, err := Load(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownVariant, name)
		}
		return nil, fmt.Errorf("variants: load %s: %w", name, err)
	}
	spec, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return spec, nil
}

// List returns the embedded variant names in gallery order.
func List() []string {
	entries, err := fs.Glob(VariantsFS, "*.yaml")
	if err != nil {
		return nil
	}
	type item struct {
		name  string
		order int
	}
	items := make([]item, 0, len(entries))
	for _, e := range entries {
		hdr, err := LoadSpec[struct {
			Order int `yaml:"order"`
		}](e)
		if err != nil {
			continue
		}
		items = append(items, item{name: strings.TrimSuffix(e, ".yaml"), order: hdr.Order})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].order != items[j].order {
			return items[i].order < items[j].order
		}
		return items[i].name < items[j].name
	})
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.name
	}
	return names
}

// NameFromPath maps a watched file path back to a variant name.
func NameFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func cleanVariantPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	s = strings.TrimPrefix(s, "variants/")
	if !strings.HasSuffix(s, ".yaml") && !strings.HasSuffix(s, ".yml") {
		s += ".yaml"
	}
	return s
}

func diskVariantPath(clean string) string {
	return filepath.Join(OverrideDir, filepath.FromSlash(clean))
}
