// Package localization loads override strings: externally maintained
// localized text that takes precedence over the legacy-derived strings
// for the same object, field, and language.
package localization

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Overrides maps object file name → field name → language code → text.
// It is loaded once per run and is read-only afterwards, so it may be
// shared across concurrent export tasks.
type Overrides map[string]map[string]map[string]string

// languageFile is the YAML document shape of one per-language override
// file: object file names to field texts.
type languageFile struct {
	Objects map[string]map[string]string `yaml:"objects"`
}

// Load reads every <language-code>.yaml file in dir and merges them
// into one Overrides map. Object file-name keys are normalized to
// upper case to match the legacy 8.3 naming.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns a possibly-empty Overrides, never nil, or a
// non-nil error.
func Load(dir string) (Overrides, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading language directory %s: %w", dir, err)
	}

	overrides := Overrides{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		lang := strings.TrimSuffix(e.Name(), ext)

		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading language file %s: %w", path, err)
		}
		var doc languageFile
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing language file %s: %w", path, err)
		}

		for objName, fields := range doc.Objects {
			key := strings.ToUpper(strings.TrimSpace(objName))
			obj := overrides[key]
			if obj == nil {
				obj = map[string]map[string]string{}
				overrides[key] = obj
			}
			for field, text := range fields {
				if obj[field] == nil {
					obj[field] = map[string]string{}
				}
				obj[field][lang] = text
			}
		}
	}
	return overrides, nil
}

// ForObject returns the override entry for the given object file name,
// or nil when the object has no overrides.
func (o Overrides) ForObject(fileName string) map[string]map[string]string {
	if o == nil {
		return nil
	}
	return o[strings.ToUpper(fileName)]
}
