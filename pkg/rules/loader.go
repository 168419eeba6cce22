package rules

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-autofill/pkg/field"
)

// LoadFS walks the provided filesystem and parses JSON/YAML rule files. When
// fsys is nil or no rule files are present, the returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{categories: make(map[field.Category]CategoryRule)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if !isRuleFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("rules: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for name, raw := range doc.Categories {
			cat := field.Category(strings.TrimSpace(name))
			if cat == "" {
				return fmt.Errorf("rules: file %s defines an empty category name", path)
			}
			if _, exists := store.categories[cat]; exists {
				return fmt.Errorf("rules: duplicate category %q (file %s)", cat, path)
			}
			rule, err := normaliseCategory(raw, cat, path)
			if err != nil {
				return err
			}
			store.categories[cat] = rule
		}

		for idx, raw := range doc.Exclusions {
			rule, err := normaliseExclusion(raw, idx, path)
			if err != nil {
				return err
			}
			store.exclusions = append(store.exclusions, rule)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

type documentFile struct {
	Categories map[string]categoryFile `json:"categories" yaml:"categories"`
	Exclusions []exclusionFile         `json:"exclusions" yaml:"exclusions"`
}

type categoryFile struct {
	CanonicalKeys []string `json:"canonicalKeys" yaml:"canonicalKeys"`
}

type exclusionFile struct {
	Field     string   `json:"field" yaml:"field"`
	Exact     bool     `json:"exact" yaml:"exact"`
	Symmetric bool     `json:"symmetric" yaml:"symmetric"`
	Blocked   []string `json:"blocked" yaml:"blocked"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("rules: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("rules: parse %s: invalid JSON or YAML", source)
}

func normaliseCategory(raw categoryFile, cat field.Category, source string) (CategoryRule, error) {
	if len(raw.CanonicalKeys) == 0 {
		return CategoryRule{}, fmt.Errorf("rules: category %q (file %s) has no canonical keys", cat, source)
	}
	keys := make([]string, len(raw.CanonicalKeys))
	for idx, key := range raw.CanonicalKeys {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			return CategoryRule{}, fmt.Errorf("rules: category %q (file %s) has an empty canonical key at index %d", cat, source, idx)
		}
		keys[idx] = trimmed
	}
	return CategoryRule{Category: cat, CanonicalKeys: keys, Source: source}, nil
}

func normaliseExclusion(raw exclusionFile, idx int, source string) (Exclusion, error) {
	fieldText := field.Normalize(raw.Field)
	if fieldText == "" {
		return Exclusion{}, fmt.Errorf("rules: file %s exclusion %d has an empty field pattern", source, idx)
	}
	if len(raw.Blocked) == 0 {
		return Exclusion{}, fmt.Errorf("rules: file %s exclusion %d blocks nothing", source, idx)
	}
	blocked := make([]string, len(raw.Blocked))
	for i, entry := range raw.Blocked {
		normalised := field.Normalize(entry)
		if normalised == "" {
			return Exclusion{}, fmt.Errorf("rules: file %s exclusion %d has an empty blocked entry at index %d", source, idx, i)
		}
		blocked[i] = normalised
	}
	return Exclusion{
		Field:     fieldText,
		Exact:     raw.Exact,
		Symmetric: raw.Symmetric,
		Blocked:   blocked,
		Source:    source,
	}, nil
}

func isRuleFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
