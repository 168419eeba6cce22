package report

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeAssetStylesheet is the manifest asset key the HTML renderer links
// when the resolved theme provides it.
const ThemeAssetStylesheet = "report.stylesheet"

// ThemeConfig resolves a theme selection into renderer-facing config:
// variant tokens override base tokens, CSS variables derive from the merged
// tokens, and AssetURL joins the manifest's asset prefix with the variant's
// file overrides applied.
func ThemeConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest

	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: mergeStringMaps(manifest.Templates, nil),
		Tokens:   mergeStringMaps(manifest.Tokens, nil),
	}

	prefix := manifest.Assets.Prefix
	files := mergeStringMaps(manifest.Assets.Files, nil)

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		cfg.Partials = mergeStringMaps(cfg.Partials, variant.Templates)
		cfg.Tokens = mergeStringMaps(cfg.Tokens, variant.Tokens)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
		files = mergeStringMaps(files, variant.Assets.Files)
	}

	cfg.CSSVars = cssVarsFromTokens(cfg.Tokens)
	cfg.AssetURL = assetResolver(prefix, files)
	return cfg
}

func mergeStringMaps(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		out[key] = value
	}
	return out
}

func cssVarsFromTokens(tokens map[string]string) map[string]string {
	if len(tokens) == 0 {
		return nil
	}
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		name := key
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		out[name] = value
	}
	return out
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	if len(files) == 0 {
		return nil
	}
	trimmed := strings.TrimRight(prefix, "/")
	return func(name string) string {
		file, ok := files[name]
		if !ok {
			return ""
		}
		if trimmed == "" {
			return file
		}
		return trimmed + "/" + file
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
