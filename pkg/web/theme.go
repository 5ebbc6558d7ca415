package web

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Theme variants served by the page. The GUI dark mode switch maps to them.
const (
	VariantLight = "light"
	VariantDark  = "dark"
)

const themeName = "numerals"

// DefaultManifest describes the page palette. Light tokens are the base; the
// dark variant overrides them.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    themeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"background": "#ffffff",
			"surface":    "#f4f4f5",
			"text":       "#18181b",
			"accent":     "#1d4ed8",
			"error":      "#b91c1c",
			"font":       "Arial, sans-serif",
		},
		Variants: map[string]theme.Variant{
			VariantDark: {
				Tokens: map[string]string{
					"background": "#18181b",
					"surface":    "#27272a",
					"text":       "#f4f4f5",
					"accent":     "#93c5fd",
					"error":      "#fca5a5",
				},
			},
		},
	}
}

// Selector resolves theme variants from a single manifest. Unknown variants
// fall back to the default.
type Selector struct {
	manifest       *theme.Manifest
	defaultVariant string
}

var _ theme.ThemeSelector = (*Selector)(nil)

// NewSelector builds a Selector. A nil manifest uses DefaultManifest.
func NewSelector(manifest *theme.Manifest, defaultVariant string) *Selector {
	if manifest == nil {
		manifest = DefaultManifest()
	}
	defaultVariant = strings.ToLower(strings.TrimSpace(defaultVariant))
	if defaultVariant == "" {
		defaultVariant = VariantLight
	}
	return &Selector{manifest: manifest, defaultVariant: defaultVariant}
}

// Select implements theme.ThemeSelector. The name is ignored beyond a sanity
// check since the page ships one manifest.
func (s *Selector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name = strings.TrimSpace(name); name != "" && name != s.manifest.Name {
		return nil, fmt.Errorf("web: unknown theme %q", name)
	}
	variant = strings.ToLower(strings.TrimSpace(variant))
	if !s.hasVariant(variant) {
		variant = s.defaultVariant
	}
	return &theme.Selection{
		Theme:    s.manifest.Name,
		Variant:  variant,
		Manifest: s.manifest,
	}, nil
}

// Variants lists the selectable variant names, base variant first.
func (s *Selector) Variants() []string {
	out := []string{VariantLight}
	extra := make([]string, 0, len(s.manifest.Variants))
	for name := range s.manifest.Variants {
		if name != VariantLight {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func (s *Selector) hasVariant(variant string) bool {
	if variant == VariantLight {
		return true
	}
	_, ok := s.manifest.Variants[variant]
	return ok
}

// rendererConfig flattens a selection into tokens and CSS variables.
func rendererConfig(sel *theme.Selection) *theme.RendererConfig {
	tokens := make(map[string]string)
	if sel.Manifest != nil {
		for key, value := range sel.Manifest.Tokens {
			tokens[key] = value
		}
		if v, ok := sel.Manifest.Variants[sel.Variant]; ok {
			for key, value := range v.Tokens {
				tokens[key] = value
			}
		}
	}
	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}
	return &theme.RendererConfig{
		Theme:   sel.Theme,
		Variant: sel.Variant,
		Tokens:  tokens,
		CSSVars: cssVars,
	}
}

// cssVarsStyle renders CSS variables as a deterministic declaration list.
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
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";")
	}
	return b.String()
}
