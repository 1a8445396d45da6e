package types

import (
	"fmt"
	"strings"
)

// RenderStyle selects one of the visual resume layouts.
type RenderStyle string

// Supported render styles.
const (
	StyleClassic  RenderStyle = "classic"
	StyleModern   RenderStyle = "modern"
	StyleMinimal  RenderStyle = "minimal"
	StyleElegant  RenderStyle = "elegant"
	StyleCompact  RenderStyle = "compact"
	StyleCreative RenderStyle = "creative"
)

// DefaultRenderStyle is used when no style is requested.
const DefaultRenderStyle = StyleClassic

var allStyles = []RenderStyle{StyleClassic, StyleModern, StyleMinimal, StyleElegant, StyleCompact, StyleCreative}

// AllRenderStyles returns every supported style in a stable order.
func AllRenderStyles() []RenderStyle {
	out := make([]RenderStyle, len(allStyles))
	copy(out, allStyles)
	return out
}

// ParseRenderStyle maps a user-supplied name to a RenderStyle. Empty input yields the default.
func ParseRenderStyle(s string) (RenderStyle, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return DefaultRenderStyle, nil
	}
	for _, style := range allStyles {
		if string(style) == name {
			return style, nil
		}
	}
	return "", NewFieldValidationError("style", fmt.Sprintf("unknown render style %q", s))
}

// Valid reports whether s is a supported style.
func (s RenderStyle) Valid() bool {
	for _, style := range allStyles {
		if style == s {
			return true
		}
	}
	return false
}
