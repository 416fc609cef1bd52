package render

import (
	"fmt"
	"strings"
)

// BlendMode selects how a painted color combines with the stored pixel.
// All modes operate on premultiplied colors.
type BlendMode int

const (
	// BlendSourceOver composites source over destination (default).
	// Formula: Result = S + D * (1 - Sa)
	BlendSourceOver BlendMode = iota

	// BlendSource replaces destination with source.
	// Formula: Result = S
	BlendSource

	// BlendPlus adds source and destination; Pack clamps the result.
	// Formula: Result = S + D
	BlendPlus
)

// String returns the scene-file name of the mode.
func (m BlendMode) String() string {
	switch m {
	case BlendSourceOver:
		return "source-over"
	case BlendSource:
		return "source"
	case BlendPlus:
		return "plus"
	default:
		return fmt.Sprintf("BlendMode(%d)", int(m))
	}
}

// ParseBlendMode parses a scene-file blend name. The empty string selects
// source-over.
func ParseBlendMode(s string) (BlendMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "source-over", "over":
		return BlendSourceOver, nil
	case "source", "replace":
		return BlendSource, nil
	case "plus", "add":
		return BlendPlus, nil
	default:
		return 0, fmt.Errorf("unknown blend mode %q", s)
	}
}

// Blend combines src with dst according to the mode.
func (m BlendMode) Blend(src, dst Color) Color {
	switch m {
	case BlendSource:
		return src
	case BlendPlus:
		return src.Add(dst)
	default:
		return src.Over(dst)
	}
}
