package video

import (
	"fmt"
	"strings"
)

// Selects which representations Update materializes for a frame.
// Pixels are the decoded RGBA at source resolution, the texture is the
// surface-ready image sized to fit the window.
type DecodeMode int

const (
	DecodeTextureOnly DecodeMode = iota
	DecodePixelsOnly
	DecodePixelsAndTexture
)

func (m DecodeMode) String() string {
	switch m {
	case DecodeTextureOnly:
		return "texture"
	case DecodePixelsOnly:
		return "pixels"
	case DecodePixelsAndTexture:
		return "pixels+texture"
	default:
		return "unknown"
	}
}

func (m DecodeMode) WantsPixels() bool {
	return m == DecodePixelsOnly || m == DecodePixelsAndTexture
}

func (m DecodeMode) WantsTexture() bool {
	return m == DecodeTextureOnly || m == DecodePixelsAndTexture
}

func (m DecodeMode) Valid() bool {
	return m >= DecodeTextureOnly && m <= DecodePixelsAndTexture
}

// Parses a mode name as used in config files and flags
func ParseDecodeMode(s string) (DecodeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "texture", "texture-only", "":
		return DecodeTextureOnly, nil
	case "pixels", "pixels-only":
		return DecodePixelsOnly, nil
	case "pixels+texture", "pixels-and-texture", "both":
		return DecodePixelsAndTexture, nil
	}
	return DecodeTextureOnly, fmt.Errorf("unknown decode mode %q", s)
}
