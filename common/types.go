// Package common contains plain data types and helpers shared across the viewer: math over mgl32,
// colors, key codes and texture staging data.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
type TextureStagingData struct {
	// Pixels is the RGBA pixel data, 4 bytes per pixel, row-major.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// WrapMode is the texture coordinate addressing mode read from a model file sampler.
type WrapMode int

const (
	// WrapRepeat tiles the texture. This is the glTF default.
	WrapRepeat WrapMode = iota
	// WrapClampToEdge clamps coordinates to the edge texels.
	WrapClampToEdge
	// WrapMirroredRepeat tiles the texture, mirroring every other tile.
	WrapMirroredRepeat
)

// SamplerStagingData holds the sampler configuration for a texture pending GPU creation.
type SamplerStagingData struct {
	WrapU, WrapV WrapMode
	// Nearest selects nearest-neighbour magnification instead of linear.
	Nearest bool
}

// Texture is an image extracted from a model file. Data holds the encoded bytes
// (PNG, JPEG, WebP or BMP) as stored in the buffer view or data URI.
type Texture struct {
	// Name is the image name from the model file, if any.
	Name string

	// Data contains the encoded image bytes.
	Data []byte

	// MimeType indicates the image format (e.g. "image/png").
	MimeType string

	// Sampler holds sampler parameters from the model file, nil for defaults.
	Sampler *SamplerStagingData
}

// Decode decodes the texture to raw RGBA pixel data.
// Reference: https://pkg.go.dev/image
//
// Returns:
//   - TextureStagingData: RGBA pixels and dimensions
//   - error: error if the texture is empty or decoding fails
func (t *Texture) Decode() (TextureStagingData, error) {
	if t == nil || len(t.Data) == 0 {
		return TextureStagingData{}, fmt.Errorf("texture has no data")
	}

	img, _, err := image.Decode(bytes.NewReader(t.Data))
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to decode texture %q: %w", t.Name, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}, nil
}
