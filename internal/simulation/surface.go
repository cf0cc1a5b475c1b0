package simulation

//go:generate mockgen -destination "mock_surface_test.go" -package $GOPACKAGE -write_package_comment=false -source surface.go

import (
	"image"
	"image/color"
)

// Surface is the 2D drawing area entities paint on. Coordinates are surface
// pixels with the origin in the top-left corner.
type Surface interface {
	// FillRect fills r with c, blending when c is translucent.
	FillRect(r image.Rectangle, c color.Color)
	// ClearRect resets r to the background.
	ClearRect(r image.Rectangle)
	// Width returns the surface width in pixels.
	Width() int
	// Height returns the surface height in pixels.
	Height() int
}
