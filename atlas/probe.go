package atlas

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DimensionsFunc returns the pixel size of an atlas image.
type DimensionsFunc func(path string) (width, height int, err error)

// Probe reads only the image header of the file at path and returns its
// pixel dimensions. PNG, GIF, JPEG, BMP, TIFF and WebP are supported.
func Probe(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	config, format, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("atlas: %s: %w", path, err)
	}
	if config.Width < 0 || config.Height < 0 {
		return 0, 0, fmt.Errorf("atlas: %s: invalid %s dimensions", path, format)
	}
	return config.Width, config.Height, nil
}

// Resolve probes every path with dims. Images that cannot be read are kept
// with zero dimensions and their errors are returned alongside.
func Resolve(paths []string, dims DimensionsFunc) ([]Image, []error) {
	images := make([]Image, 0, len(paths))
	var errs []error
	for _, p := range paths {
		w, h, err := dims(p)
		if err != nil {
			errs = append(errs, err)
			w, h = 0, 0
		}
		images = append(images, Image{Path: p, Width: w, Height: h})
	}
	return images, errs
}
