// Package raster converts rasterized score pages into vertical
// content-density profiles.
//
// The pipeline is grayscale, then binary ink mask, then a horizontal
// projection that counts ink pixels per row:
//
//	profile, err := raster.Profile(page.RGBA, page.Width, page.Height)
//
// All functions are pure and safe for concurrent use.
package raster

import (
	"errors"
	"fmt"
)

// DefaultThreshold is the gray level below which a pixel counts as ink.
const DefaultThreshold = 128

// ErrBufferSize is returned when an RGBA buffer does not match its
// declared dimensions.
var ErrBufferSize = errors.New("rgba buffer does not match dimensions")

// Grayscale converts packed RGBA pixel data to one luma byte per pixel
// using the ITU-R BT.601 weights. Alpha is ignored. A trailing partial
// pixel is dropped.
func Grayscale(rgba []byte) []byte {
	n := len(rgba) / 4
	gray := make([]byte, n)
	for i := 0; i < n; i++ {
		r := float64(rgba[i*4])
		g := float64(rgba[i*4+1])
		b := float64(rgba[i*4+2])
		// +0.5 then truncate rounds half up, values are never negative
		gray[i] = byte(0.299*r + 0.587*g + 0.114*b + 0.5)
	}
	return gray
}

// Binarize maps each gray value to 1 (ink) when it is strictly below
// threshold and to 0 otherwise.
func Binarize(gray []byte, threshold int) []byte {
	binary := make([]byte, len(gray))
	for i, v := range gray {
		if int(v) < threshold {
			binary[i] = 1
		}
	}
	return binary
}

// HorizontalProjection sums the ink bits of each row. The result has
// exactly height entries; rows missing from a short buffer count as blank.
func HorizontalProjection(binary []byte, width, height int) []int {
	if height <= 0 {
		return []int{}
	}
	profile := make([]int, height)
	if width <= 0 {
		return profile
	}
	for y := 0; y < height; y++ {
		start := y * width
		if start >= len(binary) {
			break
		}
		end := min(start+width, len(binary))
		sum := 0
		for _, bit := range binary[start:end] {
			sum += int(bit)
		}
		profile[y] = sum
	}
	return profile
}

// Profile runs the full grayscale, binarize and projection pipeline on an
// RGBA buffer using DefaultThreshold.
func Profile(rgba []byte, width, height int) ([]int, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d: %w", width, height, ErrBufferSize)
	}
	if len(rgba) != width*height*4 {
		return nil, fmt.Errorf("got %d bytes for %dx%d: %w", len(rgba), width, height, ErrBufferSize)
	}
	gray := Grayscale(rgba)
	return HorizontalProjection(Binarize(gray, DefaultThreshold), width, height), nil
}
