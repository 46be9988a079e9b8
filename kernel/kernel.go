/*
DESCRIPTION
  kernel.go implements the charged-sharing neighbourhood kernels shared by
  the Addition and Discrimination pipeline stages: zero-padding a frame to an
  extended buffer, scanning an odd NxN neighbourhood around every pixel, and
  collapsing back to the original dimensions. Both kernels were duplicated
  per-plugin in the original frame processor; here they share the same
  Extend/Collapse plumbing, per the composition-over-duplication approach
  spec.md's Design Notes call for.

AUTHORS
  Mercury detector data-plane team.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package kernel implements the charged-sharing neighbourhood algorithms:
// Add, which folds adjacent nonzero pixels onto the largest of them, and Discriminate,
// which rejects clusters of adjacent nonzero pixels outright.
package kernel

import "fmt"

// Extend zero-pads a height x width row-major image by pad pixels on every
// side, returning the extended buffer and its width.
func Extend(src []float32, height, width, pad int) (dst []float32, extWidth int) {
	extWidth = width + 2*pad
	extHeight := height + 2*pad
	dst = make([]float32, extHeight*extWidth)
	for r := 0; r < height; r++ {
		srcRow := src[r*width : (r+1)*width]
		dstOff := (r+pad)*extWidth + pad
		copy(dst[dstOff:dstOff+width], srcRow)
	}
	return dst, extWidth
}

// Collapse extracts the central height x width region of an extended buffer
// produced by Extend.
func Collapse(ext []float32, extWidth, pad, height, width int) []float32 {
	out := make([]float32, height*width)
	for r := 0; r < height; r++ {
		srcOff := (r+pad)*extWidth + pad
		copy(out[r*width:(r+1)*width], ext[srcOff:srcOff+width])
	}
	return out
}

// NeighbourhoodPad returns the padding radius for an odd neighbourhood size
// n (n must be odd and >= 1).
func NeighbourhoodPad(n int) (int, error) {
	if n < 1 || n%2 == 0 {
		return 0, fmt.Errorf("kernel: neighbourhood size %d must be odd and positive", n)
	}
	return (n - 1) / 2, nil
}

// Add implements the charged-sharing addition kernel: for every nonzero
// pixel (the anchor), each nonzero neighbour within the NxN window is
// compared in turn against the running maximum, which starts at the
// anchor's own cell — the smaller of the two is absorbed into the larger
// and zeroed. A neighbour that turns out larger than the running maximum
// takes over as the accumulation target (the previous target's cell is
// zeroed and drops out), and every later neighbour in the scan is compared
// against and folded into that new target, as the original addition
// plugin's process_addition walks its extended frame.
func Add(image []float32, height, width, n int) ([]float32, error) {
	pad, err := NeighbourhoodPad(n)
	if err != nil {
		return nil, err
	}
	ext, extWidth := Extend(image, height, width, pad)

	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			i := (r+pad)*extWidth + (c + pad)
			if ext[i] <= 0 {
				continue
			}
			maxIdx := i
			maxValue := ext[i]
			for dr := -pad; dr <= pad; dr++ {
				for dc := -pad; dc <= pad; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					j := i + dr*extWidth + dc
					if ext[j] <= 0 {
						continue
					}
					if ext[j] > maxValue {
						ext[j] += ext[maxIdx]
						maxValue = ext[j]
						ext[maxIdx] = 0
						maxIdx = j
					} else {
						ext[maxIdx] += ext[j]
						maxValue = ext[maxIdx]
						ext[j] = 0
					}
				}
			}
		}
	}
	return Collapse(ext, extWidth, pad, height, width), nil
}

// Discriminate implements the charged-sharing discrimination kernel: for
// every nonzero pixel, if any neighbour within the NxN window is also
// nonzero, the whole window is rejected — the center and every neighbour
// are zeroed — rather than attempting to apportion the shared charge.
// Isolated single-pixel events are left untouched, which makes repeated
// application idempotent.
func Discriminate(image []float32, height, width, n int) ([]float32, error) {
	pad, err := NeighbourhoodPad(n)
	if err != nil {
		return nil, err
	}
	ext, extWidth := Extend(image, height, width, pad)

	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			er, ec := r+pad, c+pad
			if ext[er*extWidth+ec] == 0 {
				continue
			}
			clustered := false
			for dr := -pad; dr <= pad && !clustered; dr++ {
				for dc := -pad; dc <= pad; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					if ext[(er+dr)*extWidth+(ec+dc)] != 0 {
						clustered = true
						break
					}
				}
			}
			if !clustered {
				continue
			}
			for dr := -pad; dr <= pad; dr++ {
				for dc := -pad; dc <= pad; dc++ {
					ext[(er+dr)*extWidth+(ec+dc)] = 0
				}
			}
		}
	}
	return Collapse(ext, extWidth, pad, height, width), nil
}
