package video

import (
	"image"
)

// CompositeOver blends the overlay onto the base frame in place using
// standard "over" compositing: out = overlay·α + base·(1−α) per channel.
// Both images must share the same bounds. The overlay is treated as
// straight (non-premultiplied) alpha, which is what the renderer and the
// RGBA decode path produce.
func CompositeOver(base, overlay *image.RGBA) {
	width := base.Bounds().Dx()
	height := base.Bounds().Dy()

	for y := 0; y < height; y++ {
		bo := y * base.Stride
		oo := y * overlay.Stride

		for x := 0; x < width; x++ {
			bi := bo + 4*x
			oi := oo + 4*x

			alpha := uint32(overlay.Pix[oi+3])
			if alpha == 0 {
				continue
			}
			if alpha == 255 {
				base.Pix[bi] = overlay.Pix[oi]
				base.Pix[bi+1] = overlay.Pix[oi+1]
				base.Pix[bi+2] = overlay.Pix[oi+2]
				continue
			}

			inv := 255 - alpha
			for c := 0; c < 3; c++ {
				v := uint32(overlay.Pix[oi+c])*alpha + uint32(base.Pix[bi+c])*inv
				base.Pix[bi+c] = uint8((v + 127) / 255)
			}
		}
	}
}
