package window

import (
	"image"
	"image/color"
)

// CopyBGRA writes img into dst as 32-bit BGRA rows of the given stride,
// clipped to width x height. Alpha is forced opaque; native child windows
// have no compositing.
func CopyBGRA(dst []byte, stride, width, height int, img image.Image) {
	b := img.Bounds()
	w := min(width, b.Dx())
	h := min(height, b.Dy())

	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < h; y++ {
			src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
			row := dst[y*stride : y*stride+w*4]
			for x := 0; x < w*4; x += 4 {
				row[x+0] = src[x+2]
				row[x+1] = src[x+1]
				row[x+2] = src[x+0]
				row[x+3] = 0xff
			}
		}
		return
	}

	for y := 0; y < h; y++ {
		row := dst[y*stride:]
		for x := 0; x < w; x++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			i := x * 4
			row[i+0] = c.B
			row[i+1] = c.G
			row[i+2] = c.R
			row[i+3] = 0xff
		}
	}
}
