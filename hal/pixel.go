package hal

// pageBit returns the byte index and bit mask of pixel (x, y) in the page layout.
func pageBit(stride, x, y int) (int, byte) {
	return x + (y/8)*stride, 1 << uint(y%8)
}

// pageBytes returns the buffer size needed for a stride x height page-layout frame.
func pageBytes(stride, height int) int {
	return stride * ((height + 7) / 8)
}

func pixelOn(buf []byte, stride, x, y int) bool {
	i, m := pageBit(stride, x, y)
	if i < 0 || i >= len(buf) {
		return false
	}
	return buf[i]&m != 0
}

// OLED-ish palette for host previews.
var (
	litRGB   = [3]uint8{0xd8, 0xf0, 0xff}
	unlitRGB = [3]uint8{0x08, 0x0c, 0x14}
)

// expandRGBA converts a page-layout frame to tightly packed RGBA pixels.
func expandRGBA(dst, src []byte, width, height, stride int) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			j := (y*width + x) * 4
			if j+3 >= len(dst) {
				return
			}
			c := unlitRGB
			if pixelOn(src, stride, x, y) {
				c = litRGB
			}
			dst[j+0] = c[0]
			dst[j+1] = c[1]
			dst[j+2] = c[2]
			dst[j+3] = 0xFF
		}
	}
}
