package invaders

// The monitor is mounted rotated: VRAM holds a 256-wide, 224-tall 1bpp
// image that appears as 224x256 on the cabinet.
const (
	ScreenW = 224
	ScreenH = 256

	vramBase = 0x2400
)

// Framebuffer returns the RGBA image refreshed at the end of StepFrame.
// The slice is reused between frames.
func (cb *Cabinet) Framebuffer() []byte { return cb.fb }

// refresh decodes VRAM into the framebuffer. Each VRAM byte holds eight
// vertical pixels after rotation: bit n of byte (x*32 + y/8) lights screen
// pixel (x, 255-(y/8*8+n)).
func (cb *Cabinet) refresh() {
	for x := 0; x < ScreenW; x++ {
		for group := 0; group < ScreenH/8; group++ {
			v := cb.mem[vramBase+x*32+group]
			for bit := 0; bit < 8; bit++ {
				y := ScreenH - 1 - (group*8 + bit)
				i := (y*ScreenW + x) * 4
				var lum byte
				if v&(1<<bit) != 0 {
					lum = 0xFF
				}
				cb.fb[i+0] = lum
				cb.fb[i+1] = lum
				cb.fb[i+2] = lum
				cb.fb[i+3] = 0xFF
			}
		}
	}
}
