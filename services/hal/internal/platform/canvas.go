package platform

import (
	"image/color"

	"tinygo.org/x/drivers"

	"joyrgb-go/errcode"
)

var (
	pixelOn  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	pixelOff = color.RGBA{A: 255}
)

// bufferClearer is implemented by drivers with a fast framebuffer wipe
// (ssd1306.Device.ClearBuffer).
type bufferClearer interface {
	ClearBuffer()
}

// Canvas draws rectangles on any drivers.Displayer. Coordinates outside the
// panel are clipped.
type Canvas struct {
	dev           drivers.Displayer
	width, height int16
}

func NewCanvas(dev drivers.Displayer) *Canvas {
	w, h := dev.Size()
	return &Canvas{dev: dev, width: w, height: h}
}

func (c *Canvas) Size() (int16, int16) { return c.width, c.height }

func (c *Canvas) Clear() {
	if bc, ok := c.dev.(bufferClearer); ok {
		bc.ClearBuffer()
		return
	}
	for y := int16(0); y < c.height; y++ {
		for x := int16(0); x < c.width; x++ {
			c.dev.SetPixel(x, y, pixelOff)
		}
	}
}

// DrawRect draws a w×h rectangle with its top-left corner at (x, y). An
// unfilled rectangle is a one-pixel outline.
func (c *Canvas) DrawRect(x, y, w, h int16, on, filled bool) {
	if w <= 0 || h <= 0 {
		return
	}
	col := pixelOff
	if on {
		col = pixelOn
	}
	x1, y1 := x+w-1, y+h-1
	if filled {
		for py := y; py <= y1; py++ {
			c.hline(x, x1, py, col)
		}
		return
	}
	c.hline(x, x1, y, col)
	c.hline(x, x1, y1, col)
	for py := y + 1; py < y1; py++ {
		c.set(x, py, col)
		c.set(x1, py, col)
	}
}

func (c *Canvas) hline(x0, x1, y int16, col color.RGBA) {
	for px := x0; px <= x1; px++ {
		c.set(px, y, col)
	}
}

func (c *Canvas) set(x, y int16, col color.RGBA) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.dev.SetPixel(x, y, col)
}

// Flush sends the framebuffer to the panel.
func (c *Canvas) Flush() error {
	return errcode.Wrap(errcode.PeripheralIO, "display.flush", c.dev.Display())
}
