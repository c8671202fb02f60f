package control

import (
	"joyrgb-go/services/hal"
	"joyrgb-go/types"
)

// Op is a display primitive.
type Op uint8

const (
	OpClear Op = iota
	OpRect
	OpFlush
)

// Command is one step of a frame. Rect fields are ignored for Clear and Flush.
type Command struct {
	Op         Op
	X, Y, W, H int16
	Filled     bool
}

// Composer lays out the border and the marker for a fixed display geometry.
type Composer struct {
	width, height int16
	marker, inset int16
}

func NewComposer(cfg types.ControlConfig) Composer {
	return Composer{
		width:  cfg.Display.Width,
		height: cfg.Display.Height,
		marker: cfg.MarkerSize,
		inset:  cfg.BorderInset,
	}
}

// Compose appends one frame to dst[:0] and returns it: clear, border,
// filled marker, flush. The output depends only on style and pos.
func (c Composer) Compose(dst []Command, style types.BorderStyle, pos types.Position) []Command {
	dst = append(dst[:0],
		Command{Op: OpClear},
		Command{Op: OpRect, W: c.width, H: c.height},
	)
	if style == types.BorderDouble {
		dst = append(dst, Command{
			Op: OpRect,
			X:  c.inset, Y: c.inset,
			W: c.width - 2*c.inset, H: c.height - 2*c.inset,
		})
	}
	return append(dst,
		Command{Op: OpRect, X: pos.X, Y: pos.Y, W: c.marker, H: c.marker, Filled: true},
		Command{Op: OpFlush},
	)
}

// Render plays cmds against d. Only Flush can fail.
func Render(d hal.Display, cmds []Command) error {
	for _, cmd := range cmds {
		switch cmd.Op {
		case OpClear:
			d.Clear()
		case OpRect:
			d.DrawRect(cmd.X, cmd.Y, cmd.W, cmd.H, true, cmd.Filled)
		case OpFlush:
			if err := d.Flush(); err != nil {
				return err
			}
		}
	}
	return nil
}
