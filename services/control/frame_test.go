package control

import (
	"slices"
	"testing"

	"joyrgb-go/services/config"
	"joyrgb-go/types"
)

func TestComposeSimple(t *testing.T) {
	c := NewComposer(config.Default())
	got := c.Compose(nil, types.BorderSimple, types.Position{X: 60, Y: 27})
	want := []Command{
		{Op: OpClear},
		{Op: OpRect, W: 128, H: 64},
		{Op: OpRect, X: 60, Y: 27, W: 8, H: 8, Filled: true},
		{Op: OpFlush},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
}

func TestComposeDouble(t *testing.T) {
	c := NewComposer(config.Default())
	got := c.Compose(nil, types.BorderDouble, types.Position{})
	if len(got) != 5 {
		t.Fatalf("expected 5 commands, got %d", len(got))
	}
	if inner := got[2]; inner != (Command{Op: OpRect, X: 2, Y: 2, W: 124, H: 60}) {
		t.Fatalf("inner border %+v", inner)
	}
}

func TestComposeIsIdempotent(t *testing.T) {
	c := NewComposer(config.Default())
	pos := types.Position{X: 13, Y: 40}
	a := slices.Clone(c.Compose(nil, types.BorderDouble, pos))
	buf := make([]Command, 0, 8)
	b := c.Compose(buf, types.BorderDouble, pos)
	b = c.Compose(b, types.BorderDouble, pos)
	if !slices.Equal(a, b) {
		t.Fatalf("frames differ:\n%+v\n%+v", a, b)
	}
}

func TestRenderReplaysAndSurfacesFlushError(t *testing.T) {
	c := NewComposer(config.Default())
	cmds := c.Compose(nil, types.BorderSimple, types.Position{X: 1, Y: 2})
	d := &fakeDisplay{w: 128, h: 64}
	if err := Render(d, cmds); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !slices.Equal(d.calls, cmds) {
		t.Fatalf("display saw %+v", d.calls)
	}
	d.fail = true
	if err := Render(d, cmds); err == nil {
		t.Fatal("flush failure swallowed")
	}
}
