package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferDrawStringAnchors(t *testing.T) {
	b := NewBuffer(20, 2)

	b.DrawString("hi", 3, 0, TextMain, BodyBg, TopLeft)
	assert.Equal(t, 'h', b.Cell(3, 0).R)
	assert.Equal(t, 'i', b.Cell(4, 0).R)

	b.DrawString("mid", 10, 1, TextMain, BodyBg, MidCenter)
	assert.Equal(t, 'm', b.Cell(9, 1).R)
}

func TestBufferClipsOutOfRange(t *testing.T) {
	b := NewBuffer(5, 1)
	b.DrawString("overflowing", 0, 0, TextMain, BodyBg, TopLeft)
	assert.Equal(t, "overf", b.Row(0))
	assert.Equal(t, Cell{}, b.Cell(7, 0))
	assert.Equal(t, Cell{}, b.Cell(0, 5))
}

func TestBufferBlit(t *testing.T) {
	dst := NewBuffer(10, 3)
	src := NewBuffer(4, 1)
	src.DrawString("band", 0, 0, TextMain, HeadBg, TopLeft)

	dst.Blit(src, 2, 2)
	assert.Equal(t, "  band", dst.Row(2))
	assert.Equal(t, HeadBg, dst.Cell(2, 2).Bg)

	// clipped at the right edge
	dst.Blit(src, 8, 0)
	assert.Equal(t, 'b', dst.Cell(8, 0).R)
	assert.Equal(t, 'a', dst.Cell(9, 0).R)
}

func TestDrawShadowed(t *testing.T) {
	b := NewBuffer(10, 2)
	DrawShadowed(b, "x", 2, 0, TextMain, BodyBg, TopLeft)
	assert.Equal(t, 'x', b.Cell(2, 0).R)
	assert.Equal(t, TextMain, b.Cell(2, 0).Fg)
	assert.Equal(t, 'x', b.Cell(3, 1).R)
	assert.Equal(t, TextShadow, b.Cell(3, 1).Fg)
}
