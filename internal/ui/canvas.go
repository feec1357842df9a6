package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/photowall/internal/scene"
)

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellTile
	cellReveal
	cellCaption
)

// canvas is a character grid the scene is rasterized into. World space is
// center-origin with y up; row 0 is the top of the viewport.
type canvas struct {
	width  int
	height int
	runes  [][]rune
	kinds  [][]cellKind
}

func newCanvas(width, height int) *canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c := &canvas{width: width, height: height}
	c.runes = make([][]rune, height)
	c.kinds = make([][]cellKind, height)
	for y := range c.runes {
		c.runes[y] = []rune(strings.Repeat(" ", width))
		c.kinds[y] = make([]cellKind, width)
	}
	return c
}

// rasterize draws grid items first and floating items on top.
func rasterize(snap scene.Snapshot, width, height int) *canvas {
	c := newCanvas(width, height)
	if snap.Viewport.Width <= 0 || snap.Viewport.Height <= 0 || width == 0 || height == 0 {
		return c
	}
	for _, item := range snap.Grid {
		c.drawItem(snap, item, cellTile)
	}
	for _, item := range snap.Floating {
		c.drawItem(snap, item, cellReveal)
	}
	return c
}

func (c *canvas) drawItem(snap scene.Snapshot, item scene.Item, kind cellKind) {
	r := item.Rect
	if r.Size.Width <= 0 || r.Size.Height <= 0 {
		return
	}
	sx := float64(c.width) / snap.Viewport.Width
	sy := float64(c.height) / snap.Viewport.Height
	halfW := snap.Viewport.Width / 2
	halfH := snap.Viewport.Height / 2

	left := int(math.Floor((r.Center.X - r.Size.Width/2 + halfW) * sx))
	right := int(math.Ceil((r.Center.X+r.Size.Width/2+halfW)*sx)) - 1
	top := int(math.Floor((halfH - (r.Center.Y + r.Size.Height/2)) * sy))
	bottom := int(math.Ceil((halfH-(r.Center.Y-r.Size.Height/2))*sy)) - 1
	if right < left {
		right = left
	}
	if bottom < top {
		bottom = top
	}
	c.drawBox(left, top, right, bottom, kind, item.Caption)
}

func (c *canvas) drawBox(x0, y0, x1, y1 int, kind cellKind, caption string) {
	if x1-x0 < 1 || y1-y0 < 1 {
		fill := '▓'
		if kind == cellTile {
			fill = '█'
		}
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				c.set(x, y, fill, kind)
			}
		}
		return
	}

	for x := x0; x <= x1; x++ {
		c.set(x, y0, '─', kind)
		c.set(x, y1, '─', kind)
	}
	for y := y0; y <= y1; y++ {
		c.set(x0, y, '│', kind)
		c.set(x1, y, '│', kind)
		if y == y0 || y == y1 {
			continue
		}
		for x := x0 + 1; x < x1; x++ {
			c.set(x, y, ' ', kind)
		}
	}
	c.set(x0, y0, '┌', kind)
	c.set(x1, y0, '┐', kind)
	c.set(x0, y1, '└', kind)
	c.set(x1, y1, '┘', kind)

	inner := x1 - x0 - 1
	if inner <= 0 || y1-y0 < 2 || caption == "" {
		return
	}
	text := []rune(caption)
	if len(text) > inner {
		text = text[:inner]
		if inner > 1 {
			text[inner-1] = '…'
		}
	}
	row := (y0 + y1) / 2
	start := x0 + 1 + (inner-len(text))/2
	for i, r := range text {
		c.set(start+i, row, r, cellCaption)
	}
}

func (c *canvas) set(x, y int, r rune, kind cellKind) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.runes[y][x] = r
	c.kinds[y][x] = kind
}

// line returns row y without styling.
func (c *canvas) line(y int) string {
	return string(c.runes[y])
}

// render styles runs of equal kind and joins the rows.
func (c *canvas) render(styles Styles) string {
	rows := make([]string, c.height)
	for y := 0; y < c.height; y++ {
		var b strings.Builder
		start := 0
		for x := 1; x <= c.width; x++ {
			if x < c.width && c.kinds[y][x] == c.kinds[y][start] {
				continue
			}
			b.WriteString(styleFor(styles, c.kinds[y][start]).Render(string(c.runes[y][start:x])))
			start = x
		}
		rows[y] = b.String()
	}
	return strings.Join(rows, "\n")
}

func styleFor(styles Styles, kind cellKind) lipgloss.Style {
	switch kind {
	case cellTile:
		return styles.Tile
	case cellReveal:
		return styles.Reveal
	case cellCaption:
		return styles.Caption
	default:
		return styles.Canvas
	}
}
