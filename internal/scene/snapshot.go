package scene

import (
	"github.com/five82/photowall/internal/grid"
	"github.com/five82/photowall/internal/surface"
)

// Rect is an axis-aligned rectangle in world space (center origin, y up).
type Rect struct {
	Center grid.Point
	Size   grid.Size
}

// Item is one drawable element.
type Item struct {
	Handle     surface.Handle
	Caption    string
	ImageBytes int
	Scale      float64
	Rect       Rect
	InGrid     bool
	Index      int
}

// Snapshot is a copy of the scene at one frame.
type Snapshot struct {
	Viewport  grid.Size
	Geometry  grid.Geometry
	Grid      []Item
	Floating  []Item
	Animating bool
}

// Snapshot captures world-space rectangles for every element.
func (s *Scene) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Viewport:  s.viewport,
		Geometry:  s.geometry,
		Animating: s.resize != nil,
	}

	cell := s.geometry.CellSize()
	for i, h := range s.children {
		el := s.elements[h]
		if el == nil {
			continue
		}
		local := grid.Position(i, s.geometry)
		local.X += el.pose.Position.X
		local.Y += el.pose.Position.Y
		snap.Grid = append(snap.Grid, Item{
			Handle:     h,
			Caption:    el.caption,
			ImageBytes: len(el.image),
			Scale:      el.pose.Scale,
			Rect: Rect{
				Center: s.container.Apply(local),
				Size:   scaled(cell, el.pose.Scale),
			},
			InGrid: true,
			Index:  i,
		})
		if len(el.tweens) > 0 {
			snap.Animating = true
		}
	}

	for h, el := range s.elements {
		if el.parent != rootHandle {
			continue
		}
		snap.Floating = append(snap.Floating, Item{
			Handle:     h,
			Caption:    el.caption,
			ImageBytes: len(el.image),
			Scale:      el.pose.Scale,
			Rect: Rect{
				Center: el.pose.Position,
				Size:   scaled(s.revealSize, el.pose.Scale),
			},
			Index: -1,
		})
		if len(el.tweens) > 0 {
			snap.Animating = true
		}
	}
	return snap
}

// Len returns the number of live elements.
func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.elements)
}

func scaled(size grid.Size, scale float64) grid.Size {
	return grid.Size{Width: size.Width * scale, Height: size.Height * scale}
}
