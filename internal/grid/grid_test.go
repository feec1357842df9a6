package grid

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

var fullHD = Size{Width: 1920, Height: 1080}

func TestRows(t *testing.T) {
	tests := []struct {
		count, columns, want int
	}{
		{0, 9, 0},
		{-3, 9, 0},
		{1, 9, 1},
		{9, 9, 1},
		{10, 9, 2},
		{18, 9, 2},
		{19, 9, 3},
		{5, 0, 5},
	}
	for _, tt := range tests {
		if got := Rows(tt.count, tt.columns); got != tt.want {
			t.Fatalf("Rows(%d, %d) = %d, want %d", tt.count, tt.columns, got, tt.want)
		}
	}
}

func TestRecomputeCellSize_PacksViewport(t *testing.T) {
	const spacing = 10.0
	for n := 1; n <= 100; n++ {
		for _, columns := range []int{1, 4, 9} {
			cell := RecomputeCellSize(n, columns, fullHD, spacing)
			rows := Rows(n, columns)

			width := cell.Width*float64(columns) + spacing*float64(columns-1)
			if !approx(width, fullHD.Width) {
				t.Fatalf("n=%d columns=%d: packed width = %v, want %v", n, columns, width, fullHD.Width)
			}
			height := cell.Height*float64(rows) + spacing*float64(rows-1)
			if !approx(height, fullHD.Height) {
				t.Fatalf("n=%d columns=%d: packed height = %v, want %v", n, columns, height, fullHD.Height)
			}
		}
	}
}

func TestRecomputeCellSize_ShrinksMonotonically(t *testing.T) {
	prev := RecomputeCellSize(1, 9, fullHD, 10)
	for n := 2; n <= 200; n++ {
		cur := RecomputeCellSize(n, 9, fullHD, 10)
		if cur.Height > prev.Height {
			t.Fatalf("cell height grew from %v to %v at n=%d", prev.Height, cur.Height, n)
		}
		if cur.Width != prev.Width {
			t.Fatalf("cell width changed from %v to %v at n=%d", prev.Width, cur.Width, n)
		}
		prev = cur
	}
}

func TestRecomputeCellSize_EmptyIsOneRow(t *testing.T) {
	empty := RecomputeCellSize(0, 9, fullHD, 10)
	one := RecomputeCellSize(1, 9, fullHD, 10)
	if empty != one {
		t.Fatalf("RecomputeCellSize(0) = %v, want %v", empty, one)
	}
	if !approx(empty.Height, fullHD.Height) {
		t.Fatalf("empty grid cell height = %v, want %v", empty.Height, fullHD.Height)
	}
}

func TestPosition(t *testing.T) {
	g := Geometry{Columns: 3, CellWidth: 100, CellHeight: 50, Spacing: 10}

	tests := []struct {
		index int
		want  Point
	}{
		{0, Point{X: 50, Y: -25}},
		{1, Point{X: 160, Y: -25}},
		{2, Point{X: 270, Y: -25}},
		{3, Point{X: 50, Y: -85}},
		{7, Point{X: 160, Y: -145}},
	}
	for _, tt := range tests {
		got := Position(tt.index, g)
		if !approx(got.X, tt.want.X) || !approx(got.Y, tt.want.Y) {
			t.Fatalf("Position(%d) = %+v, want %+v", tt.index, got, tt.want)
		}
	}
}

func TestTransform_TopLeft(t *testing.T) {
	tr := TopLeft(fullHD)
	got := tr.Apply(Point{X: 0, Y: 0})
	if got.X != -960 || got.Y != 540 {
		t.Fatalf("TopLeft origin = %+v, want {-960 540}", got)
	}
	got = tr.Apply(Point{X: 1920, Y: -1080})
	if got.X != 960 || got.Y != -540 {
		t.Fatalf("TopLeft far corner = %+v, want {960 -540}", got)
	}

	scaled := Transform{Origin: Point{X: 1, Y: 1}, Scale: 2}
	if got := scaled.Apply(Point{X: 3, Y: -4}); got.X != 7 || got.Y != -7 {
		t.Fatalf("scaled Apply = %+v, want {7 -7}", got)
	}
	if got := (Transform{}).Apply(Point{X: 3, Y: 4}); got.X != 3 || got.Y != 4 {
		t.Fatalf("zero transform Apply = %+v, want identity", got)
	}
}
