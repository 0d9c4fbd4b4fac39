package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/PalletLoad/internal/model"
)

func TestOverlaps(t *testing.T) {
	a := Rect{X: 0, Y: 0, L: 10, W: 10}
	tests := []struct {
		name      string
		b         Rect
		clearance float64
		want      bool
	}{
		{"touching without clearance", Rect{X: 10, Y: 0, L: 10, W: 10}, 0, false},
		{"touching with clearance", Rect{X: 10, Y: 0, L: 10, W: 10}, 1, true},
		{"exactly one clearance apart", Rect{X: 11, Y: 0, L: 10, W: 10}, 1, false},
		{"jitter below clearance tolerated", Rect{X: 10.995, Y: 0, L: 10, W: 10}, 1, false},
		{"separated along Y", Rect{X: 0, Y: 12, L: 10, W: 10}, 1, false},
		{"nested", Rect{X: 2, Y: 2, L: 5, W: 5}, 0, true},
		{"partial overlap", Rect{X: 5, Y: 5, L: 10, W: 10}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(a, tt.b, tt.clearance))
			assert.Equal(t, tt.want, Overlaps(tt.b, a, tt.clearance), "overlap must be symmetric")
		})
	}
}

func TestFitsInContainer(t *testing.T) {
	c := model.Container{Name: "box", Length: 100, Width: 50, Height: 50}

	assert.True(t, FitsInContainer(0, 0, 100, 50, c))
	assert.True(t, FitsInContainer(10, 10, 20, 20, c))
	assert.False(t, FitsInContainer(-1, 0, 10, 10, c))
	assert.False(t, FitsInContainer(0, -1, 10, 10, c))
	assert.False(t, FitsInContainer(91, 0, 10, 10, c))
	assert.False(t, FitsInContainer(0, 41, 10, 10, c))
}

func TestZOverlaps(t *testing.T) {
	assert.True(t, zOverlaps(0, 100, 50, 100))
	assert.False(t, zOverlaps(0, 100, 100, 50), "stacked boxes only touch")
	assert.False(t, zOverlaps(0, 100, 99.995, 50), "jitter is tolerated")
	assert.False(t, zOverlaps(0, 0, 0, 100), "zero height occupies no volume")
}

func TestMaterialize(t *testing.T) {
	catalog := []model.PalletType{
		{ID: "a", Label: "A", Length: 120, Width: 80, Height: 100, Weight: 300, Quantity: 2, CanStackAbove: true},
		{ID: "b", Label: "B", Length: 100, Width: 125, Height: 90, Weight: 200, Quantity: 3, Color: "#123456"},
	}

	got := Materialize(catalog, []model.InstanceKey{{EntryID: "b", Index: 1}})

	assert.Len(t, got, 5)
	var keys []string
	for _, in := range got {
		keys = append(keys, in.Key().String())
	}
	assert.Equal(t, []string{"a:0", "a:1", "b:0", "b:1", "b:2"}, keys)

	first := got[0]
	assert.False(t, first.Placed)
	assert.False(t, first.Rotated)
	assert.Equal(t, 120.0, first.FinalLength)
	assert.Equal(t, 80.0, first.FinalWidth)
	assert.Equal(t, 100.0, first.FinalHeight)
	assert.Nil(t, first.StackedOn)
	assert.Empty(t, first.Children)
	assert.True(t, first.CanStackAbove)
	assert.False(t, first.CanStackBelow)
	assert.Equal(t, model.Palette[0], first.Color)

	assert.Equal(t, "#123456", got[2].Color)
	assert.True(t, got[3].Deleted)
	assert.False(t, got[4].Deleted)
}

func TestMaterialize_FreshInstancesEachRun(t *testing.T) {
	catalog := []model.PalletType{{ID: "a", Length: 10, Width: 10, Quantity: 1}}

	first := Materialize(catalog, nil)
	first[0].Placed = true
	second := Materialize(catalog, nil)

	assert.False(t, second[0].Placed)
	assert.NotSame(t, first[0], second[0])
}
