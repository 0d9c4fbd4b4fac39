package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/PalletLoad/internal/model"
)

// Layer names used by ExportDXF.
const (
	LayerContainer = "CONTAINER"
	layerLevelFmt  = "LEVEL_%d"
)

var levelColors = []color.ColorNumber{color.Green, color.Blue, color.Magenta, color.Cyan, color.Yellow}

// ExportDXF writes the container outline and one layer per stacking level
// containing unit rectangles labelled with their keys. Units are drawn at
// their floor position; Z is carried in the layer.
func ExportDXF(path string, result model.LayoutResult) error {
	placed := result.Placed()
	if len(placed) == 0 {
		return ErrNothingPlaced
	}

	d := dxf.NewDrawing()

	if _, err := d.AddLayer(LayerContainer, color.Red, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("add container layer: %w", err)
	}
	c := result.Container
	if err := drawRect(d, 0, 0, c.Length, c.Width); err != nil {
		return err
	}

	levels := groupByLevel(placed)
	for _, lvl := range sortedLevels(levels) {
		name := fmt.Sprintf(layerLevelFmt, lvl)
		if _, err := d.AddLayer(name, levelColors[lvl%len(levelColors)], dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("add layer %s: %w", name, err)
		}
		for _, in := range levels[lvl] {
			if err := drawRect(d, in.X, in.Y, in.FinalLength, in.FinalWidth); err != nil {
				return err
			}
			if _, err := d.Text(in.Key().String(), in.X+2, in.Y+2, in.Z, 8); err != nil {
				return fmt.Errorf("label %s: %w", in.Key(), err)
			}
		}
	}

	return d.SaveAs(path)
}

// drawRect draws a closed rectangle on the current layer.
func drawRect(d *drawing.Drawing, x, y, l, w float64) error {
	corners := [][2]float64{{x, y}, {x + l, y}, {x + l, y + w}, {x, y + w}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return fmt.Errorf("draw line: %w", err)
		}
	}
	return nil
}
