package engine

import "github.com/piwi3910/PalletLoad/internal/model"

// Materialize expands catalog entries by quantity into fresh instances, in
// catalog order and then index order. Instances whose key appears in deleted
// are marked Deleted and take no further part in planning.
func Materialize(catalog []model.PalletType, deleted []model.InstanceKey) []*model.Instance {
	gone := make(map[model.InstanceKey]bool, len(deleted))
	for _, k := range deleted {
		gone[k] = true
	}

	var out []*model.Instance
	for i, e := range catalog {
		color := model.ColorFor(e.Color, i)
		for idx := 0; idx < e.Quantity; idx++ {
			in := &model.Instance{
				EntryID:       e.ID,
				Label:         e.Label,
				Index:         idx,
				Color:         color,
				Length:        e.Length,
				Width:         e.Width,
				Height:        e.Height,
				Weight:        e.Weight,
				CanStackAbove: e.CanStackAbove,
				CanStackBelow: e.CanStackBelow,
			}
			in.SetOrientation(false)
			in.Deleted = gone[in.Key()]
			out = append(out, in)
		}
	}
	return out
}
