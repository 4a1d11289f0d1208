package dataset

import "TrendLabeler/internal/model"

// CountLabels tallies samples per trend.
func CountLabels(samples []model.Sample) model.LabelCounts {
	var c model.LabelCounts
	for _, s := range samples {
		c.Add(s.Label)
	}
	return c
}

// DatasetLabels tallies both splits of a dataset.
func DatasetLabels(ds *model.Dataset) model.LabelCounts {
	var c model.LabelCounts
	for _, y := range ds.Train.Y {
		c.Add(model.Trend(y))
	}
	for _, y := range ds.Val.Y {
		c.Add(model.Trend(y))
	}
	return c
}
