package aggregate

import (
	"github.com/montanaflynn/stats"

	"healthdash/domain/survey"
)

// BMIByFavcCalc computes the box-plot distribution of BMI for every
// (FAVC, CALC) group observed in the subset, in first-observed order.
// Records with null BMI are excluded; a group with no usable BMI values is
// omitted entirely.
func BMIByFavcCalc(subset *survey.Subset) []BMIBox {
	type key struct{ favc, calc string }
	var order []key
	grouped := make(map[key][]float64)

	for i := range subset.Records {
		rec := &subset.Records[i]
		k := key{favc: rec.FAVC, calc: rec.CALC}
		if _, seen := grouped[k]; !seen {
			order = append(order, k)
			grouped[k] = nil
		}
		if rec.BMI != nil {
			grouped[k] = append(grouped[k], *rec.BMI)
		}
	}

	boxes := make([]BMIBox, 0, len(order))
	for _, k := range order {
		values := grouped[k]
		if len(values) == 0 {
			continue
		}
		box := boxStats(values)
		box.FAVC = k.favc
		box.CALC = k.calc
		boxes = append(boxes, box)
	}
	return boxes
}

// boxStats summarizes one group: min, quartiles, median, max plus the points
// outside the 1.5×IQR fences. Quartiles use the percentile estimator the
// stats library ships; with fewer than four values the lower quartile falls
// back to the minimum, and a single value collapses the whole box onto it.
func boxStats(values []float64) BMIBox {
	box := BMIBox{Count: len(values)}

	box.Min, _ = stats.Min(values)
	box.Max, _ = stats.Max(values)
	box.Median, _ = stats.Median(values)

	if len(values) == 1 {
		box.Q1 = values[0]
		box.Q3 = values[0]
		return box
	}

	q1, err := stats.Percentile(values, 25)
	if err != nil {
		q1 = box.Min
	}
	q3, err := stats.Percentile(values, 75)
	if err != nil {
		q3 = box.Max
	}
	box.Q1 = q1
	box.Q3 = q3

	iqr := box.Q3 - box.Q1
	lower := box.Q1 - 1.5*iqr
	upper := box.Q3 + 1.5*iqr
	for _, v := range values {
		if v < lower || v > upper {
			box.Outliers = append(box.Outliers, v)
		}
	}
	return box
}
