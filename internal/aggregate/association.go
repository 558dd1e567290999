package aggregate

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"healthdash/domain/survey"
)

// Association annotates one filter dimension with a chi-square test of
// independence against the binary Obese outcome. Purely descriptive: the
// dashboard shows it next to the charts, nothing gates on it.
type Association struct {
	Dimension string  `json:"dimension"`
	Available bool    `json:"available"`
	ChiSquare float64 `json:"chiSquare"`
	DF        int     `json:"df"`
	PValue    float64 `json:"pValue"`
	CramersV  float64 `json:"cramersV"`
	Note      string  `json:"note,omitempty"`
}

// associationDimensions are the categorical controls tested against the
// Obese outcome, keyed by the accessor for each record.
var associationDimensions = []struct {
	name string
	key  func(*survey.Record) string
}{
	{survey.ColGender, func(r *survey.Record) string { return r.Gender }},
	{survey.ColAgeBand, func(r *survey.Record) string { return r.AgeBand }},
	{survey.ColFAVC, func(r *survey.Record) string { return r.FAVC }},
	{survey.ColCALC, func(r *survey.Record) string { return r.CALC }},
	{survey.ColFamilyHistory, func(r *survey.Record) string { return r.FamilyHistory }},
}

// Associations runs the chi-square battery over every dimension.
func Associations(subset *survey.Subset) []Association {
	out := make([]Association, 0, len(associationDimensions))
	for _, dim := range associationDimensions {
		out = append(out, associate(subset, dim.name, dim.key))
	}
	return out
}

func associate(subset *survey.Subset, name string, key func(*survey.Record) string) Association {
	assoc := Association{Dimension: name}

	// Contingency rows: observed non-null levels; columns: obese / not.
	levelIdx := make(map[string]int)
	var obese, notObese []int
	total := 0

	for i := range subset.Records {
		rec := &subset.Records[i]
		level := key(rec)
		if level == "" {
			continue
		}
		li, ok := levelIdx[level]
		if !ok {
			li = len(obese)
			levelIdx[level] = li
			obese = append(obese, 0)
			notObese = append(notObese, 0)
		}
		if rec.ObesityGroup == survey.ObeseGroup {
			obese[li]++
		} else {
			notObese[li]++
		}
		total++
	}

	rows := len(obese)
	if rows < 2 || total < 5 {
		assoc.PValue = 1
		assoc.Note = "insufficient data"
		return assoc
	}

	colObese, colNot := 0, 0
	for li := 0; li < rows; li++ {
		colObese += obese[li]
		colNot += notObese[li]
	}
	if colObese == 0 || colNot == 0 {
		assoc.PValue = 1
		assoc.Note = "outcome has a single level"
		return assoc
	}

	chiSq := 0.0
	for li := 0; li < rows; li++ {
		rowTotal := obese[li] + notObese[li]
		for _, cell := range []struct {
			observed int
			colTotal int
		}{{obese[li], colObese}, {notObese[li], colNot}} {
			expected := float64(rowTotal*cell.colTotal) / float64(total)
			if expected > 0 {
				diff := float64(cell.observed) - expected
				chiSq += diff * diff / expected
			}
		}
	}

	df := rows - 1 // (rows-1) × (2-1)
	dist := distuv.ChiSquared{K: float64(df)}

	assoc.Available = true
	assoc.ChiSquare = chiSq
	assoc.DF = df
	assoc.PValue = 1 - dist.CDF(chiSq)
	assoc.CramersV = math.Sqrt(chiSq / float64(total)) // min(r-1, c-1) = 1
	return assoc
}
