// Package aggregate computes the summary metrics and chart tables the
// dashboard renders over a filtered subset. Every output is produced by its
// own pure function over the subset, with no shared mutable intermediates,
// so recomputing on the same input always yields identical results.
package aggregate

import (
	"github.com/montanaflynn/stats"

	"healthdash/domain/survey"
)

// Summary carries the three headline metrics. Nil means "not available"
// (empty subset), never zero.
type Summary struct {
	RecordCount int      `json:"recordCount"`
	MeanBMI     *float64 `json:"meanBMI"`
	PctObese    *float64 `json:"pctObese"`
}

// CountItem is one bar of a group-count table.
type CountItem struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ProportionTable gives, per age band, the percentage composition by obesity
// group. Pct[g][b] is the share of band b belonging to group g; the values
// of one band column sum to 100 when the band is non-empty and are all zero
// when it is empty.
type ProportionTable struct {
	AgeBands []string    `json:"ageBands"`
	Groups   []string    `json:"groups"`
	Pct      [][]float64 `json:"pct"`
}

// BMIBox is the box-plot distribution of BMI within one (FAVC, CALC) group.
type BMIBox struct {
	FAVC     string    `json:"favc"`
	CALC     string    `json:"calc"`
	Count    int       `json:"count"`
	Min      float64   `json:"min"`
	Q1       float64   `json:"q1"`
	Median   float64   `json:"median"`
	Q3       float64   `json:"q3"`
	Max      float64   `json:"max"`
	Outliers []float64 `json:"outliers"`
}

// RateTable is the FAVC × family-history obesity-rate grid. Pct[i][j] is the
// percentage of the (Favc[i], FamilyHistory[j]) subgroup classified Obese;
// combinations without records are 0, never absent.
type RateTable struct {
	Favc          []string    `json:"favc"`
	FamilyHistory []string    `json:"familyHistory"`
	Pct           [][]float64 `json:"pct"`
}

// ScatterPoint is the unaggregated per-record passthrough for the
// weight/height scatter.
type ScatterPoint struct {
	Height       *float64 `json:"height"`
	Weight       *float64 `json:"weight"`
	ObesityGroup string   `json:"obesityGroup,omitempty"`
	Age          *float64 `json:"age"`
	BMI          *float64 `json:"bmi"`
}

// CrossCountTable is the Gender × ObesityGroup count grid.
type CrossCountTable struct {
	Genders []string `json:"genders"`
	Groups  []string `json:"groups"`
	Counts  [][]int  `json:"counts"`
}

// Aggregates bundles everything the presentation layer consumes for one
// filter state.
type Aggregates struct {
	Summary                         Summary         `json:"summary"`
	CountByGender                   []CountItem     `json:"countByGender"`
	CountByAgeBand                  []CountItem     `json:"countByAgeBand"`
	ObesityGroupProportionByAgeBand ProportionTable `json:"obesityGroupProportionByAgeBand"`
	BMIByFavcCalc                   []BMIBox        `json:"bmiByFavcCalc"`
	ObesityRateByFavcFamilyHistory  RateTable       `json:"obesityRateByFavcFamilyHistory"`
	WeightHeightSeries              []ScatterPoint  `json:"weightHeightSeries"`
	CountByGenderObesityGroup       CrossCountTable `json:"countByGenderObesityGroup"`
	Associations                    []Association   `json:"associations"`
}

// Compute runs the full aggregate battery over a subset.
func Compute(subset *survey.Subset) Aggregates {
	return Aggregates{
		Summary:                         Summarize(subset),
		CountByGender:                   CountByGender(subset),
		CountByAgeBand:                  CountByAgeBand(subset),
		ObesityGroupProportionByAgeBand: ObesityGroupProportionByAgeBand(subset),
		BMIByFavcCalc:                   BMIByFavcCalc(subset),
		ObesityRateByFavcFamilyHistory:  ObesityRateByFavcFamilyHistory(subset),
		WeightHeightSeries:              WeightHeightSeries(subset),
		CountByGenderObesityGroup:       CountByGenderObesityGroup(subset),
		Associations:                    Associations(subset),
	}
}

// Summarize computes the headline metrics.
func Summarize(subset *survey.Subset) Summary {
	s := Summary{RecordCount: subset.Len()}
	if subset.Len() == 0 {
		return s
	}

	bmi := nonNullBMI(subset)
	if len(bmi) > 0 {
		if mean, err := stats.Mean(bmi); err == nil {
			s.MeanBMI = &mean
		}
	}

	obese := 0
	for i := range subset.Records {
		if subset.Records[i].ObesityGroup == survey.ObeseGroup {
			obese++
		}
	}
	pct := float64(obese) / float64(subset.Len()) * 100
	s.PctObese = &pct

	return s
}

// CountByGender counts records per gender in first-observed order.
func CountByGender(subset *survey.Subset) []CountItem {
	return countBy(subset, func(r *survey.Record) string { return r.Gender })
}

// CountByAgeBand counts records per band in the fixed band order. Every band
// label is always present, empty bands with a zero count.
func CountByAgeBand(subset *survey.Subset) []CountItem {
	counts := make(map[string]int)
	for i := range subset.Records {
		counts[subset.Records[i].AgeBand]++
	}
	items := make([]CountItem, 0, len(survey.AgeBandLabels))
	for _, label := range survey.AgeBandLabels {
		items = append(items, CountItem{Value: label, Count: counts[label]})
	}
	return items
}

// ObesityGroupProportionByAgeBand computes the percentage composition of each
// age band by obesity group.
func ObesityGroupProportionByAgeBand(subset *survey.Subset) ProportionTable {
	table := ProportionTable{AgeBands: survey.AgeBandLabels}

	bandIdx := make(map[string]int, len(table.AgeBands))
	for i, b := range table.AgeBands {
		bandIdx[b] = i
	}

	groupIdx := make(map[string]int)
	bandTotals := make([]int, len(table.AgeBands))
	var cellCounts [][]int

	for i := range subset.Records {
		rec := &subset.Records[i]
		bi, ok := bandIdx[rec.AgeBand]
		if !ok {
			continue
		}
		bandTotals[bi]++
		gi, ok := groupIdx[rec.ObesityGroup]
		if !ok {
			gi = len(table.Groups)
			groupIdx[rec.ObesityGroup] = gi
			table.Groups = append(table.Groups, rec.ObesityGroup)
			cellCounts = append(cellCounts, make([]int, len(table.AgeBands)))
		}
		cellCounts[gi][bi]++
	}

	table.Pct = make([][]float64, len(table.Groups))
	for gi := range table.Groups {
		table.Pct[gi] = make([]float64, len(table.AgeBands))
		for bi := range table.AgeBands {
			if bandTotals[bi] == 0 {
				continue // empty band stays all-zero, never NaN
			}
			table.Pct[gi][bi] = float64(cellCounts[gi][bi]) / float64(bandTotals[bi]) * 100
		}
	}
	return table
}

// ObesityRateByFavcFamilyHistory computes the obesity-rate grid over the
// distinct FAVC and family-history values observed in the subset.
func ObesityRateByFavcFamilyHistory(subset *survey.Subset) RateTable {
	table := RateTable{}
	favcIdx := make(map[string]int)
	histIdx := make(map[string]int)

	type cell struct{ total, obese int }
	cells := make(map[[2]int]*cell)

	for i := range subset.Records {
		rec := &subset.Records[i]
		fi, ok := favcIdx[rec.FAVC]
		if !ok {
			fi = len(table.Favc)
			favcIdx[rec.FAVC] = fi
			table.Favc = append(table.Favc, rec.FAVC)
		}
		hi, ok := histIdx[rec.FamilyHistory]
		if !ok {
			hi = len(table.FamilyHistory)
			histIdx[rec.FamilyHistory] = hi
			table.FamilyHistory = append(table.FamilyHistory, rec.FamilyHistory)
		}
		c := cells[[2]int{fi, hi}]
		if c == nil {
			c = &cell{}
			cells[[2]int{fi, hi}] = c
		}
		c.total++
		if rec.ObesityGroup == survey.ObeseGroup {
			c.obese++
		}
	}

	table.Pct = make([][]float64, len(table.Favc))
	for fi := range table.Favc {
		table.Pct[fi] = make([]float64, len(table.FamilyHistory))
		for hi := range table.FamilyHistory {
			if c := cells[[2]int{fi, hi}]; c != nil && c.total > 0 {
				table.Pct[fi][hi] = float64(c.obese) / float64(c.total) * 100
			}
		}
	}
	return table
}

// WeightHeightSeries passes every record through for the scatter chart,
// nulls included; the renderer decides what it can plot.
func WeightHeightSeries(subset *survey.Subset) []ScatterPoint {
	points := make([]ScatterPoint, 0, subset.Len())
	for i := range subset.Records {
		rec := &subset.Records[i]
		points = append(points, ScatterPoint{
			Height:       rec.Height,
			Weight:       rec.Weight,
			ObesityGroup: rec.ObesityGroup,
			Age:          rec.Age,
			BMI:          rec.BMI,
		})
	}
	return points
}

// CountByGenderObesityGroup counts the Gender × ObesityGroup grid in
// first-observed order along both axes.
func CountByGenderObesityGroup(subset *survey.Subset) CrossCountTable {
	table := CrossCountTable{}
	genderIdx := make(map[string]int)
	groupIdx := make(map[string]int)
	var counts [][]int

	for i := range subset.Records {
		rec := &subset.Records[i]
		gi, ok := genderIdx[rec.Gender]
		if !ok {
			gi = len(table.Genders)
			genderIdx[rec.Gender] = gi
			table.Genders = append(table.Genders, rec.Gender)
			counts = append(counts, make([]int, len(table.Groups)))
		}
		oi, ok := groupIdx[rec.ObesityGroup]
		if !ok {
			oi = len(table.Groups)
			groupIdx[rec.ObesityGroup] = oi
			table.Groups = append(table.Groups, rec.ObesityGroup)
			for r := range counts {
				counts[r] = append(counts[r], 0)
			}
		}
		counts[gi][oi]++
	}
	table.Counts = counts
	return table
}

func countBy(subset *survey.Subset, key func(*survey.Record) string) []CountItem {
	var order []string
	counts := make(map[string]int)
	for i := range subset.Records {
		k := key(&subset.Records[i])
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}
	items := make([]CountItem, 0, len(order))
	for _, k := range order {
		items = append(items, CountItem{Value: k, Count: counts[k]})
	}
	return items
}

func nonNullBMI(subset *survey.Subset) []float64 {
	out := make([]float64, 0, subset.Len())
	for i := range subset.Records {
		if subset.Records[i].BMI != nil {
			out = append(out, *subset.Records[i].BMI)
		}
	}
	return out
}
