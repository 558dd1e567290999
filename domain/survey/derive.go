package survey

import (
	"math"
	"strconv"
	"strings"
)

// AgeBandLabels is the fixed band order every age-band table and chart uses.
// Never alphabetical.
var AgeBandLabels = []string{"<18", "18-24", "25-34", "35-44", "45-54", "55+"}

// ageBandEdges are the bin edges for AgeBandLabels. Bins are right-inclusive
// with the lowest edge included: [0,17], (17,24], (24,34], (34,44], (44,54],
// (54,120]. Ages outside [0,120] get no band.
var ageBandEdges = []float64{0, 17, 24, 34, 44, 54, 120}

// obesityGroupMap collapses the 7-level survey classification into four
// display groups. Exact case-sensitive match; anything else passes through
// unchanged.
var obesityGroupMap = map[string]string{
	"Insufficient_Weight": "Underweight",
	"Normal_Weight":       "Normal",
	"Overweight_Level_I":  "Overweight",
	"Overweight_Level_II": "Overweight",
	"Obesity_Type_I":      "Obese",
	"Obesity_Type_II":     "Obese",
	"Obesity_Type_III":    "Obese",
}

// ObeseGroup is the collapsed label the obesity-rate metrics count.
const ObeseGroup = "Obese"

// AgeBandFor assigns the band label for an age, or "" when the age falls
// outside [0,120].
func AgeBandFor(age float64) string {
	if age < ageBandEdges[0] || age > ageBandEdges[len(ageBandEdges)-1] {
		return ""
	}
	for i := 1; i < len(ageBandEdges); i++ {
		if age <= ageBandEdges[i] {
			return AgeBandLabels[i-1]
		}
	}
	return ""
}

// ObesityGroupFor collapses a raw NObeyesdad label, passing unmapped values
// through unchanged.
func ObesityGroupFor(raw string) string {
	if group, ok := obesityGroupMap[raw]; ok {
		return group
	}
	return raw
}

// parseNumeric coerces a raw cell to a float. Unparseable or non-finite
// values become null rather than errors so noisy source data never stops the
// pipeline.
func parseNumeric(raw string) *float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Derive builds the immutable Dataset from a raw table: typed records plus
// the derived BMI, AgeBand, ObesityGroup and FAF_numeric columns. Pure
// function of its input; the only error it can return is the missing-column
// validation error.
func Derive(t *Table) (*Dataset, error) {
	if err := t.ValidateColumns(); err != nil {
		return nil, err
	}

	ds := &Dataset{
		Records:   make([]Record, 0, len(t.Rows)),
		HasRawBMI: t.HasColumn(ColBMI),
	}

	coreCols := map[string]bool{
		ColGender: true, ColAge: true, ColHeight: true, ColWeight: true,
		ColFAVC: true, ColCALC: true, ColFamilyHistory: true, ColFAF: true,
		ColNObeyesdad: true, ColBMI: true,
	}

	ds.Columns = append(ds.Columns, t.Headers...)
	if !ds.HasRawBMI {
		ds.Columns = append(ds.Columns, ColBMI)
	}
	ds.Columns = append(ds.Columns, ColAgeBand, ColObesityGroup, ColFAFNumeric)

	seenGender := map[string]bool{}
	seenBand := map[string]bool{}
	seenFAVC := map[string]bool{}
	seenCALC := map[string]bool{}
	seenHistory := map[string]bool{}

	for _, row := range t.Rows {
		rec := Record{
			Gender:        strings.TrimSpace(row[ColGender]),
			Age:           parseNumeric(row[ColAge]),
			Height:        parseNumeric(row[ColHeight]),
			Weight:        parseNumeric(row[ColWeight]),
			FAVC:          strings.TrimSpace(row[ColFAVC]),
			CALC:          strings.TrimSpace(row[ColCALC]),
			FamilyHistory: strings.TrimSpace(row[ColFamilyHistory]),
			FAFRaw:        strings.TrimSpace(row[ColFAF]),
			NObeyesdad:    strings.TrimSpace(row[ColNObeyesdad]),
		}

		if ds.HasRawBMI {
			rec.BMI = parseNumeric(row[ColBMI])
		} else if rec.Weight != nil && rec.Height != nil {
			bmi := *rec.Weight / (*rec.Height * *rec.Height)
			if !math.IsNaN(bmi) && !math.IsInf(bmi, 0) {
				rec.BMI = &bmi
			}
		}

		if rec.Age != nil {
			rec.AgeBand = AgeBandFor(*rec.Age)
		}
		rec.ObesityGroup = ObesityGroupFor(rec.NObeyesdad)
		rec.FAFNumeric = parseNumeric(rec.FAFRaw)

		for _, h := range t.Headers {
			if coreCols[h] {
				continue
			}
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[h] = strings.TrimSpace(row[h])
		}

		if rec.Gender != "" && !seenGender[rec.Gender] {
			seenGender[rec.Gender] = true
			ds.genders = append(ds.genders, rec.Gender)
		}
		if rec.AgeBand != "" {
			seenBand[rec.AgeBand] = true
		}
		if rec.FAVC != "" && !seenFAVC[rec.FAVC] {
			seenFAVC[rec.FAVC] = true
			ds.favc = append(ds.favc, rec.FAVC)
		}
		if rec.CALC != "" && !seenCALC[rec.CALC] {
			seenCALC[rec.CALC] = true
			ds.calc = append(ds.calc, rec.CALC)
		}
		if rec.FamilyHistory != "" && !seenHistory[rec.FamilyHistory] {
			seenHistory[rec.FamilyHistory] = true
			ds.familyHistory = append(ds.familyHistory, rec.FamilyHistory)
		}

		if rec.FAFNumeric == nil {
			ds.nullFAFCount++
		} else {
			if ds.fafMin == nil || *rec.FAFNumeric < *ds.fafMin {
				v := *rec.FAFNumeric
				ds.fafMin = &v
			}
			if ds.fafMax == nil || *rec.FAFNumeric > *ds.fafMax {
				v := *rec.FAFNumeric
				ds.fafMax = &v
			}
		}

		ds.Records = append(ds.Records, rec)
	}

	// Band options come out in fixed band order, not first-observed order.
	for _, label := range AgeBandLabels {
		if seenBand[label] {
			ds.ageBands = append(ds.ageBands, label)
		}
	}

	return ds, nil
}
