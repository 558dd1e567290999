// Package testkit provides deterministic fixtures and synthetic survey data
// for tests. Nothing here runs in production builds.
package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"healthdash/domain/survey"
)

// ExampleTable returns the canonical three-subject fixture: one obese adult,
// one normal-weight minor, one overweight adult. The numbers are chosen so
// every derived column has a hand-checkable value.
func ExampleTable() *survey.Table {
	return &survey.Table{
		Headers: []string{
			survey.ColGender, survey.ColAge, survey.ColHeight, survey.ColWeight,
			survey.ColFAVC, survey.ColCALC, survey.ColFamilyHistory,
			survey.ColFAF, survey.ColNObeyesdad,
		},
		Rows: []survey.Row{
			{
				survey.ColGender: "Male", survey.ColAge: "25",
				survey.ColHeight: "1.8", survey.ColWeight: "90",
				survey.ColFAVC: "yes", survey.ColCALC: "Sometimes",
				survey.ColFamilyHistory: "yes", survey.ColFAF: "1.0",
				survey.ColNObeyesdad: "Obesity_Type_I",
			},
			{
				survey.ColGender: "Female", survey.ColAge: "16",
				survey.ColHeight: "1.6", survey.ColWeight: "50",
				survey.ColFAVC: "no", survey.ColCALC: "no",
				survey.ColFamilyHistory: "no", survey.ColFAF: "3.0",
				survey.ColNObeyesdad: "Normal_Weight",
			},
			{
				survey.ColGender: "Male", survey.ColAge: "40",
				survey.ColHeight: "1.75", survey.ColWeight: "70",
				survey.ColFAVC: "yes", survey.ColCALC: "Frequently",
				survey.ColFamilyHistory: "yes", survey.ColFAF: "0",
				survey.ColNObeyesdad: "Overweight_Level_I",
			},
		},
	}
}

// ExampleDataset derives the canonical fixture, panicking on the impossible.
func ExampleDataset() *survey.Dataset {
	ds, err := survey.Derive(ExampleTable())
	if err != nil {
		panic(fmt.Sprintf("testkit: example fixture failed to derive: %v", err))
	}
	return ds
}

// SurveyGeneratorConfig configures the synthetic survey generator.
type SurveyGeneratorConfig struct {
	SubjectCount int
	NullFAFRate  float64 // fraction of rows with unparseable FAF noise
	Seed         int64
}

// DefaultSurveyConfig returns a deterministic medium-sized cohort.
func DefaultSurveyConfig() SurveyGeneratorConfig {
	return SurveyGeneratorConfig{
		SubjectCount: 400,
		NullFAFRate:  0.02,
		Seed:         12345,
	}
}

// SurveyDataGenerator produces synthetic survey tables with realistic
// correlations: weight tracks height and eating habits, the classification
// label tracks the implied BMI. Same seed, same table.
type SurveyDataGenerator struct {
	config SurveyGeneratorConfig
	rng    *rand.Rand
}

// NewSurveyDataGenerator creates a generator for the given config.
func NewSurveyDataGenerator(config SurveyGeneratorConfig) *SurveyDataGenerator {
	return &SurveyDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateTable produces the synthetic raw table.
func (g *SurveyDataGenerator) GenerateTable() *survey.Table {
	table := &survey.Table{
		Headers: []string{
			survey.ColGender, survey.ColAge, survey.ColHeight, survey.ColWeight,
			survey.ColFAVC, survey.ColCALC, survey.ColFamilyHistory,
			survey.ColFAF, survey.ColNObeyesdad,
		},
	}
	for i := 0; i < g.config.SubjectCount; i++ {
		table.Rows = append(table.Rows, g.generateSubject())
	}
	return table
}

func (g *SurveyDataGenerator) generateSubject() survey.Row {
	male := g.rng.Float64() < 0.5
	gender := "Female"
	if male {
		gender = "Male"
	}

	age := clamp(g.rng.NormFloat64()*9+30, 14, 61)

	height := g.rng.NormFloat64()*0.07 + 1.62
	if male {
		height = g.rng.NormFloat64()*0.07 + 1.75
	}
	height = clamp(height, 1.45, 1.98)

	favc := g.rng.Float64() < 0.6
	history := g.rng.Float64() < 0.5

	// Weight follows height squared times a BMI draw nudged by habits.
	bmiTarget := g.rng.NormFloat64() * 4.5
	bmiTarget += 24
	if favc {
		bmiTarget += 3.5
	}
	if history {
		bmiTarget += 2.5
	}
	bmiTarget = clamp(bmiTarget, 15, 48)
	weight := bmiTarget * height * height

	faf := clamp(g.rng.NormFloat64()*1.0+1.3, 0, 3)
	fafCell := fmt.Sprintf("%.1f", faf)
	if g.rng.Float64() < g.config.NullFAFRate {
		fafCell = "unknown"
	}

	return survey.Row{
		survey.ColGender:        gender,
		survey.ColAge:           fmt.Sprintf("%.1f", age),
		survey.ColHeight:        fmt.Sprintf("%.2f", height),
		survey.ColWeight:        fmt.Sprintf("%.1f", weight),
		survey.ColFAVC:          yesNo(favc),
		survey.ColCALC:          g.calcLabel(),
		survey.ColFamilyHistory: yesNo(history),
		survey.ColFAF:           fafCell,
		survey.ColNObeyesdad:    classify(bmiTarget),
	}
}

func (g *SurveyDataGenerator) calcLabel() string {
	r := g.rng.Float64()
	switch {
	case r < 0.30:
		return "no"
	case r < 0.80:
		return "Sometimes"
	case r < 0.95:
		return "Frequently"
	default:
		return "Always"
	}
}

// classify maps an implied BMI onto the 7-level survey label, mirroring the
// thresholds the source survey used.
func classify(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Insufficient_Weight"
	case bmi < 25:
		return "Normal_Weight"
	case bmi < 27.5:
		return "Overweight_Level_I"
	case bmi < 30:
		return "Overweight_Level_II"
	case bmi < 35:
		return "Obesity_Type_I"
	case bmi < 40:
		return "Obesity_Type_II"
	default:
		return "Obesity_Type_III"
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
