package aggregate

import (
	"math"
	"reflect"
	"testing"

	"healthdash/domain/survey"
	"healthdash/internal/testkit"
)

func exampleSubset() *survey.Subset {
	ds := testkit.ExampleDataset()
	return ds.Filter(ds.DefaultSelection())
}

func TestSummarizeExampleFixture(t *testing.T) {
	s := Summarize(exampleSubset())

	if s.RecordCount != 3 {
		t.Fatalf("RecordCount = %d, want 3", s.RecordCount)
	}
	if s.MeanBMI == nil {
		t.Fatal("MeanBMI not available for non-empty subset")
	}
	if math.Abs(*s.MeanBMI-23.3887) > 0.001 {
		t.Errorf("MeanBMI = %.4f, want ~23.3887", *s.MeanBMI)
	}
	if s.PctObese == nil {
		t.Fatal("PctObese not available for non-empty subset")
	}
	if math.Abs(*s.PctObese-100.0/3) > 0.01 {
		t.Errorf("PctObese = %.4f, want ~33.33", *s.PctObese)
	}
}

func TestSummarizeEmptySubsetIsNotAvailable(t *testing.T) {
	s := Summarize(&survey.Subset{})

	if s.RecordCount != 0 {
		t.Errorf("RecordCount = %d, want 0", s.RecordCount)
	}
	if s.MeanBMI != nil {
		t.Errorf("MeanBMI = %v, want not available", *s.MeanBMI)
	}
	if s.PctObese != nil {
		t.Errorf("PctObese = %v, want not available", *s.PctObese)
	}
}

func TestSummarizeAllNullBMI(t *testing.T) {
	subset := &survey.Subset{Records: []survey.Record{
		{ObesityGroup: "Normal"},
		{ObesityGroup: "Obese"},
	}}
	s := Summarize(subset)
	if s.MeanBMI != nil {
		t.Errorf("MeanBMI = %v over all-null BMI, want not available", *s.MeanBMI)
	}
	if s.PctObese == nil || *s.PctObese != 50 {
		t.Errorf("PctObese = %v, want 50", s.PctObese)
	}
}

func TestCountByAgeBandFixedOrderAndTotals(t *testing.T) {
	subset := exampleSubset()
	items := CountByAgeBand(subset)

	if len(items) != len(survey.AgeBandLabels) {
		t.Fatalf("got %d bands, want %d", len(items), len(survey.AgeBandLabels))
	}
	want := map[string]int{"<18": 1, "25-34": 1, "35-44": 1}
	total := 0
	for i, item := range items {
		if item.Value != survey.AgeBandLabels[i] {
			t.Errorf("band %d = %q, want fixed order %q", i, item.Value, survey.AgeBandLabels[i])
		}
		if item.Count != want[item.Value] {
			t.Errorf("band %q count = %d, want %d", item.Value, item.Count, want[item.Value])
		}
		total += item.Count
	}
	if total != subset.Len() {
		t.Errorf("band counts sum to %d, want recordCount %d", total, subset.Len())
	}
}

func TestCountByGenderFirstObservedOrder(t *testing.T) {
	items := CountByGender(exampleSubset())
	want := []CountItem{{Value: "Male", Count: 2}, {Value: "Female", Count: 1}}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("CountByGender = %v, want %v", items, want)
	}
}

func TestProportionColumnsSumToHundred(t *testing.T) {
	subset := exampleSubset()
	table := ObesityGroupProportionByAgeBand(subset)

	if len(table.AgeBands) != len(survey.AgeBandLabels) {
		t.Fatalf("got %d bands, want all %d", len(table.AgeBands), len(survey.AgeBandLabels))
	}

	occupied := map[string]bool{"<18": true, "25-34": true, "35-44": true}
	for bi, band := range table.AgeBands {
		sum := 0.0
		for gi := range table.Groups {
			v := table.Pct[gi][bi]
			if v < 0 || v > 100 {
				t.Errorf("pct[%d][%d] = %v outside [0,100]", gi, bi, v)
			}
			sum += v
		}
		if occupied[band] {
			if math.Abs(sum-100) > 1e-9 {
				t.Errorf("band %q proportions sum to %v, want 100", band, sum)
			}
		} else if sum != 0 {
			t.Errorf("empty band %q proportions sum to %v, want all-zero", band, sum)
		}
	}
}

func TestProportionGroupsResolveFullShare(t *testing.T) {
	table := ObesityGroupProportionByAgeBand(exampleSubset())

	find := func(group, band string) float64 {
		for gi, g := range table.Groups {
			if g != group {
				continue
			}
			for bi, b := range table.AgeBands {
				if b == band {
					return table.Pct[gi][bi]
				}
			}
		}
		t.Fatalf("group %q band %q not present", group, band)
		return 0
	}

	if got := find("Obese", "25-34"); got != 100 {
		t.Errorf("Obese share of 25-34 = %v, want 100", got)
	}
	if got := find("Normal", "<18"); got != 100 {
		t.Errorf("Normal share of <18 = %v, want 100", got)
	}
	if got := find("Overweight", "35-44"); got != 100 {
		t.Errorf("Overweight share of 35-44 = %v, want 100", got)
	}
}

func TestRateTableFillsMissingCombos(t *testing.T) {
	table := ObesityRateByFavcFamilyHistory(exampleSubset())

	if !reflect.DeepEqual(table.Favc, []string{"yes", "no"}) {
		t.Fatalf("favc rows = %v", table.Favc)
	}
	if !reflect.DeepEqual(table.FamilyHistory, []string{"yes", "no"}) {
		t.Fatalf("familyHistory cols = %v", table.FamilyHistory)
	}

	// (yes,yes) holds the obese and the overweight adult; every other cell is
	// either empty (filled with 0) or obesity-free.
	want := [][]float64{{50, 0}, {0, 0}}
	if !reflect.DeepEqual(table.Pct, want) {
		t.Errorf("rate table = %v, want %v", table.Pct, want)
	}
	for i := range table.Pct {
		for j, v := range table.Pct[i] {
			if v < 0 || v > 100 {
				t.Errorf("cell [%d][%d] = %v outside [0,100]", i, j, v)
			}
		}
	}
}

func TestWeightHeightSeriesPassthrough(t *testing.T) {
	subset := exampleSubset()
	points := WeightHeightSeries(subset)

	if len(points) != subset.Len() {
		t.Fatalf("series has %d points, want %d", len(points), subset.Len())
	}
	first := points[0]
	if first.Height == nil || *first.Height != 1.8 {
		t.Errorf("height = %v, want 1.8", first.Height)
	}
	if first.Weight == nil || *first.Weight != 90 {
		t.Errorf("weight = %v, want 90", first.Weight)
	}
	if first.ObesityGroup != "Obese" {
		t.Errorf("obesityGroup = %q, want Obese", first.ObesityGroup)
	}
	if first.BMI == nil || math.Abs(*first.BMI-27.7778) > 0.001 {
		t.Errorf("bmi = %v, want ~27.7778", first.BMI)
	}
}

func TestWeightHeightSeriesKeepsNulls(t *testing.T) {
	subset := &survey.Subset{Records: []survey.Record{{Gender: "Male"}}}
	points := WeightHeightSeries(subset)
	if len(points) != 1 {
		t.Fatalf("got %d points, want 1", len(points))
	}
	if points[0].Height != nil || points[0].Weight != nil || points[0].BMI != nil {
		t.Error("null fields should pass through as null, not be dropped")
	}
}

func TestCountByGenderObesityGroup(t *testing.T) {
	table := CountByGenderObesityGroup(exampleSubset())

	if !reflect.DeepEqual(table.Genders, []string{"Male", "Female"}) {
		t.Fatalf("genders = %v", table.Genders)
	}
	if !reflect.DeepEqual(table.Groups, []string{"Obese", "Normal", "Overweight"}) {
		t.Fatalf("groups = %v", table.Groups)
	}
	want := [][]int{{1, 0, 1}, {0, 1, 0}}
	if !reflect.DeepEqual(table.Counts, want) {
		t.Errorf("counts = %v, want %v", table.Counts, want)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	gen := testkit.NewSurveyDataGenerator(testkit.DefaultSurveyConfig())
	ds, err := survey.Derive(gen.GenerateTable())
	if err != nil {
		t.Fatalf("derive synthetic table: %v", err)
	}
	subset := ds.Filter(ds.DefaultSelection())

	first := Compute(subset)
	second := Compute(subset)
	if !reflect.DeepEqual(first, second) {
		t.Error("recomputing on the same subset produced different aggregates")
	}
}

func TestComputeEmptySubsetDegradesCleanly(t *testing.T) {
	agg := Compute(&survey.Subset{})

	if agg.Summary.RecordCount != 0 || agg.Summary.MeanBMI != nil || agg.Summary.PctObese != nil {
		t.Errorf("summary not degraded: %+v", agg.Summary)
	}
	for _, item := range agg.CountByAgeBand {
		if item.Count != 0 {
			t.Errorf("band %q count = %d on empty subset", item.Value, item.Count)
		}
	}
	if len(agg.CountByGender) != 0 {
		t.Errorf("countByGender = %v, want empty", agg.CountByGender)
	}
	if len(agg.BMIByFavcCalc) != 0 {
		t.Errorf("bmiByFavcCalc = %v, want empty", agg.BMIByFavcCalc)
	}
	if len(agg.WeightHeightSeries) != 0 {
		t.Errorf("weightHeightSeries has %d points, want 0", len(agg.WeightHeightSeries))
	}
	for _, assoc := range agg.Associations {
		if assoc.Available {
			t.Errorf("association %q available on empty subset", assoc.Dimension)
		}
	}
}
