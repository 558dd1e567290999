package aggregate

import (
	"reflect"
	"testing"

	"healthdash/domain/survey"
)

func bmiSubset(groups map[[2]string][]float64, order [][2]string) *survey.Subset {
	subset := &survey.Subset{}
	for _, k := range order {
		for _, v := range groups[k] {
			bmi := v
			subset.Records = append(subset.Records, survey.Record{
				FAVC: k[0], CALC: k[1], BMI: &bmi,
			})
		}
	}
	return subset
}

func TestBMIByFavcCalcSingleValueGroups(t *testing.T) {
	boxes := BMIByFavcCalc(exampleSubset())
	if len(boxes) != 3 {
		t.Fatalf("got %d groups, want 3 distinct (FAVC, CALC) pairs", len(boxes))
	}

	// First-observed group order follows record order.
	wantPairs := [][2]string{{"yes", "Sometimes"}, {"no", "no"}, {"yes", "Frequently"}}
	for i, box := range boxes {
		if box.FAVC != wantPairs[i][0] || box.CALC != wantPairs[i][1] {
			t.Errorf("group %d = (%s,%s), want (%s,%s)", i, box.FAVC, box.CALC, wantPairs[i][0], wantPairs[i][1])
		}
		if box.Count != 1 {
			t.Errorf("group %d count = %d, want 1", i, box.Count)
		}
		// A single observation collapses the whole box onto itself.
		if box.Min != box.Median || box.Median != box.Max || box.Q1 != box.Q3 || box.Q1 != box.Median {
			t.Errorf("group %d box not collapsed: %+v", i, box)
		}
		if len(box.Outliers) != 0 {
			t.Errorf("group %d has outliers %v, want none", i, box.Outliers)
		}
	}
}

func TestBoxStatsOrderingInvariant(t *testing.T) {
	subset := bmiSubset(map[[2]string][]float64{
		{"yes", "Sometimes"}: {24.2, 21.0, 29.8, 26.5, 23.3, 27.1, 22.8, 25.9},
	}, [][2]string{{"yes", "Sometimes"}})

	boxes := BMIByFavcCalc(subset)
	if len(boxes) != 1 {
		t.Fatalf("got %d boxes, want 1", len(boxes))
	}
	box := boxes[0]
	if box.Min != 21.0 || box.Max != 29.8 {
		t.Errorf("min/max = %v/%v, want 21.0/29.8", box.Min, box.Max)
	}
	if !(box.Min <= box.Q1 && box.Q1 <= box.Median && box.Median <= box.Q3 && box.Q3 <= box.Max) {
		t.Errorf("box order violated: %+v", box)
	}
	if box.Count != 8 {
		t.Errorf("count = %d, want 8", box.Count)
	}
}

func TestBoxStatsFlagsFarOutlier(t *testing.T) {
	subset := bmiSubset(map[[2]string][]float64{
		{"no", "no"}: {20, 21, 22, 23, 100},
	}, [][2]string{{"no", "no"}})

	boxes := BMIByFavcCalc(subset)
	if len(boxes) != 1 {
		t.Fatalf("got %d boxes, want 1", len(boxes))
	}
	if !reflect.DeepEqual(boxes[0].Outliers, []float64{100}) {
		t.Errorf("outliers = %v, want [100]", boxes[0].Outliers)
	}
	if boxes[0].Median != 22 {
		t.Errorf("median = %v, want 22", boxes[0].Median)
	}
}

func TestBMIByFavcCalcSkipsNullBMI(t *testing.T) {
	subset := &survey.Subset{Records: []survey.Record{
		{FAVC: "yes", CALC: "no"},              // null BMI only: group omitted
		{FAVC: "no", CALC: "no", BMI: fptr(25)},
		{FAVC: "no", CALC: "no"},               // null BMI inside a live group
	}}

	boxes := BMIByFavcCalc(subset)
	if len(boxes) != 1 {
		t.Fatalf("got %d boxes, want only the group with usable BMI", len(boxes))
	}
	if boxes[0].FAVC != "no" || boxes[0].Count != 1 {
		t.Errorf("unexpected box: %+v", boxes[0])
	}
}

func fptr(v float64) *float64 { return &v }
