package survey

import (
	"math"
	"strings"
	"testing"

	"healthdash/internal/errors"
)

// exampleTable is the canonical three-subject fixture used across the
// pipeline tests.
func exampleTable() *Table {
	return &Table{
		Headers: []string{
			ColGender, ColAge, ColHeight, ColWeight, ColFAVC, ColCALC,
			ColFamilyHistory, ColFAF, ColNObeyesdad,
		},
		Rows: []Row{
			{
				ColGender: "Male", ColAge: "25", ColHeight: "1.8", ColWeight: "90",
				ColFAVC: "yes", ColCALC: "Sometimes", ColFamilyHistory: "yes",
				ColFAF: "1.0", ColNObeyesdad: "Obesity_Type_I",
			},
			{
				ColGender: "Female", ColAge: "16", ColHeight: "1.6", ColWeight: "50",
				ColFAVC: "no", ColCALC: "no", ColFamilyHistory: "no",
				ColFAF: "3.0", ColNObeyesdad: "Normal_Weight",
			},
			{
				ColGender: "Male", ColAge: "40", ColHeight: "1.75", ColWeight: "70",
				ColFAVC: "yes", ColCALC: "Frequently", ColFamilyHistory: "yes",
				ColFAF: "0", ColNObeyesdad: "Overweight_Level_I",
			},
		},
	}
}

func mustDerive(t *testing.T, table *Table) *Dataset {
	t.Helper()
	ds, err := Derive(table)
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	return ds
}

func TestDeriveComputesExpectedColumns(t *testing.T) {
	ds := mustDerive(t, exampleTable())

	if ds.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", ds.Len())
	}

	wantBMI := []float64{27.78, 19.53, 22.86}
	wantBand := []string{"25-34", "<18", "35-44"}
	wantGroup := []string{"Obese", "Normal", "Overweight"}
	wantFAF := []float64{1.0, 3.0, 0}

	for i, rec := range ds.Records {
		if rec.BMI == nil {
			t.Fatalf("record %d: BMI is null", i)
		}
		if math.Abs(*rec.BMI-wantBMI[i]) > 0.01 {
			t.Errorf("record %d: BMI = %.4f, want ~%.2f", i, *rec.BMI, wantBMI[i])
		}
		if rec.AgeBand != wantBand[i] {
			t.Errorf("record %d: AgeBand = %q, want %q", i, rec.AgeBand, wantBand[i])
		}
		if rec.ObesityGroup != wantGroup[i] {
			t.Errorf("record %d: ObesityGroup = %q, want %q", i, rec.ObesityGroup, wantGroup[i])
		}
		if rec.FAFNumeric == nil || *rec.FAFNumeric != wantFAF[i] {
			t.Errorf("record %d: FAF_numeric = %v, want %v", i, rec.FAFNumeric, wantFAF[i])
		}
	}
}

func TestDeriveMissingColumnFailsWithName(t *testing.T) {
	table := exampleTable()
	table.Headers = table.Headers[:len(table.Headers)-1] // drop NObeyesdad

	_, err := Derive(table)
	if err == nil {
		t.Fatal("expected validation error for missing column")
	}
	if errors.GetCode(err) != errors.CodeValidationError {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.CodeValidationError)
	}
	if !strings.Contains(err.Error(), ColNObeyesdad) {
		t.Errorf("error %q does not name the missing column", err.Error())
	}
}

func TestDeriveNamesEveryMissingColumn(t *testing.T) {
	table := &Table{Headers: []string{ColGender, ColAge}}
	_, err := Derive(table)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, col := range []string{ColHeight, ColWeight, ColFAF, ColNObeyesdad} {
		if !strings.Contains(err.Error(), col) {
			t.Errorf("error %q missing column name %s", err.Error(), col)
		}
	}
}

func TestDerivePrefersExistingBMIColumn(t *testing.T) {
	table := exampleTable()
	table.Headers = append(table.Headers, ColBMI)
	table.Rows[0][ColBMI] = "31.5"
	table.Rows[1][ColBMI] = "not-a-number"
	table.Rows[2][ColBMI] = ""

	ds := mustDerive(t, table)
	if !ds.HasRawBMI {
		t.Fatal("HasRawBMI = false with BMI column present")
	}
	if ds.Records[0].BMI == nil || *ds.Records[0].BMI != 31.5 {
		t.Errorf("record 0: BMI = %v, want the raw column value 31.5", ds.Records[0].BMI)
	}
	// Raw BMI wins even when unparseable: no silent fallback to the formula.
	if ds.Records[1].BMI != nil {
		t.Errorf("record 1: BMI = %v, want null for unparseable raw value", *ds.Records[1].BMI)
	}
	if ds.Records[2].BMI != nil {
		t.Errorf("record 2: BMI = %v, want null for empty raw value", *ds.Records[2].BMI)
	}
}

func TestDeriveZeroHeightYieldsNullBMI(t *testing.T) {
	table := exampleTable()
	table.Rows[0][ColHeight] = "0"

	ds := mustDerive(t, table)
	if ds.Records[0].BMI != nil {
		t.Errorf("BMI = %v, want null for zero height", *ds.Records[0].BMI)
	}
}

func TestDeriveUnparseableFAFIsNullNotError(t *testing.T) {
	table := exampleTable()
	table.Rows[2][ColFAF] = "twice a week"

	ds := mustDerive(t, table)
	if ds.Records[2].FAFNumeric != nil {
		t.Errorf("FAF_numeric = %v, want null", *ds.Records[2].FAFNumeric)
	}
	if ds.NullFAFCount() != 1 {
		t.Errorf("NullFAFCount = %d, want 1", ds.NullFAFCount())
	}
}

func TestDeriveOutOfRangeAgeHasNoBand(t *testing.T) {
	table := exampleTable()
	table.Rows[1][ColAge] = "130"

	ds := mustDerive(t, table)
	if ds.Records[1].AgeBand != "" {
		t.Errorf("AgeBand = %q, want empty for age outside [0,120]", ds.Records[1].AgeBand)
	}
}

func TestAgeBandEdges(t *testing.T) {
	cases := []struct {
		age  float64
		want string
	}{
		{0, "<18"},
		{17, "<18"},
		{17.5, "18-24"},
		{18, "18-24"},
		{24, "18-24"},
		{24.5, "25-34"},
		{25, "25-34"},
		{34, "25-34"},
		{35, "35-44"},
		{44, "35-44"},
		{45, "45-54"},
		{54, "45-54"},
		{55, "55+"},
		{120, "55+"},
		{-0.5, ""},
		{120.5, ""},
	}
	for _, tc := range cases {
		if got := AgeBandFor(tc.age); got != tc.want {
			t.Errorf("AgeBandFor(%v) = %q, want %q", tc.age, got, tc.want)
		}
	}
}

func TestObesityGroupMapping(t *testing.T) {
	cases := map[string]string{
		"Insufficient_Weight": "Underweight",
		"Normal_Weight":       "Normal",
		"Overweight_Level_I":  "Overweight",
		"Overweight_Level_II": "Overweight",
		"Obesity_Type_I":      "Obese",
		"Obesity_Type_II":     "Obese",
		"Obesity_Type_III":    "Obese",
		"normal_weight":       "normal_weight", // case-sensitive, passes through
		"Pregnant":            "Pregnant",
		"":                    "",
	}
	for raw, want := range cases {
		if got := ObesityGroupFor(raw); got != want {
			t.Errorf("ObesityGroupFor(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestDeriveTracksObservedValues(t *testing.T) {
	ds := mustDerive(t, exampleTable())

	assertOrder := func(name string, got, want []string) {
		t.Helper()
		if len(got) != len(want) {
			t.Fatalf("%s = %v, want %v", name, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s = %v, want %v", name, got, want)
				return
			}
		}
	}

	assertOrder("genders", ds.ObservedGenders(), []string{"Male", "Female"})
	assertOrder("favc", ds.ObservedFAVC(), []string{"yes", "no"})
	assertOrder("calc", ds.ObservedCALC(), []string{"Sometimes", "no", "Frequently"})
	assertOrder("familyHistory", ds.ObservedFamilyHistory(), []string{"yes", "no"})
	// Bands come back in fixed band order regardless of row order.
	assertOrder("ageBands", ds.ObservedAgeBands(), []string{"<18", "25-34", "35-44"})

	bounds := ds.FAFBounds()
	if bounds.Min != 0 || bounds.Max != 3 {
		t.Errorf("FAFBounds = %+v, want [0,3]", bounds)
	}
}

func TestDeriveKeepsPassthroughColumns(t *testing.T) {
	table := exampleTable()
	table.Headers = append(table.Headers, "SMOKE")
	for i, smoke := range []string{"no", "yes", " no "} {
		table.Rows[i]["SMOKE"] = smoke
	}

	ds := mustDerive(t, table)
	if got := ds.Records[2].Extra["SMOKE"]; got != "no" {
		t.Errorf("Extra[SMOKE] = %q, want trimmed %q", got, "no")
	}
	found := false
	for _, c := range ds.Columns {
		if c == "SMOKE" {
			found = true
		}
	}
	if !found {
		t.Error("passthrough column missing from Columns")
	}
}

func TestFAFBoundsWithoutParseableFAF(t *testing.T) {
	table := exampleTable()
	for i := range table.Rows {
		table.Rows[i][ColFAF] = "n/a"
	}
	ds := mustDerive(t, table)
	bounds := ds.FAFBounds()
	if bounds.Min != 0 || bounds.Max != 0 {
		t.Errorf("FAFBounds = %+v, want collapsed [0,0]", bounds)
	}
}
