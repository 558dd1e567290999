package survey

// Raw column names expected in the source file. Names are matched after
// whitespace trimming, exact case.
const (
	ColGender        = "Gender"
	ColAge           = "Age"
	ColHeight        = "Height"
	ColWeight        = "Weight"
	ColFAVC          = "FAVC"
	ColCALC          = "CALC"
	ColFamilyHistory = "family_history_with_overweight"
	ColFAF           = "FAF"
	ColNObeyesdad    = "NObeyesdad"
	ColBMI           = "BMI"
)

// Derived column names added by Derive.
const (
	ColAgeBand      = "AgeBand"
	ColObesityGroup = "ObesityGroup"
	ColFAFNumeric   = "FAF_numeric"
)

// RequiredColumns are the columns a source file must carry. BMI is optional:
// when present its values are used as-is instead of being computed.
var RequiredColumns = []string{
	ColGender,
	ColAge,
	ColHeight,
	ColWeight,
	ColFAVC,
	ColCALC,
	ColFamilyHistory,
	ColFAF,
	ColNObeyesdad,
}

// Record is one survey subject: the typed raw fields plus the derived fields.
// Numeric fields are pointers so an unparseable or absent value stays null
// rather than collapsing to zero; categorical fields use the empty string as
// the null marker. Null values never match filter clauses and are excluded
// from numeric aggregates.
type Record struct {
	Gender        string   `json:"gender,omitempty"`
	Age           *float64 `json:"age"`
	Height        *float64 `json:"height"`
	Weight        *float64 `json:"weight"`
	FAVC          string   `json:"favc,omitempty"`
	CALC          string   `json:"calc,omitempty"`
	FamilyHistory string   `json:"familyHistory,omitempty"`
	FAFRaw        string   `json:"faf,omitempty"`
	NObeyesdad    string   `json:"nobeyesdad,omitempty"`

	// Derived once by Derive, never mutated afterward.
	BMI          *float64 `json:"bmi"`
	AgeBand      string   `json:"ageBand,omitempty"`
	ObesityGroup string   `json:"obesityGroup,omitempty"`
	FAFNumeric   *float64 `json:"fafNumeric"`

	// Extra holds passthrough columns not interpreted by the pipeline,
	// keyed by trimmed header name.
	Extra map[string]string `json:"extra,omitempty"`
}

// HasBMI reports whether the record carries a usable BMI value.
func (r *Record) HasBMI() bool { return r.BMI != nil }

// HasFAF reports whether FAF coerced to a number for this record.
func (r *Record) HasFAF() bool { return r.FAFNumeric != nil }
