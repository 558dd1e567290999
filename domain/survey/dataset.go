package survey

import "math"

// Dataset is the derived, immutable table the whole dashboard runs on: the
// ordered records plus the observed-value facts filter defaults are built
// from. It is constructed once by Derive at startup and never mutated, so
// concurrent readers share it without locking.
type Dataset struct {
	Records []Record

	// Columns is the export/display order: source headers followed by the
	// derived columns (BMI only when not already present in the source).
	Columns []string

	// HasRawBMI is true when the source file carried its own BMI column.
	HasRawBMI bool

	genders       []string
	ageBands      []string
	favc          []string
	calc          []string
	familyHistory []string

	fafMin       *float64
	fafMax       *float64
	nullFAFCount int
}

// Len returns the number of records.
func (ds *Dataset) Len() int { return len(ds.Records) }

// NullFAFCount returns how many records failed FAF numeric coercion.
func (ds *Dataset) NullFAFCount() int { return ds.nullFAFCount }

// ObservedGenders returns distinct non-null Gender values in first-observed order.
func (ds *Dataset) ObservedGenders() []string { return ds.genders }

// ObservedAgeBands returns the observed age bands in fixed band order.
func (ds *Dataset) ObservedAgeBands() []string { return ds.ageBands }

// ObservedFAVC returns distinct non-null FAVC values in first-observed order.
func (ds *Dataset) ObservedFAVC() []string { return ds.favc }

// ObservedCALC returns distinct non-null CALC values in first-observed order.
func (ds *Dataset) ObservedCALC() []string { return ds.calc }

// ObservedFamilyHistory returns distinct non-null family-history values in
// first-observed order.
func (ds *Dataset) ObservedFamilyHistory() []string { return ds.familyHistory }

// FAFBounds returns the default activity range: the observed non-null FAF
// values widened to [floor(min), ceil(max)]. With no parseable FAF anywhere
// the range collapses to [0,0].
func (ds *Dataset) FAFBounds() Range {
	if ds.fafMin == nil || ds.fafMax == nil {
		return Range{}
	}
	return Range{Min: math.Floor(*ds.fafMin), Max: math.Ceil(*ds.fafMax)}
}

// Subset is the ordered sub-sequence of a Dataset satisfying a Selection.
// Recomputed from scratch on every selection change and freshly allocated,
// never shared across computations.
type Subset struct {
	Records []Record
}

// Len returns the subset cardinality.
func (s *Subset) Len() int { return len(s.Records) }
