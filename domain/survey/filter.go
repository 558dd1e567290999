package survey

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies in the interval. Callers must resolve
// nullability first: a null value never satisfies a range clause.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Selection is one fully-resolved filter configuration: five membership sets
// plus the inclusive activity range. Built fresh per interaction, never
// persisted, immutable once built. An empty set for any control matches
// nothing (empty subset, not an error).
type Selection struct {
	Genders       []string `json:"genders"`
	AgeBands      []string `json:"ageBands"`
	Favc          []string `json:"favc"`
	Calc          []string `json:"calc"`
	FamilyHistory []string `json:"familyHistory"`
	FAFRange      Range    `json:"fafRange"`
}

// SelectionRequest is the partially-specified form a caller sends: a nil
// list (absent in JSON) means "default to every observed value", while a
// present empty list really means the empty set. A nil FAFRange defaults to
// the observed floor/ceil bounds.
type SelectionRequest struct {
	Genders       []string `json:"genders"`
	AgeBands      []string `json:"ageBands"`
	Favc          []string `json:"favc"`
	Calc          []string `json:"calc"`
	FamilyHistory []string `json:"familyHistory"`
	FAFRange      *Range   `json:"fafRange"`
}

// DefaultSelection is the unfiltered state: every distinct observed value for
// each categorical control plus the widened activity bounds.
func (ds *Dataset) DefaultSelection() Selection {
	return Selection{
		Genders:       ds.genders,
		AgeBands:      ds.ageBands,
		Favc:          ds.favc,
		Calc:          ds.calc,
		FamilyHistory: ds.familyHistory,
		FAFRange:      ds.FAFBounds(),
	}
}

// ResolveSelection fills the unspecified parts of a request from the default
// selection. A non-nil empty list stays empty.
func (ds *Dataset) ResolveSelection(req SelectionRequest) Selection {
	sel := ds.DefaultSelection()
	if req.Genders != nil {
		sel.Genders = req.Genders
	}
	if req.AgeBands != nil {
		sel.AgeBands = req.AgeBands
	}
	if req.Favc != nil {
		sel.Favc = req.Favc
	}
	if req.Calc != nil {
		sel.Calc = req.Calc
	}
	if req.FamilyHistory != nil {
		sel.FamilyHistory = req.FamilyHistory
	}
	if req.FAFRange != nil {
		sel.FAFRange = *req.FAFRange
	}
	return sel
}

type selectionMatcher struct {
	genders       map[string]bool
	ageBands      map[string]bool
	favc          map[string]bool
	calc          map[string]bool
	familyHistory map[string]bool
	fafRange      Range
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func (sel Selection) compile() selectionMatcher {
	return selectionMatcher{
		genders:       toSet(sel.Genders),
		ageBands:      toSet(sel.AgeBands),
		favc:          toSet(sel.Favc),
		calc:          toSet(sel.Calc),
		familyHistory: toSet(sel.FamilyHistory),
		fafRange:      sel.FAFRange,
	}
}

// matches applies the conjunction of all six clauses. Null categoricals
// (empty string, including a null AgeBand) only match when the caller
// explicitly selected the empty marker, which default selections never
// contain; a null FAF_numeric never satisfies the range clause.
func (m *selectionMatcher) matches(r *Record) bool {
	if !m.genders[r.Gender] {
		return false
	}
	if !m.ageBands[r.AgeBand] {
		return false
	}
	if !m.favc[r.FAVC] {
		return false
	}
	if !m.calc[r.CALC] {
		return false
	}
	if !m.familyHistory[r.FamilyHistory] {
		return false
	}
	if r.FAFNumeric == nil {
		return false
	}
	return m.fafRange.Contains(*r.FAFNumeric)
}

// Matches reports whether a single record satisfies the selection. Filter is
// the bulk form; this one exists for spot checks and tests.
func (sel Selection) Matches(r *Record) bool {
	m := sel.compile()
	return m.matches(r)
}

// Filter produces the subset of records satisfying the selection, preserving
// dataset order. The result is freshly allocated; the dataset is not touched.
func (ds *Dataset) Filter(sel Selection) *Subset {
	m := sel.compile()
	records := make([]Record, 0, len(ds.Records))
	for i := range ds.Records {
		if m.matches(&ds.Records[i]) {
			records = append(records, ds.Records[i])
		}
	}
	return &Subset{Records: records}
}
