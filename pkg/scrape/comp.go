package scrape

import (
	"slices"
	"strings"
)

// Composition is the multiset of job tokens making up a raid group for one
// log. Order carries no meaning; duplicates do.
type Composition []string

// Equal reports whether two compositions contain the same jobs the same
// number of times, regardless of order.
func (c Composition) Equal(other Composition) bool {
	if len(c) != len(other) {
		return false
	}
	a := slices.Clone(c)
	b := slices.Clone(other)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

func (c Composition) String() string {
	return strings.Join(c, ", ")
}

// Validator tracks the reference composition for a batch run. The first
// non-empty checked composition becomes the reference; every later one must
// match it or its log is excluded from the export.
type Validator struct {
	reference Composition
}

// Check accepts the observed composition if no reference exists yet (and
// makes it the reference) or if it matches the existing reference. An
// empty composition never binds the batch: a later log with a real
// composition still primes the reference. A mismatch never overwrites it.
func (v *Validator) Check(observed Composition) bool {
	if len(v.reference) == 0 {
		v.reference = slices.Clone(observed)
		return true
	}
	return v.reference.Equal(observed)
}

// Reference returns the current reference composition, or nil while no
// non-empty composition has been accepted yet.
func (v *Validator) Reference() Composition {
	if len(v.reference) == 0 {
		return nil
	}
	return slices.Clone(v.reference)
}
