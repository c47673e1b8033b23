// Package filter narrows record lists with composable predicate descriptors.
// Every predicate is a field accessor plus a comparison mode; an inactive predicate
// (unset criterion) matches everything.
package filter

import "strings"

type Mode string

const (
	ModeRange    Mode = "range"
	ModeEqual    Mode = "equal"
	ModeAnyEqual Mode = "any_equal"
	ModeSubset   Mode = "subset"
	ModeText     Mode = "text"
	ModeFlag     Mode = "flag"
)

type Predicate[T any] struct {
	Field string
	Mode  Mode
	match func(T) bool
}

func (p Predicate[T]) Active() bool { return p.match != nil }

func (p Predicate[T]) Match(r T) bool { return p.match == nil || p.match(r) }

// Apply keeps the records satisfying every active predicate, in input order.
// The result is always a fresh non-nil slice; records is never modified.
func Apply[T any](records []T, preds ...Predicate[T]) []T {
	active := make([]func(T) bool, 0, len(preds))
	for _, p := range preds {
		if p.match != nil {
			active = append(active, p.match)
		}
	}
	out := make([]T, 0, len(records))
next:
	for _, r := range records {
		for _, m := range active {
			if !m(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}

// ActiveFields names the predicates that constrain anything.
func ActiveFields[T any](preds []Predicate[T]) []string {
	var out []string
	for _, p := range preds {
		if p.Active() {
			out = append(out, p.Field)
		}
	}
	return out
}

/********** constructors **********/

// IntRange keeps values within [min, max]. A nil bound is open.
func IntRange[T any](field string, get func(T) int64, min, max *int64) Predicate[T] {
	p := Predicate[T]{Field: field, Mode: ModeRange}
	if min == nil && max == nil {
		return p
	}
	var lo, hi *int64
	if min != nil {
		v := *min
		lo = &v
	}
	if max != nil {
		v := *max
		hi = &v
	}
	p.match = func(r T) bool {
		v := get(r)
		if lo != nil && v < *lo {
			return false
		}
		if hi != nil && v > *hi {
			return false
		}
		return true
	}
	return p
}

// Equal keeps exact matches. The zero value of want is inactive.
func Equal[T any, V comparable](field string, get func(T) V, want V) Predicate[T] {
	p := Predicate[T]{Field: field, Mode: ModeEqual}
	var zero V
	if want == zero {
		return p
	}
	p.match = func(r T) bool { return get(r) == want }
	return p
}

// AnyEqual keeps records where at least one nested value equals want.
func AnyEqual[T any, V comparable](field string, get func(T) []V, want V) Predicate[T] {
	p := Predicate[T]{Field: field, Mode: ModeAnyEqual}
	var zero V
	if want == zero {
		return p
	}
	p.match = func(r T) bool {
		for _, v := range get(r) {
			if v == want {
				return true
			}
		}
		return false
	}
	return p
}

// Subset keeps records whose set contains every required key.
func Subset[T any, K comparable](field string, get func(T) map[K]bool, required []K) Predicate[T] {
	p := Predicate[T]{Field: field, Mode: ModeSubset}
	if len(required) == 0 {
		return p
	}
	req := append([]K(nil), required...)
	p.match = func(r T) bool {
		set := get(r)
		for _, k := range req {
			if !set[k] {
				return false
			}
		}
		return true
	}
	return p
}

// Text keeps records where any accessor value contains query, ignoring case.
func Text[T any](field, query string, get func(T) []string) Predicate[T] {
	p := Predicate[T]{Field: field, Mode: ModeText}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return p
	}
	p.match = func(r T) bool {
		for _, s := range get(r) {
			if strings.Contains(strings.ToLower(s), q) {
				return true
			}
		}
		return false
	}
	return p
}

// Flag keeps records whose flag is set when only is true.
func Flag[T any](field string, get func(T) bool, only bool) Predicate[T] {
	p := Predicate[T]{Field: field, Mode: ModeFlag}
	if !only {
		return p
	}
	p.match = get
	return p
}
