package checkin

// Selection models the single-select / multi-select state of a form field
// explicitly, so "exactly one chosen" is checked against the type instead of
// an array length.
type Selection[T comparable] struct {
	values []T
}

// None returns an empty selection.
func None[T comparable]() Selection[T] {
	return Selection[T]{}
}

// One returns a selection holding a single value.
func One[T comparable](value T) Selection[T] {
	return Selection[T]{values: []T{value}}
}

// Many returns a selection over the given values, deduplicated with order
// preserved.
func Many[T comparable](values ...T) Selection[T] {
	seen := make(map[T]struct{}, len(values))
	deduped := make([]T, 0, len(values))

	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}

		seen[value] = struct{}{}
		deduped = append(deduped, value)
	}

	return Selection[T]{values: deduped}
}

func (s Selection[T]) IsEmpty() bool {
	return len(s.values) == 0
}

func (s Selection[T]) Len() int {
	return len(s.values)
}

// ExactlyOne returns the single selected value, reporting false when zero or
// several values are selected.
func (s Selection[T]) ExactlyOne() (T, bool) {
	if len(s.values) != 1 {
		var zero T

		return zero, false
	}

	return s.values[0], true
}

// Values returns a copy of the selected values in selection order.
func (s Selection[T]) Values() []T {
	out := make([]T, len(s.values))
	copy(out, s.values)

	return out
}

func (s Selection[T]) Contains(value T) bool {
	for _, v := range s.values {
		if v == value {
			return true
		}
	}

	return false
}
