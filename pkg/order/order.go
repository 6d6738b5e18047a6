// Package order maintains dense, zero-based position sequences for sibling
// entities such as the columns of a board or the cards of a column.
//
// The package is pure: it works on in-memory lists and computes the position
// changes required to reach a new arrangement. Persisting those changes is
// up to the caller.
package order

import (
	"errors"
	"sort"
)

var (
	// ErrOutOfRange is returned when a target index falls outside the
	// allowed range for the operation.
	ErrOutOfRange = errors.New("position out of range")

	// ErrMissing is returned when an element is not part of the sequence.
	ErrMissing = errors.New("element not in sequence")

	// ErrDuplicate is returned when inserting an element that is already part
	// of the sequence.
	ErrDuplicate = errors.New("element already in sequence")
)

// Item is a sibling with its current position.
type Item struct {
	ID    int64
	Order int
}

// Update is a position change for a single sibling. From is -1 when the
// sibling was not part of the original set, i.e. it was inserted.
type Update struct {
	ID   int64
	From int
	To   int
}

// Sequence returns the sibling IDs sorted by position. Ties are broken by ID
// so a damaged sequence still yields a deterministic arrangement.
func Sequence(items []Item) []int64 {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order == sorted[j].Order {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].Order < sorted[j].Order
	})

	seq := make([]int64, len(sorted))
	for i, it := range sorted {
		seq[i] = it.ID
	}

	return seq
}

// Index returns the index of id in seq, or -1.
func Index(seq []int64, id int64) int {
	for i, v := range seq {
		if v == id {
			return i
		}
	}
	return -1
}

// Insert returns a new sequence with id placed at index at. Elements at or
// after at shift by one. at must be within [0, len(seq)].
func Insert(seq []int64, id int64, at int) ([]int64, error) {
	if at < 0 || at > len(seq) {
		return nil, ErrOutOfRange
	}
	if Index(seq, id) >= 0 {
		return nil, ErrDuplicate
	}

	out := make([]int64, 0, len(seq)+1)
	out = append(out, seq[:at]...)
	out = append(out, id)
	out = append(out, seq[at:]...)
	return out, nil
}

// Remove returns a new, compacted sequence without id.
func Remove(seq []int64, id int64) ([]int64, error) {
	idx := Index(seq, id)
	if idx < 0 {
		return nil, ErrMissing
	}

	out := make([]int64, 0, len(seq)-1)
	out = append(out, seq[:idx]...)
	out = append(out, seq[idx+1:]...)
	return out, nil
}

// Move returns a new sequence with id moved to index at. at must be within
// [0, len(seq)] and is clamped to the last index, so len(seq) means "move to
// the end".
func Move(seq []int64, id int64, at int) ([]int64, error) {
	if at < 0 || at > len(seq) {
		return nil, ErrOutOfRange
	}

	rest, err := Remove(seq, id)
	if err != nil {
		return nil, err
	}

	if at > len(rest) {
		at = len(rest)
	}

	return Insert(rest, id, at)
}

// Diff returns the updates needed to turn items into the arrangement given by
// seq. Only siblings whose position changes are returned. Elements of seq
// that are not in items are reported with From set to -1.
func Diff(items []Item, seq []int64) []Update {
	current := make(map[int64]int, len(items))
	for _, it := range items {
		current[it.ID] = it.Order
	}

	var updates []Update
	for i, id := range seq {
		from, ok := current[id]
		if !ok {
			updates = append(updates, Update{ID: id, From: -1, To: i})
			continue
		}
		if from != i {
			updates = append(updates, Update{ID: id, From: from, To: i})
		}
	}

	return updates
}

// Normalize returns the updates that renumber items into a dense sequence,
// keeping their relative order.
func Normalize(items []Item) []Update {
	return Diff(items, Sequence(items))
}

// IsDense reports whether the positions of items are exactly 0..n-1 with no
// duplicates.
func IsDense(items []Item) bool {
	seen := make([]bool, len(items))
	for _, it := range items {
		if it.Order < 0 || it.Order >= len(items) || seen[it.Order] {
			return false
		}
		seen[it.Order] = true
	}
	return true
}
