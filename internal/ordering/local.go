package ordering

// Move returns a copy of list with the item at from relocated to index to,
// as a drag within one list does. Out of range indexes leave the copy as is;
// to is clamped to the list bounds.
func Move[T any](list []T, from, to int) []T {
	out := make([]T, len(list))
	copy(out, list)
	if from < 0 || from >= len(out) {
		return out
	}
	to = clamp(to, 0, len(out)-1)

	item := out[from]
	out = append(out[:from], out[from+1:]...)
	return insert(out, to, item)
}

// Transfer removes the item at from in src and inserts it at to in dst,
// returning new copies of both lists. Out of range from leaves both unchanged.
func Transfer[T any](src, dst []T, from, to int) ([]T, []T) {
	newSrc := make([]T, len(src))
	copy(newSrc, src)
	newDst := make([]T, len(dst))
	copy(newDst, dst)
	if from < 0 || from >= len(newSrc) {
		return newSrc, newDst
	}

	item := newSrc[from]
	newSrc = append(newSrc[:from], newSrc[from+1:]...)
	return newSrc, insert(newDst, clamp(to, 0, len(newDst)), item)
}

func insert[T any](list []T, at int, item T) []T {
	list = append(list, item)
	copy(list[at+1:], list[at:])
	list[at] = item
	return list
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
