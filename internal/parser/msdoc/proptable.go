package msdoc

import (
	"bytes"
	"sort"
)

// TableKind identifies one of the independent property tables.
type TableKind int

const (
	TableChar TableKind = iota
	TablePara
	TableSect
)

// String returns the table name used in logs.
func (k TableKind) String() string {
	switch k {
	case TableChar:
		return "chpx"
	case TablePara:
		return "papx"
	case TableSect:
		return "sepx"
	default:
		return "unknown"
	}
}

// BlobRef indexes a property blob inside a table's arena.
type BlobRef int32

// NoBlob marks a range without properties.
const NoBlob BlobRef = -1

// OpenEnd marks a range that extends to the end of the text.
const OpenEnd = -1

// PropertyRange maps [Start, End) to a property blob. End may be OpenEnd.
type PropertyRange struct {
	Start int
	End   int
	Blob  BlobRef
}

// Contains reports whether cp lies inside the range.
func (r PropertyRange) Contains(cp int) bool {
	return cp >= r.Start && (r.End == OpenEnd || cp < r.End)
}

// arena stores blob payloads contiguously; identical blobs share one
// slot.
type arena struct {
	data  []byte
	spans [][2]int
	index map[string]BlobRef
}

func (a *arena) add(b []byte) BlobRef {
	if a.index == nil {
		a.index = make(map[string]BlobRef)
	}
	if ref, ok := a.index[string(b)]; ok {
		return ref
	}
	start := len(a.data)
	a.data = append(a.data, b...)
	ref := BlobRef(len(a.spans))
	a.spans = append(a.spans, [2]int{start, len(a.data)})
	a.index[string(b)] = ref
	return ref
}

func (a *arena) get(ref BlobRef) []byte {
	if ref < 0 || int(ref) >= len(a.spans) {
		return nil
	}
	s := a.spans[ref]
	return a.data[s[0]:s[1]:s[1]]
}

// PropTable is a sorted, non-overlapping sequence of property ranges.
type PropTable struct {
	Kind   TableKind
	ranges []PropertyRange
	blobs  arena
}

// NewPropTable returns an empty table of the given kind.
func NewPropTable(kind TableKind) *PropTable {
	return &PropTable{Kind: kind}
}

// Add appends a range with payload blob. Ranges may arrive in any order;
// call Finish before walking.
func (t *PropTable) Add(start, end int, blob []byte) {
	ref := NoBlob
	if blob != nil {
		ref = t.blobs.add(blob)
	}
	t.ranges = append(t.ranges, PropertyRange{Start: start, End: end, Blob: ref})
}

// Finish sorts the ranges and trims overlaps. Adjacent character ranges
// that share a blob are merged.
func (t *PropTable) Finish() {
	sort.SliceStable(t.ranges, func(i, j int) bool { return t.ranges[i].Start < t.ranges[j].Start })

	out := t.ranges[:0]
	for _, r := range t.ranges {
		if r.End != OpenEnd && r.End <= r.Start {
			continue
		}
		if n := len(out); n > 0 {
			prev := &out[n-1]
			if prev.End == OpenEnd || prev.End > r.Start {
				// 앞 범위가 겹치면 뒤 범위 시작에서 자름
				prev.End = r.Start
				if prev.End <= prev.Start {
					out = out[:n-1]
				}
			}
		}
		if n := len(out); n > 0 && t.Kind == TableChar {
			// 문단/구역 경계는 병합하지 않음
			prev := &out[n-1]
			if prev.End == r.Start && prev.Blob == r.Blob {
				prev.End = r.End
				continue
			}
		}
		out = append(out, r)
	}
	t.ranges = out
}

// Len returns the number of ranges.
func (t *PropTable) Len() int { return len(t.ranges) }

// At returns range i.
func (t *PropTable) At(i int) PropertyRange { return t.ranges[i] }

// Blob returns the payload of ref.
func (t *PropTable) Blob(ref BlobRef) []byte { return t.blobs.get(ref) }

// SameBlob reports whether two refs carry equal payloads.
func (t *PropTable) SameBlob(a, b BlobRef) bool {
	return a == b || bytes.Equal(t.Blob(a), t.Blob(b))
}

// search returns the index of the first range that ends after cp.
func (t *PropTable) search(cp int) int {
	return sort.Search(len(t.ranges), func(i int) bool {
		r := t.ranges[i]
		return r.End == OpenEnd || cp < r.End
	})
}

// Find returns the index of the range containing cp, or -1.
func (t *PropTable) Find(cp int) int {
	i := t.search(cp)
	if i < len(t.ranges) && t.ranges[i].Contains(cp) {
		return i
	}
	return -1
}

// Walker returns a new walker over t.
func (t *PropTable) Walker() *PropWalker {
	return &PropWalker{t: t}
}

// PropWalker is the cursor of one property table. Its whole state is the
// range index, so it can be saved and restored by value.
type PropWalker struct {
	t *PropTable
	i int
}

// Seek positions the walker at the range containing cp or, if cp falls in
// a gap, at the first range after it.
func (w *PropWalker) Seek(cp int) {
	w.i = w.t.search(cp)
}

// Current returns the range under the cursor. ok is false once the walker
// has moved past the last range.
func (w *PropWalker) Current() (PropertyRange, bool) {
	if w.i < 0 || w.i >= len(w.t.ranges) {
		return PropertyRange{}, false
	}
	return w.t.ranges[w.i], true
}

// Advance moves to the next range and returns its start, the next CP at
// which properties change. ok is false when no range follows.
func (w *PropWalker) Advance() (next int, ok bool) {
	if w.i < len(w.t.ranges) {
		w.i++
	}
	r, ok := w.Current()
	if !ok {
		return 0, false
	}
	return r.Start, true
}

// At returns the range containing cp, advancing or seeking as needed.
func (w *PropWalker) At(cp int) (PropertyRange, bool) {
	r, ok := w.Current()
	if ok && r.Contains(cp) {
		return r, true
	}
	// 순방향 이동은 다음 범위부터 확인
	if ok && cp >= r.Start {
		if next, ok := w.Advance(); ok && next <= cp {
			if r, ok := w.Current(); ok && r.Contains(cp) {
				return r, true
			}
		}
	}
	w.Seek(cp)
	r, ok = w.Current()
	if ok && r.Contains(cp) {
		return r, true
	}
	return PropertyRange{}, false
}

// Blob returns the payload of the current range.
func (w *PropWalker) Blob() []byte {
	r, ok := w.Current()
	if !ok {
		return nil
	}
	return w.t.Blob(r.Blob)
}

// Table returns the walked table.
func (w *PropWalker) Table() *PropTable { return w.t }

// Pos returns the cursor for a snapshot.
func (w *PropWalker) Pos() int { return w.i }

// SetPos restores a cursor taken with Pos.
func (w *PropWalker) SetPos(i int) { w.i = i }
