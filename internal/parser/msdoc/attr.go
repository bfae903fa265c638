package msdoc

// AttrKind identifies a formatting attribute.
type AttrKind int

const (
	AttrBold AttrKind = iota
	AttrItalic
	AttrUnderline
	AttrStrike
	AttrSuperscript
	AttrSubscript
	AttrHidden
	AttrDeleted
	AttrFont     // Str: 글꼴 이름
	AttrLanguage // Int: LID
	AttrCharStyle
	AttrLink // Str: 하이퍼링크 대상
)

var attrKindNames = [...]string{
	AttrBold:        "bold",
	AttrItalic:      "italic",
	AttrUnderline:   "underline",
	AttrStrike:      "strike",
	AttrSuperscript: "superscript",
	AttrSubscript:   "subscript",
	AttrHidden:      "hidden",
	AttrDeleted:     "deleted",
	AttrFont:        "font",
	AttrLanguage:    "language",
	AttrCharStyle:   "char-style",
	AttrLink:        "link",
}

// String returns the attribute name.
func (k AttrKind) String() string {
	if k >= 0 && int(k) < len(attrKindNames) {
		return attrKindNames[k]
	}
	return "unknown"
}

// Attr is a typed attribute value.
type Attr struct {
	Kind AttrKind
	Int  int
	Str  string
}

// AttributeEntry is an attribute over the half-open range [Start, End).
// End is OpenEnd while the entry is still open.
type AttributeEntry struct {
	Start int
	End   int
	Attr  Attr
}

// Open reports whether the entry has no end yet.
func (e AttributeEntry) Open() bool { return e.End == OpenEnd }

// AttrStack accumulates attribute entries by CP.
type AttrStack struct {
	entries []AttributeEntry
}

// Open starts a new entry at cp.
func (s *AttrStack) Open(cp int, a Attr) {
	s.entries = append(s.entries, AttributeEntry{Start: cp, End: OpenEnd, Attr: a})
}

// Close ends the most recent open entry of kind at cp. Entries that would
// end up empty are dropped. It reports whether an entry was found.
func (s *AttrStack) Close(kind AttrKind, cp int) bool {
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := &s.entries[i]
		if e.Open() && e.Attr.Kind == kind {
			if cp <= e.Start {
				s.entries = append(s.entries[:i], s.entries[i+1:]...)
			} else {
				e.End = cp
			}
			return true
		}
	}
	return false
}

// Lookup returns the most recent open entry of kind.
func (s *AttrStack) Lookup(kind AttrKind) (Attr, bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if e := s.entries[i]; e.Open() && e.Attr.Kind == kind {
			return e.Attr, true
		}
	}
	return Attr{}, false
}

// CloseAll ends every open entry at cp.
func (s *AttrStack) CloseAll(cp int) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Open() {
			s.Close(s.entries[i].Attr.Kind, cp)
		}
	}
}

// Flush removes and returns every entry that starts before cp. Closed
// entries are returned as they are; open entries are returned closed at
// cp and stay open from cp onwards.
func (s *AttrStack) Flush(cp int) []AttributeEntry {
	var out []AttributeEntry
	keep := s.entries[:0]
	for _, e := range s.entries {
		switch {
		case e.Start >= cp:
			keep = append(keep, e)
		case e.Open():
			out = append(out, AttributeEntry{Start: e.Start, End: cp, Attr: e.Attr})
			e.Start = cp
			keep = append(keep, e)
		default:
			out = append(out, e)
		}
	}
	s.entries = keep
	return out
}

// Len returns the number of entries.
func (s *AttrStack) Len() int { return len(s.entries) }

// Entries returns a copy of the entries.
func (s *AttrStack) Entries() []AttributeEntry {
	if len(s.entries) == 0 {
		return nil
	}
	out := make([]AttributeEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Reset drops every entry.
func (s *AttrStack) Reset() { s.entries = nil }

// restore replaces the entries with a copy of saved.
func (s *AttrStack) restore(saved []AttributeEntry) {
	s.entries = nil
	if len(saved) > 0 {
		s.entries = make([]AttributeEntry, len(saved))
		copy(s.entries, saved)
	}
}
