package ir

// ListBlock is a run of consecutive list paragraphs.
type ListBlock struct {
	Ordered bool       `json:"ordered"`
	Items   []ListItem `json:"items"`
}

// ListItem is one list paragraph.
type ListItem struct {
	Text  string `json:"text"`
	Level int    `json:"level,omitempty"` // 0 = 최상위
}

// NewList creates an empty list.
func NewList(ordered bool) *ListBlock {
	return &ListBlock{Ordered: ordered, Items: make([]ListItem, 0)}
}

// Add appends an item at level.
func (l *ListBlock) Add(text string, level int) {
	l.Items = append(l.Items, ListItem{Text: text, Level: max(level, 0)})
}

// IsEmpty reports whether the list has no items.
func (l *ListBlock) IsEmpty() bool {
	return len(l.Items) == 0
}
