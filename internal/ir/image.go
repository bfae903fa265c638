package ir

// ImageBlock is a placeholder for an embedded picture, OLE object or
// drawing. Image data is not extracted.
type ImageBlock struct {
	ID     string `json:"id"`
	Alt    string `json:"alt,omitempty"`
	Format string `json:"format,omitempty"` // picture, ole, drawing
}

// NewImage creates an image placeholder with the given ID.
func NewImage(id string) *ImageBlock {
	return &ImageBlock{ID: id}
}

// Label returns the alt text, or the ID when there is none.
func (img *ImageBlock) Label() string {
	if img.Alt != "" {
		return img.Alt
	}
	return img.ID
}
