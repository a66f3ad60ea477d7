package clipboard

// Kind distinguishes the two raw capture formats the OS clipboard
// delivers.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Capture is one raw clipboard-change observation.
type Capture struct {
	Kind  Kind
	Text  string
	Image []byte
}

// Size returns the raw payload size in bytes.
func (c Capture) Size() int {
	if c.Kind == KindImage {
		return len(c.Image)
	}
	return len(c.Text)
}
