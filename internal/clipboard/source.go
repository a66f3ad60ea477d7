// Package clipboard abstracts the OS clipboard behind the Source
// interface. The production implementation polls the system clipboard
// via golang.design/x/clipboard; a headless no-op keeps the daemon
// usable in display-less environments, and tests inject fakes.
package clipboard

// Source is the clipboard capability the core depends on.
type Source interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// Changes returns the channel of clipboard-change captures. The
	// channel is never closed; it simply stops delivering after Close.
	Changes() <-chan Capture

	// WriteText sets the clipboard to the given text.
	WriteText(text string) error

	// WriteImage sets the clipboard to the given PNG bytes.
	WriteImage(data []byte) error

	// Close stops change detection and releases resources.
	Close()
}
