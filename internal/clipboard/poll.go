package clipboard

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"golang.design/x/clipboard"
)

// pollSource reads the system clipboard on a ticker and emits a Capture
// whenever the contents differ from the last observation. golang.design
// exposes no change notification on most platforms, so polling is the
// portable option.
type pollSource struct {
	interval time.Duration
	changes  chan Capture
	done     chan struct{}

	mu       sync.Mutex
	lastText []byte
	lastImg  []byte
}

// NewSystemSource initializes the system clipboard and starts polling at
// the given interval. Returns an error if no clipboard is available
// (headless session); callers typically fall back to NewHeadless.
func NewSystemSource(interval time.Duration) (Source, error) {
	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize clipboard: %w", err)
	}

	s := &pollSource{
		interval: interval,
		changes:  make(chan Capture, 100),
		done:     make(chan struct{}),
	}
	go s.poll()
	return s, nil
}

func (s *pollSource) Name() string { return "system clipboard (poll)" }

func (s *pollSource) poll() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.check()
		}
	}
}

func (s *pollSource) check() {
	// Text takes precedence; most platforms only hold one format at a
	// time anyway.
	if text := clipboard.Read(clipboard.FmtText); len(text) > 0 {
		s.mu.Lock()
		changed := !bytes.Equal(text, s.lastText)
		s.lastText = text
		s.mu.Unlock()
		if changed {
			s.emit(Capture{Kind: KindText, Text: string(text)})
		}
		return
	}

	if img := clipboard.Read(clipboard.FmtImage); len(img) > 0 {
		s.mu.Lock()
		changed := !bytes.Equal(img, s.lastImg)
		s.lastImg = img
		s.mu.Unlock()
		if changed {
			s.emit(Capture{Kind: KindImage, Image: img})
		}
	}
}

func (s *pollSource) emit(c Capture) {
	select {
	case s.changes <- c:
	case <-s.done:
	}
}

func (s *pollSource) Changes() <-chan Capture { return s.changes }

// WriteText records the written value as the last observation so that
// re-copying an item from history does not capture it again.
func (s *pollSource) WriteText(text string) error {
	data := []byte(text)
	s.mu.Lock()
	s.lastText = data
	s.mu.Unlock()
	clipboard.Write(clipboard.FmtText, data)
	return nil
}

func (s *pollSource) WriteImage(data []byte) error {
	s.mu.Lock()
	s.lastImg = data
	s.mu.Unlock()
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}

func (s *pollSource) Close() { close(s.done) }
