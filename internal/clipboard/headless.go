package clipboard

// headlessSource is a no-op Source for environments without a display
// server. It never produces captures and silently discards writes, so
// the rest of the daemon (store, command surface) keeps working.
type headlessSource struct {
	changes chan Capture
}

// NewHeadless returns the no-op clipboard source.
func NewHeadless() Source {
	return &headlessSource{changes: make(chan Capture)}
}

func (s *headlessSource) Name() string            { return "headless (no-op)" }
func (s *headlessSource) Changes() <-chan Capture { return s.changes }
func (s *headlessSource) WriteText(string) error  { return nil }
func (s *headlessSource) WriteImage([]byte) error { return nil }
func (s *headlessSource) Close()                  {}
