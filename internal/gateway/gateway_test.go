package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/P-1000/slate/internal/capture"
	"github.com/P-1000/slate/internal/classify"
	"github.com/P-1000/slate/internal/clipboard"
	"github.com/P-1000/slate/internal/database"
	"github.com/P-1000/slate/internal/preview"
)

// recordingSource captures writes so tests can assert what landed on the
// "OS clipboard".
type recordingSource struct {
	ch       chan clipboard.Capture
	texts    []string
	images   [][]byte
	writeErr error
}

func newRecordingSource() *recordingSource {
	return &recordingSource{ch: make(chan clipboard.Capture, 10)}
}

func (r *recordingSource) Name() string { return "recording" }

func (r *recordingSource) Changes() <-chan clipboard.Capture { return r.ch }

func (r *recordingSource) WriteText(text string) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	r.texts = append(r.texts, text)
	return nil
}

func (r *recordingSource) WriteImage(data []byte) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	r.images = append(r.images, data)
	return nil
}

func (r *recordingSource) Close() {}

type stubFetcher struct {
	meta *database.Metadata
	err  error
}

func (f *stubFetcher) Fetch(context.Context, string) (*database.Metadata, error) {
	return f.meta, f.err
}

// recordingFetcher remembers the URLs it was asked to fetch.
type recordingFetcher struct {
	urls []string
}

func (f *recordingFetcher) Fetch(_ context.Context, url string) (*database.Metadata, error) {
	f.urls = append(f.urls, url)
	return &database.Metadata{Title: "Fetched", URL: url}, nil
}

// brokenStore fails every operation, for the degraded-read paths.
type brokenStore struct {
	database.Store
}

func (brokenStore) ListAll(context.Context) ([]*database.ClipboardItem, error) {
	return nil, database.ErrStorage
}

func (brokenStore) ListPinned(context.Context) ([]*database.ClipboardItem, error) {
	return nil, database.ErrStorage
}

func (brokenStore) Search(context.Context, string) ([]*database.ClipboardItem, error) {
	return nil, database.ErrStorage
}

func newGateway(fetcher preview.Fetcher) (*Gateway, *database.MemoryStore, *recordingSource) {
	store := database.NewMemoryStore()
	source := newRecordingSource()
	g := New(store, preview.NewEnricher(fetcher, time.Second), source)
	return g, store, source
}

func insertText(t *testing.T, store database.Store, id, content string, ts int64) {
	t.Helper()
	require.NoError(t, store.Insert(context.Background(), &database.ClipboardItem{
		ItemID:    id,
		Type:      database.TypeText,
		Content:   content,
		Timestamp: ts,
		Size:      len(content),
	}))
}

func TestGetAllDegradesToEmpty(t *testing.T) {
	g := New(brokenStore{}, preview.NewEnricher(&stubFetcher{}, time.Second), newRecordingSource())

	assert.Empty(t, g.GetAll(context.Background()))
	assert.Empty(t, g.GetPinned(context.Background()))
	assert.Empty(t, g.Search(context.Background(), "x"))
}

func TestDeleteValidation(t *testing.T) {
	g, _, _ := newGateway(&stubFetcher{})

	_, err := g.Delete(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = g.Delete(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = g.TogglePin(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = g.SetPinned(context.Background(), "", true)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteSemantics(t *testing.T) {
	g, store, _ := newGateway(&stubFetcher{})
	ctx := context.Background()
	insertText(t, store, "item-1", "hello", 100)

	removed, err := g.Delete(ctx, "no-such-id")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = g.Delete(ctx, "item-1")
	require.NoError(t, err)
	assert.True(t, removed)

	assert.Empty(t, g.GetAll(ctx))
}

func TestTogglePinIdempotenceOfIntent(t *testing.T) {
	g, store, _ := newGateway(&stubFetcher{})
	ctx := context.Background()
	insertText(t, store, "item-1", "hello", 100)

	once, err := g.TogglePin(ctx, "item-1")
	require.NoError(t, err)
	assert.True(t, once.Pinned, "one toggle flips the pin")

	twice, err := g.TogglePin(ctx, "item-1")
	require.NoError(t, err)
	assert.False(t, twice.Pinned, "two toggles restore the original value")

	_, err = g.TogglePin(ctx, "ghost")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestCopyToClipboard(t *testing.T) {
	g, _, source := newGateway(&stubFetcher{})
	var hidden bool
	g.SetHideFunc(func() { hidden = true })

	res := g.CopyToClipboard(context.Background(), "hello")
	assert.True(t, res.Success)
	assert.Empty(t, res.Error)
	assert.Equal(t, []string{"hello"}, source.texts)
	assert.True(t, hidden, "a successful copy hides the popup")
}

func TestCopyToClipboardImage(t *testing.T) {
	g, _, source := newGateway(&stubFetcher{})

	data := []byte{0x89, 'P', 'N', 'G'}
	res := g.CopyToClipboard(context.Background(), classify.EncodeImage(data))
	assert.True(t, res.Success)
	require.Len(t, source.images, 1)
	assert.Equal(t, data, source.images[0])
	assert.Empty(t, source.texts)
}

func TestCopyToClipboardFailures(t *testing.T) {
	g, _, source := newGateway(&stubFetcher{})
	var hidden bool
	g.SetHideFunc(func() { hidden = true })

	res := g.CopyToClipboard(context.Background(), "")
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)

	source.writeErr = errors.New("clipboard busy")
	res = g.CopyToClipboard(context.Background(), "hello")
	assert.False(t, res.Success)
	assert.Equal(t, "clipboard busy", res.Error)
	assert.False(t, hidden, "a failed copy must not hide the popup")
}

func TestGetLinkPreview(t *testing.T) {
	meta := &database.Metadata{Title: "Example", URL: "https://example.com"}
	g, _, _ := newGateway(&stubFetcher{meta: meta})
	ctx := context.Background()

	assert.Nil(t, g.GetLinkPreview(ctx, "not a url"))
	assert.Nil(t, g.GetLinkPreview(ctx, "example.com"))
	assert.Equal(t, meta, g.GetLinkPreview(ctx, "https://example.com"))
}

func TestGetLinkPreviewTrimsURL(t *testing.T) {
	fetcher := &recordingFetcher{}
	g, _, _ := newGateway(fetcher)

	got := g.GetLinkPreview(context.Background(), "  https://example.com/page\n")
	require.NotNil(t, got)
	assert.Empty(t, got.Error)
	assert.Equal(t, "https://example.com/page", got.URL)
	assert.Equal(t, []string{"https://example.com/page"}, fetcher.urls)
}

func TestGetLinkPreviewPlaceholder(t *testing.T) {
	g, _, _ := newGateway(&stubFetcher{err: errors.New("boom")})

	got := g.GetLinkPreview(context.Background(), "https://down.example")
	require.NotNil(t, got)
	assert.Equal(t, preview.PlaceholderError, got.Error)
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	g, store, _ := newGateway(&stubFetcher{})
	ctx := context.Background()
	insertText(t, store, "item-1", "alpha", 100)
	insertText(t, store, "item-2", "beta", 200)

	assert.Len(t, g.Search(ctx, ""), 2)
	results := g.Search(ctx, "alp")
	require.Len(t, results, 1)
	assert.Equal(t, "alpha", results[0].Content)
}

func TestClear(t *testing.T) {
	g, store, _ := newGateway(&stubFetcher{})
	ctx := context.Background()
	insertText(t, store, "item-1", "alpha", 100)

	require.NoError(t, g.Clear(ctx))
	assert.Empty(t, g.GetAll(ctx))
}

// TestEndToEndScenario walks the capture pipeline and the command
// surface together: capture, pin, dedup, then a link capture.
func TestEndToEndScenario(t *testing.T) {
	store := database.NewMemoryStore()
	source := newRecordingSource()
	fetcher := &stubFetcher{meta: &database.Metadata{Title: "A", URL: "https://a.example/"}}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ctrl := capture.NewController(source, store, preview.NewEnricher(fetcher, time.Second), 0)
	require.NoError(t, ctrl.Start(ctx))

	g := New(store, preview.NewEnricher(fetcher, time.Second), source)

	copyAndWait := func(text string) *database.ClipboardItem {
		source.ch <- clipboard.Capture{Kind: clipboard.KindText, Text: text}
		select {
		case ev := <-ctrl.Events():
			require.NoError(t, ev.Err)
			return ev.Item
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for capture")
			return nil
		}
	}

	// Capture "hello": one text item, unpinned.
	item := copyAndWait("hello")
	all := g.GetAll(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, database.TypeText, all[0].Type)
	assert.False(t, all[0].Pinned)

	// Pin it.
	_, err := g.TogglePin(ctx, item.ItemID)
	require.NoError(t, err)
	all = g.GetAll(ctx)
	require.Len(t, all, 1)
	assert.True(t, all[0].Pinned)

	// Duplicate capture: still exactly one item. The sentinel proves
	// the duplicate went through the pipeline first.
	source.ch <- clipboard.Capture{Kind: clipboard.KindText, Text: "hello"}
	copyAndWait("sentinel")
	_, err = g.Delete(ctx, mustFind(t, g, ctx, "sentinel").ItemID)
	require.NoError(t, err)
	all = g.GetAll(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "hello", all[0].Content)

	// Capture a link: two items, the link carries metadata.
	copyAndWait("https://a.example/")
	all = g.GetAll(ctx)
	require.Len(t, all, 2)
	link := mustFind(t, g, ctx, "https://a.example/")
	assert.Equal(t, database.TypeLink, link.Type)
	require.NotNil(t, link.Metadata)
	assert.Equal(t, "https://a.example/", link.Metadata.URL)
}

func mustFind(t *testing.T, g *Gateway, ctx context.Context, content string) *database.ClipboardItem {
	t.Helper()
	for _, item := range g.GetAll(ctx) {
		if item.Content == content {
			return item
		}
	}
	t.Fatalf("item with content %q not found", content)
	return nil
}
