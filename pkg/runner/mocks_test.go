package runner

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shouni/go-poster-kit/pkg/domain"
)

// --- Mocks ---

// fakeGenerator は同時実行数を観測できる PosterGenerator の偽物なのだ。
type fakeGenerator struct {
	mu          sync.Mutex
	inFlight    int
	maxInFlight int
	prompts     []string

	delay        time.Duration
	generateFunc func(ctx context.Context, imageDataURL, prompt string) (*domain.GeneratedImage, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, imageDataURL, prompt string) (*domain.GeneratedImage, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if f.generateFunc != nil {
		return f.generateFunc(ctx, imageDataURL, prompt)
	}
	return &domain.GeneratedImage{Data: []byte("fake-poster"), MimeType: "image/png"}, nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func (f *fakeGenerator) observedMax() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

// mockWriter は書き込みをメモリに記録する OutputWriter なのだ。
type mockWriter struct {
	mu     sync.Mutex
	writes map[string][]byte
}

func newMockWriter() *mockWriter {
	return &mockWriter{writes: make(map[string][]byte)}
}

func (w *mockWriter) Write(ctx context.Context, uri string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes[uri] = data
	return nil
}

// --- Helpers ---

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{200, 80, 40, 255})
		}
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("test png encode failed: %v", err)
	}
	return buf.Bytes()
}
