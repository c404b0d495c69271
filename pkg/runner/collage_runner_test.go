package runner

import (
	"bytes"
	"context"
	"image/jpeg"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-poster-kit/pkg/asset"
	"github.com/shouni/go-poster-kit/pkg/collage"
	"github.com/shouni/go-poster-kit/pkg/domain"
)

func newTestCollageRunner(t *testing.T, store *PosterStore, writer OutputWriter) *CollageRunner {
	t.Helper()
	comp, err := collage.NewCompositor(collage.Config{})
	require.NoError(t, err)
	r, err := NewCollageRunner(store, comp, writer)
	require.NoError(t, err)
	return r
}

func fillStore(t *testing.T, store *PosterStore) {
	t.Helper()
	poster := testPNG(t, 200, 300)
	for _, g := range store.Genres() {
		store.SetSucceeded(g, domain.GeneratedImage{Data: poster, MimeType: "image/png"})
	}
}

func TestCollageRunner_Run(t *testing.T) {
	t.Run("全件成功ならコラージュJPEGを返す", func(t *testing.T) {
		store := NewPosterStore(domain.AllGenres())
		fillStore(t, store)
		r := newTestCollageRunner(t, store, nil)

		data, err := r.Run(context.Background())
		require.NoError(t, err)

		img, err := jpeg.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, collage.CanvasWidth, img.Bounds().Dx())
		assert.Equal(t, collage.CanvasHeight, img.Bounds().Dy())
	})

	t.Run("未完了があれば合成せず IncompleteInputSet", func(t *testing.T) {
		store := NewPosterStore(domain.AllGenres())
		fillStore(t, store)
		store.Begin(domain.GenreWestern)
		store.Complete(domain.GenreWestern, domain.Failed(domain.NewFailure(domain.KindContentBlocked, "blocked", nil)))

		r := newTestCollageRunner(t, store, nil)
		_, err := r.Run(context.Background())
		require.Error(t, err)
		assert.Equal(t, domain.KindIncompleteInputSet, domain.KindOf(err))
		assert.Contains(t, err.Error(), string(domain.GenreWestern))
	})
}

func TestCollageRunner_RunAndSave(t *testing.T) {
	store := NewPosterStore(domain.AllGenres())
	fillStore(t, store)
	writer := newMockWriter()
	r := newTestCollageRunner(t, store, writer)

	path, err := r.RunAndSave(context.Background(), "/tmp/posters")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, asset.CollageFileName), "path = %s", path)

	data, ok := writer.writes[path]
	require.True(t, ok, "writer に書き込みが記録されていること")
	_, err = jpeg.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestPosterPublisher_SaveOne(t *testing.T) {
	store := NewPosterStore(domain.AllGenres())
	writer := newMockWriter()
	pub, err := NewPosterPublisher(store, writer)
	require.NoError(t, err)

	t.Run("成功済みポスターを品質95のJPEGで保存する", func(t *testing.T) {
		store.SetSucceeded(domain.GenreAction, domain.GeneratedImage{Data: testPNG(t, 200, 300), MimeType: "image/png"})

		path, err := pub.SaveOne(context.Background(), domain.GenreAction, "/tmp/posters")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(path, "my-poster-action.jpg"), "path = %s", path)

		// PNG入力でも保存形式はJPEGに揃える
		img, err := jpeg.Decode(bytes.NewReader(writer.writes[path]))
		require.NoError(t, err)
		assert.Equal(t, 200, img.Bounds().Dx())
	})

	t.Run("未完了のジャンルは保存できない", func(t *testing.T) {
		_, err := pub.SaveOne(context.Background(), domain.GenreHorror, "/tmp/posters")
		assert.Error(t, err)
	})
}

func TestPosterPublisher_SaveAll(t *testing.T) {
	store := NewPosterStore(domain.AllGenres())
	writer := newMockWriter()
	pub, err := NewPosterPublisher(store, writer)
	require.NoError(t, err)

	// Horror だけ失敗のまま
	for _, g := range domain.AllGenres() {
		if g == domain.GenreHorror {
			continue
		}
		store.SetSucceeded(g, domain.GeneratedImage{Data: testPNG(t, 100, 150), MimeType: "image/png"})
	}
	store.Begin(domain.GenreHorror)
	store.Complete(domain.GenreHorror, domain.Failed(domain.NewFailure(domain.KindContentBlocked, "blocked", nil)))

	paths, err := pub.SaveAll(context.Background(), "/tmp/posters")
	require.NoError(t, err, "失敗ジャンルはスキップして続行すること")
	assert.Len(t, paths, len(domain.AllGenres())-1)
	for _, p := range paths {
		assert.NotContains(t, p, "horror")
	}
}
