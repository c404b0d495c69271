package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-poster-kit/pkg/domain"
	"github.com/shouni/go-poster-kit/pkg/prompts"
)

const testPhotoURL = "data:image/jpeg;base64,dGVzdC1waG90bw=="

func newTestRunner(t *testing.T, gen *fakeGenerator, workers int) (*PosterRunner, *PosterStore) {
	t.Helper()
	store := NewPosterStore(domain.AllGenres())
	pb, err := prompts.NewPosterPromptBuilder()
	require.NoError(t, err)
	r, err := NewPosterRunner(gen, store, pb, workers, 0)
	require.NoError(t, err)
	return r, store
}

func TestPosterRunner_RunBatch_GeneratesAllGenres(t *testing.T) {
	gen := &fakeGenerator{}
	r, store := newTestRunner(t, gen, 2)

	require.NoError(t, r.RunBatch(context.Background(), testPhotoURL))

	assert.Equal(t, len(domain.AllGenres()), gen.callCount(), "全ジャンル分の生成呼び出しが必要です")
	for _, g := range domain.AllGenres() {
		assert.Equal(t, StateSucceeded, store.State(g), "genre %s", g)
	}
}

func TestPosterRunner_RunBatch_ConcurrencyCap(t *testing.T) {
	// ワーカーを重ねるために各生成を意図的に遅らせる
	gen := &fakeGenerator{delay: 30 * time.Millisecond}
	r, _ := newTestRunner(t, gen, 2)

	require.NoError(t, r.RunBatch(context.Background(), testPhotoURL))

	assert.Equal(t, len(domain.AllGenres()), gen.callCount())
	assert.LessOrEqual(t, gen.observedMax(), 2, "同時実行数が上限2を超えてはいけません")
	assert.GreaterOrEqual(t, gen.observedMax(), 2, "2ワーカーなら実際に2件は重なるはず")
}

func TestPosterRunner_RunBatch_ContinuesPastFailures(t *testing.T) {
	// Horror だけブロックされるシナリオ
	gen := &fakeGenerator{
		generateFunc: func(_ context.Context, _, prompt string) (*domain.GeneratedImage, error) {
			if g, ok := domain.DetectGenre(prompt); ok && g == domain.GenreHorror {
				return nil, domain.NewFailure(domain.KindContentBlocked, "安全フィルタで拒否されました", nil)
			}
			return &domain.GeneratedImage{Data: []byte("ok"), MimeType: "image/png"}, nil
		},
	}
	r, store := newTestRunner(t, gen, 2)

	require.NoError(t, r.RunBatch(context.Background(), testPhotoURL), "個別の失敗はバッチを止めません")

	assert.Equal(t, StateFailed, store.State(domain.GenreHorror))
	result, _ := store.Result(domain.GenreHorror)
	assert.Equal(t, domain.KindContentBlocked, domain.KindOf(result.Err()))

	for _, g := range domain.AllGenres() {
		if g == domain.GenreHorror {
			continue
		}
		assert.Equal(t, StateSucceeded, store.State(g), "genre %s", g)
	}
}

func TestPosterRunner_Regenerate(t *testing.T) {
	t.Run("成功すればスロットを上書きする", func(t *testing.T) {
		gen := &fakeGenerator{}
		r, store := newTestRunner(t, gen, 2)

		store.Begin(domain.GenreAction)
		store.Complete(domain.GenreAction, domain.Failed(domain.NewFailure(domain.KindNoImageInResponse, "初回は失敗", nil)))

		require.NoError(t, r.Regenerate(context.Background(), domain.GenreAction, testPhotoURL))
		assert.Equal(t, StateSucceeded, store.State(domain.GenreAction))
		assert.Equal(t, 1, gen.callCount())
	})

	t.Run("実行中のジャンルへの要求は何もしない", func(t *testing.T) {
		gen := &fakeGenerator{}
		r, store := newTestRunner(t, gen, 2)

		// 別のワーカーが獲得済み、という状況を作る
		require.True(t, store.Begin(domain.GenreComedy))

		err := r.Regenerate(context.Background(), domain.GenreComedy, testPhotoURL)
		assert.ErrorIs(t, err, ErrGenerationInFlight)
		assert.Equal(t, StatePending, store.State(domain.GenreComedy), "状態は変化しないこと")
		assert.Zero(t, gen.callCount(), "重複したリモート呼び出しをしてはいけません")
	})

	t.Run("失敗したら失敗エラーをそのまま返す", func(t *testing.T) {
		gen := &fakeGenerator{
			generateFunc: func(context.Context, string, string) (*domain.GeneratedImage, error) {
				return nil, domain.NewFailure(domain.KindRemoteFailurePermanent, "リトライ上限", errors.New("boom"))
			},
		}
		r, store := newTestRunner(t, gen, 2)

		err := r.Regenerate(context.Background(), domain.GenreSciFi, testPhotoURL)
		assert.Equal(t, domain.KindRemoteFailurePermanent, domain.KindOf(err))
		assert.Equal(t, StateFailed, store.State(domain.GenreSciFi))
	})
}

func TestNewPosterRunner_Validation(t *testing.T) {
	store := NewPosterStore(domain.AllGenres())
	pb, err := prompts.NewPosterPromptBuilder()
	require.NoError(t, err)

	_, err = NewPosterRunner(nil, store, pb, 2, 0)
	assert.Error(t, err)

	// ワーカー数0はデフォルトにフォールバック
	r, err := NewPosterRunner(&fakeGenerator{}, store, pb, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkerCount, r.workers)
}
