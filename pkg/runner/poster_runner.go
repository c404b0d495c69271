package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/shouni/go-poster-kit/pkg/domain"
	"github.com/shouni/go-poster-kit/pkg/generator"
	"github.com/shouni/go-poster-kit/pkg/prompts"
)

// DefaultWorkerCount はバッチ生成の同時実行上限です。
const DefaultWorkerCount = 2

// ErrGenerationInFlight は、実行中のジャンルへの再生成要求を拒否したことを示します。
// 状態は変化せず、重複したリモート呼び出しも発生していません。
var ErrGenerationInFlight = errors.New("このジャンルのポスターは現在生成中です")

// PosterRunner は1枚の写真から全ジャンルのポスターを並列生成するのだ。
//
// 同時実行は「共有キューを決まった数のワーカーで食い潰す」方式で抑えます。
// ワーカーは次の未着手ジャンルを取り、生成を待ち、結果を書き、次を取ります。
// 完了順は保証されません（投入順に取り出すだけで、着地は前後します）。
type PosterRunner struct {
	gen     generator.PosterGenerator
	store   *PosterStore
	prompts *prompts.PosterPromptBuilder
	limiter *rate.Limiter
	workers int
}

// NewPosterRunner は依存関係を注入して PosterRunner を初期化します。
// workers が 0 以下ならデフォルト(2)を使います。rateInterval が 0 なら流量制限なしです。
func NewPosterRunner(gen generator.PosterGenerator, store *PosterStore, pb *prompts.PosterPromptBuilder, workers int, rateInterval time.Duration) (*PosterRunner, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if pb == nil {
		return nil, fmt.Errorf("prompt builder is required")
	}

	if workers <= 0 {
		workers = DefaultWorkerCount
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if rateInterval > 0 {
		// Burst をワーカー数に合わせ、開始直後はワーカー全員が即時に走り出せるようにする
		limiter = rate.NewLimiter(rate.Every(rateInterval), workers)
	}

	return &PosterRunner{
		gen:     gen,
		store:   store,
		prompts: pb,
		limiter: limiter,
		workers: workers,
	}, nil
}

// RunBatch はストアの全ジャンルをキューに積み、ワーカープールで並列生成します。
//
// 個々のジャンルの失敗はスロットに記録されるだけでバッチを止めません。
// 返り値のエラーはコンテキスト取り消しなど実行基盤側の失敗だけです。
func (r *PosterRunner) RunBatch(ctx context.Context, photoDataURL string) error {
	genres := r.store.Genres()
	slog.InfoContext(ctx, "ポスターのバッチ生成を開始するのだ",
		"genres", len(genres), "workers", r.workers)

	// 共有キューの実体は次の未請求インデックス。各ワーカーは
	// pop-next-or-stop のループを回すだけなのだ。
	var next atomic.Int64
	next.Store(-1)

	workers := r.workers
	if workers > len(genres) {
		workers = len(genres)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		eg.Go(func() error {
			for {
				i := next.Add(1)
				if i >= int64(len(genres)) {
					return nil
				}
				genre := genres[i]

				if err := r.limiter.Wait(egCtx); err != nil {
					return err
				}
				if !r.store.Begin(genre) {
					// 再生成呼び出しが先に獲得していたらこのキーは飛ばす
					continue
				}
				r.generateInto(egCtx, genre, photoDataURL)
			}
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	slog.InfoContext(ctx, "バッチ生成が完了したのだ")
	return nil
}

// Regenerate は1ジャンルだけを独立経路で作り直します。バッチのキューには戻しません。
// 対象が実行中なら何もせず ErrGenerationInFlight を返します（重複実行の防止）。
func (r *PosterRunner) Regenerate(ctx context.Context, genre domain.Genre, photoDataURL string) error {
	if !r.store.Begin(genre) {
		slog.WarnContext(ctx, "実行中のジャンルへの再生成要求を無視します", "genre", genre)
		return ErrGenerationInFlight
	}

	slog.InfoContext(ctx, "ポスターを再生成するのだ", "genre", genre)
	r.generateInto(ctx, genre, photoDataURL)

	result, _ := r.store.Result(genre)
	return result.Err()
}

// generateInto は Begin で獲得済みのスロットに向けて1件生成します。
// このスロットに書くのは自分だけ、という規律の上に成り立っています。
func (r *PosterRunner) generateInto(ctx context.Context, genre domain.Genre, photoDataURL string) {
	prompt, err := r.prompts.Build(genre)
	if err != nil {
		r.store.Complete(genre, domain.Failed(domain.NewFailure(domain.KindUnknown,
			fmt.Sprintf("プロンプトを構築できませんでした (genre: %s)", genre), err)))
		return
	}

	start := time.Now()
	img, err := r.gen.Generate(ctx, photoDataURL, prompt)
	if err != nil {
		slog.WarnContext(ctx, "ポスター生成に失敗したのだ",
			"genre", genre, "kind", domain.KindOf(err).String(), "error", err)
		var f *domain.Failure
		if !errors.As(err, &f) {
			f = domain.NewFailure(domain.KindUnknown, "生成に失敗しました", err)
		}
		r.store.Complete(genre, domain.Failed(f))
		return
	}

	slog.InfoContext(ctx, "ポスター生成に成功したのだ",
		"genre", genre, "duration", time.Since(start).Round(time.Millisecond))
	r.store.Complete(genre, domain.Succeeded(*img))
}
