package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/shouni/go-poster-kit/pkg/collage"
	"github.com/shouni/go-poster-kit/pkg/domain"
	"github.com/shouni/go-poster-kit/pkg/generator"
	"github.com/shouni/go-poster-kit/pkg/prompts"
	"github.com/shouni/go-poster-kit/pkg/runner"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shouni/go-gemini-client/gemini"
	"google.golang.org/genai"
)

// BuildPosterRunner はジャンル別ポスターの並列生成を担当する Runner を構築します。
// ストアは全ジャンル分のスロットで初期化され、呼び出し側と共有します。
func BuildPosterRunner(appCtx *AppContext, store *runner.PosterStore) (*runner.PosterRunner, error) {
	gen, err := InitializePosterGenerator(appCtx)
	if err != nil {
		return nil, fmt.Errorf("PosterGeneratorの初期化に失敗したのだ: %w", err)
	}

	pb, err := prompts.NewPosterPromptBuilder()
	if err != nil {
		return nil, fmt.Errorf("プロンプトビルダーの初期化に失敗しました: %w", err)
	}

	return runner.NewPosterRunner(gen, store, pb, appCtx.Options.Workers, appCtx.Options.RateInterval)
}

// BuildCollageRunner はコラージュの合成と保存を担当する Runner を構築します。
func BuildCollageRunner(appCtx *AppContext, store *runner.PosterStore) (*runner.CollageRunner, error) {
	comp, err := collage.NewCompositor(collage.Config{
		Title:    appCtx.Options.CollageTitle,
		Subtitle: appCtx.Options.CollageSub,
	})
	if err != nil {
		return nil, fmt.Errorf("コンポジタの初期化に失敗しました: %w", err)
	}
	return runner.NewCollageRunner(store, comp, appCtx.Writer)
}

// BuildPosterPublisher は個別ポスターのダウンロード保存を担当する Publisher を構築します。
func BuildPosterPublisher(appCtx *AppContext, store *runner.PosterStore) (*runner.PosterPublisher, error) {
	return runner.NewPosterPublisher(store, appCtx.Writer)
}

// NewPosterStore は管理対象の全ジャンルでストアを初期化します。
func NewPosterStore() *runner.PosterStore {
	return runner.NewPosterStore(domain.AllGenres())
}

// InitializeAIClient は gemini クライアントを初期化します。
func InitializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	const defaultGeminiTemperature = float32(0.4)
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// InitializePosterGenerator は PosterGenerator を初期化します。
// 同じ写真の再デコードを避けるため、ソース画像キャッシュを共有します。
func InitializePosterGenerator(appCtx *AppContext) (generator.PosterGenerator, error) {
	model := appCtx.Options.ImageModel
	if model == "" {
		model = appCtx.Config.GeminiImageModel
	}

	cache := gocache.New(30*time.Minute, time.Hour)
	gen, err := generator.NewClient(appCtx.AIClient, generator.Config{Model: model}, cache)
	if err != nil {
		return nil, fmt.Errorf("生成クライアントの初期化に失敗したのだ: %w", err)
	}
	return gen, nil
}
