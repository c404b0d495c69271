package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shouni/go-poster-kit/internal/builder"
	"github.com/shouni/go-poster-kit/internal/config"
	"github.com/shouni/go-poster-kit/pkg/asset"
	"github.com/shouni/go-poster-kit/pkg/domain"
	"github.com/shouni/go-poster-kit/pkg/runner"

	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
)

// Execute は写真1枚から全ジャンルのポスター生成、個別保存、コラージュ合成まで
// を一気通貫で実行するメインパイプラインなのだ。
//
// 流れは 3 フェーズ構成です。
//   - Phase 1: 写真の読み込みと全ジャンルの並列生成
//   - Phase 2: 成功したポスターの個別保存 (my-poster-<genre>.jpg)
//   - Phase 3: 全件成功時のみコラージュ合成と保存 (my-poster-collection.jpg)
func Execute(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	photoDataURL, err := loadPhotoDataURL(ctx, appCtx, cfg.Options.Photo)
	if err != nil {
		return err
	}

	store := builder.NewPosterStore()

	// --- Phase 1: Generate Phase (ポスター並列生成) ---
	if err := runGenerateStep(ctx, appCtx, store, photoDataURL); err != nil {
		return err
	}

	// --- Phase 2: Publish Phase (個別保存) ---
	if err := runPublishStep(ctx, appCtx, store); err != nil {
		return err
	}

	// --- Phase 3: Collage Phase (コラージュ合成) ---
	if err := runCollageStep(ctx, appCtx, store); err != nil {
		return err
	}

	slog.Info("ポスター生成とコラージュ作成が完了したのだ！")
	return nil
}

// ExecuteSingle は指定ジャンル1枚だけを生成して保存するのだ。
// 気に入らなかった1枚を作り直す用途を想定しています。
func ExecuteSingle(ctx context.Context, cfg *config.Config, genre domain.Genre) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	photoDataURL, err := loadPhotoDataURL(ctx, appCtx, cfg.Options.Photo)
	if err != nil {
		return err
	}

	store := builder.NewPosterStore()
	posterRunner, err := builder.BuildPosterRunner(appCtx, store)
	if err != nil {
		return fmt.Errorf("PosterRunnerの構築に失敗したのだ: %w", err)
	}

	if err := posterRunner.Regenerate(ctx, genre, photoDataURL); err != nil {
		return fmt.Errorf("ジャンル '%s' の生成に失敗したのだ: %w", genre, err)
	}

	publisher, err := builder.BuildPosterPublisher(appCtx, store)
	if err != nil {
		return err
	}
	path, err := publisher.SaveOne(ctx, genre, cfg.Options.OutputImageDir)
	if err != nil {
		return err
	}

	slog.Info("ポスターが完成したのだ！", "genre", genre, "path", path)
	return nil
}

// ExecuteCollageOnly は保存済みの個別ポスターを読み直してコラージュだけを
// 作り直す最終ステージなのだ。生成APIは一切呼びません。
func ExecuteCollageOnly(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	store := builder.NewPosterStore()
	if err := loadSavedPosters(ctx, appCtx, store); err != nil {
		return err
	}

	return runCollageStep(ctx, appCtx, store)
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、アプリケーションコンテキストを初期化して返すのだ。
// ライフサイクル管理用の context と設定オブジェクトを受け取るのだ。
// 初期化中にエラーが発生した場合は、AppContext のポインタとエラーを返すのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	httpClient := httpkit.New(cfg.Options.HTTPTimeout)
	aiClient, err := builder.InitializeAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create ai client: %w", err)
	}

	gcsFactory, err := gcsfactory.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}

	reader, err := gcsFactory.InputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.OutputWriter()
	if err != nil {
		return nil, err
	}

	appCtx := builder.NewAppContext(cfg, httpClient, aiClient, reader, writer)
	return &appCtx, nil
}

// loadPhotoDataURL は --photo の指定を data URL に正規化するのだ。
// ローカルパス、gs://、http(s)://、標準入力('-')、data URL をそのまま、の全対応です。
func loadPhotoDataURL(ctx context.Context, appCtx *builder.AppContext, photo string) (string, error) {
	if photo == "" {
		return "", fmt.Errorf("変換元の写真が指定されていません（--photo）")
	}
	if strings.HasPrefix(photo, "data:") {
		return photo, nil
	}

	var (
		data []byte
		err  error
	)
	switch {
	case photo == "-":
		data, err = io.ReadAll(os.Stdin)
	case strings.HasPrefix(photo, "http://"), strings.HasPrefix(photo, "https://"):
		data, err = appCtx.HTTPClient.FetchBytes(ctx, photo)
	default:
		var rc io.ReadCloser
		rc, err = appCtx.Reader.Open(ctx, photo)
		if err == nil {
			defer rc.Close()
			data, err = io.ReadAll(rc)
		}
	}
	if err != nil {
		return "", fmt.Errorf("写真 '%s' の読み込みに失敗しました: %w", photo, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("写真 '%s' が空です", photo)
	}

	return domain.NewSourceImage(data).DataURL(), nil
}

// loadSavedPosters は出力ディレクトリの my-poster-<genre>.jpg を全ジャンル分
// 読み込んで、生成済み扱いでストアに注入するのだ。
func loadSavedPosters(ctx context.Context, appCtx *builder.AppContext, store *runner.PosterStore) error {
	dir := appCtx.Options.OutputImageDir
	for _, genre := range store.Genres() {
		path, err := asset.ResolveOutputPath(dir, asset.PosterFileName(genre))
		if err != nil {
			return fmt.Errorf("ポスターのパス解決に失敗しました (genre: %s): %w", genre, err)
		}

		rc, err := appCtx.Reader.Open(ctx, path)
		if err != nil {
			return fmt.Errorf("保存済みポスター '%s' を開けませんでした。先に generate を実行してください: %w", path, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("保存済みポスター '%s' の読み込みに失敗しました: %w", path, err)
		}

		store.SetSucceeded(genre, domain.GeneratedImage{Data: data, MimeType: "image/jpeg"})
		slog.Info("保存済みポスターを読み込んだのだ", "genre", genre, "path", path)
	}
	return nil
}

// runGenerateStep は PosterRunner を使って全ジャンルを並列生成するのだ
func runGenerateStep(ctx context.Context, appCtx *builder.AppContext, store *runner.PosterStore, photoDataURL string) error {
	slog.Info("Phase 1: ポスター生成を開始するのだ...", "genres", len(store.Genres()))
	posterRunner, err := builder.BuildPosterRunner(appCtx, store)
	if err != nil {
		return fmt.Errorf("PosterRunnerの構築に失敗したのだ: %w", err)
	}

	if err := posterRunner.RunBatch(ctx, photoDataURL); err != nil {
		return fmt.Errorf("ポスター生成に失敗したのだ: %w", err)
	}
	return nil
}

// runPublishStep は PosterPublisher を使って成功分を個別保存するのだ
func runPublishStep(ctx context.Context, appCtx *builder.AppContext, store *runner.PosterStore) error {
	slog.Info("Phase 2: 個別ポスターの保存を開始するのだ...")
	publisher, err := builder.BuildPosterPublisher(appCtx, store)
	if err != nil {
		return fmt.Errorf("PosterPublisherの構築に失敗したのだ: %w", err)
	}

	paths, err := publisher.SaveAll(ctx, appCtx.Options.OutputImageDir)
	if err != nil {
		return fmt.Errorf("ポスターの保存に失敗したのだ: %w", err)
	}
	slog.Info("個別ポスターを保存したのだ", "count", len(paths))
	return nil
}

// runCollageStep は CollageRunner を使ってコラージュを合成・保存するのだ。
// 1ジャンルでも欠けていれば IncompleteInputSet で失敗し、部分コラージュは作りません。
func runCollageStep(ctx context.Context, appCtx *builder.AppContext, store *runner.PosterStore) error {
	slog.Info("Phase 3: コラージュ合成を開始するのだ...")
	collageRunner, err := builder.BuildCollageRunner(appCtx, store)
	if err != nil {
		return fmt.Errorf("CollageRunnerの構築に失敗したのだ: %w", err)
	}

	path, err := collageRunner.RunAndSave(ctx, appCtx.Options.OutputImageDir)
	if err != nil {
		return fmt.Errorf("コラージュの作成に失敗したのだ: %w", err)
	}

	slog.Info("コラージュが完成したのだ！", "path", path)
	return nil
}
