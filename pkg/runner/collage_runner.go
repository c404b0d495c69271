package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/go-poster-kit/pkg/asset"
	"github.com/shouni/go-poster-kit/pkg/collage"
)

// OutputWriter は成果物の保存先（ローカル or gs://）への最小インターフェースです。
// go-remote-io の OutputWriter がそのまま実装を満たします。
type OutputWriter interface {
	Write(ctx context.Context, uri string, body io.Reader, contentType string) error
}

// CollageRunner は完成したポスター一式を1枚のコラージュに合成して保存します。
type CollageRunner struct {
	store  *PosterStore
	comp   *collage.Compositor
	writer OutputWriter
}

// NewCollageRunner は依存関係を注入して CollageRunner を初期化します。
func NewCollageRunner(store *PosterStore, comp *collage.Compositor, writer OutputWriter) (*CollageRunner, error) {
	if store == nil || comp == nil {
		return nil, fmt.Errorf("store and compositor are required")
	}
	return &CollageRunner{store: store, comp: comp, writer: writer}, nil
}

// Run は全ジャンルが成功しているときだけコラージュを合成して返します。
// 未完了があれば IncompleteInputSet で拒否し、どのジャンルが欠けているかを報告します。
func (r *CollageRunner) Run(ctx context.Context) ([]byte, error) {
	items, err := r.store.CompletedItems()
	if err != nil {
		return nil, err
	}
	return r.comp.Compose(ctx, items)
}

// RunAndSave はコラージュを合成し、固定ファイル名で outputDir に保存します。
func (r *CollageRunner) RunAndSave(ctx context.Context, outputDir string) (string, error) {
	if r.writer == nil {
		return "", fmt.Errorf("output writer is not configured")
	}

	data, err := r.Run(ctx)
	if err != nil {
		return "", err
	}

	path, err := asset.ResolveOutputPath(outputDir, asset.CollageFileName)
	if err != nil {
		return "", fmt.Errorf("コラージュの出力パスを解決できませんでした: %w", err)
	}

	if err := r.writer.Write(ctx, path, bytes.NewReader(data), "image/jpeg"); err != nil {
		return "", fmt.Errorf("コラージュの保存に失敗しました (path: %s): %w", path, err)
	}

	slog.InfoContext(ctx, "コラージュを保存したのだ", "path", path, "bytes", len(data))
	return path, nil
}
