package runner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-image-kit/imgutil"

	"github.com/shouni/go-poster-kit/pkg/asset"
	"github.com/shouni/go-poster-kit/pkg/domain"
)

// PosterPublisher は個別ポスターをダウンロード用のJPEGとして保存します。
// 生成結果のフォーマットに関係なく、品質95のJPEGに再エンコードします。
type PosterPublisher struct {
	store  *PosterStore
	writer OutputWriter
}

// NewPosterPublisher は依存関係を注入して PosterPublisher を初期化します。
func NewPosterPublisher(store *PosterStore, writer OutputWriter) (*PosterPublisher, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if writer == nil {
		return nil, fmt.Errorf("writer is required")
	}
	return &PosterPublisher{store: store, writer: writer}, nil
}

// SaveOne は1ジャンル分のポスターを my-poster-<genre>.jpg として保存します。
func (p *PosterPublisher) SaveOne(ctx context.Context, genre domain.Genre, outputDir string) (string, error) {
	result, state := p.store.Result(genre)
	img, ok := result.Image()
	if state != StateSucceeded || !ok {
		return "", fmt.Errorf("ジャンル '%s' は保存できる状態ではありません (state: %s)", genre, state)
	}

	jpegData, err := imgutil.CompressToJPEG(bytes.NewReader(img.Data), asset.PosterJPEGQuality)
	if err != nil {
		return "", domain.NewFailure(domain.KindDecodeFailure,
			fmt.Sprintf("ジャンル '%s' のJPEG変換に失敗しました", genre), err)
	}

	path, err := asset.ResolveOutputPath(outputDir, asset.PosterFileName(genre))
	if err != nil {
		return "", fmt.Errorf("出力パスの解決に失敗しました: %w", err)
	}

	if err := p.writer.Write(ctx, path, bytes.NewReader(jpegData), "image/jpeg"); err != nil {
		return "", fmt.Errorf("ポスターの保存に失敗しました (path: %s): %w", path, err)
	}
	return path, nil
}

// SaveAll は成功済みの全ポスターを保存し、保存先パスの一覧を返します。
// 失敗・未完了のジャンルは警告だけ出して飛ばします。
func (p *PosterPublisher) SaveAll(ctx context.Context, outputDir string) ([]string, error) {
	var paths []string
	for _, genre := range p.store.Genres() {
		if p.store.State(genre) != StateSucceeded {
			slog.WarnContext(ctx, "未完了のジャンルをスキップします",
				"genre", genre, "state", p.store.State(genre).String())
			continue
		}

		path, err := p.SaveOne(ctx, genre, outputDir)
		if err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "ポスターを保存したのだ", "genre", genre, "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}
