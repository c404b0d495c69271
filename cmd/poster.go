package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-poster-kit/internal/config"
	"github.com/shouni/go-poster-kit/internal/pipeline"
	"github.com/shouni/go-poster-kit/pkg/domain"

	"github.com/spf13/cobra"
)

// posterGenre は --genre フラグの生値なのだ。
var posterGenre string

// posterCmd は、指定した1ジャンルだけポスターを作り直すためのサブコマンドなのだ。
// バッチ全体を回し直さずに、気に入らない1枚だけ再生成したい場合に使うのだ。
var posterCmd = &cobra.Command{
	Use:   "poster",
	Short: "1ジャンル分のポスターだけを生成・保存するのだ。",
	Long: `写真1枚と対象ジャンルを指定して、そのジャンルのポスターのみを生成して保存するのだ。
全ジャンルの一括生成をやり直すコストを抑えつつ、特定の1枚を再生成できるのだ。`,
	RunE: posterCommand,
}

// init は、poster コマンドに必要なフラグを定義し、コマンド体系に登録するための初期化関数なのだ。
func init() {
	posterCmd.Flags().StringVarP(&posterGenre, "genre", "g", "", "生成するジャンル名なのだ（Action / Romance / Horror / Sci-Fi / Comedy / Western）。")
}

// posterCommand は、poster サブコマンドの実行ロジック本体なのだ。
func posterCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.Photo == "" {
		return fmt.Errorf("変換元の写真（--photo）を指定してほしいのだ")
	}

	genre, ok := domain.ParseGenre(posterGenre)
	if !ok {
		names := make([]string, 0, len(domain.AllGenres()))
		for _, g := range domain.AllGenres() {
			names = append(names, string(g))
		}
		return fmt.Errorf("ジャンル '%s' は対象外なのだ。指定できるのは %s なのだ", posterGenre, strings.Join(names, " / "))
	}

	// 1. 環境変数から基本設定をロード
	cfg := config.LoadConfig()

	// 2. コマンドライン引数の値を反映
	cfg.Options = opts
	cfg.GeminiImageModel = opts.ImageModel

	slog.Info("単一ポスター生成モードを起動するのだ！",
		"genre", genre,
		"photo", opts.Photo,
		"image_model", cfg.GeminiImageModel)

	// 3. パイプライン実行
	return pipeline.ExecuteSingle(ctx, cfg, genre)
}
