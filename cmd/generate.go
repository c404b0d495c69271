package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shouni/go-poster-kit/internal/config"
	"github.com/shouni/go-poster-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// generateCmd は、1枚の写真から全ジャンルのポスターとコラージュを生成するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "写真から全ジャンルの映画ポスターとコラージュを生成しますなのだ。",
	Long: `1枚の写真を入力として、全ジャンル（Action / Romance / Horror / Sci-Fi / Comedy / Western）の
映画ポスターを並列生成し、個別保存したうえで1枚のコラージュに合成するのだ。`,
	RunE: generateCommand,
}

func init() {
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 必須チェック
	if opts.Photo == "" && !isStdin() {
		return fmt.Errorf("変換元の写真（--photo）を指定してほしいのだ")
	}
	if opts.Photo == "" {
		opts.Photo = "-"
	}

	// 2. 環境変数等から基本設定をロードするのだ
	cfg := config.LoadConfig()
	cfg.GeminiImageModel = opts.ImageModel
	cfg.Options = opts

	slog.Info("ポスター生成パイプラインを起動するのだ！",
		"photo", opts.Photo,
		"image_model", cfg.GeminiImageModel,
		"workers", opts.Workers,
		"output_dir", opts.OutputImageDir)

	// 3. 更新した config を考慮しつつパイプラインを実行するのだ
	err := pipeline.Execute(ctx, cfg)
	if err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	slog.Info("すべての生成工程が完了したのだ！")
	return nil
}

func isStdin() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
