package cmd

import (
	"log/slog"

	"github.com/shouni/go-poster-kit/internal/config"
	"github.com/shouni/go-poster-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// collageCmd は、保存済みの個別ポスターからコラージュだけを作り直すサブコマンドなのだ。
// 生成APIは一切呼ばないので、タイトルやレイアウト調整のやり直しが無料でできるのだ。
var collageCmd = &cobra.Command{
	Use:   "collage",
	Short: "保存済みポスターからコラージュだけを作り直すのだ。",
	Long: `出力ディレクトリにある my-poster-<genre>.jpg を全ジャンル分読み込み、
1枚のコラージュ（my-poster-collection.jpg）として合成し直すのだ。
全ジャンル分のポスターが揃っていない場合は失敗するのだ。`,
	RunE: collageCommand,
}

func init() {
}

// collageCommand は、collage サブコマンドの実行ロジック本体なのだ。
func collageCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 環境変数から基本設定をロード
	cfg := config.LoadConfig()

	// 2. コマンドライン引数の値を反映
	cfg.Options = opts

	slog.Info("コラージュ再合成モードを起動するのだ！",
		"input_dir", opts.OutputImageDir)

	// 3. パイプライン実行
	return pipeline.ExecuteCollageOnly(ctx, cfg)
}
