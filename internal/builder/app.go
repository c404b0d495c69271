package builder

import (
	"github.com/shouni/go-poster-kit/internal/config"

	"github.com/shouni/go-gemini-client/gemini"
	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config     *config.Config          // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、プロジェクトIDなど）。
	Options    config.GenerateOptions  // Optionsは、コマンドラインから渡された実行時の設定です（写真パス、モデル名など）。
	Reader     remoteio.InputReader    // Readerは、元写真や保存済みポスターの読み込みに使用する入力元です。
	Writer     remoteio.OutputWriter   // Writerは、ポスターとコラージュを保存するための出力先です。
	AIClient   gemini.GenerativeModel  // AIClient はGeminiの通信に使う共通クライアント
	HTTPClient httpkit.HTTPClient // HTTPClient はWeb上の写真取得に使う共通クライアント
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(
	cfg *config.Config,
	httpClient httpkit.HTTPClient,
	aiClient gemini.GenerativeModel,
	reader remoteio.InputReader,
	writer remoteio.OutputWriter,
) AppContext {
	return AppContext{
		Config:     cfg,
		Options:    cfg.Options,
		AIClient:   aiClient,
		HTTPClient: httpClient,
		Reader:     reader,
		Writer:     writer,
	}
}
