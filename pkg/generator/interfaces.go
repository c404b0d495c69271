package generator

import (
	"context"
	"time"

	"github.com/shouni/go-gemini-client/gemini"
	"google.golang.org/genai"

	"github.com/shouni/go-poster-kit/pkg/domain"
)

// GenerativeModel は、このパッケージが必要とする Gemini クライアントの最小インターフェースです。
// go-gemini-client の実装をそのまま渡せます。
type GenerativeModel interface {
	GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

// PosterGenerator はビジネスロジック層（runner）が利用する窓口です。
type PosterGenerator interface {
	// Generate は data URL 形式の写真と変換プロンプトからポスター画像を1枚生成します。
	Generate(ctx context.Context, imageDataURL, prompt string) (*domain.GeneratedImage, error)
}

// SourceCacher はデコード済みソース画像のキャッシュ操作を抽象化するインターフェースです。
// patrickmn/go-cache がそのまま実装を満たします。nil 許容（キャッシュなし動作）。
type SourceCacher interface {
	Get(key string) (any, bool)
	Set(key string, value any, d time.Duration)
}
