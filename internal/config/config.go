package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultImageModel    = "gemini-3-pro-image-preview"
	DefaultHTTPTimeout   = 30 * time.Second
	DefaultWorkerCount   = 2
	DefaultRateInterval  = 0 * time.Second // 0 は流量制限なし
	DefaultLocalPhoto    = "examples/photo.jpg"
	DefaultLocalImageDir = "output/posters" // ポスターとコラージュのデフォルト保存先なのだ
)

// Config はアプリケーション全体の環境設定（APIキーやクラウド設定）を保持する構造体なのだ。
type Config struct {
	ProjectID        string
	LocationID       string
	GeminiAPIKey     string
	GeminiImageModel string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	cfg := &Config{
		ProjectID:        envutil.GetEnv("PROJECT_ID", ""),
		LocationID:       envutil.GetEnv("REGION", ""),
		GeminiAPIKey:     envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiImageModel: envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
	}
	return cfg
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// ソース入力関連
	Photo string // --photo: 変換元の写真（ローカルパス、URL、'-'で標準入力）

	// 生成結果の出力設定
	OutputImageDir string // --output-image-dir
	CollageTitle   string // --collage-title
	CollageSub     string // --collage-subtitle

	// AI挙動設定
	ImageModel string // --image-model: 画像生成用のGeminiモデル

	// 実行制御
	Workers      int           // --workers: 同時生成数の上限
	RateInterval time.Duration // --rate-interval: 生成呼び出しの最小間隔
	HTTPTimeout  time.Duration // --http-timeout
}
