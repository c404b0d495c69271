package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-gemini-client/gemini"
	"google.golang.org/genai"

	"github.com/shouni/go-poster-kit/pkg/domain"
)

const (
	// maxAttempts はリモート呼び出し1系統あたりの試行回数上限です（初回含む）。
	maxAttempts = 3
	// defaultRetryBaseDelay は初回リトライまでの待機時間です。以降は倍々で伸びます。
	defaultRetryBaseDelay = 1000 * time.Millisecond
	// posterAspectRatio は全ポスター共通の縦長アスペクト比です。
	posterAspectRatio = "2:3"

	sourceCacheTTL    = 30 * time.Minute
	cacheKeySourceImg = "source_image:"
)

// Config は Client の動作設定です。
type Config struct {
	// Model は画像生成に使う Gemini モデル名です。
	Model string
	// RetryBaseDelay はリトライの初期待機時間です。ゼロ値ならデフォルト(1000ms)を使います。
	RetryBaseDelay time.Duration
}

// Client は1枚の写真を1枚のジャンル別ポスターに変換する生成クライアントです。
// 呼び出し間で共有する可変状態を持たないため、異なるリクエストを並行に投げても安全です。
type Client struct {
	aiClient  GenerativeModel
	model     string
	baseDelay time.Duration
	cache     SourceCacher

	// waitFn はリトライ待機の実体。テストから差し替えられるように分離しています。
	waitFn func(ctx context.Context, d time.Duration) error
}

// NewClient は依存関係を注入して Client を初期化します。cache は nil を許容します。
func NewClient(aiClient GenerativeModel, cfg Config, cache SourceCacher) (*Client, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultRetryBaseDelay
	}

	return &Client{
		aiClient:  aiClient,
		model:     cfg.Model,
		baseDelay: baseDelay,
		cache:     cache,
		waitFn:    sleepContext,
	}, nil
}

// Generate は写真とプロンプトからポスターを1枚生成します。
//
// 最初の試行が ContentBlocked か NoImageInResponse に分類された場合に限り、
// プロンプトからジャンルを逆引きし、中立的なフォールバックプロンプトで
// もう一巡だけ（独立したリトライ予算つきで）再実行します。第三の戦略はありません。
func (c *Client) Generate(ctx context.Context, imageDataURL, prompt string) (*domain.GeneratedImage, error) {
	src, err := c.parseSource(imageDataURL)
	if err != nil {
		// 形式不一致は通信もリトライも行わず即座に返す
		return nil, err
	}

	img, origErr := c.generateOnce(ctx, src, prompt)
	if origErr == nil {
		return img, nil
	}

	if !fallbackEligible(origErr) {
		return nil, origErr
	}

	genre, ok := domain.DetectGenre(prompt)
	if !ok {
		slog.WarnContext(ctx, "プロンプトからジャンルを特定できないためフォールバックしません", "error", origErr)
		return nil, origErr
	}

	slog.InfoContext(ctx, "中立プロンプトでフォールバック生成を試みます",
		"genre", genre, "kind", domain.KindOf(origErr).String())

	img, fbErr := c.generateOnce(ctx, src, fallbackPrompt(genre))
	if fbErr != nil {
		// 両方の失敗を参照する複合メッセージにまとめる
		return nil, domain.NewFailure(domain.KindOf(fbErr),
			fmt.Sprintf("フォールバック生成も失敗しました (元の失敗: %v)", origErr), fbErr)
	}
	return img, nil
}

// generateOnce は1つのプロンプトに対する「リトライ込みの1系統」を実行します。
func (c *Client) generateOnce(ctx context.Context, src domain.SourceImage, prompt string) (*domain.GeneratedImage, error) {
	resp, err := c.callWithRetry(ctx, src, prompt)
	if err != nil {
		return nil, err
	}
	return classifyResponse(resp)
}

// callWithRetry はリモート呼び出しを最大 maxAttempts 回試行します。
// リトライするのは一時的なサーバー障害と分類された場合だけで、
// 待機時間は baseDelay から倍々（1000ms, 2000ms）です。
func (c *Client) callWithRetry(ctx context.Context, src domain.SourceImage, prompt string) (*genai.GenerateContentResponse, error) {
	parts := []*genai.Part{
		{Text: prompt},
		{InlineData: &genai.Blob{MIMEType: src.MimeType, Data: src.Data}},
	}
	opts := gemini.GenerateOptions{AspectRatio: posterAspectRatio}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := c.aiClient.GenerateWithParts(ctx, c.model, parts, opts)
		if err == nil {
			if resp == nil || resp.RawResponse == nil {
				return nil, domain.NewFailure(domain.KindRemoteFailurePermanent,
					"Geminiから有効な応答が返されませんでした", nil)
			}
			return resp.RawResponse, nil
		}

		if !isTransient(err) {
			return nil, domain.NewFailure(domain.KindRemoteFailurePermanent,
				"リモート呼び出しが失敗しました", err)
		}

		lastErr = err
		if attempt < maxAttempts {
			delay := c.baseDelay << (attempt - 1)
			slog.WarnContext(ctx, "一時的なサーバー障害のためリトライします",
				"attempt", attempt, "max_attempts", maxAttempts, "delay", delay, "error", err)
			if werr := c.waitFn(ctx, delay); werr != nil {
				return nil, werr
			}
		}
	}

	return nil, domain.NewFailure(domain.KindRemoteFailurePermanent,
		fmt.Sprintf("リトライ上限（%d回）に達しました", maxAttempts), lastErr)
}

// parseSource は data URL を検証・デコードします。同じ写真が6ジャンル分
// 使い回されるため、デコード結果をダイジェストキーでキャッシュします。
func (c *Client) parseSource(imageDataURL string) (domain.SourceImage, error) {
	digest := sha256.Sum256([]byte(imageDataURL))
	key := cacheKeySourceImg + hex.EncodeToString(digest[:8])

	if c.cache != nil {
		if val, ok := c.cache.Get(key); ok {
			if src, ok := val.(domain.SourceImage); ok {
				return src, nil
			}
		}
	}

	src, err := domain.ParseDataURL(imageDataURL)
	if err != nil {
		return domain.SourceImage{}, err
	}

	if c.cache != nil {
		c.cache.Set(key, src, sourceCacheTTL)
	}
	return src, nil
}

// fallbackEligible はフォールバックの契機になる失敗分類かどうかを返します。
func fallbackEligible(err error) bool {
	switch domain.KindOf(err) {
	case domain.KindContentBlocked, domain.KindNoImageInResponse:
		return true
	default:
		return false
	}
}

// isTransient はリモートエラーが一時的なサーバー障害（5xx）かどうかを判定します。
func isTransient(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code >= 500
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
