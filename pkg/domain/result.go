package domain

// GenerationResult は StyleRequest 1件分の結果を表すタグ付きユニオンです。
// 成功と失敗は排他で、両方が同時に埋まることは構造上ありえません。
// フィールドを非公開にし、コンストラクタ経由でのみ生成します。
type GenerationResult struct {
	image   *GeneratedImage
	failure *Failure
}

// Succeeded は成功結果を作ります。
func Succeeded(img GeneratedImage) GenerationResult {
	return GenerationResult{image: &img}
}

// Failed は失敗結果を作ります。
func Failed(f *Failure) GenerationResult {
	if f == nil {
		f = NewFailure(KindUnknown, "原因不明の失敗", nil)
	}
	return GenerationResult{failure: f}
}

// IsSuccess は成功かどうかを返します。
func (r GenerationResult) IsSuccess() bool { return r.image != nil }

// Image は成功時の画像を返します。失敗時は ok=false です。
func (r GenerationResult) Image() (GeneratedImage, bool) {
	if r.image == nil {
		return GeneratedImage{}, false
	}
	return *r.image, true
}

// Err は失敗時のエラーを返します。成功時は nil です。
func (r GenerationResult) Err() error {
	if r.failure == nil {
		return nil
	}
	return r.failure
}
