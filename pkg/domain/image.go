package domain

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"regexp"
)

// dataURLRegex は data:<mime>;base64,<payload> 形式だけを受け付けます。
// この形式以外の入力はリトライせず即座に InvalidInputFormat として扱います。
var dataURLRegex = regexp.MustCompile(`^data:([a-z]+/[a-z0-9.+-]+);base64,([A-Za-z0-9+/]+={0,2})$`)

// SourceImage は呼び出し側から渡される元写真のペイロードです。
// 生成1回分のライフサイクルに閉じた不変データとして扱います。
type SourceImage struct {
	MimeType string
	Data     []byte
}

// NewSourceImage は生バイト列から MIME タイプを推定して SourceImage を作ります。
func NewSourceImage(data []byte) SourceImage {
	return SourceImage{
		MimeType: http.DetectContentType(data),
		Data:     data,
	}
}

// ParseDataURL は data URL 文字列を検証して SourceImage に変換します。
// 形式が一致しない場合は KindInvalidInputFormat の Failure を返すのだ。
func ParseDataURL(raw string) (SourceImage, error) {
	m := dataURLRegex.FindStringSubmatch(raw)
	if m == nil {
		return SourceImage{}, NewFailure(KindInvalidInputFormat,
			"画像ペイロードが data:<mime>;base64,<data> 形式ではありません", nil)
	}

	data, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return SourceImage{}, NewFailure(KindInvalidInputFormat,
			fmt.Sprintf("base64ペイロードのデコードに失敗しました: %v", err), err)
	}

	return SourceImage{MimeType: m[1], Data: data}, nil
}

// DataURL は SourceImage を data URL 文字列に書き戻します。
func (s SourceImage) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", s.MimeType, base64.StdEncoding.EncodeToString(s.Data))
}

// GeneratedImage は生成に成功したポスター画像です。
// Data と MimeType はリモート応答の InlineData をそのまま保持します（再エンコードなし）。
type GeneratedImage struct {
	Data     []byte
	MimeType string
}
