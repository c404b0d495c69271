package collage

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
)

// フォントは配布物に依存しないよう Go 標準書体を埋め込みで使います。
const (
	titleFontSize    = 170
	subtitleFontSize = 60
	captionFontSize  = 54
)

type fontSet struct {
	title    font.Face
	subtitle font.Face
	caption  font.Face
}

func loadFontSet() (*fontSet, error) {
	title, err := loadFace(gobolditalic.TTF, titleFontSize)
	if err != nil {
		return nil, fmt.Errorf("タイトルフォントの読み込みに失敗しました: %w", err)
	}
	subtitle, err := loadFace(goitalic.TTF, subtitleFontSize)
	if err != nil {
		return nil, fmt.Errorf("サブタイトルフォントの読み込みに失敗しました: %w", err)
	}
	caption, err := loadFace(gobold.TTF, captionFontSize)
	if err != nil {
		return nil, fmt.Errorf("キャプションフォントの読み込みに失敗しました: %w", err)
	}

	return &fontSet{title: title, subtitle: subtitle, caption: caption}, nil
}

func loadFace(ttf []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}
