package collage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-poster-kit/pkg/domain"
)

const (
	// DefaultTitle / DefaultSubtitle はコラージュ上部の見出しです。
	DefaultTitle    = "MY MOVIE POSTERS"
	DefaultSubtitle = "one photo, six genres"

	// defaultJPEGQuality はコラージュ出力のJPEG品質です。
	defaultJPEGQuality = 90

	shadowOffsetX = 14.0
	shadowOffsetY = 20.0
)

// Item はコラージュ入力の1件です。Genre がユニークキー、Data は生成済み画像の
// エンコード済みバイト列です。スライスの順序が1回の呼び出し内の安定順序になります。
type Item struct {
	Genre domain.Genre
	Data  []byte
}

// Config は Compositor の外観設定です。ゼロ値でデフォルトが使われます。
type Config struct {
	Title       string
	Subtitle    string
	JPEGQuality int
}

// Compositor は完成したポスター群を1枚のコラージュ画像に合成します。
// 回転ジッタ以外は同じ入力に対して完全に決定的です。
type Compositor struct {
	title    string
	subtitle string
	quality  int
	fonts    *fontSet
	rng      *rand.Rand
}

// NewCompositor はフォントを読み込んで Compositor を初期化します。
func NewCompositor(cfg Config) (*Compositor, error) {
	fonts, err := loadFontSet()
	if err != nil {
		return nil, err
	}

	title := cfg.Title
	if title == "" {
		title = DefaultTitle
	}
	subtitle := cfg.Subtitle
	if subtitle == "" {
		subtitle = DefaultSubtitle
	}
	quality := cfg.JPEGQuality
	if quality <= 0 {
		quality = defaultJPEGQuality
	}

	return &Compositor{
		title:    title,
		subtitle: subtitle,
		quality:  quality,
		fonts:    fonts,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Compose は全アイテムをデコードし、固定2480x3508キャンバスに重ね置き風の
// グリッドで描画して、JPEGバイト列を返します。
//
// デコードは全件並行で発行して待ち合わせます（唯一のサスペンションポイント）。
// 1件でもデコードに失敗したら部分的なコラージュは作らず、どのジャンルで
// 失敗したかを示すエラーで全体を中断します。
func (c *Compositor) Compose(ctx context.Context, items []Item) ([]byte, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("合成対象のアイテムがありません")
	}

	decoded := make([]image.Image, len(items))
	eg, _ := errgroup.WithContext(ctx)
	for i := range items {
		eg.Go(func() error {
			img, _, err := image.Decode(bytes.NewReader(items[i].Data))
			if err != nil {
				return domain.NewFailure(domain.KindDecodeFailure,
					fmt.Sprintf("ジャンル '%s' のポスター画像を読み込めませんでした", items[i].Genre), err)
			}
			decoded[i] = img
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	slog.Info("コラージュ合成を開始します", "items", len(items),
		"canvas", fmt.Sprintf("%dx%d", CanvasWidth, CanvasHeight))

	dc := gg.NewContext(CanvasWidth, CanvasHeight)

	// 温かみのあるオフホワイトで全面を塗る
	dc.SetRGB255(245, 240, 230)
	dc.Clear()

	c.drawHeader(dc)

	// 後ろのアイテムから先に描く（逆順スタッキング）。
	// 配置座標は元のインデックスから計算するので描画順は見た目の位置に影響しない。
	lay := newLayout(len(items))
	for i := len(items) - 1; i >= 0; i-- {
		c.drawPoster(dc, lay.posterFrame(i), items[i].Genre, decoded[i])
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, dc.Image(), &jpeg.Options{Quality: c.quality}); err != nil {
		return nil, fmt.Errorf("コラージュのJPEGエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Compositor) drawHeader(dc *gg.Context) {
	cx := float64(CanvasWidth) / 2

	dc.SetFontFace(c.fonts.title)
	dc.SetRGB255(40, 32, 28)
	dc.DrawStringAnchored(c.title, cx, headerBand*0.48, 0.5, 0.5)

	dc.SetFontFace(c.fonts.subtitle)
	dc.SetRGB255(110, 96, 84)
	dc.DrawStringAnchored(c.subtitle, cx, headerBand*0.82, 0.5, 0.5)
}

// drawPoster は1枚分を「回転→影→黒地→画像（アスペクトフィット）→
// グラデーション帯→キャプション」の順で描きます。
func (c *Compositor) drawPoster(dc *gg.Context, fr frame, genre domain.Genre, img image.Image) {
	angle := c.jitter()
	dc.Push()
	defer dc.Pop()
	dc.RotateAbout(angle, fr.X+fr.W/2, fr.Y+fr.H/2)

	// ドロップシャドウ
	dc.SetRGBA(0, 0, 0, 0.30)
	dc.DrawRectangle(fr.X+shadowOffsetX, fr.Y+shadowOffsetY, fr.W, fr.H)
	dc.Fill()

	// レターボックス用の黒地。元画像が2:3でないときの余白になる
	dc.SetRGB(0, 0, 0)
	dc.DrawRectangle(fr.X, fr.Y, fr.W, fr.H)
	dc.Fill()

	// 元画像はクロップせずアスペクトフィットで収める
	iw := float64(img.Bounds().Dx())
	ih := float64(img.Bounds().Dy())
	if iw > 0 && ih > 0 {
		scale := math.Min(fr.W/iw, fr.H/ih)
		dc.Push()
		dc.Translate(fr.X+(fr.W-iw*scale)/2, fr.Y+(fr.H-ih*scale)/2)
		dc.Scale(scale, scale)
		dc.DrawImage(img, 0, 0)
		dc.Pop()
	}

	// 下端のグラデーション帯（透明→約80%黒）
	bandH := fr.H * captionBandRatio
	bandTop := fr.Y + fr.H - bandH
	grad := gg.NewLinearGradient(0, bandTop, 0, fr.Y+fr.H)
	grad.AddColorStop(0, color.RGBA{0, 0, 0, 0})
	grad.AddColorStop(1, color.RGBA{0, 0, 0, 204})
	dc.SetFillStyle(grad)
	dc.DrawRectangle(fr.X, bandTop, fr.W, bandH)
	dc.Fill()

	// キャプション（ジャンル名）。視認性のため影を先に落とす
	capX := fr.X + fr.W/2
	capY := bandTop + bandH*0.58
	dc.SetFontFace(c.fonts.caption)
	dc.SetRGBA(0, 0, 0, 0.8)
	dc.DrawStringAnchored(string(genre), capX+3, capY+3, 0.5, 0.5)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(string(genre), capX, capY, 0.5, 0.5)
}

// jitter は (-maxRotationRad, +maxRotationRad) の一様乱数を返します。
func (c *Compositor) jitter() float64 {
	return (c.rng.Float64()*2 - 1) * maxRotationRad
}
