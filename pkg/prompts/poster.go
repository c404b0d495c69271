package prompts

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/shouni/go-poster-kit/pkg/domain"
)

// posterTemplate は全ジャンル共通の変換指示です。
// ジャンル名 {{.Genre}} を必ず本文に含めます。フォールバック時に
// プロンプトの部分一致でジャンルを逆引きするための前提条件です。
const posterTemplate = `Transform the person in this photo into the star of a {{.Genre}} movie poster. {{.Style}} Keep the person's face clearly recognizable and in a heroic leading-role pose. Theatrical one-sheet composition, cinematic lighting, space for a title treatment near the bottom, high resolution, 2:3 portrait aspect.`

// styleDirectives はジャンルごとの画風ディレクティブです。
var styleDirectives = map[domain.Genre]string{
	domain.GenreAction:  "Explosions and debris in the background, dramatic orange-and-teal color grade, intense expression, sparks flying.",
	domain.GenreRomance: "Soft golden-hour backlight, warm pastel palette, dreamy bokeh, a gentle longing expression.",
	domain.GenreHorror:  "Deep shadows and fog, desaturated cold palette, unsettling atmosphere, scratched grunge texture.",
	domain.GenreSciFi:   "Neon holograms and starfields, chrome and glass architecture, cool blue palette, futuristic costume.",
	domain.GenreComedy:  "Bright saturated colors, playful exaggerated expression, confetti and quirky props, bold pop typography feel.",
	domain.GenreWestern: "Dusty desert sunset, weathered sepia tones, wide-brimmed hat silhouette, vintage distressed print look.",
}

// PosterPromptBuilder はジャンル別ポスタープロンプトを構築します。
type PosterPromptBuilder struct {
	tmpl *template.Template
}

type templateData struct {
	Genre string
	Style string
}

// NewPosterPromptBuilder はテンプレートを解析して PosterPromptBuilder を初期化します。
func NewPosterPromptBuilder() (*PosterPromptBuilder, error) {
	tmpl, err := template.New("poster").Parse(posterTemplate)
	if err != nil {
		return nil, fmt.Errorf("ポスタープロンプトテンプレートの解析に失敗しました: %w", err)
	}
	return &PosterPromptBuilder{tmpl: tmpl}, nil
}

// Build は指定ジャンルの変換プロンプトを返します。
func (b *PosterPromptBuilder) Build(genre domain.Genre) (string, error) {
	style, ok := styleDirectives[genre]
	if !ok {
		return "", fmt.Errorf("未知のジャンルです: '%s'", genre)
	}

	var sb strings.Builder
	if err := b.tmpl.Execute(&sb, templateData{Genre: string(genre), Style: style}); err != nil {
		return "", fmt.Errorf("プロンプトテンプレートの実行に失敗しました: %w", err)
	}
	return sb.String(), nil
}
