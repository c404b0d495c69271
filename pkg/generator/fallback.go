package generator

import (
	"fmt"

	"github.com/shouni/go-poster-kit/pkg/domain"
)

// fallbackTemplate はセーフティ拒否後に使う中立プロンプトです。
// 変換の枠組み（写真の人物→ジャンル別ポスター）は元プロンプトと同じまま、
// 引っかかりうる描写的な言い回しをすべて取り除いてあります。
const fallbackTemplate = "Transform the person in this photo into the star of a %s movie poster. Keep the styling tasteful and family-friendly, with a simple cinematic background, clear space for a title treatment, and the person's face clearly recognizable. 2:3 portrait aspect."

// fallbackPrompt は指定ジャンル向けの内容中立なフォールバックプロンプトを返します。
func fallbackPrompt(genre domain.Genre) string {
	return fmt.Sprintf(fallbackTemplate, genre)
}
