package prompts

import (
	"strings"
	"testing"

	"github.com/shouni/go-poster-kit/pkg/domain"
)

func TestPosterPromptBuilder_Build(t *testing.T) {
	b, err := NewPosterPromptBuilder()
	if err != nil {
		t.Fatalf("builder init failed: %v", err)
	}

	t.Run("全ジャンルのプロンプトにジャンル名が含まれる", func(t *testing.T) {
		for _, g := range domain.AllGenres() {
			prompt, err := b.Build(g)
			if err != nil {
				t.Fatalf("Build(%s) failed: %v", g, err)
			}
			if !strings.Contains(strings.ToLower(prompt), strings.ToLower(string(g))) {
				t.Errorf("プロンプトにジャンル名 %q が含まれていません: %s", g, prompt)
			}
			// 生成したプロンプトからジャンルを逆引きできること（フォールバックの前提）
			if detected, ok := domain.DetectGenre(prompt); !ok || detected != g {
				t.Errorf("DetectGenre の逆引きに失敗: got (%q, %v), want %q", detected, ok, g)
			}
		}
	})

	t.Run("未知のジャンルはエラー", func(t *testing.T) {
		if _, err := b.Build(domain.Genre("Musical")); err == nil {
			t.Error("expected error for unknown genre")
		}
	})
}
