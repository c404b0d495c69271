package generator

import (
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/shouni/go-poster-kit/pkg/domain"
)

func TestClassifyResponse(t *testing.T) {
	t.Run("正常系: インライン画像を無加工で返す", func(t *testing.T) {
		resp := imageResponse("image/png", []byte("png-bytes")).RawResponse

		img, err := classifyResponse(resp)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if img.MimeType != "image/png" || string(img.Data) != "png-bytes" {
			t.Errorf("image mismatch: %+v", img)
		}
	})

	t.Run("候補なし: ブロック理由つきなら ContentBlocked", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
				BlockReason:        "PROHIBITED_CONTENT",
				BlockReasonMessage: "policy violation",
			},
		}

		_, err := classifyResponse(resp)
		if domain.KindOf(err) != domain.KindContentBlocked {
			t.Fatalf("kind = %s, want content_blocked", domain.KindOf(err))
		}
		if !strings.Contains(err.Error(), "PROHIBITED_CONTENT") || !strings.Contains(err.Error(), "policy violation") {
			t.Errorf("診断メッセージにブロック理由が含まれていません: %v", err)
		}
	})

	t.Run("候補なし: ブロック理由もなければ恒久失敗", func(t *testing.T) {
		_, err := classifyResponse(&genai.GenerateContentResponse{})
		if domain.KindOf(err) != domain.KindRemoteFailurePermanent {
			t.Errorf("kind = %s, want remote_failure_permanent", domain.KindOf(err))
		}
	})

	t.Run("SAFETY完了は ContentBlocked、診断にセーフティ評価を含む", func(t *testing.T) {
		resp := safetyResponse(genai.FinishReason("SAFETY")).RawResponse

		_, err := classifyResponse(resp)
		if domain.KindOf(err) != domain.KindContentBlocked {
			t.Fatalf("kind = %s, want content_blocked", domain.KindOf(err))
		}
		if !strings.Contains(err.Error(), "SAFETY") || !strings.Contains(err.Error(), "HARM_CATEGORY_DANGEROUS_CONTENT") {
			t.Errorf("診断メッセージが不足しています: %v", err)
		}
	})

	t.Run("SAFETY以外の異常完了は恒久失敗でフォールバック対象外", func(t *testing.T) {
		resp := safetyResponse(genai.FinishReason("MAX_TOKENS")).RawResponse

		_, err := classifyResponse(resp)
		if domain.KindOf(err) != domain.KindRemoteFailurePermanent {
			t.Fatalf("kind = %s, want remote_failure_permanent", domain.KindOf(err))
		}
		if fallbackEligible(err) {
			t.Error("異常完了(非セーフティ)がフォールバック対象になっています")
		}
	})

	t.Run("テキストのみ: NoImageInResponse で本文をそのまま含む", func(t *testing.T) {
		resp := textResponse("I cannot edit this photo.").RawResponse

		_, err := classifyResponse(resp)
		if domain.KindOf(err) != domain.KindNoImageInResponse {
			t.Fatalf("kind = %s, want no_image_in_response", domain.KindOf(err))
		}
		if !strings.Contains(err.Error(), "I cannot edit this photo.") {
			t.Errorf("返却テキストがメッセージに含まれていません: %v", err)
		}
	})

	t.Run("テキストすら空ならプレースホルダを使う", func(t *testing.T) {
		resp := textResponse("").RawResponse

		_, err := classifyResponse(resp)
		if domain.KindOf(err) != domain.KindNoImageInResponse {
			t.Fatalf("kind = %s, want no_image_in_response", domain.KindOf(err))
		}
		if !strings.Contains(err.Error(), "応答テキストなし") {
			t.Errorf("プレースホルダがありません: %v", err)
		}
	})
}
