package generator

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/shouni/go-poster-kit/pkg/domain"
)

// safetyFinishReasons はコンテンツ拒否を意味する完了理由です。
// この分類だけがフォールバックの契機になります（メッセージ文字列は見ません）。
var safetyFinishReasons = map[genai.FinishReason]bool{
	genai.FinishReason("SAFETY"):             true,
	genai.FinishReason("PROHIBITED_CONTENT"): true,
	genai.FinishReason("IMAGE_SAFETY"):       true,
	genai.FinishReason("SPII"):               true,
}

// classifyResponse は Gemini の生応答を次の順で分類します。
//
//  1. 候補なし、または完了理由が正常(STOP)以外 → 失敗。診断メッセージには
//     ブロック理由・異常完了理由・セーフティ評価を含める。
//  2. 正常完了かつインライン画像あり → 成功。バイト列とMIMEタイプを無加工で返す。
//  3. 正常完了だがテキストのみ → NoImageInResponse。返ってきたテキストをそのまま含める。
func classifyResponse(resp *genai.GenerateContentResponse) (*domain.GeneratedImage, error) {
	if len(resp.Candidates) == 0 {
		if reason, msg := promptBlockReason(resp); reason != "" {
			return nil, domain.NewFailure(domain.KindContentBlocked,
				fmt.Sprintf("プロンプトがブロックされました (Block Reason: %s%s)", reason, msg), nil)
		}
		return nil, domain.NewFailure(domain.KindRemoteFailurePermanent,
			"応答に候補が1件も含まれていませんでした", nil)
	}

	cand := resp.Candidates[0]

	if cand.FinishReason != genai.FinishReasonStop && cand.FinishReason != genai.FinishReasonUnspecified {
		diag := abnormalFinishDiagnostic(resp, cand)
		if safetyFinishReasons[cand.FinishReason] {
			return nil, domain.NewFailure(domain.KindContentBlocked, diag, nil)
		}
		return nil, domain.NewFailure(domain.KindRemoteFailurePermanent, diag, nil)
	}

	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &domain.GeneratedImage{
					Data:     part.InlineData.Data,
					MimeType: part.InlineData.MIMEType,
				}, nil
			}
		}
	}

	text := collectText(cand)
	if text == "" {
		text = "(応答テキストなし)"
	}
	return nil, domain.NewFailure(domain.KindNoImageInResponse,
		"モデルが画像ではなくテキストを返しました: "+text, nil)
}

// abnormalFinishDiagnostic は異常完了の診断メッセージを組み立てます。
func abnormalFinishDiagnostic(resp *genai.GenerateContentResponse, cand *genai.Candidate) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "画像生成が異常終了しました (Finish Reason: %s)", cand.FinishReason)

	if reason, msg := promptBlockReason(resp); reason != "" {
		fmt.Fprintf(&sb, " (Block Reason: %s%s)", reason, msg)
	}
	if ratings := formatSafetyRatings(cand.SafetyRatings); ratings != "" {
		fmt.Fprintf(&sb, " [Safety: %s]", ratings)
	}
	return sb.String()
}

// promptBlockReason はトップレベルのブロック理由を返します。未設定なら空文字です。
func promptBlockReason(resp *genai.GenerateContentResponse) (string, string) {
	pf := resp.PromptFeedback
	if pf == nil || pf.BlockReason == "" {
		return "", ""
	}
	msg := ""
	if pf.BlockReasonMessage != "" {
		msg = ": " + pf.BlockReasonMessage
	}
	return string(pf.BlockReason), msg
}

func formatSafetyRatings(ratings []*genai.SafetyRating) string {
	if len(ratings) == 0 {
		return ""
	}
	parts := make([]string, 0, len(ratings))
	for _, r := range ratings {
		if r == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", r.Category, r.Probability))
	}
	return strings.Join(parts, ", ")
}

func collectText(cand *genai.Candidate) string {
	if cand.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}
