package domain

import (
	"errors"
	"fmt"
)

// FailureKind は失敗の構造化分類です。
// メッセージ文字列の再解析ではなく、この値だけでリトライ・フォールバック適性を判定します。
type FailureKind int

const (
	// KindUnknown は分類できなかった失敗です。
	KindUnknown FailureKind = iota
	// KindInvalidInputFormat は data URL 形式に合致しない入力です。リトライも通信も行いません。
	KindInvalidInputFormat
	// KindTransientRemoteFault はリモート側の一時的なサーバー障害です。リトライ対象です。
	KindTransientRemoteFault
	// KindContentBlocked はセーフティ／ポリシーによる拒否です。フォールバックの契機になります。
	KindContentBlocked
	// KindNoImageInResponse はモデルが画像ではなくテキストだけを返した失敗です。同じくフォールバック契機です。
	KindNoImageInResponse
	// KindRemoteFailurePermanent はリトライ・フォールバックのどちらも適用されない恒久的失敗です。
	KindRemoteFailurePermanent
	// KindDecodeFailure はコラージュ合成時の画像デコード失敗です。
	KindDecodeFailure
	// KindIncompleteInputSet は全ジャンルが成功する前にコラージュ合成を要求された状態です。
	KindIncompleteInputSet
)

// String は slog 出力やエラーメッセージで使う分類名を返します。
func (k FailureKind) String() string {
	switch k {
	case KindInvalidInputFormat:
		return "invalid_input_format"
	case KindTransientRemoteFault:
		return "transient_remote_fault"
	case KindContentBlocked:
		return "content_blocked"
	case KindNoImageInResponse:
		return "no_image_in_response"
	case KindRemoteFailurePermanent:
		return "remote_failure_permanent"
	case KindDecodeFailure:
		return "decode_failure"
	case KindIncompleteInputSet:
		return "incomplete_input_set"
	default:
		return "unknown"
	}
}

// Failure は分類タグ付きのエラーです。errors.As で取り出せます。
type Failure struct {
	Kind    FailureKind
	Message string
	Cause   error
}

// NewFailure は分類付き Failure を作ります。cause は nil でも構いません。
func NewFailure(kind FailureKind, message string, cause error) *Failure {
	return &Failure{Kind: kind, Message: message, Cause: cause}
}

func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", f.Kind, f.Message, f.Cause)
	}
	return fmt.Sprintf("[%s] %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error { return f.Cause }

// KindOf はエラーチェーンから FailureKind を取り出します。
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindUnknown
}
