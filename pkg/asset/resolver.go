package asset

import (
	"regexp"
	"strings"

	"github.com/shouni/go-utils/urlpath"

	"github.com/shouni/go-poster-kit/pkg/domain"
)

const (
	// CollageFileName はコラージュ出力の固定ファイル名です。
	CollageFileName = "my-poster-collection.jpg"

	// posterFilePrefix は個別ポスターのファイル名接頭辞です。
	posterFilePrefix = "my-poster-"

	// PosterJPEGQuality は個別ポスター保存時のJPEG品質です。
	PosterJPEGQuality = 95
)

// PosterFileRegex は個別ポスターのファイル名 (my-poster-action.jpg 等) に一致します。
var PosterFileRegex = regexp.MustCompile(`^my-poster-([a-z-]+)\.jpg$`)

// PosterFileName はジャンルから個別ポスターのファイル名を作ります。
// 例: Sci-Fi -> "my-poster-sci-fi.jpg"
func PosterFileName(genre domain.Genre) string {
	return posterFilePrefix + genre.Slug() + ".jpg"
}

// GenreFromFileName は保存済みポスターのファイル名からジャンルを逆引きします。
// collage サブコマンドがディレクトリからコラージュを再構成するときに使います。
func GenreFromFileName(name string) (domain.Genre, bool) {
	m := PosterFileRegex.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return domain.ParseGenre(m[1])
}

// ResolveOutputPath は、ベースディレクトリとファイル名から
// GCS/ローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	return urlpath.ResolvePath(baseDir, fileName)
}

// ResolveBaseURL は、入力パス（URLまたはローカルパス）から親ディレクトリの
// パスを解決し、末尾がセパレータで終わるように正規化します。
func ResolveBaseURL(rawPath string) string {
	return urlpath.ResolveBaseDir(rawPath)
}

// IsRemotePath は gs:// などのリモート出力先かどうかを返します。
func IsRemotePath(path string) bool {
	return strings.HasPrefix(path, "gs://")
}
