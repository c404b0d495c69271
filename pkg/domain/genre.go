package domain

import "strings"

// Genre は映画ポスターのジャンルラベルです。結果ストアのユニークキーでもあります。
type Genre string

// 固定のジャンル語彙。プロンプトにはこの名前が必ず部分文字列として含まれる前提です
// （フォールバック時にプロンプトからジャンルを逆引きするため）。
const (
	GenreAction  Genre = "Action"
	GenreRomance Genre = "Romance"
	GenreHorror  Genre = "Horror"
	GenreSciFi   Genre = "Sci-Fi"
	GenreComedy  Genre = "Comedy"
	GenreWestern Genre = "Western"
)

// AllGenres は語彙全体を固定順で返します。バッチ投入順・結果の安定順はこの順序です。
func AllGenres() []Genre {
	return []Genre{GenreAction, GenreRomance, GenreHorror, GenreSciFi, GenreComedy, GenreWestern}
}

// ParseGenre はユーザー入力（CLIフラグ等）をジャンルに解決します。
func ParseGenre(name string) (Genre, bool) {
	for _, g := range AllGenres() {
		if strings.EqualFold(name, string(g)) {
			return g, true
		}
	}
	return "", false
}

// DetectGenre はプロンプト中のジャンル名を大文字小文字無視の部分一致で探します。
// 見つからない場合は false を返し、フォールバックは行われません。
func DetectGenre(prompt string) (Genre, bool) {
	lower := strings.ToLower(prompt)
	for _, g := range AllGenres() {
		if strings.Contains(lower, strings.ToLower(string(g))) {
			return g, true
		}
	}
	return "", false
}

// Slug はファイル名に使う小文字表現を返します。
func (g Genre) Slug() string {
	return strings.ToLower(string(g))
}
