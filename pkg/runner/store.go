package runner

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shouni/go-poster-kit/pkg/collage"
	"github.com/shouni/go-poster-kit/pkg/domain"
)

// SlotState はジャンル別スロットの状態です。
type SlotState int

const (
	// StateIdle はまだ一度も生成が始まっていない状態です。
	StateIdle SlotState = iota
	// StatePending は生成が実行中の状態です。この間の再実行要求は拒否されます。
	StatePending
	// StateSucceeded は成功結果を保持している状態です。
	StateSucceeded
	// StateFailed は失敗結果を保持している状態です。
	StateFailed
)

func (s SlotState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

type slot struct {
	state  SlotState
	result domain.GenerationResult
}

// PosterStore はジャンルをキーにした結果スロットの置き場です。
//
// 各スロットへの書き込みは「Begin でそのスロットを獲得したワーカー（または
// 再生成呼び出し）だけが行う」という単一ライター規律を前提にしています。
// Begin が false を返したら、そのキーは他の誰かが実行中です。
type PosterStore struct {
	mu     sync.Mutex
	genres []domain.Genre
	slots  map[domain.Genre]*slot
}

// NewPosterStore は指定ジャンル集合のストアを作ります。
// genres の順序がスナップショットやコラージュ入力の安定順序になります。
func NewPosterStore(genres []domain.Genre) *PosterStore {
	slots := make(map[domain.Genre]*slot, len(genres))
	ordered := make([]domain.Genre, 0, len(genres))
	for _, g := range genres {
		if _, dup := slots[g]; dup {
			continue // ジャンルはユニークキー
		}
		slots[g] = &slot{}
		ordered = append(ordered, g)
	}
	return &PosterStore{genres: ordered, slots: slots}
}

// Genres は管理対象ジャンルを登録順で返します。
func (s *PosterStore) Genres() []domain.Genre {
	out := make([]domain.Genre, len(s.genres))
	copy(out, s.genres)
	return out
}

// Begin はスロットを pending に遷移させ、書き込み権を獲得します。
// すでに実行中（pending）のキーに対しては false を返します。
// 成功・失敗済みのスロットは再生成のために再獲得できます。
func (s *PosterStore) Begin(genre domain.Genre) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[genre]
	if !ok || sl.state == StatePending {
		return false
	}
	sl.state = StatePending
	return true
}

// Complete は Begin で獲得したスロットに結果を書き込みます。
func (s *PosterStore) Complete(genre domain.Genre, result domain.GenerationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[genre]
	if !ok {
		return
	}
	sl.result = result
	if result.IsSuccess() {
		sl.state = StateSucceeded
	} else {
		sl.state = StateFailed
	}
}

// Result はスロットの結果と状態を返します。
func (s *PosterStore) Result(genre domain.Genre) (domain.GenerationResult, SlotState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[genre]
	if !ok {
		return domain.GenerationResult{}, StateIdle
	}
	return sl.result, sl.state
}

// State はスロットの状態だけを返します。
func (s *PosterStore) State(genre domain.Genre) SlotState {
	_, state := s.Result(genre)
	return state
}

// CompletedItems は全ジャンルが成功しているときだけ、登録順の安定した
// コラージュ入力を返します。1つでも未完了があれば IncompleteInputSet です。
func (s *PosterStore) CompletedItems() ([]collage.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]collage.Item, 0, len(s.genres))
	var missing []string
	for _, g := range s.genres {
		sl := s.slots[g]
		img, ok := sl.result.Image()
		if sl.state != StateSucceeded || !ok {
			missing = append(missing, fmt.Sprintf("%s(%s)", g, sl.state))
			continue
		}
		items = append(items, collage.Item{Genre: g, Data: img.Data})
	}

	if len(missing) > 0 {
		return nil, domain.NewFailure(domain.KindIncompleteInputSet,
			fmt.Sprintf("未完了のジャンルがあるためコラージュを作れません: %s", strings.Join(missing, ", ")), nil)
	}
	return items, nil
}

// SetSucceeded は生成を経由せず成功結果を直接書き込みます。
// 保存済みポスターからコラージュだけ作り直す経路で使います。
func (s *PosterStore) SetSucceeded(genre domain.Genre, img domain.GeneratedImage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sl, ok := s.slots[genre]; ok {
		sl.result = domain.Succeeded(img)
		sl.state = StateSucceeded
	}
}
