package segment

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"resume-extract-go/internal/normalize"
	"resume-extract-go/internal/types"
)

const (
	scoreExact       = 1.0
	scorePluralFold  = 0.97
	containmentFloor = 0.75
	scoreEpsilon     = 1e-9
)

// Match 一个标题候选与某个章节同义词的最佳匹配
type Match struct {
	Label   types.SectionLabel
	Synonym string
	Score   float64
	Exact   bool

	key string
}

type vocabEntry struct {
	label   types.SectionLabel
	synonym string
	key     string
	folded  string
}

// Matcher 基于同义词表的打分匹配器，创建后只读
type Matcher struct {
	entries []vocabEntry
}

// NewMatcher 按 types.HeadingLabels 的顺序展开同义词表，顺序即同分时的最后优先级
func NewMatcher(vocab map[string][]string) *Matcher {
	m := &Matcher{}
	for _, label := range types.HeadingLabels {
		for _, syn := range vocab[string(label)] {
			key := normalize.HeadingKey(syn)
			if key == "" {
				continue
			}
			m.entries = append(m.entries, vocabEntry{
				label:   label,
				synonym: syn,
				key:     key,
				folded:  normalize.FoldPlural(key),
			})
		}
	}
	return m
}

// Best 返回得分最高的章节；同分时精确匹配优先，其次较长的同义词，最后按词表顺序
func (m *Matcher) Best(text string) (Match, bool) {
	key := normalize.HeadingKey(text)
	if key == "" || len(m.entries) == 0 {
		return Match{}, false
	}
	folded := normalize.FoldPlural(key)

	var best Match
	found := false
	for _, e := range m.entries {
		score, exact := scoreKeys(key, folded, e)
		cand := Match{Label: e.label, Synonym: e.synonym, Score: score, Exact: exact, key: e.key}
		if !found || better(cand, best) {
			best, found = cand, true
		}
	}
	return best, found
}

func better(a, b Match) bool {
	if a.Score > b.Score+scoreEpsilon {
		return true
	}
	if a.Score < b.Score-scoreEpsilon {
		return false
	}
	if a.Exact != b.Exact {
		return a.Exact
	}
	return utf8.RuneCountInString(a.key) > utf8.RuneCountInString(b.key)
}

// Score 计算候选标题与单个同义词的相似度，范围 [0,1]
func Score(candidate, synonym string) (float64, bool) {
	key := normalize.HeadingKey(candidate)
	synKey := normalize.HeadingKey(synonym)
	if key == "" || synKey == "" {
		return 0, false
	}
	return scoreKeys(key, normalize.FoldPlural(key), vocabEntry{key: synKey, folded: normalize.FoldPlural(synKey)})
}

// headingQualifiers 可以出现在单词同义词前面的修饰词，例如 "relevant projects"
var headingQualifiers = map[string]bool{
	"relevant": true, "technical": true, "key": true, "selected": true, "select": true,
	"personal": true, "academic": true, "professional": true, "additional": true,
	"other": true, "core": true, "notable": true, "major": true, "recent": true,
	"featured": true, "my": true,
}

// containsAsHeadingSuffix 同义词必须整词位于候选末尾；单词同义词前面只能是修饰词，
// 这样 "employment tracker"、"data tools" 这类项目标题不会被当成章节标题
func containsAsHeadingSuffix(folded, synonym string) bool {
	if folded == synonym || !strings.HasSuffix(folded, " "+synonym) {
		return false
	}
	if strings.Contains(synonym, " ") {
		return true
	}
	prefix := strings.Fields(strings.TrimSuffix(folded, " "+synonym))
	for _, w := range prefix {
		if !headingQualifiers[w] {
			return false
		}
	}
	return len(prefix) > 0
}

func scoreKeys(key, folded string, e vocabEntry) (float64, bool) {
	if key == e.key {
		return scoreExact, true
	}
	if folded == e.folded {
		return scorePluralFold, false
	}

	score := 0.0
	if containsAsHeadingSuffix(folded, e.folded) {
		coverage := float64(utf8.RuneCountInString(e.folded)) / float64(utf8.RuneCountInString(folded))
		score = containmentFloor + (1-containmentFloor)*coverage
	}

	longest := max(utf8.RuneCountInString(folded), utf8.RuneCountInString(e.folded))
	similarity := 1 - float64(levenshtein.ComputeDistance(folded, e.folded))/float64(longest)
	return max(score, similarity), false
}
