package normalize

import (
	"strings"
	"unicode"
)

// 标题两侧常见的装饰字符
const decorationRunes = "#:=_*|~-–—•·[](){}<>.\"'`"

// HeadingKey 把标题文本化为比较用的键：小写、去掉装饰字符、& 视为 and、合并空白
func HeadingKey(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r == '&':
			b.WriteString(" and ")
		case strings.ContainsRune(decorationRunes, r), unicode.IsSpace(r):
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// FoldPlural 逐词去掉英文复数后缀，"activities" -> "activity"，"skills" -> "skill"
func FoldPlural(key string) string {
	words := strings.Fields(key)
	for i, w := range words {
		switch {
		case len(w) > 4 && strings.HasSuffix(w, "ies"):
			words[i] = strings.TrimSuffix(w, "ies") + "y"
		case len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
			words[i] = strings.TrimSuffix(w, "s")
		}
	}
	return strings.Join(words, " ")
}

// Vocabulary 全部章节同义词的集合，用于判断一行是否可能是标题
type Vocabulary struct {
	keys map[string]struct{}
}

// NewVocabulary 从 label -> 同义词 表构造
func NewVocabulary(sections map[string][]string) Vocabulary {
	v := Vocabulary{keys: make(map[string]struct{})}
	for _, synonyms := range sections {
		for _, s := range synonyms {
			if k := FoldPlural(HeadingKey(s)); k != "" {
				v.keys[k] = struct{}{}
			}
		}
	}
	return v
}

// Contains 大小写不敏感，忽略装饰字符和复数差异
func (v Vocabulary) Contains(text string) bool {
	if len(v.keys) == 0 {
		return false
	}
	_, ok := v.keys[FoldPlural(HeadingKey(text))]
	return ok
}
