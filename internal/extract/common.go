package extract

import (
	"regexp"
	"strings"

	"resume-extract-go/internal/types"
)

var (
	yearRe    = regexp.MustCompile(`\b(19[5-9]\d|20\d{2})\b`)
	presentRe = regexp.MustCompile(`(?i)\b(present|current|currently|now|ongoing|today|till date|to date)\b`)

	// 同一行内的字段分隔：逗号、竖线、分号、项目符号、两侧有空格的横线
	segmentSplitRe = regexp.MustCompile(`\s*(?:[,|;•·]|\s[-–—]\s)\s*`)

	// 去掉年份区间后残留的连接符
	dateResidueRe = regexp.MustCompile(`(?i)\(?\s*(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s*)?(?:19[5-9]\d|20\d{2})\s*(?:[-–—to]+\s*(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s*)?(?:19[5-9]\d|20\d{2}|present|current|now|ongoing))?\s*\)?`)
)

const trimPunct = " \t-–—|,;:()[]"

// block 章节内的一组连续行 [start,end)
type block struct {
	start, end int
}

// body 章节正文区间，不含被接受的标题行
func body(sec types.Section, n int) (int, int) {
	start, end := max(sec.Span.Start, 0), min(sec.Span.End, n)
	if sec.Heading != "" && start < end {
		start++
	}
	return start, end
}

func splitSegments(text string) []string {
	var out []string
	for _, s := range segmentSplitRe.Split(text, -1) {
		if s = strings.Trim(s, trimPunct); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// stripDates 删除年份区间（可带月份），用于清洗院校和学位文本
func stripDates(text string) string {
	text = dateResidueRe.ReplaceAllString(text, " ")
	return strings.Trim(strings.Join(strings.Fields(text), " "), trimPunct)
}

func wordCount(text string) int {
	return max(len(strings.Fields(text)), 1)
}

func spanOf(b block) types.Span {
	return types.Span{Start: b.start, End: b.end}
}

func joinLines(lines []types.NormalizedLine, b block, skip map[int]bool, strip func(string) string) string {
	var parts []string
	for i := b.start; i < b.end; i++ {
		if skip[i] || lines[i].Kind == types.LineBlank {
			continue
		}
		parts = append(parts, strip(lines[i].Text))
	}
	return strings.Join(parts, "\n")
}

// keywordMatcher 整词匹配关键词表。
// acronyms 为 true 时，全大写且不超过 3 个字母的缩写（BS、MS、BE）区分大小写。
type keywordMatcher struct {
	words []string
	res   []*regexp.Regexp
}

func newKeywordMatcher(words []string, acronyms bool) *keywordMatcher {
	k := &keywordMatcher{}
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		flags := "(?i)"
		if acronyms && isShortAcronym(w) {
			flags = ""
		}
		re, err := regexp.Compile(flags + `(?:^|[^\p{L}\p{N}_])(` + regexp.QuoteMeta(w) + `)(?:$|[^\p{L}\p{N}_+#])`)
		if err != nil {
			continue
		}
		k.words = append(k.words, w)
		k.res = append(k.res, re)
	}
	return k
}

func isShortAcronym(w string) bool {
	letters := 0
	for _, r := range w {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			letters++
		}
	}
	return letters > 0 && letters <= 3
}

// count 文本中出现的不同关键词个数
func (k *keywordMatcher) count(text string) int {
	n := 0
	for _, re := range k.res {
		if re.MatchString(text) {
			n++
		}
	}
	return n
}

// find 按首次出现位置返回命中的关键词（使用词表中的写法），去重
func (k *keywordMatcher) find(text string) []string {
	type hit struct {
		pos  int
		word string
	}
	var hits []hit
	seen := make(map[string]bool)
	for i, re := range k.res {
		loc := re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		key := strings.ToLower(k.words[i])
		if seen[key] {
			continue
		}
		seen[key] = true
		hits = append(hits, hit{pos: loc[2], word: k.words[i]})
	}
	// 插入排序，保持同位置时词表顺序
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].pos < hits[j-1].pos; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.word
	}
	return out
}
