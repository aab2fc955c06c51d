// Package normalize 清洗原始行、给每行分类并合并软换行。
package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"resume-extract-go/internal/types"
)

const maxHeadingWords = 6

var (
	bulletMarkers  = "•·▪‣◦●○■□➢►▶✓✔*-–—➤→"
	numberedBullet = regexp.MustCompile(`^\d{1,2}[.)]\s`)

	// 标题中可以小写的虚词
	minorWords = map[string]bool{
		"and": true, "of": true, "the": true, "in": true, "for": true, "to": true,
		"with": true, "on": true, "at": true, "a": true, "an": true, "&": true,
	}
)

// Normalize 清洗、分类并合并软换行。输出长度不超过输入，MergedFrom 记录来源下标。
func Normalize(raw []types.RawLine, vocab Vocabulary) []types.NormalizedLine {
	cleaned := make([]types.NormalizedLine, 0, len(raw))
	for i, r := range raw {
		text, offsets := cleanText(r.Text)
		line := r
		line.Text = text
		line.Hyperlinks = remapLinks(r.Hyperlinks, offsets, text)
		cleaned = append(cleaned, types.NormalizedLine{
			RawLine:    line,
			Kind:       Classify(text, vocab),
			MergedFrom: []int{i},
		})
	}
	return mergeSoftWraps(cleaned, vocab)
}

// Denormalize 去掉分类信息，得到可以再次归一化的行
func Denormalize(lines []types.NormalizedLine) []types.RawLine {
	out := make([]types.RawLine, len(lines))
	for i, l := range lines {
		out[i] = l.RawLine
	}
	return out
}

// Renormalize 对已归一化的行再做一次归一化，MergedFrom 仍指向最初的原始行
func Renormalize(lines []types.NormalizedLine, vocab Vocabulary) []types.NormalizedLine {
	again := Normalize(Denormalize(lines), vocab)
	for i := range again {
		var sources []int
		for _, j := range again[i].MergedFrom {
			sources = append(sources, lines[j].MergedFrom...)
		}
		again[i].MergedFrom = sources
	}
	return again
}

// Classify 依次判断 blank、bullet、heading-candidate，否则为 plain
func Classify(text string, vocab Vocabulary) types.LineKind {
	switch {
	case strings.TrimSpace(text) == "":
		return types.LineBlank
	case IsBullet(text):
		return types.LineBullet
	case isHeadingCandidate(text, vocab):
		return types.LineHeading
	default:
		return types.LinePlain
	}
}

// IsBullet 以项目符号或 "1." / "1)" 开头并紧跟空白
func IsBullet(text string) bool {
	runes := []rune(text)
	if len(runes) >= 2 && strings.ContainsRune(bulletMarkers, runes[0]) && unicode.IsSpace(runes[1]) {
		return true
	}
	return numberedBullet.MatchString(text)
}

// StripBullet 去掉行首的项目符号
func StripBullet(text string) string {
	if !IsBullet(text) {
		return text
	}
	if loc := numberedBullet.FindStringIndex(text); loc != nil {
		return strings.TrimSpace(text[loc[1]:])
	}
	_, size := utf8.DecodeRuneInString(text)
	return strings.TrimSpace(text[size:])
}

func isHeadingCandidate(text string, vocab Vocabulary) bool {
	words := strings.Fields(text)
	if len(words) == 0 || len(words) > maxHeadingWords {
		return false
	}
	if vocab.Contains(text) {
		return true
	}
	// 带逗号、竖线、数字、邮箱或链接的行更像内容
	if strings.ContainsAny(text, ",|@/0123456789") {
		return false
	}
	if i := strings.IndexRune(text, ':'); i >= 0 && i != len(text)-1 {
		return false
	}
	return isAllCaps(text) || isTitleCase(words)
}

func isAllCaps(text string) bool {
	letters := 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsLower(r) {
			return false
		}
		letters++
	}
	return letters >= 2
}

func isTitleCase(words []string) bool {
	last := []rune(words[len(words)-1])
	if strings.ContainsRune(".,;!?", last[len(last)-1]) {
		return false
	}
	capitalized := 0
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(strings.TrimLeft(w, decorationRunes))
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsUpper(r) {
			capitalized++
			continue
		}
		if !minorWords[strings.ToLower(w)] {
			return false
		}
	}
	return capitalized > 0
}

// mergeSoftWraps 合并视觉换行。只在 plain 行之间进行，不跨越空行和标题行。
func mergeSoftWraps(lines []types.NormalizedLine, vocab Vocabulary) []types.NormalizedLine {
	out := make([]types.NormalizedLine, 0, len(lines))
	for _, line := range lines {
		if n := len(out); n > 0 && continues(out[n-1], line) {
			merged := mergeLines(out[n-1], line)
			merged.Kind = Classify(merged.Text, vocab)
			out[n-1] = merged
			continue
		}
		out = append(out, line)
	}
	return out
}

func continues(prev, next types.NormalizedLine) bool {
	if prev.Kind != types.LinePlain || next.Kind != types.LinePlain {
		return false
	}
	if strings.ContainsRune(".!?:;", lastRune(prev.Text)) {
		return false
	}
	prevWords := strings.Fields(prev.Text)
	nextWords := strings.Fields(next.Text)
	if looksLikeLink(prevWords[len(prevWords)-1]) || looksLikeLink(nextWords[0]) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(next.Text)
	return unicode.IsLower(r) || strings.ContainsRune(",;)&", r)
}

func looksLikeLink(token string) bool {
	t := strings.ToLower(token)
	return strings.Contains(t, "@") || strings.Contains(t, "://") || strings.HasPrefix(t, "www.")
}

func lastRune(s string) rune {
	runes := []rune(s)
	if len(runes) == 0 {
		return 0
	}
	return runes[len(runes)-1]
}

// mergeLines 追加式合并：文本以空格拼接，后一行的链接区间整体右移
func mergeLines(prev, next types.NormalizedLine) types.NormalizedLine {
	merged := prev
	shift := len([]rune(prev.Text)) + 1
	merged.Text = prev.Text + " " + next.Text

	merged.Hyperlinks = append([]types.Hyperlink(nil), prev.Hyperlinks...)
	for _, l := range next.Hyperlinks {
		merged.Hyperlinks = append(merged.Hyperlinks, types.Hyperlink{Start: l.Start + shift, End: l.End + shift, URL: l.URL})
	}
	merged.MergedFrom = append(append([]int(nil), prev.MergedFrom...), next.MergedFrom...)
	return merged
}
