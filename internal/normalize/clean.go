package normalize

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"resume-extract-go/internal/types"
)

func isZeroWidth(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff', '\u00ad':
		return true
	}
	return false
}

// cleanText 做 NFKC、删除零宽字符、合并空白并去掉首尾空白。
// 返回的 offsets[i] 是原文第 i 个 rune 在结果中的位置，offsets[len] 为结果长度。
func cleanText(s string) (string, []int) {
	out := make([]rune, 0, len(s))
	offsets := make([]int, 0, utf8.RuneCountInString(s)+1)
	pendingSpace := false

	var it norm.Iter
	it.InitString(norm.NFKC, s)
	prev := 0
	for !it.Done() {
		seg := string(it.Next())
		pos := it.Pos()

		offset := -1
		for _, r := range seg {
			switch {
			case isZeroWidth(r):
			case unicode.IsSpace(r):
				if len(out) > 0 {
					pendingSpace = true
				}
			default:
				if pendingSpace {
					out = append(out, ' ')
					pendingSpace = false
				}
				if offset < 0 {
					offset = len(out)
				}
				out = append(out, r)
			}
		}
		if offset < 0 {
			offset = len(out)
		}

		// 同一个规范化片段内的原始字符映射到同一位置
		for i, n := 0, utf8.RuneCountInString(s[prev:pos]); i < n; i++ {
			offsets = append(offsets, offset)
		}
		prev = pos
	}
	offsets = append(offsets, len(out))
	return string(out), offsets
}

// remapLinks 按 offsets 平移链接区间，并去掉区间首尾空白
func remapLinks(links []types.Hyperlink, offsets []int, text string) []types.Hyperlink {
	if len(links) == 0 {
		return nil
	}
	runes := []rune(text)
	last := len(offsets) - 1
	var out []types.Hyperlink
	for _, l := range links {
		s, e := offsets[clamp(l.Start, 0, last)], offsets[clamp(l.End, 0, last)]
		for s < e && runes[s] == ' ' {
			s++
		}
		for e > s && runes[e-1] == ' ' {
			e--
		}
		if e > s {
			out = append(out, types.Hyperlink{Start: s, End: e, URL: l.URL})
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
