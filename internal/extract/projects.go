package extract

import (
	"regexp"
	"strings"

	"resume-extract-go/internal/normalize"
	"resume-extract-go/internal/types"
)

// 标题行中标题与其余内容的分隔符
var titleSplitRe = regexp.MustCompile(`\s+[|–—-]\s+|:\s+|\s+\(`)

type projectExtractor struct {
	tech *keywordMatcher
}

func newProjectExtractor(technologies []string) *projectExtractor {
	return &projectExtractor{tech: newKeywordMatcher(technologies, false)}
}

func (p *projectExtractor) extract(sec types.Section, lines []types.NormalizedLine) Records {
	start, end := body(sec, len(lines))
	var out []types.Project
	for _, b := range projectBlocks(lines, start, end) {
		out = append(out, p.record(lines, b))
	}
	return Records{Projects: out}
}

// projectBlocks 每个块是一个项目。以下情况开始新块：空行之后；项目符号描述后出现非项目符号行；
// 块内出现标题候选行；块首就是项目符号时（项目以列表形式给出）每个项目符号行。
func projectBlocks(lines []types.NormalizedLine, start, end int) []block {
	var (
		blocks     []block
		cur        = block{start: -1}
		sawBullet  bool
		bulletList bool
	)
	flush := func(at int) {
		if cur.start >= 0 {
			cur.end = at
			blocks = append(blocks, cur)
		}
		cur = block{start: -1}
	}

	for i := start; i < end; i++ {
		l := lines[i]
		if l.Kind == types.LineBlank {
			flush(i)
			continue
		}
		if cur.start >= 0 {
			isBullet := l.Kind == types.LineBullet
			if (!isBullet && sawBullet && !bulletList) ||
				l.Kind == types.LineHeading ||
				(isBullet && bulletList) {
				flush(i)
			}
		}
		if cur.start < 0 {
			cur.start = i
			sawBullet = false
			bulletList = l.Kind == types.LineBullet
			continue
		}
		if l.Kind == types.LineBullet {
			sawBullet = true
		}
	}
	flush(end)
	return blocks
}

func (p *projectExtractor) record(lines []types.NormalizedLine, b block) types.Project {
	first := normalize.StripBullet(lines[b.start].Text)
	rec := types.Project{Span: spanOf(b)}

	title, rest := first, ""
	if loc := titleSplitRe.FindStringIndex(first); loc != nil && loc[0] > 0 {
		title, rest = first[:loc[0]], strings.TrimSpace(first[loc[0]:])
		rest = strings.TrimLeft(rest, "|–—-: ")
	}
	rec.Title = strings.TrimSpace(stripURLs(title))
	if rec.Title == "" {
		rec.Title = strings.TrimSpace(first)
	}

	rec.Link = firstLink(lines, b)

	var desc []string
	if rest != "" {
		desc = append(desc, rest)
	}
	if d := joinLines(lines, block{start: b.start + 1, end: b.end}, nil, normalize.StripBullet); d != "" {
		desc = append(desc, d)
	}
	rec.Description = strings.Join(desc, "\n")

	rec.Raw = joinLines(lines, b, nil, strings.TrimSpace)
	rec.Technologies = p.tech.find(rec.Raw)
	return rec
}

// firstLink 块内第一个超链接，没有时取第一个裸 URL
func firstLink(lines []types.NormalizedLine, b block) string {
	for i := b.start; i < b.end; i++ {
		for _, h := range lines[i].Hyperlinks {
			if isWebURL(h.URL) {
				return h.URL
			}
		}
	}
	for i := b.start; i < b.end; i++ {
		if urls := bareURLs(lines[i].Text); len(urls) > 0 {
			return urls[0]
		}
	}
	return ""
}

func stripURLs(text string) string {
	fields := strings.Fields(text)
	kept := fields[:0]
	for _, f := range fields {
		if _, ok := asURL(f); !ok {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}
