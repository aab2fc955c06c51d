package extract

import (
	"strconv"
	"strings"

	"resume-extract-go/internal/normalize"
	"resume-extract-go/internal/types"
)

type educationExtractor struct {
	institutions *keywordMatcher
	degrees      *keywordMatcher
}

func newEducationExtractor(institutions, degrees []string) *educationExtractor {
	return &educationExtractor{
		institutions: newKeywordMatcher(institutions, false),
		degrees:      newKeywordMatcher(degrees, true),
	}
}

func (e *educationExtractor) extract(sec types.Section, lines []types.NormalizedLine) Records {
	start, end := body(sec, len(lines))
	var out []types.Education
	for _, b := range e.blocks(lines, start, end) {
		out = append(out, e.record(lines, b))
	}
	return Records{Educations: out}
}

// blocks 以空行分块；块内再出现新的院校行或带年份的学位行时开始新条目
func (e *educationExtractor) blocks(lines []types.NormalizedLine, start, end int) []block {
	var (
		blocks           []block
		cur              = block{start: -1}
		hasInst, hasYear bool
	)
	flush := func(at int) {
		if cur.start >= 0 {
			cur.end = at
			blocks = append(blocks, cur)
		}
		cur = block{start: -1}
		hasInst, hasYear = false, false
	}

	for i := start; i < end; i++ {
		l := lines[i]
		if l.Kind == types.LineBlank {
			flush(i)
			continue
		}
		inst := e.institutions.count(l.Text) > 0
		year := yearRe.MatchString(l.Text)
		deg := e.degrees.count(l.Text) > 0

		if cur.start >= 0 {
			newEntry := (l.Kind == types.LineBullet && (inst || deg || year) && (hasInst || hasYear)) ||
				(inst && hasInst) ||
				(year && hasYear && (inst || deg))
			if newEntry {
				flush(i)
			}
		}
		if cur.start < 0 {
			cur.start = i
		}
		hasInst = hasInst || inst
		hasYear = hasYear || year
	}
	flush(end)
	return blocks
}

func (e *educationExtractor) record(lines []types.NormalizedLine, b block) types.Education {
	rec := types.Education{Span: spanOf(b)}

	yearLine, yearDensity := -1, 0.0
	instLine, instDensity := -1, 0.0
	degreeLine := -1
	for i := b.start; i < b.end; i++ {
		text := normalize.StripBullet(lines[i].Text)

		years := len(yearRe.FindAllString(text, -1))
		if years > 0 {
			if presentRe.MatchString(text) {
				years++
			}
			if d := float64(years) / float64(wordCount(text)); d > yearDensity {
				yearLine, yearDensity = i, d
			}
		}

		for _, seg := range splitSegments(text) {
			if n := e.institutions.count(seg); n > 0 {
				if d := float64(n) / float64(wordCount(seg)); d > instDensity {
					instLine, instDensity = i, d
					rec.Institution = stripDates(seg)
				}
			}
		}
	}

	// 学位：第一个含学位关键词、且不是院校本身的片段
	for i := b.start; i < b.end && rec.Degree == ""; i++ {
		for _, seg := range splitSegments(normalize.StripBullet(lines[i].Text)) {
			if e.degrees.count(seg) == 0 || stripDates(seg) == rec.Institution {
				continue
			}
			if d := stripDates(seg); d != "" {
				rec.Degree = d
				degreeLine = i
				break
			}
		}
	}

	if yearLine >= 0 {
		text := lines[yearLine].Text
		years := yearRe.FindAllString(text, -1)
		switch {
		case len(years) >= 2:
			a, _ := strconv.Atoi(years[0])
			z, _ := strconv.Atoi(years[1])
			rec.StartYear, rec.EndYear = min(a, z), max(a, z)
		case presentRe.MatchString(text):
			rec.StartYear, _ = strconv.Atoi(years[0])
			rec.Current = true
		default:
			rec.EndYear, _ = strconv.Atoi(years[0])
		}
	}

	skip := map[int]bool{instLine: true, yearLine: true, degreeLine: true}
	rec.Description = joinLines(lines, b, skip, normalize.StripBullet)
	rec.Raw = joinLines(lines, b, nil, strings.TrimSpace)
	return rec
}
