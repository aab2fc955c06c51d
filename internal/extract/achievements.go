package extract

import (
	"strconv"
	"strings"

	"resume-extract-go/internal/normalize"
	"resume-extract-go/internal/types"
)

// extractAchievements 每个非空行一条记录，附带检测到的第一个年份
func extractAchievements(sec types.Section, lines []types.NormalizedLine) Records {
	start, end := body(sec, len(lines))
	var out []types.Achievement
	for i := start; i < end; i++ {
		if lines[i].Kind == types.LineBlank {
			continue
		}
		text := strings.TrimSpace(normalize.StripBullet(lines[i].Text))
		if text == "" {
			continue
		}
		rec := types.Achievement{Text: text, Span: types.Span{Start: i, End: i + 1}}
		if y := yearRe.FindString(text); y != "" {
			rec.Year, _ = strconv.Atoi(y)
		}
		out = append(out, rec)
	}
	return Records{Achievements: out}
}

// extractSummary 正文行拼接为一段
func extractSummary(sec types.Section, lines []types.NormalizedLine) Records {
	start, end := body(sec, len(lines))
	var parts []string
	for i := start; i < end; i++ {
		if t := strings.TrimSpace(normalize.StripBullet(lines[i].Text)); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return Records{}
	}
	return Records{Summary: []string{strings.Join(parts, " ")}}
}
