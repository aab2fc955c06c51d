package extract

import (
	"regexp"
	"strings"

	"resume-extract-go/internal/normalize"
	"resume-extract-go/internal/types"
)

// GeneralSkillGroup 没有分类标题的技能
const GeneralSkillGroup = "General"

var (
	categoryRe   = regexp.MustCompile(`^([^:,|;]{1,40}):\s*(.*)$`)
	skillSplitRe = regexp.MustCompile(`\s*(?:[,|;•·●▪]|\s/\s)\s*`)
)

type skillBucket struct {
	group types.SkillGroup
	seen  map[string]bool
}

func (b *skillBucket) add(token string, line int) {
	key := strings.ToLower(token)
	if b.seen[key] {
		return
	}
	b.seen[key] = true
	b.group.Skills = append(b.group.Skills, token)
	if len(b.group.Skills) == 1 {
		b.group.Span.Start = line
	}
	b.group.Span.End = line + 1
}

// extractSkills "分类: a, b" 只作用于本行；单独的 "分类:" 行开启命名分组，持续到空行或下一个分类。
// 其余技能归入 General，General 排在最前
func extractSkills(sec types.Section, lines []types.NormalizedLine) Records {
	start, end := body(sec, len(lines))

	general := &skillBucket{group: types.SkillGroup{Category: GeneralSkillGroup}, seen: map[string]bool{}}
	var named []*skillBucket
	byName := map[string]*skillBucket{}
	var current *skillBucket

	for i := start; i < end; i++ {
		l := lines[i]
		if l.Kind == types.LineBlank {
			current = nil
			continue
		}
		text := normalize.StripBullet(l.Text)

		if m := categoryRe.FindStringSubmatch(text); m != nil {
			name := strings.Trim(strings.TrimSpace(m[1]), "*_#=- ")
			if name != "" {
				key := strings.ToLower(name)
				bucket, ok := byName[key]
				if !ok {
					bucket = &skillBucket{group: types.SkillGroup{Category: name}, seen: map[string]bool{}}
					byName[key] = bucket
					named = append(named, bucket)
				}
				text = strings.TrimSpace(m[2])
				if text == "" {
					current = bucket
					continue
				}
				current = nil
				for _, tok := range splitSkills(text) {
					bucket.add(tok, i)
				}
				continue
			}
		}

		target := current
		if target == nil {
			target = general
		}
		for _, tok := range splitSkills(text) {
			target.add(tok, i)
		}
	}

	var groups []types.SkillGroup
	if len(general.group.Skills) > 0 {
		groups = append(groups, general.group)
	}
	for _, b := range named {
		if len(b.group.Skills) > 0 {
			groups = append(groups, b.group)
		}
	}
	return Records{Skills: groups}
}

func splitSkills(text string) []string {
	var out []string
	for _, tok := range skillSplitRe.Split(text, -1) {
		tok = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(tok), "."))
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
