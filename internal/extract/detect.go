package extract

import (
	"strings"

	"resume-extract-go/internal/types"
)

// DetectedSkillGroup 全文关键词检测得到的技能
const DetectedSkillGroup = "Detected"

// DetectSkills 在全文中查找技术关键词，返回 existing 各分组里还没有的部分，按首次出现顺序排列。
// 没有新技能时返回 false。
func (r *Registry) DetectSkills(lines []types.NormalizedLine, existing []types.SkillGroup) (types.SkillGroup, bool) {
	seen := make(map[string]bool)
	for _, g := range existing {
		for _, s := range g.Skills {
			seen[strings.ToLower(s)] = true
		}
	}

	bucket := &skillBucket{group: types.SkillGroup{Category: DetectedSkillGroup}, seen: seen}
	for i, l := range lines {
		if l.Kind == types.LineBlank {
			continue
		}
		for _, w := range r.tech.find(l.Text) {
			bucket.add(w, i)
		}
	}
	if len(bucket.group.Skills) == 0 {
		return types.SkillGroup{}, false
	}
	return bucket.group, true
}
