package types

// Resume 一次解析的聚合根。组装完成后不再修改，对外只通过访问器暴露副本。
type Resume struct {
	identity             Identity
	summary              string
	contacts             []ContactEntry
	educations           []Education
	projects             []Project
	skills               []SkillGroup
	achievements         []Achievement
	profiles             []ProfileLink
	lowConfidence        bool
	lowConfidenceReasons []string
}

// ResumeData 构造 Resume 所需的全部字段
type ResumeData struct {
	Identity             Identity
	Summary              string
	Contacts             []ContactEntry
	Educations           []Education
	Projects             []Project
	Skills               []SkillGroup
	Achievements         []Achievement
	Profiles             []ProfileLink
	LowConfidence        bool
	LowConfidenceReasons []string
}

// NewResume 拷贝 data 并返回不可变的 Resume
func NewResume(data ResumeData) *Resume {
	r := &Resume{
		identity:             data.Identity,
		summary:              data.Summary,
		contacts:             cloneSlice(data.Contacts),
		educations:           cloneSlice(data.Educations),
		projects:             cloneProjects(data.Projects),
		skills:               cloneSkills(data.Skills),
		achievements:         cloneSlice(data.Achievements),
		profiles:             cloneSlice(data.Profiles),
		lowConfidence:        data.LowConfidence,
		lowConfidenceReasons: cloneSlice(data.LowConfidenceReasons),
	}
	return r
}

func (r *Resume) Identity() Identity             { return r.identity }
func (r *Resume) Summary() string                { return r.summary }
func (r *Resume) Contacts() []ContactEntry       { return cloneSlice(r.contacts) }
func (r *Resume) Educations() []Education        { return cloneSlice(r.educations) }
func (r *Resume) Projects() []Project            { return cloneProjects(r.projects) }
func (r *Resume) Skills() []SkillGroup           { return cloneSkills(r.skills) }
func (r *Resume) Achievements() []Achievement    { return cloneSlice(r.achievements) }
func (r *Resume) Profiles() []ProfileLink        { return cloneSlice(r.profiles) }
func (r *Resume) LowConfidence() bool            { return r.lowConfidence }
func (r *Resume) LowConfidenceReasons() []string { return cloneSlice(r.lowConfidenceReasons) }

// Data 返回全部字段的副本，便于序列化
func (r *Resume) Data() ResumeData {
	return ResumeData{
		Identity:             r.identity,
		Summary:              r.summary,
		Contacts:             r.Contacts(),
		Educations:           r.Educations(),
		Projects:             r.Projects(),
		Skills:               r.Skills(),
		Achievements:         r.Achievements(),
		Profiles:             r.Profiles(),
		LowConfidence:        r.lowConfidence,
		LowConfidenceReasons: r.LowConfidenceReasons(),
	}
}

// ContactsByChannel 返回指定渠道的联系方式，保持原有顺序
func (r *Resume) ContactsByChannel(ch ContactChannel) []ContactEntry {
	var out []ContactEntry
	for _, c := range r.contacts {
		if c.Channel == ch {
			out = append(out, c)
		}
	}
	return out
}

// SkillGroup 按类别名查找技能组
func (r *Resume) SkillGroup(category string) (SkillGroup, bool) {
	for _, g := range r.skills {
		if g.Category == category {
			return SkillGroup{Category: g.Category, Skills: cloneSlice(g.Skills), Span: g.Span}, true
		}
	}
	return SkillGroup{}, false
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneProjects(in []Project) []Project {
	out := cloneSlice(in)
	for i := range out {
		out[i].Technologies = cloneSlice(out[i].Technologies)
	}
	return out
}

func cloneSkills(in []SkillGroup) []SkillGroup {
	out := cloneSlice(in)
	for i := range out {
		out[i].Skills = cloneSlice(out[i].Skills)
	}
	return out
}
