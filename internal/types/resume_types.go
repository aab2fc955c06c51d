package types

// SectionLabel 表示简历章节类型
type SectionLabel string

const (
	// SectionIdentity 文档开头的身份信息块（姓名、头衔）
	SectionIdentity SectionLabel = "identity"
	// SectionContact 联系方式章节
	SectionContact SectionLabel = "contact"
	// SectionSummary 个人简介章节
	SectionSummary SectionLabel = "summary"
	// SectionEducation 教育经历章节
	SectionEducation SectionLabel = "education"
	// SectionExperience 工作经历章节
	SectionExperience SectionLabel = "experience"
	// SectionProjects 项目经历章节
	SectionProjects SectionLabel = "projects"
	// SectionSkills 技能章节
	SectionSkills SectionLabel = "skills"
	// SectionAchievements 获奖/成就章节
	SectionAchievements SectionLabel = "achievements"
	// SectionProfiles 在线主页/链接章节
	SectionProfiles SectionLabel = "profiles"
	// SectionOther 未分类内容章节
	SectionOther SectionLabel = "other"
)

// HeadingLabels 可以由标题匹配得到的章节类型，顺序即同分时的优先级
var HeadingLabels = []SectionLabel{
	SectionContact,
	SectionSummary,
	SectionEducation,
	SectionExperience,
	SectionProjects,
	SectionSkills,
	SectionAchievements,
	SectionProfiles,
}

// Confidence 章节边界的可信度
type Confidence string

const (
	// ConfidenceMatchedHeading 两端都是被接受的标题
	ConfidenceMatchedHeading Confidence = "matched-heading"
	// ConfidenceInferredBoundary 至少一端是文档首尾或推断出的边界
	ConfidenceInferredBoundary Confidence = "inferred-boundary"
)

// LineKind 归一化后行的分类
type LineKind string

const (
	LineHeading LineKind = "heading-candidate"
	LineBullet  LineKind = "bullet"
	LinePlain   LineKind = "plain"
	LineBlank   LineKind = "blank"
)

// Hyperlink 锚定在行文本上的超链接，Start/End 为 rune 下标（左闭右开）
type Hyperlink struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	URL   string `json:"url"`
}

// RawLine DocumentLoader 产出的原始行，产出后不再修改
type RawLine struct {
	Text             string      `json:"text"`
	PageIndex        int         `json:"page_index"`
	ParagraphIndex   int         `json:"paragraph_index"`
	VerticalPosition float64     `json:"vertical_position"`
	Hyperlinks       []Hyperlink `json:"hyperlinks,omitempty"`
}

// NormalizedLine 清洗并分类后的行；软换行合并时可能包含多条 RawLine
type NormalizedLine struct {
	RawLine
	Kind       LineKind `json:"kind"`
	MergedFrom []int    `json:"merged_from"` // 来源 RawLine 下标
}

// Span 行区间 [Start, End)
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len 返回区间长度
func (s Span) Len() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Section 带标签的连续行区间
type Section struct {
	Label      SectionLabel `json:"label"`
	Span       Span         `json:"span"`
	Confidence Confidence   `json:"confidence"`
	Heading    string       `json:"heading,omitempty"` // 匹配到的原始标题文本
}

// Education 教育经历
type Education struct {
	Institution string `json:"institution,omitempty"`
	Degree      string `json:"degree,omitempty"`
	StartYear   int    `json:"start_year,omitempty"`
	EndYear     int    `json:"end_year,omitempty"`
	Current     bool   `json:"current,omitempty"`
	Description string `json:"description,omitempty"`
	Raw         string `json:"raw"`
	Span        Span   `json:"span"`
}

// Project 项目经历
type Project struct {
	Title        string   `json:"title"`
	Link         string   `json:"link,omitempty"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Raw          string   `json:"raw"`
	Span         Span     `json:"span"`
}

// SkillGroup 一组技能标签
type SkillGroup struct {
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
	Span     Span     `json:"span"`
}

// Achievement 成就/奖项，结构化程度有限
type Achievement struct {
	Text string `json:"text"`
	Year int    `json:"year,omitempty"`
	Span Span   `json:"span"`
}

// ProfileLink 归一化后的在线主页链接
type ProfileLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Label    string `json:"label,omitempty"`
	Span     Span   `json:"span"`
}

// ContactChannel 联系方式类型
type ContactChannel string

const (
	ChannelEmail    ContactChannel = "email"
	ChannelPhone    ContactChannel = "phone"
	ChannelLocation ContactChannel = "location"
)

// ContactEntry 一条联系方式，Value 保留原始展示格式，Normalized 用于去重
type ContactEntry struct {
	Channel    ContactChannel `json:"channel"`
	Value      string         `json:"value"`
	Normalized string         `json:"normalized"`
	E164       string         `json:"e164,omitempty"`
}

// Identity 表示简历中的身份信息
type Identity struct {
	Name     string `json:"name"`
	Headline string `json:"headline,omitempty"`
}
