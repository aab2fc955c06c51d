// Package extract 按章节标签把章节内容转换为结构化记录。
// 所有抽取函数都是全函数：输入格式不对时返回空列表或只带 Raw 的记录，从不报错。
package extract

import (
	"resume-extract-go/internal/types"
)

// Records 一个或多个章节的抽取结果
type Records struct {
	Summary      []string
	Educations   []types.Education
	Projects     []types.Project
	Skills       []types.SkillGroup
	Achievements []types.Achievement
	Profiles     []types.ProfileLink
}

// Append 按文档顺序追加另一组结果
func (r *Records) Append(o Records) {
	r.Summary = append(r.Summary, o.Summary...)
	r.Educations = append(r.Educations, o.Educations...)
	r.Projects = append(r.Projects, o.Projects...)
	r.Skills = append(r.Skills, o.Skills...)
	r.Achievements = append(r.Achievements, o.Achievements...)
	r.Profiles = append(r.Profiles, o.Profiles...)
}

// Extractor 把一个章节转换为记录
type Extractor interface {
	Label() types.SectionLabel
	Extract(sec types.Section, lines []types.NormalizedLine) Records
}

// ExtractorFunc 函数适配器
type ExtractorFunc struct {
	label types.SectionLabel
	fn    func(sec types.Section, lines []types.NormalizedLine) Records
}

// NewExtractorFunc 用函数构造 Extractor
func NewExtractorFunc(label types.SectionLabel, fn func(types.Section, []types.NormalizedLine) Records) ExtractorFunc {
	return ExtractorFunc{label: label, fn: fn}
}

func (f ExtractorFunc) Label() types.SectionLabel { return f.label }

func (f ExtractorFunc) Extract(sec types.Section, lines []types.NormalizedLine) Records {
	return f.fn(sec, lines)
}

// Registry 标签 -> 抽取器 的查找表，创建后只读
type Registry struct {
	byLabel map[types.SectionLabel]Extractor
	links   *LinkExtractor
	tech    *keywordMatcher
}

// NewRegistry 注册默认的抽取器。identity、contact、experience、other 没有抽取器，
// identity 与 contact 由组装阶段处理。
func NewRegistry(cfg Config) *Registry {
	cfg = cfg.withDefaults()
	r := &Registry{
		byLabel: make(map[types.SectionLabel]Extractor),
		links:   NewLinkExtractor(cfg.PlatformDomainTable),
		tech:    newKeywordMatcher(cfg.TechnologyKeywords, false),
	}

	edu := newEducationExtractor(cfg.InstitutionKeywords, cfg.DegreeKeywords)
	proj := newProjectExtractor(cfg.TechnologyKeywords)

	r.Register(NewExtractorFunc(types.SectionSummary, extractSummary))
	r.Register(NewExtractorFunc(types.SectionEducation, edu.extract))
	r.Register(NewExtractorFunc(types.SectionProjects, proj.extract))
	r.Register(NewExtractorFunc(types.SectionSkills, extractSkills))
	r.Register(NewExtractorFunc(types.SectionAchievements, extractAchievements))
	r.Register(NewExtractorFunc(types.SectionProfiles, r.links.extractSection))
	return r
}

// Register 注册或替换某个标签的抽取器
func (r *Registry) Register(e Extractor) {
	r.byLabel[e.Label()] = e
}

// Lookup 查找标签对应的抽取器
func (r *Registry) Lookup(label types.SectionLabel) (Extractor, bool) {
	e, ok := r.byLabel[label]
	return e, ok
}

// Extract 分派单个章节，没有抽取器的标签返回空结果
func (r *Registry) Extract(sec types.Section, lines []types.NormalizedLine) Records {
	e, ok := r.byLabel[sec.Label]
	if !ok {
		return Records{}
	}
	return e.Extract(sec, lines)
}

// ExtractAll 按章节顺序抽取并合并，保持文档顺序
func (r *Registry) ExtractAll(sections []types.Section, lines []types.NormalizedLine) Records {
	var all Records
	for _, sec := range sections {
		all.Append(r.Extract(sec, lines))
	}
	return all
}

// DocumentLinks 全文所有超链接和裸 URL，不限于 profiles 章节
func (r *Registry) DocumentLinks(lines []types.NormalizedLine) []types.ProfileLink {
	return r.links.Extract(lines, 0, len(lines))
}

// Links 返回使用的链接抽取器
func (r *Registry) Links() *LinkExtractor {
	return r.links
}
