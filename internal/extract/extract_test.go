package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-extract-go/internal/config"
	"resume-extract-go/internal/normalize"
	"resume-extract-go/internal/types"
)

func newTestRegistry() *Registry {
	return NewRegistry(ConfigFrom(config.DefaultExtraction()))
}

func normalized(texts ...string) []types.NormalizedLine {
	raw := make([]types.RawLine, len(texts))
	for i, t := range texts {
		raw[i] = types.RawLine{Text: t, ParagraphIndex: i}
	}
	return normalize.Normalize(raw, normalize.NewVocabulary(config.DefaultExtraction().SectionVocabulary))
}

// headed 第一行是标题的整段章节
func headed(label types.SectionLabel, lines []types.NormalizedLine) types.Section {
	return types.Section{
		Label:      label,
		Span:       types.Span{Start: 0, End: len(lines)},
		Confidence: types.ConfidenceMatchedHeading,
		Heading:    lines[0].Text,
	}
}

func TestEducationSingleLine(t *testing.T) {
	lines := normalized("EDUCATION", "BS Computer Science, State University, 2018-2022")
	got := newTestRegistry().Extract(headed(types.SectionEducation, lines), lines)

	require.Len(t, got.Educations, 1)
	edu := got.Educations[0]
	assert.Equal(t, "State University", edu.Institution)
	assert.Equal(t, "BS Computer Science", edu.Degree)
	assert.Equal(t, 2018, edu.StartYear)
	assert.Equal(t, 2022, edu.EndYear)
	assert.False(t, edu.Current)
	assert.Equal(t, types.Span{Start: 1, End: 2}, edu.Span)
	assert.Equal(t, "BS Computer Science, State University, 2018-2022", edu.Raw)
}

func TestEducationMultipleEntries(t *testing.T) {
	lines := normalized(
		"Education",
		"Massachusetts Institute of Technology",
		"MS Computer Science | 2022 - Present",
		"",
		"State University",
		"B.Tech in Electronics, 2016 - 2020",
	)
	got := newTestRegistry().Extract(headed(types.SectionEducation, lines), lines)

	require.Len(t, got.Educations, 2)

	first := got.Educations[0]
	assert.Equal(t, "Massachusetts Institute of Technology", first.Institution)
	assert.Equal(t, "MS Computer Science", first.Degree)
	assert.Equal(t, 2022, first.StartYear)
	assert.Zero(t, first.EndYear)
	assert.True(t, first.Current)

	second := got.Educations[1]
	assert.Equal(t, "State University", second.Institution)
	assert.Equal(t, "B.Tech in Electronics", second.Degree)
	assert.Equal(t, 2016, second.StartYear)
	assert.Equal(t, 2020, second.EndYear)
	assert.Equal(t, types.Span{Start: 4, End: 6}, second.Span)
}

func TestEducationUnstructuredKeepsRaw(t *testing.T) {
	lines := normalized("Education", "Self taught through online courses")
	got := newTestRegistry().Extract(headed(types.SectionEducation, lines), lines)

	require.Len(t, got.Educations, 1)
	assert.Empty(t, got.Educations[0].Institution)
	assert.Zero(t, got.Educations[0].StartYear)
	assert.Equal(t, "Self taught through online courses", got.Educations[0].Raw)
}

func TestSkillsGeneral(t *testing.T) {
	lines := normalized("SKILLS", "Python, Go, SQL")
	got := newTestRegistry().Extract(headed(types.SectionSkills, lines), lines)

	require.Len(t, got.Skills, 1)
	assert.Equal(t, GeneralSkillGroup, got.Skills[0].Category)
	assert.Equal(t, []string{"Python", "Go", "SQL"}, got.Skills[0].Skills)
}

func TestSkillsCategories(t *testing.T) {
	lines := normalized(
		"Technical Skills",
		"Languages: Python, Go",
		"Frameworks:",
		"• Django",
		"• React | Vue",
		"",
		"Git, Docker, git",
		"Languages: Rust; python",
	)
	got := newTestRegistry().Extract(headed(types.SectionSkills, lines), lines)

	require.Len(t, got.Skills, 3)
	assert.Equal(t, GeneralSkillGroup, got.Skills[0].Category, "General 分组排在最前")
	assert.Equal(t, []string{"Git", "Docker"}, got.Skills[0].Skills, "同组内忽略大小写去重")
	assert.Equal(t, types.Span{Start: 6, End: 7}, got.Skills[0].Span)

	assert.Equal(t, "Languages", got.Skills[1].Category)
	assert.Equal(t, []string{"Python", "Go", "Rust"}, got.Skills[1].Skills, "同名分类合并")

	assert.Equal(t, "Frameworks", got.Skills[2].Category)
	assert.Equal(t, []string{"Django", "React", "Vue"}, got.Skills[2].Skills)
}

func TestSkillsInlineCategoryOnlyCoversItsLine(t *testing.T) {
	lines := normalized(
		"SKILLS",
		"Languages: Python, Go",
		"Docker, Kubernetes, Git",
		"Tools:",
		"Vim",
		"Databases: Postgres",
		"Redis",
	)
	got := newTestRegistry().Extract(headed(types.SectionSkills, lines), lines)

	require.Len(t, got.Skills, 4)
	assert.Equal(t, GeneralSkillGroup, got.Skills[0].Category)
	assert.Equal(t, []string{"Docker", "Kubernetes", "Git", "Redis"}, got.Skills[0].Skills, "行内分类之后的无分类行归入 General")
	assert.Equal(t, "Languages", got.Skills[1].Category)
	assert.Equal(t, []string{"Python", "Go"}, got.Skills[1].Skills)
	assert.Equal(t, "Tools", got.Skills[2].Category)
	assert.Equal(t, []string{"Vim"}, got.Skills[2].Skills, "行内分类结束单独分类开启的分组")
	assert.Equal(t, "Databases", got.Skills[3].Category)
	assert.Equal(t, []string{"Postgres"}, got.Skills[3].Skills)
}

func TestDetectSkills(t *testing.T) {
	lines := normalized(
		"Jane Doe",
		"Experience",
		"Built data pipelines with Python, Spark and Kafka on AWS",
		"",
		"Migrated services to kubernetes and python 3",
	)
	r := newTestRegistry()

	got, ok := r.DetectSkills(lines, nil)
	require.True(t, ok)
	assert.Equal(t, DetectedSkillGroup, got.Category)
	assert.Equal(t, []string{"Python", "Spark", "Kafka", "AWS", "Kubernetes"}, got.Skills, "按首次出现顺序，忽略大小写去重")
	assert.Equal(t, types.Span{Start: 2, End: 5}, got.Span)

	existing := []types.SkillGroup{{Category: GeneralSkillGroup, Skills: []string{"python", "Spark", "Kafka", "aws", "Kubernetes"}}}
	_, ok = r.DetectSkills(lines, existing)
	assert.False(t, ok, "已有分组覆盖全部关键词")
}

func TestProjects(t *testing.T) {
	lines := normalized(
		"Projects",
		"Resume Parser | Python, spaCy",
		"• Built a parser with FastAPI",
		"• Deployed on AWS",
		"Chat App - github.com/jane/chat",
		"• Real-time chat using React and Redis",
	)
	got := newTestRegistry().Extract(headed(types.SectionProjects, lines), lines)

	require.Len(t, got.Projects, 2)

	p := got.Projects[0]
	assert.Equal(t, "Resume Parser", p.Title)
	assert.Equal(t, "Python, spaCy\nBuilt a parser with FastAPI\nDeployed on AWS", p.Description)
	assert.Equal(t, []string{"Python", "spaCy", "FastAPI", "AWS"}, p.Technologies)
	assert.Empty(t, p.Link)
	assert.Equal(t, types.Span{Start: 1, End: 4}, p.Span)

	p = got.Projects[1]
	assert.Equal(t, "Chat App", p.Title)
	assert.Equal(t, "https://github.com/jane/chat", p.Link)
	assert.Equal(t, []string{"React", "Redis"}, p.Technologies)
}

func TestProjectsBulletList(t *testing.T) {
	lines := normalized("Projects", "• Portfolio site built with Svelte", "• CLI todo app in Rust")
	got := newTestRegistry().Extract(headed(types.SectionProjects, lines), lines)

	require.Len(t, got.Projects, 2)
	assert.Equal(t, "Portfolio site built with Svelte", got.Projects[0].Title)
	assert.Equal(t, []string{"Svelte"}, got.Projects[0].Technologies)
	assert.Equal(t, "CLI todo app in Rust", got.Projects[1].Title)
}

func TestProjectLinkFromHyperlink(t *testing.T) {
	lines := []types.NormalizedLine{
		{RawLine: types.RawLine{Text: "Projects"}, Kind: types.LineHeading},
		{RawLine: types.RawLine{
			Text:       "Weather Bot (demo)",
			Hyperlinks: []types.Hyperlink{{Start: 13, End: 17, URL: "https://bot.example.com"}},
		}, Kind: types.LinePlain},
	}
	got := newTestRegistry().Extract(headed(types.SectionProjects, lines), lines)

	require.Len(t, got.Projects, 1)
	assert.Equal(t, "Weather Bot", got.Projects[0].Title)
	assert.Equal(t, "https://bot.example.com", got.Projects[0].Link)
}

func TestAchievements(t *testing.T) {
	lines := normalized("Awards", "• Winner, ACM ICPC Regionals 2021", "", "Dean's List")
	got := newTestRegistry().Extract(headed(types.SectionAchievements, lines), lines)

	require.Len(t, got.Achievements, 2)
	assert.Equal(t, "Winner, ACM ICPC Regionals 2021", got.Achievements[0].Text)
	assert.Equal(t, 2021, got.Achievements[0].Year)
	assert.Equal(t, "Dean's List", got.Achievements[1].Text)
	assert.Zero(t, got.Achievements[1].Year)
	assert.Equal(t, types.Span{Start: 3, End: 4}, got.Achievements[1].Span)
}

func TestSummary(t *testing.T) {
	lines := normalized("Summary", "Backend engineer with five years of experience.", "Enjoys distributed systems.")
	got := newTestRegistry().Extract(headed(types.SectionSummary, lines), lines)

	assert.Equal(t, []string{"Backend engineer with five years of experience. Enjoys distributed systems."}, got.Summary)
}

func TestAsURL(t *testing.T) {
	tests := []struct {
		token string
		want  string
		ok    bool
	}{
		{"https://x.io/a", "https://x.io/a", true},
		{"www.example.com", "https://www.example.com", true},
		{"github.com/jane", "https://github.com/jane", true},
		{"(github.com/jane),", "https://github.com/jane", true},
		{"jane@example.com", "", false},
		{"example.com", "", false},
		{"Node.js", "", false},
		{"e.g.", "", false},
		{"mailto:jane@example.com", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := asURL(tt.token)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLinkExtractor(t *testing.T) {
	links := NewLinkExtractor(config.DefaultExtraction().PlatformDomainTable)

	assert.Equal(t, "code-hosting", links.Classify("https://GitHub.com/jane"))
	assert.Equal(t, "professional-network", links.Classify("https://www.linkedin.com/in/jane"))
	assert.Equal(t, PlatformOther, links.Classify("https://jane.dev"))
	assert.Equal(t, PlatformOther, links.Classify("https://notgithub.com/jane"))

	lines := []types.NormalizedLine{
		{RawLine: types.RawLine{
			Text: "GitHub LinkedIn Email",
			Hyperlinks: []types.Hyperlink{
				{Start: 0, End: 6, URL: "https://github.com/janedoe"},
				{Start: 7, End: 15, URL: "https://www.linkedin.com/in/jane"},
				{Start: 16, End: 21, URL: "mailto:jane@example.com"},
			},
		}},
		{RawLine: types.RawLine{Text: "Blog: jane.dev/posts | jane@example.com"}},
	}
	got := links.Extract(lines, 0, len(lines))

	require.Len(t, got, 3)
	assert.Equal(t, types.ProfileLink{Platform: "code-hosting", URL: "https://github.com/janedoe", Label: "GitHub", Span: types.Span{Start: 0, End: 1}}, got[0])
	assert.Equal(t, "professional-network", got[1].Platform)
	assert.Equal(t, "LinkedIn", got[1].Label)
	assert.Equal(t, types.ProfileLink{Platform: PlatformOther, URL: "https://jane.dev/posts", Label: "https://jane.dev/posts", Span: types.Span{Start: 1, End: 2}}, got[2])
}

func TestRegistryDispatch(t *testing.T) {
	r := newTestRegistry()

	_, ok := r.Lookup(types.SectionExperience)
	assert.False(t, ok, "experience 没有抽取器")
	_, ok = r.Lookup(types.SectionSkills)
	assert.True(t, ok)

	lines := normalized(
		"Jane Doe",
		"SKILLS",
		"Python, Go",
		"PROFILES",
		"github.com/janedoe",
	)
	sections := []types.Section{
		{Label: types.SectionIdentity, Span: types.Span{Start: 0, End: 1}, Confidence: types.ConfidenceInferredBoundary},
		{Label: types.SectionSkills, Span: types.Span{Start: 1, End: 3}, Confidence: types.ConfidenceMatchedHeading, Heading: "SKILLS"},
		{Label: types.SectionProfiles, Span: types.Span{Start: 3, End: 5}, Confidence: types.ConfidenceInferredBoundary, Heading: "PROFILES"},
	}
	all := r.ExtractAll(sections, lines)

	require.Len(t, all.Skills, 1)
	require.Len(t, all.Profiles, 1)
	assert.Equal(t, "https://github.com/janedoe", all.Profiles[0].URL)
	assert.Empty(t, all.Educations)

	r.Register(NewExtractorFunc(types.SectionExperience, func(sec types.Section, _ []types.NormalizedLine) Records {
		return Records{Summary: []string{string(sec.Label)}}
	}))
	got := r.Extract(types.Section{Label: types.SectionExperience, Span: types.Span{Start: 0, End: 1}}, lines)
	assert.Equal(t, []string{"experience"}, got.Summary)
}

func TestExtractorsAreTotal(t *testing.T) {
	r := newTestRegistry()
	lines := normalized("???", "", "- - -", "12345")
	for _, label := range types.HeadingLabels {
		sec := types.Section{Label: label, Span: types.Span{Start: 0, End: len(lines)}}
		assert.NotPanics(t, func() { r.Extract(sec, lines) }, string(label))
	}
	assert.NotPanics(t, func() {
		r.Extract(types.Section{Label: types.SectionSkills, Span: types.Span{Start: 3, End: 99}}, lines)
	})
}
