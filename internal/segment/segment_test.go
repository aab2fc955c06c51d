package segment

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-extract-go/internal/config"
	"resume-extract-go/internal/normalize"
	"resume-extract-go/internal/types"
)

func defaultOptions() Options {
	ext := config.DefaultExtraction()
	return Options{Vocabulary: ext.SectionVocabulary, Threshold: ext.HeadingMatchThreshold}
}

func normalized(texts ...string) []types.NormalizedLine {
	raw := make([]types.RawLine, len(texts))
	for i, t := range texts {
		raw[i] = types.RawLine{Text: t, ParagraphIndex: i}
	}
	vocab := normalize.NewVocabulary(config.DefaultExtraction().SectionVocabulary)
	return normalize.Normalize(raw, vocab)
}

// assertTotalCoverage 章节按顺序首尾相接，覆盖 [0,n)
func assertTotalCoverage(t *testing.T, sections []types.Section, n int) {
	t.Helper()
	if n == 0 {
		assert.Empty(t, sections)
		return
	}
	require.NotEmpty(t, sections)
	assert.Equal(t, 0, sections[0].Span.Start)
	for i := 1; i < len(sections); i++ {
		assert.Equal(t, sections[i-1].Span.End, sections[i].Span.Start, "章节之间不能有空隙或重叠")
	}
	assert.Equal(t, n, sections[len(sections)-1].Span.End)
	for _, s := range sections {
		assert.Greater(t, s.Span.Len(), 0)
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		candidate, synonym string
		min, max           float64
		exact              bool
	}{
		{"EDUCATION", "education", 1, 1, true},
		{"## Education:", "education", 1, 1, true},
		{"Project", "projects", 0.97, 0.97, false},
		{"Educaton", "education", 0.85, 0.9, false},
		{"Relevant Projects", "projects", 0.85, 0.87, false},
		{"Jane Doe", "education", 0, 0.3, false},
		{"Employment Tracker", "employment", 0, 0.6, false},
		{"Data Tools", "tools", 0, 0.5, false},
		{"Links Shortener", "links", 0, 0.5, false},
		{"Machine Learning Work Experience", "work experience", 0.85, 0.9, false},
	}
	for _, tt := range tests {
		t.Run(tt.candidate+"~"+tt.synonym, func(t *testing.T) {
			score, exact := Score(tt.candidate, tt.synonym)
			assert.GreaterOrEqual(t, score, tt.min-1e-9)
			assert.LessOrEqual(t, score, tt.max+1e-9)
			assert.Equal(t, tt.exact, exact)
		})
	}
}

func TestMatcherBest(t *testing.T) {
	m := NewMatcher(config.DefaultExtraction().SectionVocabulary)

	match, ok := m.Best("TECHNICAL SKILLS")
	require.True(t, ok)
	assert.Equal(t, types.SectionSkills, match.Label)
	assert.True(t, match.Exact)

	// "profile" 精确命中 summary，"profiles" 只是复数折叠
	match, ok = m.Best("Profile")
	require.True(t, ok)
	assert.Equal(t, types.SectionSummary, match.Label)

	match, ok = m.Best("Profiles")
	require.True(t, ok)
	assert.Equal(t, types.SectionProfiles, match.Label)

	_, ok = m.Best("***")
	assert.False(t, ok)
}

func TestMatcherTieBreak(t *testing.T) {
	// 同分同长度时按词表顺序：achievements 在 profiles 之前
	m := NewMatcher(map[string][]string{
		"profiles":     {"awards"},
		"achievements": {"awards"},
	})
	match, ok := m.Best("Awards")
	require.True(t, ok)
	assert.Equal(t, types.SectionAchievements, match.Label)

	assert.True(t, better(Match{Score: 0.9, key: "work history"}, Match{Score: 0.9, key: "work"}), "同分时较长的同义词胜出")
	assert.True(t, better(Match{Score: 0.9, Exact: true, key: "a"}, Match{Score: 0.9, key: "abc"}), "同分时精确匹配胜出")
	assert.False(t, better(Match{Score: 0.8, key: "work history"}, Match{Score: 0.9, key: "work"}))
}

func TestSegmentIdentityEducationSkills(t *testing.T) {
	lines := normalized(
		"Jane Doe",
		"jane@example.com | 555-1234",
		"EDUCATION",
		"BS Computer Science, State University, 2018-2022",
		"SKILLS",
		"Python, Go, SQL",
	)
	sections := Segment(lines, defaultOptions())
	assertTotalCoverage(t, sections, len(lines))

	require.Len(t, sections, 3)
	assert.Equal(t, types.SectionIdentity, sections[0].Label)
	assert.Equal(t, types.Span{Start: 0, End: 2}, sections[0].Span)
	assert.Equal(t, types.ConfidenceInferredBoundary, sections[0].Confidence)

	assert.Equal(t, types.SectionEducation, sections[1].Label)
	assert.Equal(t, types.ConfidenceMatchedHeading, sections[1].Confidence)
	assert.Equal(t, "EDUCATION", sections[1].Heading)

	assert.Equal(t, types.SectionSkills, sections[2].Label)
	assert.Equal(t, types.ConfidenceInferredBoundary, sections[2].Confidence, "最后一个章节的结束是文档末尾")
	assert.True(t, HasMatchedHeading(sections))
}

func TestSegmentProjectTitlesStayContent(t *testing.T) {
	lines := normalized(
		"Jane Doe",
		"PROJECTS",
		"Employment Tracker",
		"Tracks job applications for students",
		"Go, PostgreSQL",
		"Links Shortener",
		"URL shortener with analytics",
		"Redis",
		"Data Tools",
		"CLI utilities for CSV cleanup",
	)
	sections := Segment(lines, defaultOptions())
	assertTotalCoverage(t, sections, len(lines))

	require.Len(t, sections, 2, "项目标题里的 employment/links/tools 不能切出新章节")
	assert.Equal(t, types.SectionIdentity, sections[0].Label)
	assert.Equal(t, types.SectionProjects, sections[1].Label)
	assert.Equal(t, types.Span{Start: 1, End: len(lines)}, sections[1].Span)
}

func TestSegmentQualifiedHeading(t *testing.T) {
	lines := normalized("Jane Doe", "Relevant Projects", "Chat App", "Notable Awards", "Dean's List 2021")
	sections := Segment(lines, defaultOptions())
	assertTotalCoverage(t, sections, len(lines))

	require.Len(t, sections, 3)
	assert.Equal(t, types.SectionProjects, sections[1].Label)
	assert.Equal(t, types.SectionAchievements, sections[2].Label)
}

func TestSegmentNoHeadings(t *testing.T) {
	lines := normalized("just some words here", "and more words without any structure", "", "Another Title Like Line")
	sections := Segment(lines, defaultOptions())

	require.Len(t, sections, 1)
	assert.Equal(t, types.SectionOther, sections[0].Label)
	assert.Equal(t, types.ConfidenceInferredBoundary, sections[0].Confidence)
	assertTotalCoverage(t, sections, len(lines))
	assert.False(t, HasMatchedHeading(sections))
}

func TestSegmentHeadingFirstLine(t *testing.T) {
	lines := normalized("SKILLS", "Go, Rust")
	sections := Segment(lines, defaultOptions())
	require.Len(t, sections, 1, "开头就是标题时没有空的 identity 章节")
	assert.Equal(t, types.SectionSkills, sections[0].Label)
	assertTotalCoverage(t, sections, len(lines))
}

func TestSegmentThreshold(t *testing.T) {
	lines := normalized("Jane Doe", "Educaton", "State University")

	opts := defaultOptions()
	sections := Segment(lines, opts)
	require.Len(t, sections, 2, "拼写错误的标题在默认阈值下被接受")
	assert.Equal(t, types.SectionEducation, sections[1].Label)

	opts.Threshold = 0.95
	sections = Segment(lines, opts)
	require.Len(t, sections, 1, "提高阈值后模糊匹配被拒绝，标题行作为正文")
	assert.Equal(t, types.SectionOther, sections[0].Label)
}

func TestSegmentEmpty(t *testing.T) {
	assert.Empty(t, Segment(nil, defaultOptions()))
}

func TestSegmentTotalCoverageRandom(t *testing.T) {
	pool := []string{
		"EDUCATION", "Skills", "PROJECTS", "Work Experience", "Jane Doe", "",
		"• built things", "Python, Go", "plain text line", "Awards & Honors",
		"Relevant Projects", "Contact", "State University, 2019", "Profiles",
	}
	rng := rand.New(rand.NewSource(42))
	opts := defaultOptions()
	for i := 0; i < 200; i++ {
		n := rng.Intn(25)
		texts := make([]string, n)
		for j := range texts {
			texts[j] = pool[rng.Intn(len(pool))]
		}
		lines := normalized(texts...)
		assertTotalCoverage(t, Segment(lines, opts), len(lines))
	}
}
