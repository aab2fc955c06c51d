// Package segment 把归一化后的行切分为带标签的章节，章节按顺序排列、互不重叠且覆盖全部行。
package segment

import (
	"resume-extract-go/internal/types"
)

// Options 切分配置
type Options struct {
	Vocabulary map[string][]string // label -> 同义词
	Threshold  float64             // 得分严格大于阈值才接受为章节标题
}

// Segmenter 章节切分器，创建后只读，可并发使用
type Segmenter struct {
	matcher   *Matcher
	threshold float64
}

// New 创建切分器
func New(opts Options) *Segmenter {
	return &Segmenter{
		matcher:   NewMatcher(opts.Vocabulary),
		threshold: opts.Threshold,
	}
}

// Segment 使用一次性的切分器
func Segment(lines []types.NormalizedLine, opts Options) []types.Section {
	return New(opts).Segment(lines)
}

type boundary struct {
	index   int
	label   types.SectionLabel
	heading string
}

// Segment 只有 heading-candidate 行参与打分；未被接受的标题行作为正文留在所属章节中。
// 第一个被接受的标题之前的行构成 identity 章节；一个标题都没有时整篇为一个 other 章节。
func (s *Segmenter) Segment(lines []types.NormalizedLine) []types.Section {
	n := len(lines)
	if n == 0 {
		return nil
	}

	var bounds []boundary
	for i, line := range lines {
		if line.Kind != types.LineHeading {
			continue
		}
		if m, ok := s.matcher.Best(line.Text); ok && m.Score > s.threshold {
			bounds = append(bounds, boundary{index: i, label: m.Label, heading: line.Text})
		}
	}

	if len(bounds) == 0 {
		return []types.Section{{
			Label:      types.SectionOther,
			Span:       types.Span{Start: 0, End: n},
			Confidence: types.ConfidenceInferredBoundary,
		}}
	}

	sections := make([]types.Section, 0, len(bounds)+1)
	if bounds[0].index > 0 {
		sections = append(sections, types.Section{
			Label:      types.SectionIdentity,
			Span:       types.Span{Start: 0, End: bounds[0].index},
			Confidence: types.ConfidenceInferredBoundary,
		})
	}

	for k, b := range bounds {
		end, confidence := n, types.ConfidenceInferredBoundary
		if k+1 < len(bounds) {
			end, confidence = bounds[k+1].index, types.ConfidenceMatchedHeading
		}
		sections = append(sections, types.Section{
			Label:      b.label,
			Span:       types.Span{Start: b.index, End: end},
			Confidence: confidence,
			Heading:    b.heading,
		})
	}
	return sections
}

// HasMatchedHeading 是否至少有一个章节来自被接受的标题
func HasMatchedHeading(sections []types.Section) bool {
	for _, sec := range sections {
		if sec.Heading != "" {
			return true
		}
	}
	return false
}
