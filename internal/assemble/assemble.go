// Package assemble 把身份块、联系方式、链接和各章节记录组装成不可变的 Resume。
package assemble

import (
	"strings"

	"resume-extract-go/internal/extract"
	"resume-extract-go/internal/normalize"
	"resume-extract-go/internal/segment"
	"resume-extract-go/internal/types"
)

// 低置信度原因
const (
	ReasonNoHeading = "no section heading matched"
	ReasonNoName    = "name not found"
)

// headline 最多词数
const maxHeadlineWords = 12

// Input 组装所需的全部中间结果
type Input struct {
	Lines    []types.NormalizedLine
	Sections []types.Section
	Records  extract.Records
	Links    []types.ProfileLink // 全文链接
}

// Assembler 组装器，只持有不可变配置
type Assembler struct {
	phoneRegion string
}

// Option 组装器选项
type Option func(*Assembler)

// WithPhoneRegion 设置解析本地电话号码使用的默认地区（如 "US"）
func WithPhoneRegion(region string) Option {
	return func(a *Assembler) {
		a.phoneRegion = strings.ToUpper(strings.TrimSpace(region))
	}
}

// New 创建组装器
func New(opts ...Option) *Assembler {
	a := &Assembler{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble 使用默认选项组装
func Assemble(in Input, opts ...Option) *types.Resume {
	return New(opts...).Assemble(in)
}

// Assemble 组装结果。从不失败：结构不足时设置 LowConfidence 并记录原因。
func (a *Assembler) Assemble(in Input) *types.Resume {
	data := types.ResumeData{
		Educations:   in.Records.Educations,
		Projects:     in.Records.Projects,
		Skills:       in.Records.Skills,
		Achievements: in.Records.Achievements,
		Profiles:     mergeProfiles(in.Records.Profiles, in.Links),
		Summary:      strings.Join(in.Records.Summary, "\n\n"),
	}

	contacts := newContactCollector(a.phoneRegion)
	for _, sec := range in.Sections {
		if sec.Label != types.SectionIdentity && sec.Label != types.SectionContact {
			continue
		}
		for i := max(sec.Span.Start, 0); i < min(sec.Span.End, len(in.Lines)); i++ {
			contacts.scan(in.Lines[i])
		}
		if sec.Label == types.SectionIdentity && data.Identity.Name == "" {
			data.Identity = identity(in.Lines, sec)
		}
	}
	data.Contacts = contacts.out

	if !segment.HasMatchedHeading(in.Sections) {
		data.LowConfidence = true
		data.LowConfidenceReasons = append(data.LowConfidenceReasons, ReasonNoHeading)
	}
	if data.Identity.Name == "" {
		data.LowConfidence = true
		data.LowConfidenceReasons = append(data.LowConfidenceReasons, ReasonNoName)
	}
	return types.NewResume(data)
}

// identity 姓名取身份块中第一个非联系方式、形似姓名的行（或其第一段）；
// 紧随其后的非联系方式短行作为 headline
func identity(lines []types.NormalizedLine, sec types.Section) types.Identity {
	var id types.Identity
	nameLine := -1
	for i := max(sec.Span.Start, 0); i < min(sec.Span.End, len(lines)); i++ {
		if lines[i].Kind == types.LineBlank {
			continue
		}
		text := strings.TrimSpace(normalize.StripBullet(lines[i].Text))
		first := strings.TrimSpace(contactSplitRe.Split(text, 2)[0])
		if first == "" || isContact(first) || !looksLikeName(first) {
			continue
		}
		id.Name = first
		nameLine = i
		break
	}
	if nameLine < 0 {
		return id
	}

	for i := nameLine + 1; i < min(sec.Span.End, len(lines)); i++ {
		if lines[i].Kind == types.LineBlank {
			continue
		}
		text := strings.TrimSpace(normalize.StripBullet(lines[i].Text))
		if !isContact(text) && len(strings.Fields(text)) <= maxHeadlineWords {
			id.Headline = text
		}
		break
	}
	return id
}
