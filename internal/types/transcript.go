package types

import (
	"fmt"
	"strings"
)

// TranscriptRow 调试用的逐行分类/归属记录
type TranscriptRow struct {
	Index      int          `json:"index"`
	Page       int          `json:"page"`
	Kind       LineKind     `json:"kind"`
	Section    SectionLabel `json:"section"`
	Confidence Confidence   `json:"confidence"`
	Heading    bool         `json:"heading"` // 是否为被接受的章节标题行
	Text       string       `json:"text"`
}

// Transcript 一次运行的扁平化调试记录，持久化由调用方负责
type Transcript struct {
	RunID    string          `json:"run_id"`
	Format   string          `json:"format"`
	RawLines int             `json:"raw_lines"`
	Sections []Section       `json:"sections"`
	Rows     []TranscriptRow `json:"rows"`
}

// BuildTranscript 根据归一化行和章节生成逐行记录
func BuildTranscript(runID, format string, rawCount int, lines []NormalizedLine, sections []Section) *Transcript {
	t := &Transcript{
		RunID:    runID,
		Format:   format,
		RawLines: rawCount,
		Sections: append([]Section(nil), sections...),
		Rows:     make([]TranscriptRow, 0, len(lines)),
	}
	for _, sec := range sections {
		for i := sec.Span.Start; i < sec.Span.End && i < len(lines); i++ {
			t.Rows = append(t.Rows, TranscriptRow{
				Index:      i,
				Page:       lines[i].PageIndex,
				Kind:       lines[i].Kind,
				Section:    sec.Label,
				Confidence: sec.Confidence,
				Heading:    i == sec.Span.Start && sec.Heading != "",
				Text:       lines[i].Text,
			})
		}
	}
	return t
}

// Report 生成便于人工阅读的文本报告
func (t *Transcript) Report() string {
	var b strings.Builder
	sep := strings.Repeat("=", 80)
	fmt.Fprintf(&b, "%s\nRESUME EXTRACTION TRANSCRIPT run=%s format=%s raw_lines=%d\n%s\n", sep, t.RunID, t.Format, t.RawLines, sep)

	fmt.Fprintf(&b, "SECTIONS (%d):\n", len(t.Sections))
	for _, s := range t.Sections {
		fmt.Fprintf(&b, "  [%d,%d) %-13s %-17s %q\n", s.Span.Start, s.Span.End, s.Label, s.Confidence, s.Heading)
	}

	b.WriteString(strings.Repeat("-", 80) + "\n")
	for _, r := range t.Rows {
		marker := " "
		if r.Heading {
			marker = "#"
		}
		fmt.Fprintf(&b, "%4d p%-2d %s %-17s %-13s | %s\n", r.Index, r.Page, marker, r.Kind, r.Section, r.Text)
	}
	b.WriteString(sep + "\n")
	return b.String()
}
