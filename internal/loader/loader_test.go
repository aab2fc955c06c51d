package loader

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-extract-go/internal/tracing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"pdf", FormatPDF},
		{" PDF ", FormatPDF},
		{".pdf", FormatPDF},
		{"application/pdf", FormatPDF},
		{"docx", FormatDOCX},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", FormatDOCX},
		{"txt", FormatTXT},
		{"text/plain; charset=utf-8", FormatTXT},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFormat("rtf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "rtf", loadErr.Format)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load(context.Background(), []byte("hello"), Format("odt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.NotErrorIs(t, err, ErrCorruptDocument)
}

func TestLoadText(t *testing.T) {
	data := []byte("Jane Doe\r\njane@example.com | 555-1234\rEDUCATION\n\nBS CS\n")
	lines, err := Load(context.Background(), data, FormatTXT)
	require.NoError(t, err)

	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
		assert.Equal(t, i, l.ParagraphIndex)
		assert.Empty(t, l.Hyperlinks, "纯文本没有超链接")
	}
	assert.Equal(t, []string{"Jane Doe", "jane@example.com | 555-1234", "EDUCATION", "", "BS CS"}, texts)
}

func TestLoadTextEdgeCases(t *testing.T) {
	lines, err := Load(context.Background(), nil, FormatTXT)
	require.NoError(t, err, "空文本不是错误")
	assert.Empty(t, lines)

	lines, err = Load(context.Background(), []byte("\ufeffName\xff\n"), FormatTXT)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Name\uFFFD", lines[0].Text)
}

func TestLoadTooLarge(t *testing.T) {
	l := New(WithMaxBytes(4))
	_, err := l.Load(context.Background(), []byte("12345"), FormatTXT)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentTooLarge)
}

func TestLoadCorruptDocuments(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		format Format
	}{
		{"empty pdf", nil, FormatPDF},
		{"text declared as pdf", []byte("just some text"), FormatPDF},
		{"broken pdf body", []byte("%PDF-1.4\nthis is not a pdf body at all"), FormatPDF},
		{"empty docx", nil, FormatDOCX},
		{"text declared as docx", []byte("just some text"), FormatDOCX},
		{"zip without document.xml", buildZip(t, map[string]string{"hello.txt": "hi"}), FormatDOCX},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), tt.data, tt.format)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCorruptDocument)
			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, string(tt.format), loadErr.Format)
		})
	}
}

const testDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<w:body>
<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Profile: </w:t></w:r><w:hyperlink r:id="rId5"><w:r><w:t>GitHub</w:t></w:r></w:hyperlink></w:p>
<w:p><w:r><w:fldChar w:fldCharType="begin"/></w:r><w:r><w:instrText xml:space="preserve"> HYPERLINK "https://www.linkedin.com/in/janedoe" </w:instrText></w:r><w:r><w:fldChar w:fldCharType="separate"/></w:r><w:r><w:t>LinkedIn</w:t></w:r><w:r><w:fldChar w:fldCharType="end"/></w:r></w:p>
<w:p><w:r><w:t>Line one</w:t><w:br/><w:t>Line</w:t><w:tab/><w:t>two</w:t></w:r></w:p>
<w:p></w:p>
<w:tbl><w:tr><w:tc><w:p><w:r><w:t>SKILLS</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>Go, SQL</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
</w:body>
</w:document>`

const testRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
<Relationship Id="rId5" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://github.com/janedoe" TargetMode="External"/>
</Relationships>`

func TestLoadDOCX(t *testing.T) {
	data := buildZip(t, map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/document.xml":            testDocumentXML,
		"word/_rels/document.xml.rels": testRelsXML,
	})

	lines, err := Load(context.Background(), data, FormatDOCX)
	require.NoError(t, err)

	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	assert.Equal(t, []string{"Jane Doe", "Profile: GitHub", "LinkedIn", "Line one", "Line two", "", "SKILLS", "Go, SQL"}, texts)

	// rels 解析出的超链接只覆盖锚文本
	require.Len(t, lines[1].Hyperlinks, 1)
	assert.Equal(t, "https://github.com/janedoe", lines[1].Hyperlinks[0].URL)
	assert.Equal(t, 9, lines[1].Hyperlinks[0].Start)
	assert.Equal(t, 15, lines[1].Hyperlinks[0].End)

	// HYPERLINK 域代码
	require.Len(t, lines[2].Hyperlinks, 1)
	assert.Equal(t, "https://www.linkedin.com/in/janedoe", lines[2].Hyperlinks[0].URL)
	assert.Equal(t, 0, lines[2].Hyperlinks[0].Start)
	assert.Equal(t, 8, lines[2].Hyperlinks[0].End)

	// <w:br/> 拆出的两行属于同一段落
	assert.Equal(t, lines[3].ParagraphIndex, lines[4].ParagraphIndex)
	assert.Less(t, lines[4].ParagraphIndex, lines[6].ParagraphIndex)
}

func TestHyperlinkFromInstr(t *testing.T) {
	assert.Equal(t, "https://x.dev", hyperlinkFromInstr(` HYPERLINK "https://x.dev" \o "tip"`))
	assert.Equal(t, "https://x.dev", hyperlinkFromInstr(`HYPERLINK https://x.dev`))
	assert.Empty(t, hyperlinkFromInstr(`HYPERLINK \l "_Toc123"`), "文档内书签不是外部链接")
	assert.Empty(t, hyperlinkFromInstr(`PAGEREF _Toc1 \h`))
}

func TestLoadPDF(t *testing.T) {
	data := buildPDF(t,
		"BT /F1 12 Tf 72 720 Td (Jane Doe) Tj 0 -20 Td (github.com/janedoe) Tj ET",
		"<< /Type /Annot /Subtype /Link /Rect [70 695 250 712] /A << /S /URI /URI (https://github.com/janedoe) >> >>",
	)

	lines, err := New(WithPDFFallback(false)).Load(context.Background(), data, FormatPDF)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "Jane Doe", lines[0].Text)
	assert.Empty(t, lines[0].Hyperlinks, "链接矩形不覆盖第一行")
	assert.Equal(t, "github.com/janedoe", lines[1].Text)
	assert.Equal(t, 0, lines[1].PageIndex)
	assert.Less(t, lines[0].VerticalPosition, lines[1].VerticalPosition, "从上到下的阅读顺序")

	require.Len(t, lines[1].Hyperlinks, 1)
	assert.Equal(t, "https://github.com/janedoe", lines[1].Hyperlinks[0].URL)
	assert.Equal(t, 0, lines[1].Hyperlinks[0].Start)
	assert.Equal(t, len([]rune("github.com/janedoe")), lines[1].Hyperlinks[0].End)
}

func TestDetectFormat(t *testing.T) {
	f, ok := DetectFormat(buildPDF(t, "BT ET", ""))
	require.True(t, ok)
	assert.Equal(t, FormatPDF, f)

	f, ok = DetectFormat([]byte("plain resume text\n"))
	require.True(t, ok)
	assert.Equal(t, FormatTXT, f)
}

func TestTraceErrorType(t *testing.T) {
	assert.Equal(t, tracing.ErrorTypeUnsupported, TraceErrorType(newUnsupportedError("rtf", "")))
	assert.Equal(t, tracing.ErrorTypeValidation, TraceErrorType(fmt.Errorf("wrap: %w", ErrDocumentTooLarge)))
	assert.Equal(t, tracing.ErrorTypeDecode, TraceErrorType(newCorruptError(FormatPDF, "open", "bad header", nil)))
	assert.Equal(t, tracing.ErrorTypeTimeout, TraceErrorType(context.DeadlineExceeded))
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		filename string
		data     []byte
		want     Format
		wantErr  bool
	}{
		{"declared wins over extension", "pdf", "a.txt", nil, FormatPDF, false},
		{"declared mime type", "text/plain; charset=utf-8", "", nil, FormatTXT, false},
		{"extension", "", "CV.DOCX", nil, FormatDOCX, false},
		{"sniff pdf", "", "upload", buildPDF(t, "BT ET", ""), FormatPDF, false},
		{"sniff text", "", "upload", []byte("Jane Doe\nSkills\n"), FormatTXT, false},
		{"unknown extension", "", "cv.rtf", []byte("text"), "", true},
		{"unknown declared", "doc", "cv.txt", nil, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveFormat(tt.declared, tt.filename, tt.data)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	// [Content_Types].xml 放在最前面
	names := make([]string, 0, len(files))
	if _, ok := files["[Content_Types].xml"]; ok {
		names = append(names, "[Content_Types].xml")
	}
	for name := range files {
		if name != "[Content_Types].xml" {
			names = append(names, name)
		}
	}
	for _, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// buildPDF 生成单页 PDF，xref 偏移在运行时计算
func buildPDF(t *testing.T, content string, annot string) []byte {
	t.Helper()
	annots := ""
	if annot != "" {
		annots = " /Annots [6 0 R]"
	}
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R" + annots + " >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}
	if annot != "" {
		objects = append(objects, annot)
	}

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objects)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n", len(objects)+1, xref)
	b.WriteString("%%EOF\n")
	return []byte(b.String())
}
