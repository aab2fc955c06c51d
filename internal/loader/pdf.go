package loader

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"resume-extract-go/internal/types"
)

// 只支持单栏阅读顺序：同一基线的文字按 X 拼接，多栏排版会交错
const (
	rowTolerance    = 1.5  // 同一行允许的基线偏差
	linkTolerance   = 2.0  // 链接矩形的纵向容差
	spaceGapFactor  = 0.15 // 字间距超过 FontSize*factor 时补空格
	minSpaceGapUnit = 1.0
)

type pdfRow struct {
	y     float64
	texts []pdf.Text
}

// glyphSpan 行内一个文字块对应的 rune 区间与横向范围
type glyphSpan struct {
	start, end int
	x0, x1     float64
}

type pdfLink struct {
	x1, y1, x2, y2 float64
	uri            string
}

// readPDFRows 逐页按行读取文字，并把链接注释锚定到行上
func readPDFRows(data []byte) (lines []types.RawLine, err error) {
	// ledongthuc/pdf 遇到损坏的内容流会 panic
	defer func() {
		if r := recover(); r != nil {
			lines = nil
			err = fmt.Errorf("pdf 解码异常: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	paragraph := 0
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		top := pageTop(page)
		links := pageLinks(page)

		for _, row := range groupRows(page.Content().Text) {
			text, spans := row.join()
			lines = append(lines, types.RawLine{
				Text:             text,
				PageIndex:        i - 1,
				ParagraphIndex:   paragraph,
				VerticalPosition: top - row.y,
				Hyperlinks:       anchorLinks(links, row.y, text, spans),
			})
			paragraph++
		}
	}
	return lines, nil
}

// groupRows 按基线从上到下分组，组内按 X 从左到右
func groupRows(texts []pdf.Text) []pdfRow {
	items := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S != "" {
			items = append(items, t)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Y > items[j].Y
	})

	var rows []pdfRow
	for _, t := range items {
		n := len(rows)
		if n > 0 && math.Abs(rows[n-1].y-t.Y) <= rowTolerance {
			rows[n-1].texts = append(rows[n-1].texts, t)
			continue
		}
		rows = append(rows, pdfRow{y: t.Y, texts: []pdf.Text{t}})
	}

	for i := range rows {
		texts := rows[i].texts
		sort.SliceStable(texts, func(a, b int) bool {
			return texts[a].X < texts[b].X
		})
	}
	return rows
}

func (r pdfRow) join() (string, []glyphSpan) {
	var b strings.Builder
	spans := make([]glyphSpan, 0, len(r.texts))
	runes := 0

	for i, t := range r.texts {
		if i > 0 {
			prev := r.texts[i-1]
			gap := t.X - (prev.X + prev.W)
			unit := math.Max(prev.FontSize*spaceGapFactor, minSpaceGapUnit)
			if gap > unit && !strings.HasSuffix(b.String(), " ") && !strings.HasPrefix(t.S, " ") {
				b.WriteByte(' ')
				runes++
			}
		}
		n := len([]rune(t.S))
		spans = append(spans, glyphSpan{start: runes, end: runes + n, x0: t.X, x1: t.X + t.W})
		b.WriteString(t.S)
		runes += n
	}
	return b.String(), spans
}

// pageLinks 读取 /Annots 中带 /URI 动作的 /Link 注释
func pageLinks(page pdf.Page) []pdfLink {
	annots := page.V.Key("Annots")
	var links []pdfLink
	for i := 0; i < annots.Len(); i++ {
		a := annots.Index(i)
		if a.Key("Subtype").Name() != "Link" {
			continue
		}
		uri := strings.TrimSpace(a.Key("A").Key("URI").RawString())
		if uri == "" {
			continue
		}
		rect := a.Key("Rect")
		if rect.Len() < 4 {
			continue
		}
		x1, y1 := rect.Index(0).Float64(), rect.Index(1).Float64()
		x2, y2 := rect.Index(2).Float64(), rect.Index(3).Float64()
		if x1 > x2 {
			x1, x2 = x2, x1
		}
		if y1 > y2 {
			y1, y2 = y2, y1
		}
		links = append(links, pdfLink{x1: x1, y1: y1, x2: x2, y2: y2, uri: uri})
	}
	return links
}

// anchorLinks 基线落在链接矩形内的行获得该链接；能定位到具体文字时只覆盖这些文字
func anchorLinks(links []pdfLink, y float64, text string, spans []glyphSpan) []types.Hyperlink {
	var out []types.Hyperlink
	for _, l := range links {
		if y < l.y1-linkTolerance || y > l.y2+linkTolerance {
			continue
		}
		start, end := -1, -1
		for _, s := range spans {
			center := (s.x0 + s.x1) / 2
			if center < l.x1-1 || center > l.x2+1 {
				continue
			}
			if start < 0 {
				start = s.start
			}
			end = s.end
		}
		if start < 0 {
			start, end = 0, len([]rune(text))
		}
		out = append(out, types.Hyperlink{Start: start, End: end, URL: l.uri})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func pageTop(page pdf.Page) float64 {
	box := page.V.Key("MediaBox")
	if box.Len() < 4 {
		return 0
	}
	return box.Index(3).Float64()
}
