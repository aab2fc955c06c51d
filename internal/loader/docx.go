package loader

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"resume-extract-go/internal/types"
)

// 单个 zip 条目解压上限
const maxDOCXPartBytes = 32 << 20

type docxRelationships struct {
	Relationships []struct {
		ID     string `xml:"Id,attr"`
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

var instrHyperlinkRe = regexp.MustCompile(`^\s*HYPERLINK\s+(?:"([^"]+)"|([^\s\\"]\S*))`)

// readDOCX 按段落顺序读取 word/document.xml（包括表格单元格中的段落），
// <w:br/> 拆成多行，超链接通过 rels 或 HYPERLINK 域代码解析
func readDOCX(data []byte) ([]types.RawLine, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, newCorruptError(FormatDOCX, "unzip", "", err)
	}

	body, err := readZipFile(zr, "word/document.xml")
	if err != nil {
		return nil, newCorruptError(FormatDOCX, "read", "", err)
	}

	rels := map[string]string{}
	if b, err := readZipFile(zr, "word/_rels/document.xml.rels"); err == nil {
		rels = parseRelationships(b)
	}

	lines, err := parseDocumentXML(body, rels)
	if err != nil {
		return nil, newCorruptError(FormatDOCX, "parse", "word/document.xml", err)
	}
	return lines, nil
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		b, err := io.ReadAll(io.LimitReader(rc, maxDOCXPartBytes+1))
		if err != nil {
			return nil, err
		}
		if len(b) > maxDOCXPartBytes {
			return nil, fmt.Errorf("%s 解压后超过 %d 字节", name, maxDOCXPartBytes)
		}
		return b, nil
	}
	return nil, fmt.Errorf("missing %s", name)
}

// parseRelationships 返回 rId -> 外部链接地址
func parseRelationships(b []byte) map[string]string {
	var doc docxRelationships
	if err := xml.Unmarshal(b, &doc); err != nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(doc.Relationships))
	for _, r := range doc.Relationships {
		if strings.HasSuffix(r.Type, "/hyperlink") {
			out[r.ID] = strings.TrimSpace(r.Target)
		}
	}
	return out
}

// docxParagraph 正在读取的段落
type docxParagraph struct {
	text  []rune
	links []types.Hyperlink

	linkStart int
	linkURL   string

	instr      strings.Builder
	fieldURL   string
	fieldStart int
}

func newDOCXParagraph() *docxParagraph {
	return &docxParagraph{linkStart: -1, fieldStart: -1}
}

func (p *docxParagraph) write(s string) {
	p.text = append(p.text, []rune(s)...)
}

func (p *docxParagraph) addLink(start int, url string) {
	if url == "" || start < 0 || len(p.text) <= start {
		return
	}
	p.links = append(p.links, types.Hyperlink{Start: start, End: len(p.text), URL: url})
}

func parseDocumentXML(body []byte, rels map[string]string) ([]types.RawLine, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	var (
		lines     []types.RawLine
		stack     []*docxParagraph
		paragraph int
		inText    bool
		inInstr   bool
	)
	current := func() *docxParagraph {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "p" {
				stack = append(stack, newDOCXParagraph())
				continue
			}
			cur := current()
			if cur == nil {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = true
			case "instrText":
				inInstr = true
			case "tab":
				cur.write(" ")
			case "br", "cr":
				cur.write("\n")
			case "hyperlink":
				cur.linkStart = len(cur.text)
				cur.linkURL = rels[attrValue(t, "id")]
			case "fldChar":
				switch attrValue(t, "fldCharType") {
				case "begin":
					cur.instr.Reset()
					cur.fieldURL = ""
				case "separate":
					cur.fieldURL = hyperlinkFromInstr(cur.instr.String())
					cur.fieldStart = len(cur.text)
				case "end":
					cur.addLink(cur.fieldStart, cur.fieldURL)
					cur.fieldStart = -1
					cur.fieldURL = ""
				}
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if cur := current(); cur != nil {
					stack = stack[:len(stack)-1]
					lines = appendParagraph(lines, cur, paragraph)
					paragraph++
				}
			case "hyperlink":
				if cur := current(); cur != nil {
					cur.addLink(cur.linkStart, cur.linkURL)
					cur.linkStart = -1
					cur.linkURL = ""
				}
			case "t":
				inText = false
			case "instrText":
				inInstr = false
			}

		case xml.CharData:
			cur := current()
			if cur == nil {
				continue
			}
			if inText {
				cur.write(string(t))
			} else if inInstr {
				cur.instr.Write(t)
			}
		}
	}
	return lines, nil
}

// appendParagraph 按换行拆分段落，链接区间裁剪到各自的行
func appendParagraph(lines []types.RawLine, p *docxParagraph, paragraph int) []types.RawLine {
	offset := 0
	for _, piece := range strings.Split(string(p.text), "\n") {
		n := len([]rune(piece))
		var links []types.Hyperlink
		for _, l := range p.links {
			start, end := max(l.Start, offset), min(l.End, offset+n)
			if end > start {
				links = append(links, types.Hyperlink{Start: start - offset, End: end - offset, URL: l.URL})
			}
		}
		lines = append(lines, types.RawLine{
			Text:             piece,
			ParagraphIndex:   paragraph,
			VerticalPosition: float64(len(lines)),
			Hyperlinks:       links,
		})
		offset += n + 1
	}
	return lines
}

func hyperlinkFromInstr(instr string) string {
	m := instrHyperlinkRe.FindStringSubmatch(instr)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(m[2])
}

func attrValue(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
