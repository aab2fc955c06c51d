package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	einopdf "github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"

	"resume-extract-go/internal/types"
)

// readPDFFallback 使用 eino PDF parser 按页读取纯文本。
// 没有坐标信息，VerticalPosition 用页内行号代替，也没有链接。
func readPDFFallback(ctx context.Context, data []byte) (lines []types.RawLine, err error) {
	defer func() {
		if r := recover(); r != nil {
			lines = nil
			err = fmt.Errorf("eino PDF parser 异常: %v", r)
		}
	}()

	p, err := einopdf.NewPDFParser(ctx, &einopdf.Config{ToPages: true})
	if err != nil {
		return nil, fmt.Errorf("failed to create Eino PDF parser: %w", err)
	}

	docs, err := p.Parse(ctx, bytes.NewReader(data), einoParser.WithURI("resume.pdf"))
	if err != nil {
		return nil, fmt.Errorf("eino PDF parser failed: %w", err)
	}

	paragraph := 0
	for pageIndex, doc := range docs {
		content := strings.ReplaceAll(doc.Content, "\r\n", "\n")
		for i, text := range strings.Split(content, "\n") {
			lines = append(lines, types.RawLine{
				Text:             text,
				PageIndex:        pageIndex,
				ParagraphIndex:   paragraph,
				VerticalPosition: float64(i),
			})
			paragraph++
		}
	}
	if !hasText(lines) {
		return nil, errors.New("eino PDF parser returned no text")
	}
	return lines, nil
}
