package loader

import (
	"strings"

	"resume-extract-go/internal/types"
)

// readText 按 \r\n、\r、\n 切分纯文本，非法 UTF-8 替换为 U+FFFD
func readText(data []byte) []types.RawLine {
	text := strings.ToValidUTF8(string(data), "\uFFFD")
	text = strings.TrimPrefix(text, "\ufeff")
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	parts := strings.Split(text, "\n")
	// 末尾换行不产生额外空行
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	lines := make([]types.RawLine, 0, len(parts))
	for i, p := range parts {
		lines = append(lines, types.RawLine{
			Text:             p,
			ParagraphIndex:   i,
			VerticalPosition: float64(i),
		})
	}
	return lines
}
