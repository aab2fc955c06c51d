package loader

import (
	"fmt"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// checkSignature 确认内容与声明格式一致：pdf 必须有 PDF 头，docx 必须是 zip 容器
func checkSignature(data []byte, format Format) error {
	detected := mimetype.Detect(data)
	switch format {
	case FormatPDF:
		if !isA(detected, mimePDF) {
			return newCorruptError(format, "sniff", fmt.Sprintf("内容不是 PDF (检测为 %s)", detected.String()), nil)
		}
	case FormatDOCX:
		if !isA(detected, "application/zip") {
			return newCorruptError(format, "sniff", fmt.Sprintf("内容不是 zip 容器 (检测为 %s)", detected.String()), nil)
		}
	}
	return nil
}

// DetectFormat 根据内容推断格式，用于调用方没有声明格式的情况
func DetectFormat(data []byte) (Format, bool) {
	detected := mimetype.Detect(data)
	switch {
	case isA(detected, mimePDF):
		return FormatPDF, true
	case isA(detected, mimeDOCX):
		return FormatDOCX, true
	case isA(detected, mimeText):
		return FormatTXT, true
	}
	return "", false
}

func isA(m *mimetype.MIME, want string) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is(want) {
			return true
		}
	}
	return false
}

// ResolveFormat 依次使用显式声明、文件扩展名、内容嗅探确定文档格式
func ResolveFormat(declared, filename string, data []byte) (Format, error) {
	if declared != "" {
		return ParseFormat(declared)
	}
	if ext := filepath.Ext(filename); ext != "" {
		return ParseFormat(ext)
	}
	if f, ok := DetectFormat(data); ok {
		return f, nil
	}
	return "", newUnsupportedError(filename, "无法从文件名或内容判断格式")
}
