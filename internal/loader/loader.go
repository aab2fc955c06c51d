// Package loader 将 PDF/DOCX/TXT 字节流还原为有序的原始行序列。
// 读取过程没有文件系统副作用，失败时只返回 ErrUnsupportedFormat、ErrCorruptDocument 或 ErrDocumentTooLarge。
package loader

import (
	"context"
	"mime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"resume-extract-go/internal/tracing"
	"resume-extract-go/internal/types"
)

// Format 声明的文档格式
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatTXT  Format = "txt"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
)

var formatAliases = map[string]Format{
	"pdf":      FormatPDF,
	".pdf":     FormatPDF,
	mimePDF:    FormatPDF,
	"docx":     FormatDOCX,
	".docx":    FormatDOCX,
	mimeDOCX:   FormatDOCX,
	"txt":      FormatTXT,
	".txt":     FormatTXT,
	"text":     FormatTXT,
	mimeText:   FormatTXT,
	".text":    FormatTXT,
	"plain":    FormatTXT,
	"markdown": FormatTXT,
	".md":      FormatTXT,
}

// ParseFormat 解析格式名、扩展名或 MIME 类型（大小写不敏感，允许 charset 参数）
func ParseFormat(s string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if mediaType, _, err := mime.ParseMediaType(key); err == nil && strings.Contains(key, "/") {
		key = mediaType
	}
	if f, ok := formatAliases[key]; ok {
		return f, nil
	}
	return "", newUnsupportedError(s, "无法识别的格式声明")
}

// MIMEType 返回格式对应的 MIME 类型
func (f Format) MIMEType() string {
	switch f {
	case FormatPDF:
		return mimePDF
	case FormatDOCX:
		return mimeDOCX
	default:
		return mimeText
	}
}

// Loader 文档读取器，创建后只读，可被多个 goroutine 共享
type Loader struct {
	maxBytes    int64
	pdfFallback bool
	logger      zerolog.Logger
}

// Option 读取器配置选项
type Option func(*Loader)

// WithMaxBytes 设置允许的最大字节数，<=0 表示不限制
func WithMaxBytes(n int64) Option {
	return func(l *Loader) {
		l.maxBytes = n
	}
}

// WithPDFFallback 行读取没有文本时是否改用 eino PDF parser
func WithPDFFallback(enabled bool) Option {
	return func(l *Loader) {
		l.pdfFallback = enabled
	}
}

// WithLogger 配置日志记录器
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New 创建读取器，默认不限制大小并启用 PDF 回退
func New(opts ...Option) *Loader {
	l := &Loader{
		pdfFallback: true,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var defaultLoader = New()

// Load 使用默认读取器
func Load(ctx context.Context, data []byte, format Format) ([]types.RawLine, error) {
	return defaultLoader.Load(ctx, data, format)
}

// Load 按声明格式解码 data，返回有序的原始行
func (l *Loader) Load(ctx context.Context, data []byte, format Format) ([]types.RawLine, error) {
	ctx, span := otel.Tracer("resume-extract/loader").Start(ctx, "loader.Load")
	defer span.End()
	span.SetAttributes(
		attribute.String("document.format", string(format)),
		attribute.Int("document.size_bytes", len(data)),
	)

	start := time.Now()
	lines, err := l.load(ctx, data, format)
	if err != nil {
		tracing.RecordError(span, err, TraceErrorType(err))
		l.logger.Warn().Err(err).Str("format", string(format)).Int("size", len(data)).Msg("文档读取失败")
		return nil, err
	}

	span.SetAttributes(attribute.Int("document.raw_lines", len(lines)))
	l.logger.Debug().
		Str("format", string(format)).
		Int("raw_lines", len(lines)).
		Dur("elapsed", time.Since(start)).
		Msg("文档读取完成")
	return lines, nil
}

func (l *Loader) load(ctx context.Context, data []byte, format Format) ([]types.RawLine, error) {
	switch format {
	case FormatPDF, FormatDOCX, FormatTXT:
	default:
		return nil, newUnsupportedError(string(format), "仅支持 pdf、docx、txt")
	}

	if l.maxBytes > 0 && int64(len(data)) > l.maxBytes {
		return nil, newTooLargeError(format, int64(len(data)), l.maxBytes)
	}

	if format == FormatTXT {
		return readText(data), nil
	}

	if len(data) == 0 {
		return nil, newCorruptError(format, "sniff", "文档内容为空", nil)
	}
	if err := checkSignature(data, format); err != nil {
		return nil, err
	}

	if format == FormatDOCX {
		return readDOCX(data)
	}

	lines, rowErr := readPDFRows(data)
	if rowErr == nil && hasText(lines) {
		return lines, nil
	}
	if !l.pdfFallback {
		if rowErr != nil {
			return nil, newCorruptError(format, "decode", "", rowErr)
		}
		return lines, nil
	}

	l.logger.Debug().Err(rowErr).Msg("PDF 行读取没有文本，改用 eino PDF parser")
	fallback, err := readPDFFallback(ctx, data)
	if err != nil {
		if rowErr != nil {
			return nil, newCorruptError(format, "decode", "", rowErr)
		}
		// 行读取成功但没有文本（例如扫描件），不视为错误
		return lines, nil
	}
	return fallback, nil
}

func hasText(lines []types.RawLine) bool {
	for _, line := range lines {
		if strings.TrimSpace(line.Text) != "" {
			return true
		}
	}
	return false
}
