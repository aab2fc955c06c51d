package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"resume-extract-go/internal/cache"
	"resume-extract-go/internal/constants"
	"resume-extract-go/internal/loader"
	"resume-extract-go/internal/pipeline"
	"resume-extract-go/internal/storage"
	"resume-extract-go/internal/tracing"
	"resume-extract-go/internal/types"
)

// ErrMissingFile 请求中没有上传文件
var ErrMissingFile = errors.New("文件未找到")

// RunSink 保存运行记录（MinIO 实现见 storage.MinIO）
type RunSink interface {
	SaveRun(ctx context.Context, runID string, resume *types.Resume, transcript *types.Transcript) (storage.RunObjects, error)
}

// ExtractHandler 简历抽取处理器，负责格式判定、缓存查询和运行记录保存
type ExtractHandler struct {
	pipeline *pipeline.Pipeline
	cache    cache.Cache
	cacheTTL time.Duration
	sink     RunSink
	maxBytes int64
	logger   zerolog.Logger
}

// Option 处理器选项
type Option func(*ExtractHandler)

// WithCache 设置结果缓存
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(h *ExtractHandler) {
		if c != nil {
			h.cache = c
			h.cacheTTL = ttl
		}
	}
}

// WithRunSink 设置运行记录存储，为 nil 时不保存
func WithRunSink(s RunSink) Option {
	return func(h *ExtractHandler) {
		h.sink = s
	}
}

// WithMaxBytes 上传文件大小上限
func WithMaxBytes(n int64) Option {
	return func(h *ExtractHandler) {
		if n > 0 {
			h.maxBytes = n
		}
	}
}

// WithLogger 设置日志
func WithLogger(logger zerolog.Logger) Option {
	return func(h *ExtractHandler) {
		h.logger = logger
	}
}

// NewExtractHandler 创建一个新的抽取处理器
func NewExtractHandler(p *pipeline.Pipeline, opts ...Option) *ExtractHandler {
	h := &ExtractHandler{
		pipeline: p,
		cache:    cache.Nop{},
		maxBytes: constants.DefaultMaxFileSizeBytes,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ExtractRequest 一次抽取请求的元信息
type ExtractRequest struct {
	Filename       string
	Format         string // 显式声明的格式，为空时按扩展名或内容判断
	Size           int64  // 声明的文件大小，<=0 表示未知
	WithTranscript bool
}

// ExtractResponse 抽取响应
type ExtractResponse struct {
	RunID      string              `json:"run_id"`
	Format     string              `json:"format"`
	Cached     bool                `json:"cached"`
	Resume     *types.Resume       `json:"resume"`
	Transcript *types.Transcript   `json:"transcript,omitempty"`
	Objects    *storage.RunObjects `json:"objects,omitempty"`
}

// HandleExtract 读取上传内容并运行抽取管线，命中缓存时直接返回之前的结果
func (h *ExtractHandler) HandleExtract(ctx context.Context, reader io.Reader, req ExtractRequest) (*ExtractResponse, error) {
	ctx, span := otel.Tracer("resume-extract/api").Start(ctx, "handler.HandleExtract")
	defer span.End()

	if req.Size > h.maxBytes {
		err := fmt.Errorf("%w: %d > %d 字节", loader.ErrDocumentTooLarge, req.Size, h.maxBytes)
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}

	// 多读一个字节用于判断是否超限
	data, err := io.ReadAll(io.LimitReader(reader, h.maxBytes+1))
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return nil, fmt.Errorf("读取上传文件内容失败: %w", err)
	}
	if int64(len(data)) > h.maxBytes {
		err := fmt.Errorf("%w: 超过 %d 字节", loader.ErrDocumentTooLarge, h.maxBytes)
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}

	format, err := loader.ResolveFormat(req.Format, req.Filename, data)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeUnsupported)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("document.format", string(format)),
		attribute.Int("document.size_bytes", len(data)),
		attribute.String("document.filename", tracing.SafeAttributeValue("document.filename", req.Filename, tracing.DefaultMaxLength)),
	)

	key := cache.Key(string(format), data)
	entry, found, err := cache.GetEntry(ctx, h.cache, key)
	if err != nil {
		// 缓存不可用时照常抽取
		h.logger.Warn().Err(err).Str("cache_key", tracing.SafeCacheKey(key)).Msg("读取缓存失败")
	}
	if found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		h.logger.Debug().Str("run_id", entry.RunID).Str("format", string(format)).Msg("命中抽取缓存")
		resp := &ExtractResponse{
			RunID:  entry.RunID,
			Format: string(format),
			Cached: true,
			Resume: entry.Resume,
		}
		if req.WithTranscript {
			resp.Transcript = entry.Transcript
		}
		return resp, nil
	}

	res, err := h.pipeline.Run(ctx, data, format)
	if err != nil {
		return nil, err
	}

	if err := cache.PutEntry(ctx, h.cache, key, &cache.Entry{
		RunID:      res.RunID,
		Resume:     res.Resume,
		Transcript: res.Transcript,
	}, h.cacheTTL); err != nil {
		h.logger.Warn().Err(err).Str("run_id", res.RunID).Msg("写入缓存失败")
	}

	resp := &ExtractResponse{
		RunID:  res.RunID,
		Format: string(format),
		Resume: res.Resume,
	}
	if req.WithTranscript {
		resp.Transcript = res.Transcript
	}

	if h.sink != nil {
		objs, err := h.sink.SaveRun(ctx, res.RunID, res.Resume, res.Transcript)
		if err != nil {
			// 运行记录只用于排查，保存失败不影响抽取结果
			tracing.RecordError(span, err, tracing.ErrorTypeStorage)
			h.logger.Warn().Err(err).Str("run_id", res.RunID).Msg("保存运行记录失败")
		} else {
			resp.Objects = &objs
		}
	}

	h.logger.Info().
		Str("run_id", res.RunID).
		Str("filename", tracing.SafeAttributeValue("filename", req.Filename, tracing.DefaultMaxLength)).
		Str("format", string(format)).
		Bool("low_confidence", res.Resume.LowConfidence()).
		Msg("简历抽取请求处理完成")
	return resp, nil
}
