// Package pipeline 串联 读取 -> 归一化 -> 章节切分 -> 字段抽取 -> 组装 五个阶段。
// Pipeline 只持有不可变配置，可被多个 goroutine 同时使用。
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"resume-extract-go/internal/assemble"
	"resume-extract-go/internal/config"
	"resume-extract-go/internal/extract"
	"resume-extract-go/internal/loader"
	"resume-extract-go/internal/normalize"
	"resume-extract-go/internal/segment"
	"resume-extract-go/internal/tracing"
	"resume-extract-go/internal/types"
)

const tracerName = "resume-extract/pipeline"

// Result 一次运行的输出
type Result struct {
	RunID      string
	Resume     *types.Resume
	Transcript *types.Transcript
}

// Pipeline 简历抽取管线
type Pipeline struct {
	loader    *loader.Loader
	vocab     normalize.Vocabulary
	segmenter *segment.Segmenter
	registry  *extract.Registry
	assembler *assemble.Assembler
	logger    zerolog.Logger
	newRunID  func() string
}

// Option 管线选项
type Option func(*Pipeline)

// WithLoader 替换文档读取器
func WithLoader(l *loader.Loader) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.loader = l
		}
	}
}

// WithLogger 配置日志记录器
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithRunIDGenerator 替换运行 ID 生成函数，测试中使用固定值
func WithRunIDGenerator(fn func() string) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.newRunID = fn
		}
	}
}

// WithExtractor 注册或替换某个章节标签的抽取器
func WithExtractor(e extract.Extractor) Option {
	return func(p *Pipeline) {
		p.registry.Register(e)
	}
}

// New 按抽取配置创建管线。cfg 会先经过 Validate 补齐默认值。
func New(cfg config.ExtractionConfig, opts ...Option) *Pipeline {
	cfg.Validate()
	p := &Pipeline{
		loader: loader.New(),
		vocab:  normalize.NewVocabulary(cfg.SectionVocabulary),
		segmenter: segment.New(segment.Options{
			Vocabulary: cfg.SectionVocabulary,
			Threshold:  cfg.HeadingMatchThreshold,
		}),
		registry:  extract.NewRegistry(extract.ConfigFrom(cfg)),
		assembler: assemble.New(assemble.WithPhoneRegion(cfg.DefaultPhoneRegion)),
		logger:    zerolog.Nop(),
		newRunID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FromConfig 使用应用配置创建管线，读取器按 loader 配置限制大小与 PDF 回退
func FromConfig(cfg *config.Config, logger zerolog.Logger, opts ...Option) *Pipeline {
	l := loader.New(
		loader.WithMaxBytes(cfg.Loader.MaxFileSizeBytes()),
		loader.WithPDFFallback(cfg.Loader.EnablePDFFallback),
		loader.WithLogger(logger),
	)
	base := []Option{WithLoader(l), WithLogger(logger)}
	return New(cfg.Extraction, append(base, opts...)...)
}

// Run 读取并抽取一份文档。只有读取阶段会失败，之后的阶段总能产出 Resume。
func (p *Pipeline) Run(ctx context.Context, data []byte, format loader.Format) (*Result, error) {
	runID := p.newRunID()
	ctx, span := otel.Tracer(tracerName).Start(ctx, "pipeline.Run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("document.format", string(format)),
			attribute.Int("document.size_bytes", len(data)),
		))
	defer span.End()

	raw, err := p.loader.Load(ctx, data, format)
	if err != nil {
		tracing.RecordError(span, err, loader.TraceErrorType(err))
		return nil, err
	}
	return p.run(ctx, span, runID, string(format), raw), nil
}

// RunLines 跳过读取阶段，直接处理已有的原始行
func (p *Pipeline) RunLines(ctx context.Context, raw []types.RawLine) *Result {
	runID := p.newRunID()
	ctx, span := otel.Tracer(tracerName).Start(ctx, "pipeline.RunLines",
		trace.WithAttributes(attribute.String("run.id", runID)))
	defer span.End()
	return p.run(ctx, span, runID, "lines", raw)
}

func (p *Pipeline) run(ctx context.Context, span trace.Span, runID, format string, raw []types.RawLine) *Result {
	start := time.Now()
	tracer := otel.Tracer(tracerName)

	_, s := tracer.Start(ctx, "pipeline.normalize")
	lines := normalize.Normalize(raw, p.vocab)
	s.SetAttributes(attribute.Int("lines.raw", len(raw)), attribute.Int("lines.normalized", len(lines)))
	s.End()

	_, s = tracer.Start(ctx, "pipeline.segment")
	sections := p.segmenter.Segment(lines)
	headings := make([]string, 0, len(sections))
	for _, sec := range sections {
		if sec.Heading != "" {
			headings = append(headings, tracing.SafeLine(sec.Heading))
		}
	}
	s.SetAttributes(attribute.Int("sections.count", len(sections)), attribute.StringSlice("sections.headings", headings))
	s.End()

	_, s = tracer.Start(ctx, "pipeline.extract")
	records := p.registry.ExtractAll(sections, lines)
	if detected, ok := p.registry.DetectSkills(lines, records.Skills); ok {
		records.Skills = append(records.Skills, detected)
	}
	links := p.registry.DocumentLinks(lines)
	s.SetAttributes(
		attribute.Int("records.educations", len(records.Educations)),
		attribute.Int("records.projects", len(records.Projects)),
		attribute.Int("records.skill_groups", len(records.Skills)),
		attribute.Int("records.achievements", len(records.Achievements)),
		attribute.Int("records.links", len(links)),
	)
	s.End()

	_, s = tracer.Start(ctx, "pipeline.assemble")
	resume := p.assembler.Assemble(assemble.Input{
		Lines:    lines,
		Sections: sections,
		Records:  records,
		Links:    links,
	})
	s.SetAttributes(
		attribute.Bool("resume.low_confidence", resume.LowConfidence()),
		attribute.Int("resume.contacts", len(resume.Contacts())),
		attribute.Int("resume.profiles", len(resume.Profiles())),
	)
	s.End()

	span.SetAttributes(
		attribute.Int("sections.count", len(sections)),
		attribute.Bool("resume.low_confidence", resume.LowConfidence()),
		attribute.String("resume.name", tracing.SafeAttributeValue("resume.name", resume.Identity().Name, tracing.DefaultMaxLength)),
	)

	event := p.logger.Debug()
	if resume.LowConfidence() {
		event = p.logger.Info().Strs("reasons", resume.LowConfidenceReasons())
	}
	event.
		Str("run_id", runID).
		Str("format", format).
		Int("raw_lines", len(raw)).
		Int("lines", len(lines)).
		Int("sections", len(sections)).
		Str("name", tracing.SafeAttributeValue("name", resume.Identity().Name, tracing.DefaultMaxLength)).
		Bool("low_confidence", resume.LowConfidence()).
		Dur("elapsed", time.Since(start)).
		Msg("简历抽取完成")

	return &Result{
		RunID:      runID,
		Resume:     resume,
		Transcript: types.BuildTranscript(runID, format, len(raw), lines, sections),
	}
}
