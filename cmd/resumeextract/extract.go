package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"resume-extract-go/internal/config"
	"resume-extract-go/internal/loader"
	appCoreLogger "resume-extract-go/internal/logger"
	"resume-extract-go/internal/pipeline"
	"resume-extract-go/internal/types"
)

// fileResult 单个文件的输出
type fileResult struct {
	File       string        `json:"file"`
	RunID      string        `json:"run_id,omitempty"`
	Format     string        `json:"format,omitempty"`
	Resume     *types.Resume `json:"resume,omitempty"`
	Transcript string        `json:"transcript,omitempty"` // 调试记录文件路径
	Error      string        `json:"error,omitempty"`

	report string
}

func handleExtractCommand(reportOnly bool) error {
	paths := append(append([]string(nil), *files...), pflag.Args()...)
	if len(paths) == 0 {
		pflag.Usage()
		return errors.New("请至少提供一个简历文件")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	appCoreLogger.Init(appCoreLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})

	if *transcriptDir != "" {
		if err := os.MkdirAll(*transcriptDir, 0o755); err != nil {
			return fmt.Errorf("创建调试记录目录失败: %w", err)
		}
	}

	p := pipeline.FromConfig(cfg, appCoreLogger.Logger)
	results := extractFiles(context.Background(), p, paths, *format, *transcriptDir, *workers)

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
			appCoreLogger.Error().Str("file", r.File).Str("error", r.Error).Msg("简历抽取失败")
		}
	}

	if reportOnly {
		for _, r := range results {
			if r.report != "" {
				fmt.Println(r.report)
			}
		}
	} else if *jsonOutput {
		if err := writeJSON(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			fmt.Print(summarize(r))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d/%d 个文件处理失败", failed, len(results))
	}
	return nil
}

// extractFiles 并发处理文件，结果顺序与输入一致；单个文件失败不影响其他文件
func extractFiles(ctx context.Context, p *pipeline.Pipeline, paths []string, declared, transcriptDir string, workers int) []fileResult {
	results := make([]fileResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = extractFile(ctx, p, path, declared, transcriptDir)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func extractFile(ctx context.Context, p *pipeline.Pipeline, path, declared, transcriptDir string) fileResult {
	out := fileResult{File: path}

	data, err := os.ReadFile(path)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	f, err := loader.ResolveFormat(declared, path, data)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Format = string(f)

	res, err := p.Run(ctx, data, f)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.RunID = res.RunID
	out.Resume = res.Resume
	out.report = res.Transcript.Report()

	if transcriptDir != "" {
		name := filepath.Join(transcriptDir, transcriptFileName(path, res.RunID))
		if err := os.WriteFile(name, []byte(out.report), 0o644); err != nil {
			out.Error = fmt.Sprintf("写入调试记录失败: %v", err)
			return out
		}
		out.Transcript = name
	}
	return out
}

// transcriptFileName 例如 jane.pdf -> jane.<run_id>.transcript.txt
func transcriptFileName(path, runID string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "." + runID + ".transcript.txt"
}

func writeJSON(results []fileResult) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if len(results) == 1 {
		return enc.Encode(results[0])
	}
	return enc.Encode(results)
}

// summarize 单个文件的文本摘要
func summarize(r fileResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s\n", r.File)
	if r.Error != "" {
		fmt.Fprintf(&b, "   error: %s\n", r.Error)
		return b.String()
	}
	id := r.Resume.Identity()
	fmt.Fprintf(&b, "   run_id=%s format=%s\n", r.RunID, r.Format)
	fmt.Fprintf(&b, "   name: %s\n", id.Name)
	if id.Headline != "" {
		fmt.Fprintf(&b, "   headline: %s\n", id.Headline)
	}
	for _, c := range r.Resume.Contacts() {
		fmt.Fprintf(&b, "   %-8s %s\n", c.Channel+":", c.Value)
	}
	fmt.Fprintf(&b, "   educations=%d projects=%d skill_groups=%d achievements=%d profiles=%d\n",
		len(r.Resume.Educations()), len(r.Resume.Projects()), len(r.Resume.Skills()),
		len(r.Resume.Achievements()), len(r.Resume.Profiles()))
	if r.Resume.LowConfidence() {
		fmt.Fprintf(&b, "   low confidence: %s\n", strings.Join(r.Resume.LowConfidenceReasons(), "; "))
	}
	if r.Transcript != "" {
		fmt.Fprintf(&b, "   transcript: %s\n", r.Transcript)
	}
	return b.String()
}

func handleSampleConfigCommand(path string) error {
	if err := config.CreateSampleConfig(path); err != nil {
		return err
	}
	fmt.Printf("示例配置已写入 %s\n", path)
	return nil
}
