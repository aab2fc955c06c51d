// Package storage 把抽取的调试记录和结果 JSON 保存到 MinIO，供人工排查。
// 抽取核心不依赖这里；是否保存由调用方决定。
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"resume-extract-go/internal/config"
	"resume-extract-go/internal/constants"
	"resume-extract-go/internal/tracing"
	"resume-extract-go/internal/types"
)

var minioTracer = otel.Tracer("resume-extract/storage/minio")

// objectPutter MinIO 客户端中用到的写入方法
type objectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// RunObjects 一次运行保存的对象键
type RunObjects struct {
	Transcript string `json:"transcript,omitempty"`
	Resume     string `json:"resume,omitempty"`
}

// MinIO 运行记录存储
type MinIO struct {
	client *minio.Client
	putter objectPutter
	bucket string
	logger zerolog.Logger
}

// TranscriptObjectName 调试报告对象键
func TranscriptObjectName(runID string) string {
	return constants.TranscriptObjectPrefix + runID + ".txt"
}

// ResumeObjectName 结果 JSON 对象键
func ResumeObjectName(runID string) string {
	return constants.ResultObjectPrefix + runID + ".json"
}

// NewMinIO 创建MinIO客户端，确保存储桶存在并按配置设置过期规则
func NewMinIO(ctx context.Context, cfg *config.MinIOConfig, logger zerolog.Logger) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}
	if cfg.TranscriptBucket == "" {
		return nil, fmt.Errorf("MinIO存储桶名称不能为空")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	m := &MinIO{client: client, putter: client, bucket: cfg.TranscriptBucket, logger: logger}
	if err := m.ensureBucketExists(ctx, cfg.Location); err != nil {
		return nil, err
	}
	if cfg.TranscriptExpireDays > 0 {
		if err := m.setupBucketLifecycle(ctx, "expire-transcripts", cfg.TranscriptExpireDays); err != nil {
			// 生命周期设置失败不影响使用
			logger.Warn().Err(err).Str("bucket", m.bucket).Msg("设置存储桶生命周期失败")
		}
	}

	logger.Info().Str("endpoint", cfg.Endpoint).Str("bucket", m.bucket).Msg("MinIO客户端初始化完成")
	return m, nil
}

func (m *MinIO) ensureBucketExists(ctx context.Context, location string) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("检查存储桶 %s 是否存在时出错: %w", m.bucket, err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: location}); err != nil {
		return fmt.Errorf("创建存储桶 %s 失败: %w", m.bucket, err)
	}
	m.logger.Info().Str("bucket", m.bucket).Msg("存储桶已创建")
	return nil
}

func (m *MinIO) setupBucketLifecycle(ctx context.Context, ruleID string, expiryDays int) error {
	cfg := lifecycle.NewConfiguration()
	cfg.Rules = []lifecycle.Rule{
		{
			ID:     ruleID,
			Status: "Enabled",
			Expiration: lifecycle.Expiration{
				Days: lifecycle.ExpirationDays(expiryDays),
			},
		},
	}
	return m.client.SetBucketLifecycle(ctx, m.bucket, cfg)
}

// SaveRun 保存调试报告和结果 JSON，两者任一为 nil 时跳过
func (m *MinIO) SaveRun(ctx context.Context, runID string, resume *types.Resume, transcript *types.Transcript) (RunObjects, error) {
	ctx, span := minioTracer.Start(ctx, "storage.MinIO.SaveRun")
	defer span.End()
	span.SetAttributes(attribute.String("run.id", runID), attribute.String("storage.bucket", m.bucket))

	var objs RunObjects
	if transcript != nil {
		name := TranscriptObjectName(runID)
		if err := m.put(ctx, name, []byte(transcript.Report()), "text/plain; charset=utf-8"); err != nil {
			tracing.RecordError(span, err, tracing.ErrorTypeStorage)
			return objs, err
		}
		objs.Transcript = name
	}
	if resume != nil {
		data, err := json.MarshalIndent(resume, "", "  ")
		if err != nil {
			return objs, fmt.Errorf("序列化结果失败: %w", err)
		}
		name := ResumeObjectName(runID)
		if err := m.put(ctx, name, data, "application/json"); err != nil {
			tracing.RecordError(span, err, tracing.ErrorTypeStorage)
			return objs, err
		}
		objs.Resume = name
	}

	m.logger.Debug().Str("run_id", runID).Str("transcript", objs.Transcript).Str("resume", objs.Resume).Msg("运行记录已保存")
	return objs, nil
}

// PresignedURL 生成对象的临时下载链接
func (m *MinIO) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if m.client == nil {
		return "", fmt.Errorf("MinIO客户端未初始化")
	}
	u, err := m.client.PresignedGetObject(ctx, m.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("生成预签名URL失败: %w", err)
	}
	return u.String(), nil
}

func (m *MinIO) put(ctx context.Context, objectName string, data []byte, contentType string) error {
	_, err := m.putter.PutObject(ctx, m.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("上传对象 %s/%s 失败: %w", m.bucket, objectName, err)
	}
	return nil
}
