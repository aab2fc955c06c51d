package loader

import (
	"context"
	"errors"
	"fmt"

	"resume-extract-go/internal/tracing"
)

// 文档读取阶段仅有的致命错误
var (
	ErrUnsupportedFormat = errors.New("不支持的文档格式")
	ErrCorruptDocument   = errors.New("文档损坏或无法解码")
	ErrDocumentTooLarge  = errors.New("文档超过大小限制")
)

// LoadError 包含详细错误信息的读取错误，BaseErr 为上面的哨兵错误之一，Cause 为底层解码器的诊断信息
type LoadError struct {
	Format  string
	Op      string
	BaseErr error
	Detail  string
	Cause   error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s (操作:%s, 格式:%s)", e.BaseErr, e.Op, e.Format)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap 同时暴露哨兵错误和底层错误
func (e *LoadError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.BaseErr}
	}
	return []error{e.BaseErr, e.Cause}
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *LoadError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// TraceErrorType 读取错误在 span 上的错误分类
func TraceErrorType(err error) tracing.ErrorType {
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return tracing.ErrorTypeUnsupported
	case errors.Is(err, ErrDocumentTooLarge):
		return tracing.ErrorTypeValidation
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return tracing.ErrorTypeTimeout
	default:
		return tracing.ErrorTypeDecode
	}
}

func newUnsupportedError(format, detail string) error {
	return &LoadError{
		Format:  format,
		Op:      "detect",
		BaseErr: ErrUnsupportedFormat,
		Detail:  detail,
	}
}

func newCorruptError(format Format, op, detail string, cause error) error {
	return &LoadError{
		Format:  string(format),
		Op:      op,
		BaseErr: ErrCorruptDocument,
		Detail:  detail,
		Cause:   cause,
	}
}

func newTooLargeError(format Format, size, limit int64) error {
	return &LoadError{
		Format:  string(format),
		Op:      "size_check",
		BaseErr: ErrDocumentTooLarge,
		Detail:  fmt.Sprintf("%d 字节, 上限 %d 字节", size, limit),
	}
}
