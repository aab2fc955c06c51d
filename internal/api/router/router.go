package router

import (
	"context"
	"crypto/subtle"
	"errors"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"
	"go.opentelemetry.io/otel/trace"

	"resume-extract-go/internal/api/handler"
	"resume-extract-go/internal/constants"
	"resume-extract-go/internal/loader"
	"resume-extract-go/internal/tracing"
)

var errInvalidKey = errors.New("invalid api key")

// RegisterRoutes 注册 API 路由，apiKeys 非空时抽取接口需要 Bearer 鉴权
func RegisterRoutes(h *server.Hertz, extractHandler *handler.ExtractHandler, apiKeys []string) {
	api := h.Group("/api/v1")

	extract := []app.HandlerFunc{}
	if len(apiKeys) > 0 {
		extract = append(extract, KeyAuth(apiKeys))
	}
	extract = append(extract, func(c context.Context, ctx *app.RequestContext) {
		// 获取上传的文件
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			writeError(c, ctx, handler.ErrMissingFile)
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
			return
		}
		defer file.Close()

		withTranscript, _ := strconv.ParseBool(ctx.PostForm("transcript"))
		if !withTranscript {
			withTranscript, _ = strconv.ParseBool(ctx.Query("transcript"))
		}

		resp, err := extractHandler.HandleExtract(c, file, handler.ExtractRequest{
			Filename:       fileHeader.Filename,
			Format:         ctx.PostForm("format"),
			Size:           fileHeader.Size,
			WithTranscript: withTranscript,
		})
		if err != nil {
			writeError(c, ctx, err)
			return
		}

		ctx.JSON(consts.StatusOK, resp)
	})
	api.POST("/resume/extract", extract...)

	// 添加健康检查
	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok", "version": constants.Version})
	})
}

// KeyAuth 校验 Authorization: Bearer <key>
func KeyAuth(keys []string) app.HandlerFunc {
	return keyauth.New(
		keyauth.WithKeyLookUp("header:Authorization", "Bearer"),
		keyauth.WithValidator(func(c context.Context, ctx *app.RequestContext, key string) (bool, error) {
			for _, k := range keys {
				if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
					return true, nil
				}
			}
			return false, errInvalidKey
		}),
		keyauth.WithErrorHandler(func(c context.Context, ctx *app.RequestContext, err error) {
			ctx.JSON(consts.StatusUnauthorized, utils.H{"error": "unauthorized"})
			ctx.Abort()
		}),
	)
}

// AccessLog 请求日志中间件
func AccessLog() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)
		glog.CtxInfof(c, "status=%d cost=%s method=%s full_path=%s client_ip=%s",
			ctx.Response.StatusCode(), time.Since(start),
			ctx.Request.Header.Method(), ctx.Request.URI().PathOriginal(), ctx.ClientIP())
	}
}

// StatusCode 将抽取错误映射为 HTTP 状态码
func StatusCode(err error) int {
	switch {
	case errors.Is(err, handler.ErrMissingFile):
		return consts.StatusBadRequest
	case errors.Is(err, loader.ErrUnsupportedFormat):
		return consts.StatusUnsupportedMediaType
	case errors.Is(err, loader.ErrCorruptDocument):
		return consts.StatusUnprocessableEntity
	case errors.Is(err, loader.ErrDocumentTooLarge):
		return consts.StatusRequestEntityTooLarge
	default:
		return consts.StatusInternalServerError
	}
}

func writeError(c context.Context, ctx *app.RequestContext, err error) {
	status := StatusCode(err)
	tracing.RecordHTTPError(trace.SpanFromContext(c), err, status)
	ctx.JSON(status, utils.H{"error": err.Error()})
}
