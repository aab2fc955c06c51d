package tracing

import (
	"strings"
)

const (
	// DefaultMaxLength 默认最大属性长度
	DefaultMaxLength = 200

	// MaxLineLength 单行简历文本最大长度
	MaxLineLength = 120

	// MaxCacheKeyLength 缓存键最大长度
	MaxCacheKeyLength = 100
)

// 属性名包含这些关键字时值需要掩码
var maskPIIKeywords = []string{
	"email", "phone", "password", "address", "location", "name", "headline",
	"secret", "token", "api_key", "地址", "姓名", "电话",
}

// SafeAttributeValue 确保属性值安全：敏感字段掩码，其余超长截断
func SafeAttributeValue(name string, value string, maxLength int) string {
	lowerName := strings.ToLower(name)
	for _, keyword := range maskPIIKeywords {
		if strings.Contains(lowerName, keyword) {
			return MaskPII(value)
		}
	}
	return TruncateString(value, maxLength)
}

// MaskPII 对个人敏感信息进行掩码处理
func MaskPII(value string) string {
	if value == "" {
		return ""
	}

	runes := []rune(value)
	length := len(runes)

	if length <= 1 {
		return "*"
	}
	// "张三" -> "张*", "王小明" -> "王*明"
	if length <= 4 {
		if length == 2 {
			return string(runes[0:1]) + "*"
		}
		return string(runes[0:1]) + strings.Repeat("*", length-2) + string(runes[length-1:])
	}

	// "jane@example.com" -> "ja************om"
	return string(runes[0:2]) + strings.Repeat("*", length-4) + string(runes[length-2:])
}

// TruncateString 截断字符串，保留首尾，中间用省略号连接
func TruncateString(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}

	if maxLength <= 3 {
		return string(runes[:maxLength])
	}

	half := (maxLength - 3) / 2
	if half < 1 {
		half = 1
	}
	return string(runes[:half]) + "..." + string(runes[len(runes)-half:])
}

// SafeLine 截断单行文本，用于日志与 span 属性
func SafeLine(line string) string {
	return TruncateString(line, MaxLineLength)
}

// SafeCacheKey 安全处理缓存键
func SafeCacheKey(key string) string {
	return TruncateString(key, MaxCacheKeyLength)
}
