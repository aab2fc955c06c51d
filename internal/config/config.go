package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"resume-extract-go/internal/constants"
)

// Config 应用程序配置
type Config struct {
	// 抽取管线配置
	Extraction ExtractionConfig `yaml:"extraction"`

	// 文档读取配置
	Loader LoaderConfig `yaml:"loader"`

	// 日志配置
	Logger LoggerConfig `yaml:"logger"`

	// HTTP服务配置
	Server ServerConfig `yaml:"server"`

	// API Key 鉴权
	Auth AuthConfig `yaml:"auth"`

	// OpenTelemetry 配置
	Tracing TracingConfig `yaml:"tracing"`

	// 结果缓存配置
	Cache CacheConfig `yaml:"cache"`

	// Redis配置（cache.type=redis 时使用）
	Redis RedisConfig `yaml:"redis"`

	// MinIO配置（保存调试记录和结果JSON）
	MinIO MinIOConfig `yaml:"minio"`
}

// ExtractionConfig 抽取管线可配置项
type ExtractionConfig struct {
	HeadingMatchThreshold float64             `yaml:"heading_match_threshold"` // [0,1]
	SectionVocabulary     map[string][]string `yaml:"section_vocabulary"`      // label -> 同义词
	PlatformDomainTable   map[string]string   `yaml:"platform_domain_table"`   // 域名 -> 平台类别
	TechnologyKeywords    []string            `yaml:"technology_keywords"`
	InstitutionKeywords   []string            `yaml:"institution_keywords"`
	DegreeKeywords        []string            `yaml:"degree_keywords"`
	DefaultPhoneRegion    string              `yaml:"default_phone_region"` // 例如 "US"，为空则不做E164格式化
}

// LoaderConfig 文档读取配置
type LoaderConfig struct {
	MaxFileSizeMB     int  `yaml:"max_file_size_mb"`
	EnablePDFFallback bool `yaml:"enable_pdf_fallback"` // 行读取失败时使用 eino PDF parser
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	Format       string `yaml:"format"`        // json, pretty
	TimeFormat   string `yaml:"time_format"`   // 时间格式
	ReportCaller bool   `yaml:"report_caller"` // 是否报告调用位置
}

// ServerConfig 定义服务器配置
type ServerConfig struct {
	Address        string `yaml:"address"` // 例如 ":8080"
	RequestTimeout string `yaml:"request_timeout"`
}

// AuthConfig API Key 鉴权配置，Keys 为空时不启用
type AuthConfig struct {
	Keys []string `yaml:"keys"`
}

// TracingConfig OpenTelemetry 配置
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"` // OTLP gRPC 地址，例如 localhost:4317
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// CacheConfig 结果缓存配置
type CacheConfig struct {
	Type string `yaml:"type"` // none, memory, redis
	TTL  string `yaml:"ttl"`  // 例如 "24h"
}

// RedisConfig holds configuration for Redis
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// 连接池设置
	PoolSize     int `yaml:"pool_size"`
	MinIdleConns int `yaml:"min_idle_conns"`
	// 超时设置
	DialTimeoutSeconds  int `yaml:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds"`
	// 重试设置
	MaxRetries int `yaml:"max_retries"`
	// 缓存键前缀
	KeyPrefix string `yaml:"key_prefix"`
}

// MinIOConfig MinIO配置结构
type MinIOConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	UseSSL          bool   `yaml:"useSSL"`
	Location        string `yaml:"location"`
	// 调试记录存储桶
	TranscriptBucket string `yaml:"transcriptBucket"`
	// 对象过期天数，0 表示不设置生命周期
	TranscriptExpireDays int `yaml:"transcript_expire_days"`
}

// LoadConfig 从文件加载配置
func LoadConfig(configPath string) (*Config, error) {
	// 如果未指定配置文件路径，则尝试在默认位置查找
	if configPath == "" {
		searchPaths := []string{
			"config.yaml",
			"./config/config.yaml",
			"../config.yaml",
			"../../config.yaml",
			filepath.Join(os.Getenv("HOME"), ".resume-extract", "config.yaml"),
		}

		// 可执行文件所在目录
		if execPath, err := os.Executable(); err == nil {
			execDir := filepath.Dir(execPath)
			searchPaths = append(searchPaths, filepath.Join(execDir, "config.yaml"))
		}

		for _, path := range searchPaths {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}

		// 找不到配置文件时使用默认配置，不返回错误
		if configPath == "" {
			cfg := createDefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
	}

	cfg, err := LoadConfigFromFileOnly(configPath)
	if err != nil {
		return nil, err
	}

	// 从环境变量覆盖配置（如果存在）
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadConfigFromFileOnly 从文件加载配置，不从环境变量覆盖
func LoadConfigFromFileOnly(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("必须提供配置文件路径")
	}

	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("配置文件不存在: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 先填默认值，YAML 中出现的字段覆盖默认值
	config := createDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	config.Extraction.Validate()
	if config.Server.Address == "" {
		config.Server.Address = constants.DefaultServerAddress
	}

	return config, nil
}

// applyEnvOverrides 环境变量优先于配置文件
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("RESUME_SERVER_ADDRESS"); v != "" {
		config.Server.Address = v
	}
	if v := os.Getenv("RESUME_LOG_LEVEL"); v != "" {
		config.Logger.Level = v
	}
	if v := os.Getenv("RESUME_HEADING_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Extraction.HeadingMatchThreshold = f
		}
	}
	if v := os.Getenv("RESUME_REDIS_ADDRESS"); v != "" {
		config.Redis.Address = v
	}
	if v := os.Getenv("RESUME_API_KEYS"); v != "" {
		config.Auth.Keys = splitNonEmpty(v, ",")
	}
	if v := os.Getenv("RESUME_OTLP_ENDPOINT"); v != "" {
		config.Tracing.Endpoint = v
		config.Tracing.Enabled = true
	}
	config.Extraction.Validate()
}

// 创建默认配置
func createDefaultConfig() *Config {
	config := &Config{}

	config.Extraction = DefaultExtraction()

	config.Loader.MaxFileSizeMB = 10
	config.Loader.EnablePDFFallback = true

	// 日志默认配置
	config.Logger.Level = "info"
	config.Logger.Format = "pretty"
	config.Logger.TimeFormat = "2006-01-02 15:04:05"
	config.Logger.ReportCaller = false

	config.Server.Address = constants.DefaultServerAddress
	config.Server.RequestTimeout = "30s"

	config.Tracing.Enabled = false
	config.Tracing.Endpoint = "localhost:4317"
	config.Tracing.Insecure = true
	config.Tracing.ServiceName = constants.ServiceName
	config.Tracing.SampleRatio = 1.0

	config.Cache.Type = "memory"
	config.Cache.TTL = "24h"

	// Redis默认配置
	config.Redis.Address = "localhost:6379"
	config.Redis.PoolSize = 10
	config.Redis.MinIdleConns = 2
	config.Redis.DialTimeoutSeconds = 5
	config.Redis.ReadTimeoutSeconds = 3
	config.Redis.WriteTimeoutSeconds = 3
	config.Redis.MaxRetries = 3
	config.Redis.KeyPrefix = constants.RedisKeyPrefix

	// MinIO默认配置
	config.MinIO.Enabled = false
	config.MinIO.Endpoint = "localhost:9000"
	config.MinIO.AccessKeyID = "minioadmin"
	config.MinIO.SecretAccessKey = "minioadmin123"
	config.MinIO.TranscriptBucket = "resume-transcripts"
	config.MinIO.TranscriptExpireDays = 30

	return config
}

// Default 返回默认配置的副本
func Default() *Config {
	return createDefaultConfig()
}

// CreateSampleConfig 创建一个示例配置文件
func CreateSampleConfig(filePath string) error {
	if _, err := os.Stat(filePath); err == nil {
		return fmt.Errorf("文件 '%s' 已存在，不会覆盖", filePath)
	}

	data, err := yaml.Marshal(createDefaultConfig())
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("写入示例配置文件 '%s' 失败: %w", filePath, err)
	}
	return nil
}

// GetDuration utility to parse duration strings from config
func GetDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	if durationStr == "" {
		return defaultDuration
	}
	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return defaultDuration
	}
	return d
}

// MaxFileSizeBytes 返回允许的最大文件字节数
func (c LoaderConfig) MaxFileSizeBytes() int64 {
	if c.MaxFileSizeMB <= 0 {
		return constants.DefaultMaxFileSizeBytes
	}
	return int64(c.MaxFileSizeMB) << 20
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, p := range strings.Split(s, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
