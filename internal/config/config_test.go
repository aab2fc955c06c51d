package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfigWithCorrectMapSyntax 验证当 YAML 语法正确时，map 结构的配置能否被成功加载
func TestLoadConfigWithCorrectMapSyntax(t *testing.T) {
	correctYAMLContent := `
extraction:
  heading_match_threshold: 0.7
  section_vocabulary:
    skills:
      - "skills"
      - "toolbox"
  platform_domain_table:
    codeberg.org: "code-hosting"
  technology_keywords:
    - "Zig"
server:
  address: ":9090"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(correctYAMLContent), 0644), "无法写入临时配置文件")

	cfg, err := LoadConfigFromFileOnly(configPath)
	require.NoError(t, err, "加载具有正确语法的配置不应返回错误")
	require.NotNil(t, cfg, "配置对象不应为 nil")

	assert.InDelta(t, 0.7, cfg.Extraction.HeadingMatchThreshold, 1e-9)
	assert.Equal(t, []string{"skills", "toolbox"}, cfg.Extraction.SectionVocabulary["skills"], "YAML 中的同义词应覆盖默认值")
	assert.NotEmpty(t, cfg.Extraction.SectionVocabulary["education"], "未配置的章节应保留默认同义词")
	assert.Equal(t, "code-hosting", cfg.Extraction.PlatformDomainTable["codeberg.org"])
	assert.Equal(t, "code-hosting", cfg.Extraction.PlatformDomainTable["github.com"], "默认平台表应与 YAML 合并")
	assert.Equal(t, []string{"Zig"}, cfg.Extraction.TechnologyKeywords)
	assert.Equal(t, ":9090", cfg.Server.Address)
}

// TestLoadConfigWithIncorrectMapSyntax 验证当 YAML 缩进错误时，map 字段无法被正确解析但不会报错
func TestLoadConfigWithIncorrectMapSyntax(t *testing.T) {
	incorrectYAMLContent := `
extraction:
  heading_match_threshold: 0.9
  platform_domain_table: # map类型
  codeberg.org: "code-hosting"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(incorrectYAMLContent), 0644))

	cfg, err := LoadConfigFromFileOnly(configPath)
	require.NoError(t, err, "加载语法错误的配置也不应立即报错")
	require.NotNil(t, cfg)

	_, ok := cfg.Extraction.PlatformDomainTable["codeberg.org"]
	assert.False(t, ok, "由于缩进错误，codeberg.org 不应出现在平台表中")
	assert.NotEmpty(t, cfg.Extraction.PlatformDomainTable, "平台表应回退到默认值")
}

func TestLoadConfigFromFileOnly_Missing(t *testing.T) {
	_, err := LoadConfigFromFileOnly(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	_, err = LoadConfigFromFileOnly("")
	assert.Error(t, err)
}

func TestExtractionValidate(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		want      float64
	}{
		{"negative clamps to zero", -0.5, 0},
		{"above one clamps to one", 1.7, 1},
		{"in range untouched", 0.65, 0.65},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ExtractionConfig{HeadingMatchThreshold: tt.threshold, DefaultPhoneRegion: " us "}
			e.Validate()
			assert.InDelta(t, tt.want, e.HeadingMatchThreshold, 1e-9)
			assert.Equal(t, "US", e.DefaultPhoneRegion)
			assert.NotEmpty(t, e.SectionVocabulary["projects"])
			assert.NotEmpty(t, e.TechnologyKeywords)
			assert.NotEmpty(t, e.InstitutionKeywords)
		})
	}
}

func TestDefaultExtractionIsACopy(t *testing.T) {
	a := DefaultExtraction()
	a.SectionVocabulary["skills"][0] = "mutated"
	a.PlatformDomainTable["github.com"] = "mutated"

	b := DefaultExtraction()
	assert.Equal(t, "skills", b.SectionVocabulary["skills"][0])
	assert.Equal(t, "code-hosting", b.PlatformDomainTable["github.com"])
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RESUME_HEADING_THRESHOLD", "0.55")
	t.Setenv("RESUME_API_KEYS", "k1, k2,,")
	t.Setenv("RESUME_OTLP_ENDPOINT", "collector:4317")

	cfg := createDefaultConfig()
	applyEnvOverrides(cfg)

	assert.InDelta(t, 0.55, cfg.Extraction.HeadingMatchThreshold, 1e-9)
	assert.Equal(t, []string{"k1", "k2"}, cfg.Auth.Keys)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "collector:4317", cfg.Tracing.Endpoint)
}

func TestCreateSampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.yaml")
	require.NoError(t, CreateSampleConfig(path))

	cfg, err := LoadConfigFromFileOnly(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultHeadingMatchThreshold, cfg.Extraction.HeadingMatchThreshold)

	assert.Error(t, CreateSampleConfig(path), "已存在的文件不应被覆盖")
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 5*time.Second, GetDuration("", 5*time.Second))
	assert.Equal(t, 5*time.Second, GetDuration("bogus", 5*time.Second))
	assert.Equal(t, 2*time.Minute, GetDuration("2m", 5*time.Second))
}
