package extract

import (
	"resume-extract-go/internal/config"
)

// Config 抽取器使用的词表
type Config struct {
	TechnologyKeywords  []string
	InstitutionKeywords []string
	DegreeKeywords      []string
	PlatformDomainTable map[string]string
}

// ConfigFrom 从应用配置中取出抽取相关部分
func ConfigFrom(e config.ExtractionConfig) Config {
	return Config{
		TechnologyKeywords:  e.TechnologyKeywords,
		InstitutionKeywords: e.InstitutionKeywords,
		DegreeKeywords:      e.DegreeKeywords,
		PlatformDomainTable: e.PlatformDomainTable,
	}
}

// withDefaults 空词表使用默认值
func (c Config) withDefaults() Config {
	d := config.DefaultExtraction()
	if len(c.TechnologyKeywords) == 0 {
		c.TechnologyKeywords = d.TechnologyKeywords
	}
	if len(c.InstitutionKeywords) == 0 {
		c.InstitutionKeywords = d.InstitutionKeywords
	}
	if len(c.DegreeKeywords) == 0 {
		c.DegreeKeywords = d.DegreeKeywords
	}
	if c.PlatformDomainTable == nil {
		c.PlatformDomainTable = d.PlatformDomainTable
	}
	return c
}
