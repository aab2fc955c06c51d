package config

import "strings"

// DefaultHeadingMatchThreshold 标题匹配默认阈值
const DefaultHeadingMatchThreshold = 0.8

// 默认章节同义词表，key 与 types.SectionLabel 一致
var defaultSectionVocabulary = map[string][]string{
	"contact": {
		"contact", "contact information", "contact info", "contact details",
		"personal details", "personal information", "get in touch",
	},
	"summary": {
		"summary", "professional summary", "career summary", "objective",
		"career objective", "about me", "about", "profile", "professional profile",
	},
	"education": {
		"education", "academic background", "academics", "educational qualifications",
		"academic qualifications", "qualifications", "education and training",
	},
	"experience": {
		"experience", "work experience", "professional experience", "employment history",
		"work history", "employment", "internships", "internship experience",
	},
	"projects": {
		"projects", "personal projects", "academic projects", "key projects",
		"selected projects", "project experience", "side projects",
	},
	"skills": {
		"skills", "technical skills", "core competencies", "competencies", "technologies",
		"tech stack", "tools", "expertise", "skills and tools", "languages and tools",
		"key skills",
	},
	"achievements": {
		"achievements", "awards", "honors", "honours", "accomplishments",
		"awards and achievements", "honors and awards", "certifications",
		"recognition", "publications", "extracurricular activities",
	},
	"profiles": {
		"profiles", "online profiles", "links", "social links", "social profiles",
		"online presence", "websites",
	},
}

// 默认平台域名表：域名（含子域名）-> 平台类别
var defaultPlatformDomainTable = map[string]string{
	"linkedin.com":      "professional-network",
	"github.com":        "code-hosting",
	"gitlab.com":        "code-hosting",
	"bitbucket.org":     "code-hosting",
	"kaggle.com":        "data-science",
	"leetcode.com":      "competitive-programming",
	"codeforces.com":    "competitive-programming",
	"hackerrank.com":    "competitive-programming",
	"codechef.com":      "competitive-programming",
	"medium.com":        "blog",
	"dev.to":            "blog",
	"substack.com":      "blog",
	"stackoverflow.com": "community",
	"behance.net":       "design",
	"dribbble.com":      "design",
	"twitter.com":       "social",
	"x.com":             "social",
}

var defaultTechnologyKeywords = []string{
	// 编程语言
	"Python", "Java", "C++", "C#", "JavaScript", "TypeScript", "Go", "Golang", "Rust", "Scala", "Kotlin", "Swift", "PHP", "Ruby", "SQL",
	// Web 框架
	"FastAPI", "Flask", "Django", "Spring", "Node.js", "Express", "Next.js", "React", "Vue", "Angular", "Svelte", "HTML", "CSS", "Tailwind",
	// 数据与机器学习
	"Pandas", "NumPy", "SciPy", "scikit-learn", "Matplotlib", "XGBoost", "PyTorch", "TensorFlow", "Keras", "OpenCV", "Transformers", "LangChain", "spaCy", "NLTK",
	// 数据库
	"MySQL", "PostgreSQL", "MongoDB", "Redis", "SQLite", "Cassandra", "DynamoDB", "Elasticsearch",
	// 云与运维
	"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Terraform", "Jenkins", "GitHub Actions",
	// 大数据
	"Spark", "Hadoop", "Kafka", "Airflow",
	// 工具
	"Git", "Linux", "Bash", "GraphQL", "gRPC", "REST", "Tableau", "Power BI", "Excel",
}

var defaultInstitutionKeywords = []string{
	"university", "college", "institute", "school", "academy", "polytechnic", "universität", "école",
}

var defaultDegreeKeywords = []string{
	"B.S.", "BS", "B.Sc", "BSc", "B.A.", "BA", "B.E.", "BE", "B.Tech", "BTech", "Bachelor",
	"M.S.", "MS", "M.Sc", "MSc", "M.A.", "MA", "M.E.", "M.Tech", "MTech", "MBA", "Master",
	"Ph.D.", "PhD", "Doctor", "Associate", "Diploma", "High School",
}

// DefaultExtraction 返回默认抽取配置（每次返回新的副本）
func DefaultExtraction() ExtractionConfig {
	vocab := make(map[string][]string, len(defaultSectionVocabulary))
	for k, v := range defaultSectionVocabulary {
		vocab[k] = append([]string(nil), v...)
	}
	platforms := make(map[string]string, len(defaultPlatformDomainTable))
	for k, v := range defaultPlatformDomainTable {
		platforms[k] = v
	}
	return ExtractionConfig{
		HeadingMatchThreshold: DefaultHeadingMatchThreshold,
		SectionVocabulary:     vocab,
		PlatformDomainTable:   platforms,
		TechnologyKeywords:    append([]string(nil), defaultTechnologyKeywords...),
		InstitutionKeywords:   append([]string(nil), defaultInstitutionKeywords...),
		DegreeKeywords:        append([]string(nil), defaultDegreeKeywords...),
	}
}

// Validate 将阈值限制在 [0,1]，并为缺失项补默认值
func (e *ExtractionConfig) Validate() {
	switch {
	case e.HeadingMatchThreshold < 0:
		e.HeadingMatchThreshold = 0
	case e.HeadingMatchThreshold > 1:
		e.HeadingMatchThreshold = 1
	}

	if e.SectionVocabulary == nil {
		e.SectionVocabulary = make(map[string][]string)
	}
	for label, synonyms := range defaultSectionVocabulary {
		if len(e.SectionVocabulary[label]) == 0 {
			e.SectionVocabulary[label] = append([]string(nil), synonyms...)
		}
	}

	if len(e.PlatformDomainTable) == 0 {
		e.PlatformDomainTable = make(map[string]string, len(defaultPlatformDomainTable))
		for k, v := range defaultPlatformDomainTable {
			e.PlatformDomainTable[k] = v
		}
	}
	if len(e.TechnologyKeywords) == 0 {
		e.TechnologyKeywords = append([]string(nil), defaultTechnologyKeywords...)
	}
	if len(e.InstitutionKeywords) == 0 {
		e.InstitutionKeywords = append([]string(nil), defaultInstitutionKeywords...)
	}
	if len(e.DegreeKeywords) == 0 {
		e.DegreeKeywords = append([]string(nil), defaultDegreeKeywords...)
	}
	e.DefaultPhoneRegion = strings.ToUpper(strings.TrimSpace(e.DefaultPhoneRegion))
}
