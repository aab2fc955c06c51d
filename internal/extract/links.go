package extract

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"resume-extract-go/internal/types"
)

// PlatformOther 不在平台表中的域名
const PlatformOther = "other"

var (
	tokenSplitRe = regexp.MustCompile(`[\s|,;<>"']+`)
	bareDomainRe = regexp.MustCompile(`(?i)^[a-z0-9][a-z0-9-]*(\.[a-z0-9-]+)*\.[a-z]{2,}(:\d+)?/\S*$`)
)

// LinkExtractor 收集超链接和文本中的裸 URL，并按域名归类平台
type LinkExtractor struct {
	domains []string // 按长度降序，优先匹配更具体的域名
	table   map[string]string
}

// NewLinkExtractor 平台表的 key 为域名，value 为平台类别
func NewLinkExtractor(table map[string]string) *LinkExtractor {
	l := &LinkExtractor{table: make(map[string]string, len(table))}
	for domain, platform := range table {
		d := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domain), "www."))
		if d == "" {
			continue
		}
		l.table[d] = platform
		l.domains = append(l.domains, d)
	}
	sort.Slice(l.domains, func(i, j int) bool {
		if len(l.domains[i]) != len(l.domains[j]) {
			return len(l.domains[i]) > len(l.domains[j])
		}
		return l.domains[i] < l.domains[j]
	})
	return l
}

// Classify 按主机名后缀匹配平台表，未命中返回 "other"
func (l *LinkExtractor) Classify(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return PlatformOther
	}
	host := strings.ToLower(u.Hostname())
	for _, d := range l.domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return l.table[d]
		}
	}
	return PlatformOther
}

// Extract 抽取 [start,end) 行内的链接，先超链接后裸 URL，保持行序
func (l *LinkExtractor) Extract(lines []types.NormalizedLine, start, end int) []types.ProfileLink {
	var out []types.ProfileLink
	for i := max(start, 0); i < min(end, len(lines)); i++ {
		line := lines[i]
		span := types.Span{Start: i, End: i + 1}
		runes := []rune(line.Text)

		for _, h := range line.Hyperlinks {
			if !isWebURL(h.URL) {
				continue
			}
			label := ""
			if h.Start >= 0 && h.End <= len(runes) && h.Start < h.End {
				label = strings.TrimSpace(string(runes[h.Start:h.End]))
			}
			out = append(out, types.ProfileLink{
				Platform: l.Classify(h.URL),
				URL:      h.URL,
				Label:    label,
				Span:     span,
			})
		}

		for _, u := range bareURLs(line.Text) {
			out = append(out, types.ProfileLink{
				Platform: l.Classify(u),
				URL:      u,
				Label:    u,
				Span:     span,
			})
		}
	}
	return out
}

func (l *LinkExtractor) extractSection(sec types.Section, lines []types.NormalizedLine) Records {
	start, end := body(sec, len(lines))
	return Records{Profiles: l.Extract(lines, start, end)}
}

// isWebURL 只接受 http/https 链接，mailto、tel 等不是主页
func isWebURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

// bareURLs 找出文本中的 URL：带 http(s):// 或 www. 前缀，或形如 github.com/xxx 的域名路径
func bareURLs(text string) []string {
	var out []string
	for _, tok := range tokenSplitRe.Split(text, -1) {
		if u, ok := asURL(tok); ok {
			out = append(out, u)
		}
	}
	return out
}

// asURL 判断单个词是否为 URL，没有 scheme 的补上 https://
func asURL(token string) (string, bool) {
	tok := strings.Trim(token, "()[]{}.,;:!?*")
	if tok == "" || strings.Contains(tok, "@") {
		return "", false
	}
	lower := strings.ToLower(tok)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		if isWebURL(tok) {
			return tok, true
		}
		return "", false
	case strings.HasPrefix(lower, "www."):
		candidate := "https://" + tok
		return candidate, isWebURL(candidate) && strings.Contains(tok[4:], ".")
	case bareDomainRe.MatchString(tok):
		candidate := "https://" + tok
		return candidate, isWebURL(candidate)
	}
	return "", false
}

// URLs 返回文本中的裸 URL（已补全 scheme），供联系方式识别排除链接使用
func URLs(text string) []string {
	return bareURLs(text)
}
