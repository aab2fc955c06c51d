package assemble

import (
	"net/url"
	"sort"
	"strings"

	"resume-extract-go/internal/types"
)

// NormalizeURL scheme 与主机名小写，去掉默认端口、片段和末尾斜杠。无法解析时原样返回。
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if port := u.Port(); (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		u.Host = strings.TrimSuffix(u.Host, ":"+port)
	}
	u.Fragment, u.RawFragment = "", ""
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = strings.TrimRight(u.RawPath, "/")
	return u.String()
}

// mergeProfiles 按行序合并章节链接和全文链接，按归一化 URL 去重，先出现的平台和标签保留
func mergeProfiles(groups ...[]types.ProfileLink) []types.ProfileLink {
	var all []types.ProfileLink
	for _, g := range groups {
		all = append(all, g...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Span.Start < all[j].Span.Start })

	seen := make(map[string]bool, len(all))
	var out []types.ProfileLink
	for _, p := range all {
		p.URL = NormalizeURL(p.URL)
		if p.URL == "" || seen[p.URL] {
			continue
		}
		seen[p.URL] = true
		out = append(out, p)
	}
	return out
}
