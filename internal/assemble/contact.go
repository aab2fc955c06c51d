package assemble

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"

	"resume-extract-go/internal/extract"
	"resume-extract-go/internal/types"
)

var (
	emailRe         = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9\-]+(?:\.[a-z0-9\-]+)*\.[a-z]{2,}`)
	phoneRe         = regexp.MustCompile(`\+?\(?\d[\d\s().\-]{5,18}\d`)
	yearRangeRe     = regexp.MustCompile(`^(?:19|20)\d{2}\s*[-–]\s*(?:19|20)\d{2}$`)
	locationLabelRe = regexp.MustCompile(`(?i)^\s*(?:location|address|based in|residence)\s*[:\-–]\s*(.+)$`)
	cityRegionRe    = regexp.MustCompile(`^\p{Lu}[\p{L}.'\-]*(?:\s\p{Lu}[\p{L}.'\-]*)*(?:,\s*\p{Lu}[\p{L}.'\-]*(?:\s\p{Lu}[\p{L}.'\-]*)*)?,\s*(\p{Lu}[\p{L}]*(?:\s\p{Lu}[\p{L}]*)*)$`)
	contactSplitRe  = regexp.MustCompile(`\s*(?:[|•·●▪]|\s[-–—]\s|\t)\s*`)
)

// City, Country 中认可的国家名，小写
var countries = map[string]bool{
	"usa": true, "united states": true, "uk": true, "united kingdom": true, "england": true,
	"india": true, "canada": true, "germany": true, "france": true, "australia": true,
	"china": true, "japan": true, "singapore": true, "netherlands": true, "ireland": true,
	"spain": true, "italy": true, "brazil": true, "mexico": true, "sweden": true,
	"switzerland": true, "uae": true, "nigeria": true, "kenya": true, "pakistan": true,
	"bangladesh": true, "nepal": true, "sri lanka": true, "south africa": true,
	"new zealand": true, "poland": true, "israel": true, "portugal": true, "egypt": true,
}

// contactCollector 按 (channel, normalized) 去重，保留首次出现的展示值
type contactCollector struct {
	region string
	seen   map[string]bool
	out    []types.ContactEntry
}

func newContactCollector(region string) *contactCollector {
	return &contactCollector{region: region, seen: make(map[string]bool)}
}

func (c *contactCollector) add(e types.ContactEntry) {
	if e.Normalized == "" {
		return
	}
	key := string(e.Channel) + "\x00" + e.Normalized
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.out = append(c.out, e)
}

func (c *contactCollector) scan(l types.NormalizedLine) {
	for _, h := range l.Hyperlinks {
		lower := strings.ToLower(h.URL)
		switch {
		case strings.HasPrefix(lower, "mailto:"):
			addr := strings.SplitN(h.URL[len("mailto:"):], "?", 2)[0]
			if emailRe.MatchString(addr) {
				c.add(emailEntry(addr))
			}
		case strings.HasPrefix(lower, "tel:"):
			if e, ok := c.phoneEntry(h.URL[len("tel:"):]); ok {
				c.add(e)
			}
		}
	}

	text := l.Text
	for _, m := range emailRe.FindAllString(text, -1) {
		c.add(emailEntry(m))
	}
	for _, m := range phoneRe.FindAllString(withoutLinks(text), -1) {
		if e, ok := c.phoneEntry(m); ok {
			c.add(e)
		}
	}
	if loc, ok := location(text); ok {
		c.add(types.ContactEntry{
			Channel:    types.ChannelLocation,
			Value:      loc,
			Normalized: strings.ToLower(strings.Join(strings.Fields(loc), " ")),
		})
	}
}

func emailEntry(addr string) types.ContactEntry {
	addr = strings.TrimSpace(addr)
	return types.ContactEntry{Channel: types.ChannelEmail, Value: addr, Normalized: strings.ToLower(addr)}
}

// phoneEntry 归一化为纯数字；配置了默认地区或号码带国家码且校验通过时填 E164
func (c *contactCollector) phoneEntry(raw string) (types.ContactEntry, bool) {
	value := strings.TrimSpace(raw)
	if yearRangeRe.MatchString(value) {
		return types.ContactEntry{}, false
	}
	digits := digitsOnly(value)
	if len(digits) < 7 || len(digits) > 15 {
		return types.ContactEntry{}, false
	}
	e := types.ContactEntry{Channel: types.ChannelPhone, Value: value, Normalized: digits}
	if c.region != "" || strings.HasPrefix(value, "+") {
		if num, err := phonenumbers.Parse(value, c.region); err == nil && phonenumbers.IsValidNumber(num) {
			e.E164 = phonenumbers.Format(num, phonenumbers.E164)
		}
	}
	return e, true
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// withoutLinks 去掉邮箱和 URL，避免其中的数字被识别为电话
func withoutLinks(text string) string {
	text = emailRe.ReplaceAllString(text, " ")
	fields := strings.Fields(text)
	for i, f := range fields {
		lower := strings.ToLower(f)
		if strings.Contains(f, "/") || strings.HasPrefix(lower, "www.") {
			fields[i] = "|"
		}
	}
	return strings.Join(fields, " ")
}

// location 识别 "Location: ..." 标签，或整段形如 "City, ST" / "City, Country" 的片段
func location(text string) (string, bool) {
	if m := locationLabelRe.FindStringSubmatch(text); m != nil {
		if v := strings.TrimSpace(contactSplitRe.Split(m[1], 2)[0]); v != "" {
			return v, true
		}
	}
	for _, seg := range contactSplitRe.Split(text, -1) {
		seg = strings.TrimSpace(seg)
		m := cityRegionRe.FindStringSubmatch(seg)
		if m == nil || len(strings.Fields(seg)) > 6 {
			continue
		}
		if isRegionCode(m[1]) || countries[strings.ToLower(m[1])] {
			return seg, true
		}
	}
	return "", false
}

// isRegionCode 州/国家缩写，例如 CA、NY、USA
func isRegionCode(s string) bool {
	if len(s) < 2 || len(s) > 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// isContact 片段中包含联系方式或链接
func isContact(text string) bool {
	if emailRe.MatchString(text) || strings.Contains(text, "@") {
		return true
	}
	if len(extract.URLs(text)) > 0 || strings.Contains(strings.ToLower(text), "http") {
		return true
	}
	for _, m := range phoneRe.FindAllString(text, -1) {
		if n := len(digitsOnly(m)); n >= 7 && n <= 15 && !yearRangeRe.MatchString(strings.TrimSpace(m)) {
			return true
		}
	}
	_, ok := location(text)
	return ok
}

// looksLikeName 1 到 5 个词，字母占比超过 70%
func looksLikeName(text string) bool {
	words := strings.Fields(text)
	if len(words) == 0 || len(words) > 5 {
		return false
	}
	letters, total := 0, 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) || unicode.IsSpace(r) || r == '-' || r == '\'' || r == '.' {
			letters++
		}
	}
	return float64(letters)/float64(total) > 0.7
}
