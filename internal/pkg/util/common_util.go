package util

import (
	"math"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

var (
	variableRegex   = regexp.MustCompile(`\{\{([^}]+)\}\}`)
	twitterURLRegex = regexp.MustCompile(`(?i)^https?://(?:www\.|mobile\.)?(?:twitter|x)\.com/([A-Za-z0-9_]{1,15})(?:[/?#].*)?$`)
)

// ExtractVariables 提取去重后的模板变量名，保持首次出现顺序
func ExtractVariables(content string) []string {
	matches := variableRegex.FindAllStringSubmatch(content, -1)

	varSet := make(map[string]struct{})
	vars := make([]string, 0, len(matches))

	for _, m := range matches {
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		if _, exists := varSet[name]; !exists {
			varSet[name] = struct{}{}
			vars = append(vars, name)
		}
	}

	return vars
}

// VariableTokens 返回全部 {{...}} 原文（含重复），已排序
func VariableTokens(content string) []string {
	tokens := variableRegex.FindAllString(content, -1)
	sort.Strings(tokens)
	return tokens
}

// ReplaceVariables 替换已知变量，未知变量原样保留
func ReplaceVariables(content string, values map[string]string) string {
	return variableRegex.ReplaceAllStringFunc(content, func(token string) string {
		name := strings.TrimSpace(token[2 : len(token)-2])
		if v, ok := values[name]; ok {
			return v
		}
		return token
	})
}

// ParseTwitterUsername 支持 @user、user、twitter.com / x.com 链接三种写法
func ParseTwitterUsername(input string) (string, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", false
	}

	if m := twitterURLRegex.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	if strings.Contains(s, "://") {
		if u, err := url.Parse(s); err == nil && u.Host != "" {
			return "", false
		}
	}

	s = strings.TrimPrefix(s, "@")
	if twitterUsernameRegex.MatchString(s) {
		return s, true
	}
	return "", false
}

// Round1 保留一位小数
func Round1(f float64) float64 {
	return math.Round(f*10) / 10
}

// Percent part/total*100，保留一位小数，total 为 0 时返回 0
func Percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return Round1(float64(part) / float64(total) * 100)
}

// PtrInt 用于将 int 转换为 *int
func PtrInt(i int) *int {
	return &i
}

func PtrString(s string) *string {
	return &s
}
