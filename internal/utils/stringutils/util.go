package stringutils

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// LowerCamel turns an exported Go name into a property name: ID -> id,
// TeamID -> teamId, UserName -> userName.
func LowerCamel(name string) string {
	if name == "" {
		return ""
	}
	if strings.ToUpper(name) == name {
		return lower.String(name)
	}

	// 首字母缩写词按普通单词处理
	runes := []rune(name)
	i := 0
	for i < len(runes) && unicode.IsUpper(runes[i]) {
		i++
	}
	if i > 1 && i < len(runes) {
		i--
	}
	head := lower.String(string(runes[:i]))
	tail := string(runes[i:])
	if strings.HasSuffix(tail, "ID") {
		tail = strings.TrimSuffix(tail, "ID") + "Id"
	}
	return head + tail
}

// LowerFirst lower cases the first letter only.
func LowerFirst(name string) string {
	if name == "" {
		return ""
	}
	runes := []rune(name)
	return lower.String(string(runes[:1])) + string(runes[1:])
}
