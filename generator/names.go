package generator

import (
	"go/token"
	"strconv"
	"strings"
	"unicode"
)

var acronyms = map[string]bool{
	"id":   true,
	"url":  true,
	"api":  true,
	"http": true,
	"json": true,
	"xml":  true,
	"sql":  true,
	"io":   true,
	"ip":   true,
	"tcp":  true,
	"udp":  true,
}

// toGoName turns a C identifier into an exported Go identifier:
// calc_get_version becomes CalcGetVersion, CALC_OK becomes CalcOk.
func toGoName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_'
	})

	var result strings.Builder
	for _, part := range parts {
		lower := strings.ToLower(part)
		if acronyms[lower] {
			result.WriteString(strings.ToUpper(part))
			continue
		}
		rest := part[1:]
		if part == strings.ToUpper(part) {
			rest = lower[1:]
		}
		result.WriteString(strings.ToUpper(part[:1]))
		result.WriteString(rest)
	}

	out := result.String()
	if out != "" && unicode.IsDigit(rune(out[0])) {
		out = "X" + out
	}
	return out
}

func toLowerCamel(name string) string {
	goName := toGoName(name)
	if goName == "" {
		return ""
	}
	runes := []rune(goName)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// paramName returns a Go identifier for the i-th parameter.
func paramName(name string, i int) string {
	n := toLowerCamel(name)
	switch {
	case n == "":
		return "arg" + strconv.Itoa(i)
	case token.IsKeyword(n) || predeclared[n]:
		return n + "_"
	}
	return n
}

// predeclared lists identifiers a parameter must not shadow in the
// generated wrappers.
var predeclared = map[string]bool{
	"result":    true,
	"resultPtr": true,
	"unsafe":    true,
	"ffi":       true,
	"unix":      true,
	"fmt":       true,
	"string":    true,
	"len":       true,
}
