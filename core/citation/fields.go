package citation

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// fieldList is the grammar for the key = value pairs of a block. Everything
// that is not a pair is elided by the lexer.
//
//nolint:govet // participle grammar tags are not standard struct tags
type fieldList struct {
	Pairs []string `@Pair*`
}

// fieldLexer tokenizes a block. A Pair swallows its whole value, so text
// inside a braced or quoted value is never seen as a key.
// Order matters: Pair must come before Word.
var fieldLexer = lexer.MustSimple([]lexer.SimpleRule{
	// key = {value} | key = "value" | key = bare
	{Name: "Pair", Pattern: `[A-Za-z][A-Za-z0-9_\-:.]*[ \t]*=[ \t]*(?:\{[^{}]*\}|"[^"]*"|[^\s,{}"=]+)`},
	{Name: "Word", Pattern: `[^\s{},"=]+`},
	{Name: "Punct", Pattern: `[{},"=]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var fieldParser = participle.MustBuild[fieldList](
	participle.Lexer(fieldLexer),
	participle.Elide("Whitespace", "Word", "Punct"),
)

// ScanFields returns the key = value pairs of a block. Braces or quotes
// around a value are removed and the value is trimmed. When a key repeats,
// the first occurrence wins.
func ScanFields(block string) (map[string]string, error) {
	parsed, err := fieldParser.ParseString("", block)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(parsed.Pairs))
	for _, pair := range parsed.Pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if _, seen := fields[key]; seen {
			continue
		}
		fields[key] = unwrapValue(strings.TrimSpace(value))
	}
	return fields, nil
}

func unwrapValue(v string) string {
	if len(v) >= 2 {
		if (v[0] == '{' && v[len(v)-1] == '}') || (v[0] == '"' && v[len(v)-1] == '"') {
			v = v[1 : len(v)-1]
		}
	}
	return strings.TrimSpace(v)
}
