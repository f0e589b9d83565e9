package render

// exprBuiltins lists expr-lang built-in functions and keywords that can
// appear as a bare identifier in an expression without being a data
// reference, so rootIdentifiers callers don't misreport them as undefined.
var exprBuiltins = map[string]bool{
	"len": true, "all": true, "any": true, "none": true, "one": true,
	"filter": true, "map": true, "find": true, "findIndex": true, "findLast": true, "findLastIndex": true,
	"groupBy": true, "count": true, "sum": true, "reduce": true,
	"type": true, "string": true, "int": true, "float": true, "bool": true, "toJSON": true, "fromJSON": true,
	"toBase64": true, "fromBase64": true,
	"trim": true, "trimPrefix": true, "trimSuffix": true, "upper": true, "lower": true,
	"split": true, "splitAfter": true, "replace": true, "repeat": true, "join": true,
	"indexOf": true, "lastIndexOf": true, "hasPrefix": true, "hasSuffix": true,
	"first": true, "last": true, "take": true, "reverse": true, "sort": true, "sortBy": true, "keys": true, "values": true,
	"abs": true, "ceil": true, "floor": true, "round": true, "max": true, "min": true,
	"not": true, "in": true, "matches": true,
	"true": true, "false": true, "nil": true, "null": true,
	"now": true, "duration": true, "date": true,
}

// isExprBuiltin reports whether name is an expr-lang keyword/builtin rather
// than a data reference.
func isExprBuiltin(name string) bool {
	return exprBuiltins[name]
}

// rootIdentifiers scans exprStr for identifier tokens and returns the
// distinct set that are "root" references into the data context: bare
// identifiers not immediately preceded by `.` (a property access) and not
// immediately followed by `(` (a function call), and not inside a string
// literal.
func rootIdentifiers(exprStr string) []string {
	runes := []rune(exprStr)
	n := len(runes)
	var out []string
	seen := map[string]bool{}

	i := 0
	for i < n {
		r := runes[i]

		switch {
		case r == '\'' || r == '"':
			quote := r
			i++
			for i < n && runes[i] != quote {
				if runes[i] == '\\' && i+1 < n {
					i++
				}
				i++
			}
			i++ // skip closing quote
		case isIdentStartRune(r):
			start := i
			i++
			for i < n && isIdentPartRune(runes[i]) {
				i++
			}
			name := string(runes[start:i])

			precededByDot := start > 0 && runes[start-1] == '.'
			followedByParen := false
			j := i
			for j < n && (runes[j] == ' ' || runes[j] == '\t') {
				j++
			}
			if j < n && runes[j] == '(' {
				followedByParen = true
			}

			if !precededByDot && !followedByParen && !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		default:
			i++
		}
	}

	return out
}

func isIdentStartRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPartRune(r rune) bool {
	return isIdentStartRune(r) || (r >= '0' && r <= '9')
}
