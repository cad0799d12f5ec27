package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/atlanticofertlog/cargo-docs/internal/textnorm"
)

// Rule is one alternative of a field cascade. Match reports whether the rule
// recognized the field in text and, if so, its value.
type Rule[T any] struct {
	Name  string
	Match func(text string) (T, bool)
}

// FirstMatch walks rules in order and returns the value of the first rule
// that matches, together with that rule's name.
func FirstMatch[T any](text string, rules []Rule[T]) (value T, rule string, ok bool) {
	for _, r := range rules {
		if v, matched := r.Match(text); matched {
			return v, r.Name, true
		}
	}
	var zero T
	return zero, "", false
}

// submatchRule builds a rule returning the trimmed first capture group of re.
func submatchRule(name string, re *regexp.Regexp) Rule[string] {
	return Rule[string]{
		Name: name,
		Match: func(text string) (string, bool) {
			m := re.FindStringSubmatch(text)
			if m == nil {
				return "", false
			}
			v := strings.TrimSpace(m[1])
			return v, v != ""
		},
	}
}

// brDecimal matches a Brazilian decimal: "1.234,5" or "12,500".
var brDecimal = regexp.MustCompile(`\d{1,3}(?:\.\d{3})*,\d{1,4}|\d+,\d{1,4}`)

// hasBRDecimal is the looser test used to classify lines.
var hasBRDecimal = regexp.MustCompile(`\d+,\d{1,4}`)

// parseBRDecimal drops thousands separators and turns the decimal comma into a point.
func parseBRDecimal(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	s = strings.Replace(s, ",", ".", 1)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// labelPattern turns a printed field label into a pattern that tolerates
// missing accents, missing dots and irregular spacing.
// "CAT. HAB." -> `CAT\.?\s*HAB\.?`, "CÓDIGO" -> `C[ÓO]DIGO`.
func labelPattern(label string) string {
	words := strings.Fields(label)
	parts := make([]string, 0, len(words))
	for _, w := range words {
		var b strings.Builder
		for _, r := range w {
			switch {
			case r == '.':
				b.WriteString(`\.?`)
			default:
				plain := textnorm.StripAccents(string(r))
				if plain != string(r) {
					b.WriteString("[" + string(r) + regexp.QuoteMeta(plain) + "]")
				} else {
					b.WriteString(regexp.QuoteMeta(string(r)))
				}
			}
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, `\s*`)
}

// splitLines upper-cases text and splits it on newlines.
func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(strings.ToUpper(text), "\r\n", "\n"), "\n")
}

// lineIndex returns the index of the first line matched by re, or -1.
func lineIndex(lines []string, re *regexp.Regexp) int {
	for i, l := range lines {
		if re.MatchString(l) {
			return i
		}
	}
	return -1
}

// window returns up to n lines following index i.
func window(lines []string, i, n int) []string {
	start := i + 1
	if start > len(lines) {
		return nil
	}
	end := start + n
	if end > len(lines) {
		end = len(lines)
	}
	return lines[start:end]
}

func orNotFound(s, notFound string) string {
	if strings.TrimSpace(s) == "" {
		return notFound
	}
	return s
}

// wordToken matches a run of word characters, counting letters of any script.
// regexp's \b only knows ASCII, so "CÓDIGO" would otherwise contain the word "C".
var wordToken = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// notWordOrEnd ends a pattern where \b would, treating accented letters as word characters.
const notWordOrEnd = `(?:[^\p{L}\p{N}_]|$)`

func words(text string) []string {
	return wordToken.FindAllString(text, -1)
}

func isASCIIDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
