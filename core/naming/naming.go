// Package naming derives table, type, file and identifier names from the
// resource names given on the command line.
package naming

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	rules    = ruleset()
	acronyms = make(map[string]struct{})
	titler   = cases.Title(language.English)
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range []string{"API", "HTML", "HTTP", "ID", "JSON", "SQL", "URL", "UUID"} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// Singular returns the singular form of a snake_case word, keeping any
// leading words untouched (e.g. "invoice_items" -> "invoice_item").
func Singular(s string) string {
	return inflectLast(s, rules.Singularize)
}

// Plural returns the plural form of a snake_case word, keeping any leading
// words untouched (e.g. "invoice_item" -> "invoice_items").
func Plural(s string) string {
	return inflectLast(s, rules.Pluralize)
}

func inflectLast(s string, fn func(string) string) string {
	if s == "" {
		return s
	}
	i := strings.LastIndexByte(s, '_')
	return s[:i+1] + fn(s[i+1:])
}

// ClassCase converts s to an exported Go identifier: "user_profile" ->
// "UserProfile", "owner_id" -> "OwnerID".
func ClassCase(s string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = pascalWord(w)
	}
	return strings.Join(words, "")
}

// CamelCase converts s to an unexported Go identifier: "user_profile" ->
// "userProfile", "id" -> "id".
func CamelCase(s string) string {
	words := Words(s)
	for i, w := range words {
		if i == 0 {
			words[i] = strings.ToLower(w)
			continue
		}
		words[i] = pascalWord(w)
	}
	return strings.Join(words, "")
}

// SnakeCase converts s to snake_case: "UserProfile" -> "user_profile",
// "OwnerID" -> "owner_id", "due-at" -> "due_at".
func SnakeCase(s string) string {
	return strings.Join(Words(s), "_")
}

// Title converts s to a human readable title: "due_at" -> "Due At".
func Title(s string) string {
	return titler.String(strings.Join(Words(s), " "))
}

// Words splits s into lower-case words at underscores, dashes, spaces and
// case changes. Runs of capitals are treated as one word ("HTTPServer" ->
// "http", "server").
func Words(s string) []string {
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
			continue
		case unicode.IsUpper(r) && len(cur) > 0:
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

func pascalWord(w string) string {
	upper := strings.ToUpper(w)
	if _, ok := acronyms[upper]; ok {
		return upper
	}
	return rules.Capitalize(w)
}

// Resource bundles the names derived from a single resource name.
type Resource struct {
	// Name is the name as given, normalized to snake_case.
	Name string
	// Singular is the snake_case singular form ("invoice_item").
	Singular string
	// Plural is the snake_case plural form, used for tables and directories ("invoice_items").
	Plural string
	// Class is the exported Go type name ("InvoiceItem").
	Class string
	// PluralClass is the exported plural form ("InvoiceItems").
	PluralClass string
	// Camel is the unexported Go identifier ("invoiceItem").
	Camel string
	// Title is the human readable singular form ("Invoice Item").
	Title string
	// PluralTitle is the human readable plural form ("Invoice Items").
	PluralTitle string
}

// NewResource derives every name of the resource called name.
func NewResource(name string) Resource {
	snake := SnakeCase(name)
	singular := Singular(snake)
	plural := Plural(singular)
	return Resource{
		Name:        snake,
		Singular:    singular,
		Plural:      plural,
		Class:       ClassCase(singular),
		PluralClass: ClassCase(plural),
		Camel:       CamelCase(singular),
		Title:       Title(singular),
		PluralTitle: Title(plural),
	}
}
