// Package validation checks decoded user payloads against a declarative
// rule table and accumulates per-field failures into the error envelope
// the API returns with a 422.
package validation

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Rule is one tagged check applied to a field value. Check returns the
// user-facing failure message, or ok for a passing value. Labels are the
// human-readable field names used inside messages ("first name").
type Rule interface {
	Check(label, value string) (msg string, ok bool)
}

// Required rejects empty values.
type Required struct{}

func (Required) Check(label, value string) (string, bool) {
	if value == "" {
		return fmt.Sprintf("The %s field is required.", label), false
	}
	return "", true
}

// MaxLen rejects values longer than N characters. Lengths count runes,
// not bytes.
type MaxLen struct{ N int }

func (r MaxLen) Check(label, value string) (string, bool) {
	if utf8.RuneCountInString(value) > r.N {
		return fmt.Sprintf("The %s field must not be greater than %d characters.", label, r.N), false
	}
	return "", true
}

// MinLen rejects values shorter than N characters.
type MinLen struct{ N int }

func (r MinLen) Check(label, value string) (string, bool) {
	if utf8.RuneCountInString(value) < r.N {
		return fmt.Sprintf("The %s field must be at least %d characters.", label, r.N), false
	}
	return "", true
}

// EmailShape is a lightweight structural test: a local part, one @, and
// a domain containing at least one dot. Anything a common email
// validator accepts passes; exhaustive RFC validation is deliberately
// not attempted.
type EmailShape struct{}

func (EmailShape) Check(label, value string) (string, bool) {
	if !emailPattern.MatchString(value) {
		return fmt.Sprintf("The %s field must be a valid email address.", label), false
	}
	return "", true
}

// Errors maps input field names to their failure messages.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Any() bool {
	return len(e) > 0
}

// Summary builds the top-level message for the 422 envelope: the first
// failure in canonical field order, with a count of the rest.
func (e Errors) Summary() string {
	var first string
	total := 0
	for _, field := range summaryFieldOrder(e) {
		msgs := e[field]
		if first == "" && len(msgs) > 0 {
			first = msgs[0]
		}
		total += len(msgs)
	}
	if first == "" {
		return ""
	}
	switch rest := total - 1; {
	case rest == 1:
		return fmt.Sprintf("%s (and 1 more error)", first)
	case rest > 1:
		return fmt.Sprintf("%s (and %d more errors)", first, rest)
	default:
		return first
	}
}

// summaryFieldOrder lists e's keys with the known user fields first,
// then anything else sorted, so summaries are deterministic.
func summaryFieldOrder(e Errors) []string {
	order := make([]string, 0, len(e))
	seen := make(map[string]bool, len(e))
	for _, field := range userFieldOrder {
		if _, ok := e[field]; ok {
			order = append(order, field)
			seen[field] = true
		}
	}
	var extra []string
	for field := range e {
		if !seen[field] {
			extra = append(extra, field)
		}
	}
	sort.Strings(extra)
	return append(order, extra...)
}

// applyRules runs every rule against a trimmed value, accumulating
// failures. An empty value short-circuits to the Required outcome alone;
// the remaining rules only apply to non-empty input.
func applyRules(errs Errors, field, label, value string, rules []Rule) {
	if value == "" {
		for _, rule := range rules {
			if _, ok := rule.(Required); ok {
				msg, _ := rule.Check(label, value)
				errs.Add(field, msg)
				return
			}
		}
		return
	}
	for _, rule := range rules {
		if msg, ok := rule.Check(label, value); !ok {
			errs.Add(field, msg)
		}
	}
}
