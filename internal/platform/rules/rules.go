// Package rules provides the ordered first-match evaluator shared by every
// keyword-driven classifier in the repository, plus the text folding those
// classifiers match against.
package rules

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Predicate reports whether a folded input satisfies a rule.
type Predicate func(folded string) bool

// Rule pairs a predicate with the result it yields.
type Rule[T any] struct {
	Name   string
	Match  Predicate
	Result T
}

// Table is an ordered list of rules. The first matching rule wins; when no
// rule matches the Fallback is returned.
type Table[T any] struct {
	Rules    []Rule[T]
	Fallback T
}

// FallbackName is reported by Trace when no rule matched.
const FallbackName = "fallback"

// Evaluate folds raw and returns the result of the first matching rule.
func (t Table[T]) Evaluate(raw string) T {
	v, _ := t.Trace(raw)
	return v
}

// Trace is Evaluate that also reports which rule fired.
func (t Table[T]) Trace(raw string) (T, string) {
	folded := Fold(raw)
	for _, r := range t.Rules {
		if r.Match != nil && r.Match(folded) {
			return r.Result, r.Name
		}
	}
	return t.Fallback, FallbackName
}

// ContainsAny matches when the input contains at least one of the keywords.
// Keywords must already be lower-case.
func ContainsAny(keywords ...string) Predicate {
	return func(folded string) bool {
		for _, k := range keywords {
			if strings.Contains(folded, k) {
				return true
			}
		}
		return false
	}
}

// ContainsAll matches when the input contains every keyword.
func ContainsAll(keywords ...string) Predicate {
	return func(folded string) bool {
		for _, k := range keywords {
			if !strings.Contains(folded, k) {
				return false
			}
		}
		return true
	}
}

// EqualsAny matches when the trimmed input equals one of the values.
func EqualsAny(values ...string) Predicate {
	return func(folded string) bool {
		s := strings.TrimSpace(folded)
		for _, v := range values {
			if s == v {
				return true
			}
		}
		return false
	}
}

// Blank matches empty or whitespace-only input.
func Blank() Predicate {
	return func(folded string) bool { return strings.TrimSpace(folded) == "" }
}

// Any matches when any of the predicates match.
func Any(ps ...Predicate) Predicate {
	return func(folded string) bool {
		for _, p := range ps {
			if p(folded) {
				return true
			}
		}
		return false
	}
}

// All matches when every predicate matches.
func All(ps ...Predicate) Predicate {
	return func(folded string) bool {
		for _, p := range ps {
			if !p(folded) {
				return false
			}
		}
		return true
	}
}

// ContainsExcluding matches when keyword occurs outside every excluded
// phrase, e.g. ContainsExcluding("normal", "abnormal") rejects "abnormal"
// but accepts "abnormal ecg, otherwise normal".
func ContainsExcluding(keyword string, excluded ...string) Predicate {
	return func(folded string) bool {
		for _, x := range excluded {
			folded = strings.ReplaceAll(folded, x, " ")
		}
		return strings.Contains(folded, keyword)
	}
}

// Not inverts a predicate.
func Not(p Predicate) Predicate {
	return func(folded string) bool { return !p(folded) }
}

var separators = strings.NewReplacer("-", " ", "_", " ")

// Fold normalizes text for keyword matching: compatibility composition
// (so full-width letters and ligatures compare equal to ASCII), lower-casing,
// and hyphens or underscores read as spaces so "At-Risk" matches "at risk".
func Fold(s string) string {
	return separators.Replace(strings.ToLower(norm.NFKC.String(s)))
}

// Humanize turns a snake_case field key into a display label,
// e.g. "pap_smear" -> "Pap Smear".
func Humanize(key string) string {
	words := strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(key))
	if len(words) == 0 {
		return ""
	}
	// cases.Caser is stateful, so one per call.
	return cases.Title(language.English).String(strings.Join(words, " "))
}
