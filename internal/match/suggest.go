package match

import (
	"sort"

	"method-integrator/internal/classfile"
)

// DefaultSuggestionThreshold is the minimum IdentSimilarity for a method
// name to be offered as a suggestion.
const DefaultSuggestionThreshold = 0.5

// Suggestion is a declared method that resembles a requested name.
type Suggestion struct {
	Method *classfile.Method
	Score  float64
}

// SuggestionList is sorted by descending score, then by method key.
type SuggestionList []Suggestion

// Len implements sort.Interface.
func (s SuggestionList) Len() int { return len(s) }

// Swap implements sort.Interface.
func (s SuggestionList) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

// Less implements sort.Interface.
func (s SuggestionList) Less(i, j int) bool {
	if s[i].Score != s[j].Score {
		return s[i].Score > s[j].Score
	}
	return s[i].Method.Key() < s[j].Method.Key()
}

// Top returns at most n suggestions.
func (s SuggestionList) Top(n int) SuggestionList {
	if n >= len(s) {
		return s
	}
	return s[:n]
}

// Keys returns the method keys ("name+descriptor") of the suggestions.
func (s SuggestionList) Keys() []string {
	out := make([]string, len(s))
	for i, sg := range s {
		out[i] = sg.Method.Key()
	}
	return out
}

// Suggest ranks declared methods by how closely they resemble d. When the
// name matches but the signature does not, every overload of the name
// scores 1 so the available signatures are listed first.
func Suggest(methods []*classfile.Method, d MethodDescriptor, threshold float64) SuggestionList {
	var out SuggestionList
	for _, m := range methods {
		score := IdentSimilarity(m.Name, d.Name)
		if score < threshold {
			continue
		}
		out = append(out, Suggestion{Method: m, Score: score})
	}
	sort.Sort(out)
	return out
}
