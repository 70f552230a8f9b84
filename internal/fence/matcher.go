package fence

import (
	"regexp"
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/omaimashtiew/Tareeqy-public-view/internal/arabic"
)

// Sentence-level separators used to split long messages into clauses:
// Arabic comma, period, newline.
var clauseSeparators = regexp.MustCompile(`[،.\n]`)

// Matcher resolves which fences a free-text message mentions.
type Matcher struct {
	// FuzzyThreshold is the minimum token-set similarity (0-100) a fuzzy
	// candidate needs to be accepted.
	FuzzyThreshold int
	// FuzzyTopK bounds how many fuzzy candidates per clause are considered.
	FuzzyTopK int
	// LongMessageRunes is the normalized length above which a message is
	// split into clauses before matching.
	LongMessageRunes int
}

// DefaultMatcher returns a matcher with the tuned production thresholds.
func DefaultMatcher() Matcher {
	return Matcher{FuzzyThreshold: 70, FuzzyTopK: 3, LongMessageRunes: 100}
}

// FindFences returns every fence mentioned in message, each at most once,
// sorted by name. Exact substring matches on normalized names are
// authoritative; a fuzzy token-set pass runs only for clauses where the exact
// pass found nothing, so misspellings degrade gracefully without letting
// fuzzy noise override exact hits. The fuzzy fallback is scoped per clause:
// an exact hit in one clause does not suppress fuzzy matching in another.
func (m Matcher) FindFences(message string, fences []Fence) []Fence {
	normalized := arabic.Normalize(message)
	if normalized == "" || len(fences) == 0 {
		return nil
	}

	byNorm := make(map[string]Fence, len(fences))
	names := make([]string, 0, len(fences))
	for _, f := range fences {
		norm := arabic.Normalize(f.Name)
		if norm == "" {
			continue
		}
		if _, dup := byNorm[norm]; dup {
			continue
		}
		byNorm[norm] = f
		names = append(names, norm)
	}
	sort.Strings(names)

	found := make(map[string]Fence)
	for _, clause := range m.splitClauses(normalized) {
		exactHit := false
		for _, norm := range names {
			if strings.Contains(clause, norm) {
				found[norm] = byNorm[norm]
				exactHit = true
			}
		}
		if exactHit {
			continue
		}
		for _, norm := range m.fuzzyCandidates(clause, names) {
			found[norm] = byNorm[norm]
		}
	}

	matched := make([]Fence, 0, len(found))
	for _, f := range found {
		matched = append(matched, f)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return matched
}

func (m Matcher) splitClauses(normalized string) []string {
	if len([]rune(normalized)) <= m.LongMessageRunes {
		return []string{normalized}
	}
	parts := clauseSeparators.Split(normalized, -1)
	clauses := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			clauses = append(clauses, p)
		}
	}
	return clauses
}

// fuzzyCandidates scores the clause against every normalized fence name and
// returns the names of the top-K candidates at or above the threshold.
func (m Matcher) fuzzyCandidates(clause string, names []string) []string {
	type scored struct {
		name  string
		score int
	}
	candidates := make([]scored, 0, len(names))
	for _, norm := range names {
		candidates = append(candidates, scored{norm, fuzzy.TokenSetRatio(clause, norm)})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].name < candidates[j].name
	})

	topK := m.FuzzyTopK
	if topK > len(candidates) {
		topK = len(candidates)
	}
	accepted := make([]string, 0, topK)
	for _, c := range candidates[:topK] {
		if c.score >= m.FuzzyThreshold {
			accepted = append(accepted, c.name)
		}
	}
	return accepted
}
