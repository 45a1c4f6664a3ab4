// Package spellcheck assembles per-language dictionaries delivered by the
// host and answers word-correctness and suggestion queries. Dictionary
// acquisition is sequential: the Pipeline requests the two raw blobs of
// one language at a time and only then moves to the next.
package spellcheck

import (
	"bufio"
	"bytes"
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

const (
	maxSuggestions     = 10
	maxSuggestDistance = 2
)

// ErrEmptyDictionary means the dictionary blob contained no usable words.
var ErrEmptyDictionary = errors.New("spellcheck: empty dictionary")

// Checker answers queries for a single language, built from that
// language's affix and dictionary blobs.
type Checker struct {
	lang  string
	words []string          // dictionary order, for deterministic suggestions
	index map[string]string // lowercase key to the stored word form
	reps  []repRule
}

// repRule is one REP substitution from the affix file, tried first when
// suggesting.
type repRule struct {
	from, to string
}

// NewChecker parses the raw affix and dictionary data for one language.
// Malformed lines are skipped; only a dictionary with no words at all is
// an error.
func NewChecker(lang string, affix, dictionary []byte) (*Checker, error) {
	c := &Checker{
		lang:  lang,
		index: make(map[string]string),
		reps:  parseRepRules(affix),
	}

	sc := bufio.NewScanner(bytes.NewReader(dictionary))
	first := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// The first line of a .dic file is the entry count.
		if first {
			first = false
			if isCount(line) {
				continue
			}
		}
		word := line
		if i := strings.IndexByte(word, '/'); i >= 0 {
			word = word[:i] // strip affix flags
		}
		if i := strings.IndexByte(word, '\t'); i >= 0 {
			word = word[:i] // strip morphological fields
		}
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		key := strings.ToLower(word)
		if _, dup := c.index[key]; dup {
			continue
		}
		c.index[key] = word
		c.words = append(c.words, word)
	}
	if len(c.words) == 0 {
		return nil, ErrEmptyDictionary
	}
	return c, nil
}

// Lang returns the language tag the checker was built for.
func (c *Checker) Lang() string { return c.lang }

// Check reports whether the word is in the dictionary. Matching is
// case-insensitive so sentence-initial capitals pass.
func (c *Checker) Check(word string) bool {
	if word == "" {
		return true
	}
	_, ok := c.index[strings.ToLower(word)]
	return ok
}

// Suggest returns replacement candidates for a misspelled word, nearest
// first: affix REP rewrites that hit the dictionary come before plain
// edit-distance neighbours. Ties keep dictionary order.
func (c *Checker) Suggest(word string) []string {
	if word == "" || c.Check(word) {
		return nil
	}
	lower := strings.ToLower(word)
	seen := make(map[string]struct{})
	var out []string

	for _, r := range c.reps {
		candidate := strings.Replace(lower, r.from, r.to, 1)
		if candidate == lower {
			continue
		}
		stored, ok := c.index[candidate]
		if !ok {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		out = append(out, stored)
	}

	type scored struct {
		word string
		dist int
		pos  int
	}
	var near []scored
	lowerLen := utf8.RuneCountInString(lower)
	for i, w := range c.words {
		key := strings.ToLower(w)
		if _, dup := seen[key]; dup {
			continue
		}
		// Cheap length gate before the full distance computation. Counted
		// in runes because the edit distance is too.
		if delta := utf8.RuneCountInString(key) - lowerLen; delta > maxSuggestDistance || delta < -maxSuggestDistance {
			continue
		}
		d := levenshtein.ComputeDistance(lower, key)
		if d > maxSuggestDistance {
			continue
		}
		near = append(near, scored{word: w, dist: d, pos: i})
	}
	sort.Slice(near, func(i, j int) bool {
		if near[i].dist != near[j].dist {
			return near[i].dist < near[j].dist
		}
		return near[i].pos < near[j].pos
	})
	for _, s := range near {
		if len(out) >= maxSuggestions {
			break
		}
		out = append(out, s.word)
	}
	return out
}

// parseRepRules extracts REP substitution pairs from the affix data.
// Everything else in the affix file concerns flag expansion, which the
// dictionary parse side-steps by stripping flags.
func parseRepRules(affix []byte) []repRule {
	var rules []repRule
	sc := bufio.NewScanner(bytes.NewReader(affix))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		// Rule lines are "REP from to"; the "REP <n>" count header has
		// only two fields and falls through here.
		if len(fields) != 3 || fields[0] != "REP" {
			continue
		}
		rules = append(rules, repRule{
			from: strings.ToLower(fields[1]),
			to:   strings.ToLower(fields[2]),
		})
	}
	return rules
}

func isCount(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
