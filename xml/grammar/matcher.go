package grammar

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

type memoKey struct {
	name   string
	offset int
}

// Matcher measures how much of an input a production matches. Alternatives
// take the longest match and repetitions are greedy; there is no
// backtracking into a repetition.
type Matcher struct {
	grammar  ebnf.Grammar
	input    string
	memo     map[memoKey]int // -1 = no match
	visiting map[memoKey]bool
}

func NewMatcher(grammar ebnf.Grammar, input string) *Matcher {
	return &Matcher{
		grammar:  grammar,
		input:    input,
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
}

// Match returns the length of the longest match of the named production at
// offset, or -1 when it does not match.
func (m *Matcher) Match(name string, offset int) (int, error) {
	if _, ok := m.grammar[name]; !ok {
		return -1, fmt.Errorf("unknown production %q", name)
	}
	return m.matchName(name, offset), nil
}

// Matches reports whether the named production matches all of input.
func Matches(grammar ebnf.Grammar, name, input string) (bool, error) {
	n, err := NewMatcher(grammar, input).Match(name, 0)
	if err != nil {
		return false, err
	}
	return n == len(input), nil
}

func (m *Matcher) match(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case *ebnf.Token:
		return m.matchToken(e.String, offset)

	case *ebnf.Range:
		return m.matchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		pos := offset
		for _, item := range e {
			n := m.match(item, pos)
			if n < 0 {
				return -1
			}
			pos += n
		}
		return pos - offset

	case ebnf.Alternative:
		best := -1
		for _, alt := range e {
			if n := m.match(alt, offset); n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		pos := offset
		for {
			n := m.match(e.Body, pos)
			if n <= 0 {
				break
			}
			pos += n
		}
		return pos - offset

	case *ebnf.Option:
		if n := m.match(e.Body, offset); n > 0 {
			return n
		}
		return 0

	case *ebnf.Group:
		return m.match(e.Body, offset)

	case *ebnf.Name:
		return m.matchName(e.String, offset)
	}
	return -1
}

// matchName matches a named production with memoization. A production that
// is re-entered at the same offset fails, which cuts left recursion.
func (m *Matcher) matchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if result, ok := m.memo[key]; ok {
		return result
	}
	if m.visiting[key] {
		return -1
	}

	prod, ok := m.grammar[name]
	if !ok {
		m.memo[key] = -1
		return -1
	}
	if prod.Expr == nil {
		m.memo[key] = 0
		return 0
	}

	m.visiting[key] = true
	result := m.match(prod.Expr, offset)
	delete(m.visiting, key)

	m.memo[key] = result
	return result
}

func (m *Matcher) matchToken(token string, offset int) int {
	if offset+len(token) > len(m.input) {
		return -1
	}
	if m.input[offset:offset+len(token)] == token {
		return len(token)
	}
	return -1
}

// matchRange matches one rune within a character range such as "a" … "z".
func (m *Matcher) matchRange(begin, end string, offset int) int {
	if offset >= len(m.input) {
		return -1
	}
	lo, _ := utf8.DecodeRuneInString(begin)
	hi, _ := utf8.DecodeRuneInString(end)
	ch, size := utf8.DecodeRuneInString(m.input[offset:])
	if ch >= lo && ch <= hi {
		return size
	}
	return -1
}

func sortByPosition(grammar ebnf.Grammar, names []string) {
	sort.Slice(names, func(i, j int) bool {
		return grammar[names[i]].Pos().Offset < grammar[names[j]].Pos().Offset
	})
}
