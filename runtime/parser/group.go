package parser

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/opal-lang/join/core/expr"
	"github.com/opal-lang/join/runtime/lexer"
)

// GroupKind says what the builder should do next.
type GroupKind int

const (
	GroupEnd       GroupKind = iota // End of input
	GroupSeparator                  // ",": the current chain ends, a sibling follows
	GroupProcess                    // Process action marker
	GroupDefault                    // Default action marker
	GroupDeferred                   // "~": the next action is deferred
	GroupJoin                       // "&>": sibling chains in a paren group follow
)

func (k GroupKind) String() string {
	switch k {
	case GroupEnd:
		return "end"
	case GroupSeparator:
		return "separator"
	case GroupProcess:
		return "process"
	case GroupDefault:
		return "default"
	case GroupDeferred:
		return "deferred"
	case GroupJoin:
		return "join"
	default:
		return "unknown"
	}
}

// Marker spellings outside the action tables.
const (
	DeferredMarker  = "~"
	JoinMarker      = "&>"
	SeparatorMarker = ","
)

// Group is the classification of the tokens at the cursor. Action groups
// carry the action kind; command groups (deferred, join, separator, end)
// carry only their marker.
type Group struct {
	Kind    GroupKind
	Process expr.ProcessKind // GroupProcess only
	Default expr.DefaultKind // GroupDefault only
	Marker  string
	Width   int // Tokens covered by the marker
}

// IsAction reports whether the group introduces a process or default action.
func (g Group) IsAction() bool {
	return g.Kind == GroupProcess || g.Kind == GroupDefault
}

// IsTerminator reports whether the group closes the current chain.
func (g Group) IsTerminator() bool {
	return g.Kind == GroupEnd || g.Kind == GroupSeparator
}

func (g Group) String() string {
	switch g.Kind {
	case GroupProcess:
		return g.Process.String()
	case GroupDefault:
		return g.Default.String()
	default:
		return g.Kind.String()
	}
}

type rule struct {
	marker string
	group  Group
}

// GroupDeterminer classifies the tokens at a cursor position by matching
// markers over runs of joint punctuation. Rules are tried longest marker
// first so a marker that is a prefix of another ("|>" of "|>?") never wins
// over it.
//
// Markers shadow Go operators outside groups: "<=" is OrElse, so a leaf that
// compares must be written "(x <= y)".
type GroupDeterminer struct {
	rules   []rule
	markers []string
}

// NewGroupDeterminer builds the determiner for the fixed marker vocabulary.
func NewGroupDeterminer() *GroupDeterminer {
	var rules []rule
	for _, k := range expr.ProcessKinds() {
		rules = append(rules, rule{k.Marker(), Group{Kind: GroupProcess, Process: k, Marker: k.Marker()}})
	}
	for _, k := range expr.DefaultKinds() {
		rules = append(rules, rule{k.Marker(), Group{Kind: GroupDefault, Default: k, Marker: k.Marker()}})
	}
	rules = append(rules,
		rule{DeferredMarker, Group{Kind: GroupDeferred, Marker: DeferredMarker}},
		rule{JoinMarker, Group{Kind: GroupJoin, Marker: JoinMarker}},
		rule{SeparatorMarker, Group{Kind: GroupSeparator, Marker: SeparatorMarker}},
	)

	sort.SliceStable(rules, func(i, j int) bool {
		return len(rules[i].marker) > len(rules[j].marker)
	})

	markers := make([]string, len(rules))
	for i, r := range rules {
		markers[i] = r.marker
	}
	return &GroupDeterminer{rules: rules, markers: markers}
}

// Markers returns the vocabulary in priority order.
func (d *GroupDeterminer) Markers() []string {
	return append([]string(nil), d.markers...)
}

// Determine classifies the start of tokens. An empty slice is GroupEnd. It
// returns false when the tokens do not begin with a marker.
func (d *GroupDeterminer) Determine(tokens []lexer.Token) (Group, bool) {
	if len(tokens) == 0 {
		return Group{Kind: GroupEnd}, true
	}
	run := jointRun(tokens)
	if len(run) == 0 {
		return Group{}, false
	}

	for _, r := range d.rules {
		if n, ok := coversWholeTokens(run, r.marker); ok {
			g := r.group
			g.Width = n
			return g, true
		}
	}
	return Group{}, false
}

// Suggest returns markers that resemble text, closest first.
func (d *GroupDeterminer) Suggest(text string) []string {
	if text == "" {
		return nil
	}

	ranks := fuzzy.RankFindFold(text, d.markers)
	sort.Sort(ranks)

	seen := map[string]bool{}
	var out []string
	for _, r := range ranks {
		if !seen[r.Target] {
			seen[r.Target] = true
			out = append(out, r.Target)
		}
	}
	// Markers hidden inside a longer punctuation run, e.g. "|>" in "|>>".
	for _, m := range d.markers {
		if !seen[m] && len(m) > 1 && strings.HasPrefix(text, m) {
			seen[m] = true
			out = append(out, m)
		}
	}

	// One edit away, e.g. "|>" for "+>".
	for _, m := range d.markers {
		if !seen[m] && fuzzy.LevenshteinDistance(text, m) == 1 {
			seen[m] = true
			out = append(out, m)
		}
	}

	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

// jointRun returns the leading run of PUNCT tokens glued together without
// whitespace. A single punct token is a run of one.
func jointRun(tokens []lexer.Token) []lexer.Token {
	if tokens[0].Type != lexer.PUNCT {
		return nil
	}
	n := 1
	for n < len(tokens) && tokens[n-1].Joint {
		n++
	}
	return tokens[:n]
}

// coversWholeTokens reports whether marker is the concatenation of the first
// n tokens of run.
func coversWholeTokens(run []lexer.Token, marker string) (int, bool) {
	rest := marker
	for i, t := range run {
		if !strings.HasPrefix(rest, t.Text) {
			return 0, false
		}
		rest = rest[len(t.Text):]
		if rest == "" {
			return i + 1, true
		}
	}
	return 0, false
}

// runText is the source spelling of a joint run.
func runText(tokens []lexer.Token) string {
	var b strings.Builder
	for _, t := range jointRun(tokens) {
		b.WriteString(t.Text)
	}
	return b.String()
}
