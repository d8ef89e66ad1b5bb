// Package minify implements the two name-minification passes, minifyGlobals
// and minifyLocals, and the deterministic short-name generator they share.
// Grounded on esbuild's internal/renamer package: NameGenerator plays the
// same role as MinifyRenamer's slot-to-name mapping, but mints names in
// strict declaration/occurrence order instead of by use-frequency, and the
// reserved-word set is a narrower, fixed list rather than the full keyword
// table ComputeReservedNames builds.
package minify

// inits is the alphabet for a minified name's first character; laters is
// the alphabet for every character after the first. Both orders, and the
// mixed-radix indexing scheme below, are specified verbatim: index inits by
// i%54 for the first character, then repeatedly consume i/54 in base 64
// over laters for every following character.
const inits = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_$"
const laters = inits + "0123456789"

// reservedWords are never produced by the generator. This is the narrower,
// spec-given list, not the full ECMAScript keyword table: a minified name
// only has to avoid being misparsed as one of these specific words, since
// the generator never produces anything containing punctuation that would
// collide with other keywords.
var reservedWords = map[string]bool{
	"do": true, "if": true, "in": true, "for": true, "new": true, "try": true,
	"var": true, "env": true, "let": true, "case": true, "else": true,
	"enum": true, "void": true, "this": true, "with": true,
}

// rawName computes the i-th candidate name from the mixed-radix odometer,
// ignoring reservation. i is zero-based.
func rawName(i int) string {
	j := i % len(inits)
	name := inits[j : j+1]
	i /= len(inits)
	for i > 0 {
		i--
		j := i % len(laters)
		name += laters[j : j+1]
		i /= len(laters)
	}
	return name
}

// NameGenerator holds the append-only minified-name list and its odometer
// state. Per the open question on process-lifetime singletons, this package
// never keeps one as package-level state: the pipeline driver owns a single
// instance and threads it explicitly into minifyGlobals and minifyLocals,
// so cross-function determinism is opt-in per invocation rather than a
// hidden global.
type NameGenerator struct {
	names   []string
	nextRaw int
	cursor  int
}

// NewNameGenerator returns a fresh generator with an empty name list.
func NewNameGenerator() *NameGenerator {
	return &NameGenerator{}
}

// ensureMinifiedNames extends the generated list to length >= n+1, skipping
// reserved words as it goes so the stored list is always reservation-clean.
func (g *NameGenerator) ensureMinifiedNames(n int) {
	for len(g.names) <= n {
		name := rawName(g.nextRaw)
		g.nextRaw++
		if reservedWords[name] {
			continue
		}
		g.names = append(g.names, name)
	}
}

// NameAt returns the n-th minified name (zero-based), growing the list if
// needed. It does not advance the cursor used by Next.
func (g *NameGenerator) NameAt(n int) string {
	g.ensureMinifiedNames(n)
	return g.names[n]
}

// Next returns the next unused name from the append-only list, skipping any
// name for which skip reports true (used to dodge collisions against names
// assigned outside this generator, e.g. a pre-existing extraInfo.globals
// mapping). skip may be nil.
func (g *NameGenerator) Next(skip func(string) bool) string {
	for {
		name := g.NameAt(g.cursor)
		g.cursor++
		if skip == nil || !skip(name) {
			return name
		}
	}
}
