package analyzer

import "strconv"

// unnamedPrefix starts with '!', which no C identifier can, so synthesized
// names never collide with source names.
const unnamedPrefix = "!Unnamed"

// NameGenerator hands out placeholder names for anonymous declarations.
// It is owned by one Analyzer; the sequence restarts with every run.
type NameGenerator struct {
	next int
}

func NewNameGenerator() *NameGenerator {
	return &NameGenerator{next: 1}
}

// Next returns a name that was never returned before by this generator.
func (g *NameGenerator) Next() string {
	name := unnamedPrefix + strconv.Itoa(g.next)
	g.next++
	return name
}

// IsSynthesized reports whether name came from a NameGenerator.
func IsSynthesized(name string) bool {
	return len(name) > len(unnamedPrefix) && name[:len(unnamedPrefix)] == unnamedPrefix
}
