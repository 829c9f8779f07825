package model

// Canonical primitive spellings.
var primitiveNames = []string{
	"void",
	"signed char",
	"unsigned char",
	"signed byte",
	"unsigned byte",
	"signed short",
	"unsigned short",
	"signed int",
	"unsigned int",
	"signed long",
	"unsigned long",
	"long long",
	"unsigned long long",
	"float",
	"double",
	"long double",
}

// synonyms maps alternative spellings onto another spelling. Lookups
// follow the chain until a canonical spelling is reached.
var synonyms = map[string]string{
	"char":     "signed char",
	"byte":     "signed byte",
	"short":    "signed short",
	"int":      "signed int",
	"signed":   "signed int",
	"unsigned": "unsigned int",

	"long":              "signed long",
	"long int":          "signed long",
	"signed long int":   "signed long",
	"unsigned long int": "unsigned long",
	"long unsigned int": "unsigned long",

	"signed long long":       "long long",
	"long long int":          "long long",
	"signed long long int":   "long long",
	"unsigned long long int": "unsigned long long",
	"long long unsigned int": "unsigned long long",

	"short int":          "short",
	"signed short int":   "short",
	"unsigned short int": "unsigned short",
	"short unsigned int": "unsigned short",
}

// legacySynonyms overrides synonyms when the historical "unsigned" -> "int"
// mapping is requested.
var legacySynonyms = map[string]string{
	"unsigned": "int",
}

var builtins = func() map[string]*PrimitiveType {
	m := make(map[string]*PrimitiveType, len(primitiveNames))
	for _, name := range primitiveNames {
		m[name] = newPrimitive(name)
	}
	return m
}()

// Builtins resolves primitive spellings to their canonical PrimitiveType.
type Builtins struct {
	legacyUnsigned bool
}

// NewBuiltins returns the builtin table. With legacyUnsigned set, the bare
// spelling "unsigned" resolves to "signed int" as it historically did.
func NewBuiltins(legacyUnsigned bool) *Builtins {
	return &Builtins{legacyUnsigned: legacyUnsigned}
}

// Lookup returns the canonical primitive for a spelling.
func (b *Builtins) Lookup(spelling string) (*PrimitiveType, bool) {
	name := spelling
	for range len(synonyms) + 1 {
		if p, ok := builtins[name]; ok {
			return p, true
		}
		next, ok := b.synonym(name)
		if !ok {
			return nil, false
		}
		name = next
	}
	return nil, false
}

func (b *Builtins) synonym(name string) (string, bool) {
	if b.legacyUnsigned {
		if of, ok := legacySynonyms[name]; ok {
			return of, true
		}
	}
	of, ok := synonyms[name]
	return of, ok
}

// PrimitiveNames returns the canonical spellings in table order.
func PrimitiveNames() []string {
	out := make([]string, len(primitiveNames))
	copy(out, primitiveNames)
	return out
}
