package decl

// ClassKind distinguishes structs from unions. Unknown is used by front
// ends that only saw a forward reference.
type ClassKind int

const (
	Unknown ClassKind = iota
	Struct
	Union
)

func (k ClassKind) String() string {
	switch k {
	case Struct:
		return "struct"
	case Union:
		return "union"
	}
	return "unknown"
}

// Class is a struct or union declaration. An empty Name marks an anonymous
// class; Incomplete marks a class whose body was never seen.
type Class struct {
	Name       string
	Kind       ClassKind
	Coord      *Coord
	Fields     []Field
	Incomplete bool
}

func (c *Class) String() string {
	name := c.Name
	if name == "" {
		name = "<anonymous>"
	}
	return c.Kind.String() + " " + name + " at " + c.Coord.String()
}

// Field is a data member. Bits is non-nil for bit-fields.
type Field struct {
	Name string
	Type Type
	Bits *int
}

// Enum is an enumeration declaration.
type Enum struct {
	Name   string
	Coord  *Coord
	Values []EnumValue
}

type EnumValue struct {
	Name  string
	Value int64
}

// Typedef is a typedef declaration.
type Typedef struct {
	Name  string
	Coord *Coord
	Type  Type
}

// Param is a function parameter; Name may be empty.
type Param struct {
	Name string
	Type Type
}

// Function is a free function declaration.
type Function struct {
	Name     string
	Coord    *Coord
	Return   Type
	Params   []Param
	Variadic bool
	Extern   bool
	Static   bool
	Inline   bool
}

// Storage returns the storage-class markers of the function.
func (f *Function) Storage() []string {
	var out []string
	if f.Extern {
		out = append(out, "extern")
	}
	if f.Static {
		out = append(out, "static")
	}
	if f.Inline {
		out = append(out, "inline")
	}
	return out
}

// Namespace is the whole declaration tree of one translation unit. Classes
// lists every struct and union definition, nested ones included.
type Namespace struct {
	Classes   []*Class
	Enums     []*Enum
	Typedefs  []*Typedef
	Functions []*Function
}
