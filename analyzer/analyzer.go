// Package analyzer turns a declaration tree into the canonical object
// table.
//
// One run pre-names every anonymous struct, union and enum, then registers
// classes, enumerations, typedefs and free functions in that order. Any
// resolution error aborts the run and no table is returned: a partial
// canonicalization cannot be consumed safely by a code generator.
package analyzer

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/ardanlabs/babbisch/decl"
	"github.com/ardanlabs/babbisch/errors"
	"github.com/ardanlabs/babbisch/logger"
	"github.com/ardanlabs/babbisch/model"
	"github.com/ardanlabs/babbisch/objtable"
)

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for diagnostics and the run summary.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(a *Analyzer) {
		a.log = log
	}
}

// WithLegacyUnsigned makes the bare spelling "unsigned" resolve to
// "signed int", the historical behavior.
func WithLegacyUnsigned(on bool) Option {
	return func(a *Analyzer) {
		a.builtins = model.NewBuiltins(on)
	}
}

// Analyzer owns all state of an analysis run. It must not be shared
// between goroutines.
type Analyzer struct {
	ns       *decl.Namespace
	log      *zap.SugaredLogger
	builtins *model.Builtins

	objects     *objtable.Table
	names       *NameGenerator
	classNames  map[*decl.Class]string
	enumNames   map[*decl.Enum]string
	classKinds  map[string]decl.ClassKind
	aliases     map[string]bool
	diagnostics []Diagnostic
}

func New(ns *decl.Namespace, opts ...Option) *Analyzer {
	a := Analyzer{
		ns:       ns,
		log:      logger.Named("analyzer"),
		builtins: model.NewBuiltins(false),
	}
	for _, opt := range opts {
		opt(&a)
	}
	return &a
}

// Analyze runs one full pass. Every call starts from scratch, so repeated
// runs over the same tree produce identical tables.
func (a *Analyzer) Analyze() (*objtable.Table, error) {
	a.reset()

	if err := a.run(); err != nil {
		a.objects = nil
		return nil, err
	}

	a.log.Infow("analysis complete",
		logger.FieldObjects, a.objects.Len(),
		logger.FieldDiagnostics, len(a.diagnostics),
	)
	return a.objects, nil
}

// Objects returns the table of the last successful run, or nil.
func (a *Analyzer) Objects() *objtable.Table {
	return a.objects
}

// Diagnostics returns the non-fatal findings of the last run.
func (a *Analyzer) Diagnostics() []Diagnostic {
	return a.diagnostics
}

func (a *Analyzer) reset() {
	a.objects = objtable.New()
	a.names = NewNameGenerator()
	a.classNames = make(map[*decl.Class]string)
	a.enumNames = make(map[*decl.Enum]string)
	a.classKinds = make(map[string]decl.ClassKind)
	a.aliases = make(map[string]bool)
	a.diagnostics = nil
}

func (a *Analyzer) run() error {
	if a.ns == nil {
		return errors.Wrap(errors.ErrInvalidInput, "nil namespace")
	}

	a.prename()

	for _, c := range a.ns.Classes {
		if c.Incomplete {
			continue
		}
		if err := a.analyzeClass(c); err != nil {
			return errors.Wrapf(err, "analyzing %s", c)
		}
	}

	for _, e := range a.ns.Enums {
		a.analyzeEnum(e)
	}

	for _, td := range a.ns.Typedefs {
		if err := a.analyzeTypedef(td); err != nil {
			return errors.Wrapf(err, "analyzing typedef %s at %s", td.Name, td.Coord)
		}
	}

	for _, f := range a.ns.Functions {
		if err := a.analyzeFunction(f); err != nil {
			return errors.Wrapf(err, "analyzing function %s at %s", f.Name, f.Coord)
		}
	}

	return nil
}

// prename gives every anonymous class and enum a synthesized name before
// any type is resolved, so forward, self and mutual references always
// find a name. It also records the kind of every named class for the
// incomplete-type fallback.
func (a *Analyzer) prename() {
	for _, c := range a.ns.Classes {
		if c.Incomplete {
			continue
		}
		name := c.Name
		if name == "" {
			name = a.names.Next()
		}
		a.classNames[c] = name

		kind := c.Kind
		if kind == decl.Unknown {
			kind = decl.Struct
			a.diagnose(Diagnostic{
				Kind:    GuessedKind,
				Tag:     name,
				Coord:   c.Coord,
				Guessed: true,
				Message: "class kind unknown, assuming struct",
			})
		}
		a.classKinds[name] = kind
	}

	for _, e := range a.ns.Enums {
		name := e.Name
		if name == "" {
			name = a.names.Next()
		}
		a.enumNames[e] = name
	}
}

func (a *Analyzer) analyzeClass(c *decl.Class) error {
	name := a.classNames[c]
	coord := toCoord(c.Coord)

	var (
		obj model.Object
		add func(f decl.Field, tag string)
	)
	if a.classKinds[name] == decl.Union {
		u := model.NewUnion(coord, name)
		obj = u
		add = func(f decl.Field, tag string) { u.AddMember(f.Name, tag) }
	} else {
		s := model.NewStruct(coord, name)
		obj = s
		add = func(f decl.Field, tag string) { s.AddMember(f.Name, tag, f.Bits) }
	}

	// Registered before the members so self-referential fields resolve.
	a.insert(obj, c.Coord)

	for _, f := range c.Fields {
		tag, err := a.resolve(f.Type)
		if err != nil {
			return errors.Wrapf(err, "field %q", f.Name)
		}
		add(f, tag)
	}

	// struct Foo {...}; also introduces the name Foo. A typedef'd anonymous
	// class gets its alias from the typedef itself.
	if c.Name != "" {
		a.insert(model.NewTypedef(coord, c.Name, obj.Tag()), c.Coord)
		a.aliases[c.Name] = true
	}

	return nil
}

func (a *Analyzer) analyzeEnum(e *decl.Enum) {
	obj := model.NewEnum(toCoord(e.Coord), a.enumNames[e])
	for _, v := range e.Values {
		obj.AddMember(v.Name, v.Value)
	}
	a.insert(obj, e.Coord)
}

func (a *Analyzer) analyzeTypedef(td *decl.Typedef) error {
	if r, ok := td.Type.(*decl.Record); ok && r.Class != nil && r.Class.Name == td.Name && a.aliases[td.Name] {
		a.log.Debugw("typedef already registered with its class", logger.FieldName, td.Name)
		return nil
	}

	tag, err := a.resolve(td.Type)
	if err != nil {
		return err
	}

	a.insert(model.NewTypedef(toCoord(td.Coord), td.Name, tag), td.Coord)
	return nil
}

func (a *Analyzer) analyzeFunction(f *decl.Function) error {
	args := make([]model.Param, 0, len(f.Params))
	for _, p := range f.Params {
		tag, err := a.resolve(p.Type)
		if err != nil {
			return errors.Wrapf(err, "parameter %q", p.Name)
		}
		args = append(args, model.Param{Name: p.Name, Type: tag})
	}

	var ret string
	if f.Return != nil {
		tag, err := a.resolve(f.Return)
		if err != nil {
			return errors.Wrap(err, "return type")
		}
		ret = tag
	}

	a.insert(model.NewFunction(toCoord(f.Coord), f.Name, ret, args, f.Variadic, f.Storage()), f.Coord)
	return nil
}

// insert stores obj under its tag. Replacing a different entity is allowed
// (last write wins, position kept) but recorded.
func (a *Analyzer) insert(obj model.Object, coord *decl.Coord) {
	prev, replaced := a.objects.Insert(obj.Tag(), obj)
	if !replaced || prev == obj {
		return
	}
	if reflect.DeepEqual(prev.State(), obj.State()) {
		return
	}
	a.diagnose(Diagnostic{
		Kind:    Redefinition,
		Tag:     obj.Tag(),
		Coord:   coord,
		Message: prev.Class() + " replaced by " + obj.Class(),
	})
}

func (a *Analyzer) diagnose(d Diagnostic) {
	a.diagnostics = append(a.diagnostics, d)
	a.log.Warnw(d.Message,
		logger.FieldKind, string(d.Kind),
		logger.FieldTag, d.Tag,
		logger.FieldFile, d.Coord.String(),
	)
}

func toCoord(c *decl.Coord) *model.Coord {
	if c == nil {
		return nil
	}
	return &model.Coord{File: c.File, Line: c.Line}
}
