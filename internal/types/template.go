package types

import "github.com/hakanago/hakana/internal/interner"

// TTemplateParam is an as-yet-unbound generic type parameter reference,
// e.g. `Tv` inside the body of `class Box<Tv>`.
// DefiningEntity is the classlike or functionlike Id that declared it, so
// two same-named params from different scopes never compare equal
// (spec §4.2 "Templates").
type TTemplateParam struct {
	Name           interner.Id
	AsType         Union
	DefiningEntity interner.Id
	FromClass      bool
	ExtraTypes     []TNamedObject
}

func (TTemplateParam) Key() string { return "template-param" }
func (t TTemplateParam) String() string { return lookupOrId(t.Name) }

// TTemplateParamClass is `classname<Tv>` (or `class<Tv>` legacy form) where
// Tv is itself a template parameter.
type TTemplateParamClass struct {
	ParamName      interner.Id
	DefiningEntity interner.Id
	AsType         Union
}

func (TTemplateParamClass) Key() string { return "classname" }
func (t TTemplateParamClass) String() string {
	return "classname<" + lookupOrId(t.ParamName) + ">"
}

// TTemplateParamType is `Tv` used in a position expecting a reified type
// value (the type of `TType{TTemplateParam}`).
type TTemplateParamType struct {
	ParamName      interner.Id
	DefiningEntity interner.Id
}

func (TTemplateParamType) Key() string { return "template-param-type" }
func (t TTemplateParamType) String() string {
	return "Type<" + lookupOrId(t.ParamName) + ">"
}

// TemplateResult holds a function or class's declared template_types plus
// the lower_bounds inferred for one call/instantiation site
// (spec §4.2 "Template substitution").
type TemplateResult struct {
	// TemplateTypes maps a defining entity + param name to its declared
	// upper bound (the `as` clause, or Mixed when absent).
	TemplateTypes map[TemplateKey]Union
	// LowerBounds maps the same key to the narrowest type inferred so far
	// for this call; combined across every argument that constrains it.
	LowerBounds map[TemplateKey]Union
}

// TemplateKey identifies one template parameter slot: its name plus the
// entity (class or function) that declared it.
type TemplateKey struct {
	Name           interner.Id
	DefiningEntity interner.Id
}

func NewTemplateResult() *TemplateResult {
	return &TemplateResult{
		TemplateTypes: make(map[TemplateKey]Union),
		LowerBounds:   make(map[TemplateKey]Union),
	}
}

// AddLowerBound widens the inferred bound for key by joining in t, so that
// multiple arguments that constrain the same template parameter combine
// rather than overwrite (the caller supplies the join via a combine
// function to avoid an import cycle with internal/comparator).
func (r *TemplateResult) AddLowerBound(key TemplateKey, t Union, join func(a, b Union) Union) {
	if existing, ok := r.LowerBounds[key]; ok {
		r.LowerBounds[key] = join(existing, t)
		return
	}
	r.LowerBounds[key] = t
}
