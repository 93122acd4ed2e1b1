package ast

// ClasslikeKind distinguishes the four classlike forms the symbol graph
// tracks (spec §3 "Classlike record. Kind (class/interface/trait/enum/
// enum-class)").
type ClasslikeKind int

const (
	KindClass ClasslikeKind = iota
	KindInterface
	KindTrait
	KindEnum
	KindEnumClass
)

// TemplateParamDecl is one declared generic parameter, e.g. `Tv` in
// `class Box<Tv> { ... }`.
type TemplateParamDecl struct {
	span
	Name    string
	AsHint  TypeHint // optional upper bound: `<Tv as Arraykey>`
	Variant TemplateVariance
}

type TemplateVariance int

const (
	VarianceInvariant TemplateVariance = iota
	VarianceCovariant
	VarianceContravariant
)

// ClasslikeDecl is a top-level class/interface/trait/enum declaration.
type ClasslikeDecl struct {
	span
	Kind             ClasslikeKind
	Name             string
	IsFinal          bool
	IsAbstract       bool
	TemplateParams   []*TemplateParamDecl
	Extends          []TypeHint // a single parent class, or the parent interfaces
	Implements       []TypeHint
	UsesTraits       []TypeHint
	SealedWhitelist  []string // non-empty for `<<Sealed(Circle::class, Square::class)>>`
	EnumAsHint       TypeHint // enum ... as arraykey
	EnumUnderlying   TypeHint
	Properties       []*PropertyDecl
	Methods          []*FunctionDecl
	Constants        []*ClassConstantDecl
	TypeConstants    []*TypeConstantDecl
	EnumCases        []*EnumCaseDecl
	SignatureHash    uint64
	BodyHash         uint64
}

func (d *ClasslikeDecl) stmtNode() {}

type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityProtected
	VisibilityPrivate
)

// PropertyDecl is a class/enum-class property declaration.
type PropertyDecl struct {
	span
	Name         string
	TypeHint     TypeHint
	Default      Expr
	Visibility   Visibility
	IsStatic     bool
	TaintSources []string // declared source annotations, e.g. <<__Source("HtmlTag")>>
}

// ClassConstantDecl is a class-level constant (not a type constant).
type ClassConstantDecl struct {
	span
	Name     string
	TypeHint TypeHint
	Value    Expr
}

// TypeConstantDecl is a class type constant, e.g. `const type T = int;` or an
// abstract one with no `As`.
type TypeConstantDecl struct {
	span
	Name string
	As   TypeHint
	Is   TypeHint // concrete binding, nil if abstract
}

// EnumCaseDecl is one member of an `enum`/`enum class`.
type EnumCaseDecl struct {
	span
	Name  string
	Value Expr // literal int/string for plain enums; instantiation expr for enum class
}

// Param is one function/method/closure parameter.
type Param struct {
	span
	Name        string
	TypeHint    TypeHint
	Default     Expr
	IsVariadic  bool
	IsByRef     bool
	IsInOut     bool
	TaintSinks  []string // declared sink annotations, e.g. <<__Sink("HtmlAttributeUri")>>
}

// FunctionEffects mirrors spec §3's FunctionlikeInfo.effects encoding:
// None | Arg(u8) | Some(bitmask) | Unknown.
type FunctionEffects struct {
	Kind EffectsKind
	Arg  uint8
	Mask uint64
}

type EffectsKind int

const (
	EffectsNone EffectsKind = iota
	EffectsArg
	EffectsSome
	EffectsUnknown
)

// FunctionDecl covers free functions, methods, and closures' declared
// signature (MethodInfo, when NULL, is not a method).
type FunctionDecl struct {
	span
	Name           string
	TemplateParams []*TemplateParamDecl
	Params         []*Param
	ReturnHint     TypeHint
	Where          []*WhereConstraint
	Body           *Block // nil for interface/abstract method declarations
	Effects        FunctionEffects

	IsPure               bool
	IsAsync              bool
	IsStatic             bool
	IsAbstract            bool
	SpecializeCall       bool
	DynamicallyCallable  bool
	IgnoreTaintPath      bool
	IgnoreTaintsIfTrue   bool
	Generated            bool
	UserDefined          bool
	Visibility           Visibility

	TaintSourceTypes []string
	RemovedTaints    []string
	SuppressedIssues []string

	SignatureHash uint64
	BodyHash      uint64
}

func (d *FunctionDecl) stmtNode() {}

// WhereConstraint is a `where T as U` bound on a generic function.
type WhereConstraint struct {
	span
	TemplateName string
	AsHint       TypeHint
}

// TypedefDecl is a top-level `type`/`newtype` declaration.
type TypedefDecl struct {
	span
	Name           string
	TemplateParams []*TemplateParamDecl
	AsHint         TypeHint // newtype upper bound, nil for `type`
	Underlying     TypeHint
	IsOpaque       bool // true for `newtype` (opaque outside declaring file)
	SignatureHash  uint64
}

func (d *TypedefDecl) stmtNode() {}

// ConstantDecl is a top-level `const` declaration.
type ConstantDecl struct {
	span
	Name          string
	TypeHint      TypeHint
	Value         Expr
	SignatureHash uint64
}

func (d *ConstantDecl) stmtNode() {}
