package types

import "github.com/hakanago/hakana/internal/interner"

// TClassname is `classname<T>`: a string that names a class assignable to
// AsType (or any class, when AsType is the empty Union).
type TClassname struct {
	AsType Union
}

func (TClassname) Key() string      { return "classname" }
func (t TClassname) String() string { return "classname<" + t.AsType.String() + ">" }

// TTypename is `typename<T>`: names a typedef/alias rather than a class.
type TTypename struct {
	AsType Union
}

func (TTypename) Key() string      { return "typename" }
func (t TTypename) String() string { return "typename<" + t.AsType.String() + ">" }

// TGenericClassname / TGenericTypename are the bare, unparameterized
// `classname`/`typename` forms used before a concrete bound is known.
type TGenericClassname struct{}

func (TGenericClassname) Key() string    { return "classname" }
func (TGenericClassname) String() string { return "classname" }

type TGenericTypename struct{}

func (TGenericTypename) Key() string    { return "typename" }
func (TGenericTypename) String() string { return "typename" }

// TClassTypeConstant is `C::TMember`, a reference to another class's type
// constant, resolved during expand_union (spec §4.2 "Expansion").
type TClassTypeConstant struct {
	ClassType  Union
	MemberName interner.Id
}

func (TClassTypeConstant) Key() string { return "class-type-constant" }
func (t TClassTypeConstant) String() string {
	return t.ClassType.String() + "::" + lookupOrId(t.MemberName)
}
