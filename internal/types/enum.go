package types

import "github.com/hakanago/hakana/internal/interner"

// TEnum is a reference to an enum's broad type (any case of it).
// AsType is the enum's declared `as` bound (e.g. `arraykey`);
// UnderlyingType is its backing scalar type.
type TEnum struct {
	Name           interner.Id
	AsType         *Union
	UnderlyingType *Union
}

func (TEnum) Key() string      { return "enum" }
func (t TEnum) String() string { return lookupOrId(t.Name) }

// TEnumLiteralCase is one specific case of an enum, e.g. `Suit::Hearts`.
type TEnumLiteralCase struct {
	EnumName       interner.Id
	MemberName     interner.Id
	AsType         *Union
	UnderlyingType *Union
}

func (TEnumLiteralCase) Key() string { return "enum" }
func (t TEnumLiteralCase) String() string {
	return lookupOrId(t.EnumName) + "::" + lookupOrId(t.MemberName)
}
