package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hakanago/hakana/internal/interner"
)

// DictKey is a dict's key shape: an int literal, a string literal, or an
// enum-case reference (spec §3 "DictKey").
type DictKey struct {
	IntKey    int64
	StrKey    string
	EnumClass interner.Id
	EnumMember interner.Id
	Kind      DictKeyKind
}

type DictKeyKind int

const (
	DictKeyInt DictKeyKind = iota
	DictKeyString
	DictKeyEnum
)

func (k DictKey) String() string {
	switch k.Kind {
	case DictKeyInt:
		return strconv.FormatInt(k.IntKey, 10)
	case DictKeyString:
		return "'" + k.StrKey + "'"
	default:
		return "enum-case"
	}
}

func (k DictKey) Less(other DictKey) bool {
	return k.String() < other.String()
}

// KnownItem is one statically known slot of a vec/dict literal: whether it
// might be absent (a destructured optional slot, or a conditionally present
// dict key) and its type.
type KnownItem struct {
	Optional bool
	Type     Union
}

// TVec is the `vec<T>` container atomic.
type TVec struct {
	TypeParam  Union
	KnownItems map[int]KnownItem // nil when the exact shape isn't known
	KnownCount *int
	NonEmpty   bool
}

func (TVec) Key() string { return "vec" }

func (t TVec) String() string {
	if t.KnownItems != nil {
		return "vec(" + knownItemsString(intKeyed(t.KnownItems)) + ")"
	}
	return fmt.Sprintf("vec<%s>", t.TypeParam.String())
}

// TDict is the `dict<Tk,Tv>` container atomic. ShapeName is non-empty when
// this dict originated from a named `shape(...)` literal.
type TDict struct {
	TypeParamKey   Union
	TypeParamValue Union
	KnownItems     map[DictKey]KnownItem
	NonEmpty       bool
	ShapeName      string
}

func (TDict) Key() string { return "dict" }

func (t TDict) String() string {
	if t.KnownItems != nil {
		keys := make([]DictKey, 0, len(t.KnownItems))
		for k := range t.KnownItems {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			item := t.KnownItems[k]
			opt := ""
			if item.Optional {
				opt = "?"
			}
			parts = append(parts, fmt.Sprintf("%s%s => %s", opt, k.String(), item.Type.String()))
		}
		prefix := "shape"
		if t.ShapeName == "" {
			prefix = "dict"
		}
		return fmt.Sprintf("%s(%s)", prefix, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("dict<%s, %s>", t.TypeParamKey.String(), t.TypeParamValue.String())
}

// TKeyset is the `keyset<T>` container atomic.
type TKeyset struct {
	TypeParam Union
}

func (TKeyset) Key() string    { return "keyset" }
func (t TKeyset) String() string { return fmt.Sprintf("keyset<%s>", t.TypeParam.String()) }

func intKeyed(m map[int]KnownItem) map[string]KnownItem {
	out := make(map[string]KnownItem, len(m))
	for k, v := range m {
		out[strconv.Itoa(k)] = v
	}
	return out
}

func knownItemsString(m map[string]KnownItem) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		item := m[k]
		opt := ""
		if item.Optional {
			opt = "?"
		}
		parts = append(parts, fmt.Sprintf("%s%s: %s", opt, k, item.Type.String()))
	}
	return strings.Join(parts, ", ")
}
