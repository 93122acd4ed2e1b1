package codebase

import (
	"sync"

	"github.com/hakanago/hakana/internal/ast"
	"github.com/hakanago/hakana/internal/interner"
)

var (
	preludeOnce sync.Once
	prelude     *Codebase
)

// GetPrelude returns the process-wide codebase of builtin interfaces and
// classes every analyzed file sees without an explicit declaration (spec
// §4.3's config.ReservedBuiltinNames), built once and shared.
func GetPrelude(ids *interner.Handle) *Codebase {
	preludeOnce.Do(func() {
		prelude = NewCodebase()
		registerPrelude(prelude, ids)
		prelude.Populate()
	})
	return prelude
}

func registerPrelude(cb *Codebase, ids *interner.Handle) {
	tv := ids.Intern("Tv")
	tk := ids.Intern("Tk")

	iface := func(name string, templateParams []TemplateParamInfo, parents []interner.Id) interner.Id {
		id := ids.Intern(name)
		cb.AddClasslike(&ClasslikeInfo{
			Name:                   id,
			Kind:                   ast.KindInterface,
			TemplateParams:         templateParams,
			DirectParentInterfaces: parents,
			DeclaringFile:          "<prelude>",
		})
		return id
	}

	traversable := iface("Traversable", []TemplateParamInfo{{Name: tv}}, nil)
	keyedTraversable := iface("KeyedTraversable", []TemplateParamInfo{{Name: tk}, {Name: tv}},
		[]interner.Id{traversable})
	container := iface("Container", []TemplateParamInfo{{Name: tv}}, []interner.Id{traversable})
	iface("KeyedContainer", []TemplateParamInfo{{Name: tk}, {Name: tv}},
		[]interner.Id{container, keyedTraversable})
	iface("Awaitable", []TemplateParamInfo{{Name: tv}}, nil)
	iface("Stringish", nil, nil)
	iface("Countable", nil, nil)
	iface("ArrayAccess", []TemplateParamInfo{{Name: tk}, {Name: tv}}, nil)

	throwable := iface("Throwable", nil, nil)

	exceptionID := ids.Intern("Exception")
	cb.AddClasslike(&ClasslikeInfo{
		Name:                   exceptionID,
		Kind:                   ast.KindClass,
		DirectParentInterfaces: []interner.Id{throwable},
		DeclaringFile:          "<prelude>",
	})
}
