package codebase

import "github.com/hakanago/hakana/internal/interner"
import "github.com/hakanago/hakana/internal/types"

// Populate computes the inheritance and template-parameter closures over
// every registered classlike (spec §4.3 "Populate": all_parent_classes,
// all_parent_interfaces, template_extended_params), then resolves every
// Reference placeholder left by the scanner in every stored Union
// (spec §4.2 "Population"). It is idempotent and safe to re-run after a
// rescan invalidates part of the codebase.
func (cb *Codebase) Populate() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	for id, ci := range cb.Classlikes {
		ci.AllParentClasses = nil
		ci.AllParentInterfaces = nil
		ci.TemplateExtendedParams = nil
		_ = id
	}
	for id := range cb.Classlikes {
		cb.populateClosure(id, make(map[interner.Id]bool))
	}

	for _, ci := range cb.Classlikes {
		for name, u := range ci.Properties {
			ci.Properties[name] = types.PopulateUnion(u, cb)
		}
		for name, u := range ci.Constants {
			ci.Constants[name] = types.PopulateUnion(u, cb)
		}
		for name, u := range ci.TypeConstants {
			ci.TypeConstants[name] = types.PopulateUnion(u, cb)
		}
		if ci.EnumAsType != nil {
			populated := types.PopulateUnion(*ci.EnumAsType, cb)
			ci.EnumAsType = &populated
		}
		if ci.EnumUnderlying != nil {
			populated := types.PopulateUnion(*ci.EnumUnderlying, cb)
			ci.EnumUnderlying = &populated
		}
	}
	for _, fi := range cb.Functionlikes {
		for i := range fi.Params {
			fi.Params[i].Type = types.PopulateUnion(fi.Params[i].Type, cb)
		}
		fi.ReturnType = types.PopulateUnion(fi.ReturnType, cb)
	}
	for _, td := range cb.Typedefs {
		td.Underlying = types.PopulateUnion(td.Underlying, cb)
		if td.AsType != nil {
			populated := types.PopulateUnion(*td.AsType, cb)
			td.AsType = &populated
		}
	}
	for _, c := range cb.Constants {
		c.Type = types.PopulateUnion(c.Type, cb)
	}

	cb.populated = true
}

// populateClosure fills in one classlike's inheritance closure, recursing
// into its direct parent/interfaces/traits first (memoized by checking
// AllParentClasses != nil) and breaking cycles via visiting.
func (cb *Codebase) populateClosure(id interner.Id, visiting map[interner.Id]bool) {
	ci, ok := cb.Classlikes[id]
	if !ok || ci.AllParentClasses != nil || visiting[id] {
		return
	}
	visiting[id] = true
	defer delete(visiting, id)

	ci.AllParentClasses = map[interner.Id]bool{}
	ci.AllParentInterfaces = map[interner.Id]bool{}
	ci.TemplateExtendedParams = map[interner.Id]map[interner.Id]types.Union{}

	if ci.DirectParentClass != interner.Empty {
		if parent, ok := cb.Classlikes[ci.DirectParentClass]; ok {
			cb.populateClosure(ci.DirectParentClass, visiting)
			ci.AllParentClasses[ci.DirectParentClass] = true
			for p := range parent.AllParentClasses {
				ci.AllParentClasses[p] = true
			}
			for p := range parent.AllParentInterfaces {
				ci.AllParentInterfaces[p] = true
			}
			cb.extendTemplateParams(ci, ci.DirectParentClass, parent, ci.DirectParentClassArgs)
			cb.inheritMembers(ci, parent)
		}
	}
	for i, iface := range ci.DirectParentInterfaces {
		ii, ok := cb.Classlikes[iface]
		if !ok {
			continue
		}
		cb.populateClosure(iface, visiting)
		ci.AllParentInterfaces[iface] = true
		for p := range ii.AllParentInterfaces {
			ci.AllParentInterfaces[p] = true
		}
		var args []types.Union
		if i < len(ci.DirectParentInterfaceArgs) {
			args = ci.DirectParentInterfaceArgs[i]
		}
		cb.extendTemplateParams(ci, iface, ii, args)
	}
	for _, trait := range ci.DirectTraits {
		ti, ok := cb.Classlikes[trait]
		if !ok {
			continue
		}
		cb.populateClosure(trait, visiting)
		for p := range ti.AllParentClasses {
			ci.AllParentClasses[p] = true
		}
		for p := range ti.AllParentInterfaces {
			ci.AllParentInterfaces[p] = true
		}
		cb.inheritMembers(ci, ti)
	}
}

// extendTemplateParams records how ancestor's own template parameters map
// to concrete args at this class's declaration site, then propagates the
// substitution through everything ancestor itself recorded about its own
// ancestors (spec §4.3 "template_extended_params").
func (cb *Codebase) extendTemplateParams(ci *ClasslikeInfo, ancestorID interner.Id, ancestor *ClasslikeInfo, args []types.Union) {
	mapping := make(map[interner.Id]types.Union, len(ancestor.TemplateParams))
	for i, tp := range ancestor.TemplateParams {
		if i < len(args) {
			mapping[tp.Name] = args[i]
		} else {
			mapping[tp.Name] = tp.AsType
		}
	}
	ci.TemplateExtendedParams[ancestorID] = mapping

	for transitiveAncestor, ancestorMapping := range ancestor.TemplateExtendedParams {
		remapped := make(map[interner.Id]types.Union, len(ancestorMapping))
		for paramName, bound := range ancestorMapping {
			remapped[paramName] = substituteTemplateParams(bound, mapping)
		}
		ci.TemplateExtendedParams[transitiveAncestor] = remapped
	}
}

// substituteTemplateParams rewrites every TTemplateParam atomic in u whose
// Name is a key of mapping to mapping's bound union, used to thread a
// generic parameterization through a multi-level inheritance chain
// (`class Box<Tv> ... class IntBox extends Box<int>` needs IntBox's
// template_extended_params for Box's own ancestors rewritten with Tv=int).
func substituteTemplateParams(u types.Union, mapping map[interner.Id]types.Union) types.Union {
	atomics := make([]types.Atomic, 0, u.Len())
	for _, a := range u.Atomics() {
		if tp, ok := a.(types.TTemplateParam); ok {
			if bound, ok := mapping[tp.Name]; ok {
				atomics = append(atomics, bound.Atomics()...)
				continue
			}
		}
		atomics = append(atomics, a)
	}
	return types.FromAtomics(atomics...)
}

// inheritMembers copies a parent/trait's properties, methods, and
// constants onto ci wherever ci hasn't already declared its own (spec §4.3
// "Classlike record": member tables are the flattened view used by method
// resolution, with an override always winning over an inherited default).
func (cb *Codebase) inheritMembers(ci, parent *ClasslikeInfo) {
	if ci.Properties == nil {
		ci.Properties = map[interner.Id]types.Union{}
	}
	if ci.Methods == nil {
		ci.Methods = map[interner.Id]bool{}
	}
	if ci.Constants == nil {
		ci.Constants = map[interner.Id]types.Union{}
	}
	if ci.TypeConstants == nil {
		ci.TypeConstants = map[interner.Id]types.Union{}
	}
	for name, t := range parent.Properties {
		if _, ok := ci.Properties[name]; !ok {
			ci.Properties[name] = t
		}
	}
	for name := range parent.Methods {
		if _, ok := ci.Methods[name]; !ok {
			ci.Methods[name] = true
		}
	}
	for name, t := range parent.Constants {
		if _, ok := ci.Constants[name]; !ok {
			ci.Constants[name] = t
		}
	}
	for name, t := range parent.TypeConstants {
		if _, ok := ci.TypeConstants[name]; !ok {
			ci.TypeConstants[name] = t
		}
	}
}
