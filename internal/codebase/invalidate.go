package codebase

import "github.com/hakanago/hakana/internal/interner"

// RemoveFile drops every symbol this codebase attributes to file — the
// driver's first step on a Modified or Deleted file, before re-scanning it
// (spec §4.8 "For each modified file, remove every symbol declared by the
// old version of the file (including closures)").
func (cb *Codebase) RemoveFile(file string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	for id, ci := range cb.Classlikes {
		if ci.DeclaringFile == file {
			delete(cb.Classlikes, id)
		}
	}
	for key, fi := range cb.Functionlikes {
		if fi.DeclaringFile == file {
			delete(cb.Functionlikes, key)
		}
	}
	for id, td := range cb.Typedefs {
		if td.DeclaringFile == file {
			delete(cb.Typedefs, id)
		}
	}
	for id, c := range cb.Constants {
		if c.DeclaringFile == file {
			delete(cb.Constants, id)
		}
	}
	cb.populated = false
}

// FileSymbolHashes collects the signature/body hash pair for every symbol
// this codebase currently attributes to file, keyed by a stable name the
// driver can compare across scans (spec §4.8 step 4's "codebase diff").
func (cb *Codebase) FileSymbolHashes(file string, ids *interner.Handle) map[string][2]uint64 {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	out := map[string][2]uint64{}
	for _, ci := range cb.Classlikes {
		if ci.DeclaringFile == file {
			out["class:"+ids.Lookup(ci.Name)] = [2]uint64{ci.SignatureHash, ci.BodyHash}
		}
	}
	for _, fi := range cb.Functionlikes {
		if fi.DeclaringFile == file {
			name := ids.Lookup(fi.Key.Member)
			if fi.Key.Class != interner.Empty {
				name = ids.Lookup(fi.Key.Class) + "::" + name
			}
			out["fn:"+name] = [2]uint64{fi.SignatureHash, fi.BodyHash}
		}
	}
	return out
}
