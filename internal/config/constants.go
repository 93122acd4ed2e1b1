package config

// Version is the current analyzer version, set at release time via -ldflags.
var Version = "0.1.0"

const SourceFileExt = ".hck"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".hck", ".hackx", ".hhi"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode normalizes nondeterministic output (generated template
// variable suffixes, etc.) for golden-file comparisons. Set once at startup.
var IsTestMode = false

// Built-in class/interface names that get a reserved, dense interner range
// (see internal/interner).
var ReservedBuiltinNames = []string{
	"void", "int", "float", "num", "string", "arraykey", "bool", "null",
	"mixed", "nonnull", "nothing", "this", "self", "static", "classname",
	"typename", "vec", "dict", "keyset", "shape", "Container", "KeyedContainer",
	"Traversable", "KeyedTraversable", "Awaitable", "Exception", "Throwable",
	"Stringish", "Countable", "ArrayAccess",
}
