package types

import (
	"hash/fnv"
	"strings"
)

// Type represents a (possibly generic) Jack type expression such as
// "int", "MyClass" or "Array<int>". Types handed out by a Registry are
// canonical and must never be mutated.
type Type struct {
	BaseName    string  // e.g. "Array", "int"
	GenericArgs []*Type // e.g. <int>, empty for non-generic types
	Const       bool
}

// New creates a non-generic type with the given base name.
func New(base string) *Type {
	return &Type{BaseName: base}
}

// AddGenericArg appends a generic argument. Only legal before interning.
func (t *Type) AddGenericArg(arg *Type) {
	t.GenericArgs = append(t.GenericArgs, arg)
}

// Equals reports structural equality: base names match and generic
// argument lists are equal element-wise in order. The Const flag and the
// derived bit width are not part of equality.
func (t *Type) Equals(other *Type) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	if t.BaseName != other.BaseName {
		return false
	}
	if len(t.GenericArgs) != len(other.GenericArgs) {
		return false
	}
	for i, arg := range t.GenericArgs {
		if !arg.Equals(other.GenericArgs[i]) {
			return false
		}
	}
	return true
}

// String formats the type the way it is written in source: "int",
// "Array<int>", "Pair<int, Array<char>>".
func (t *Type) String() string {
	if len(t.GenericArgs) == 0 {
		return t.BaseName
	}
	var sb strings.Builder
	sb.WriteString(t.BaseName)
	sb.WriteByte('<')
	for i, arg := range t.GenericArgs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	sb.WriteByte('>')
	return sb.String()
}

// BitWidth returns the storage width of the type in bits. Objects and
// arrays are pointer-sized.
func (t *Type) BitWidth() int {
	switch t.BaseName {
	case "int":
		return 32
	case "char", "boolean":
		return 8
	default:
		return 64
	}
}

// IsPrimitive reports whether the base name is one of the built-in
// value types.
func (t *Type) IsPrimitive() bool {
	switch t.BaseName {
	case "int", "char", "boolean", "float":
		return true
	}
	return false
}

// IsGeneric reports whether the type carries generic arguments.
func (t *Type) IsGeneric() bool {
	return len(t.GenericArgs) > 0
}

// hash fingerprints the type structurally: the base name combined with
// each generic argument's hash, recursively. Const is excluded, matching
// Equals.
func (t *Type) hash() uint64 {
	h := fnv.New64a()
	t.hashInto(h)
	return h.Sum64()
}

type hasher interface {
	Write(p []byte) (n int, err error)
}

func (t *Type) hashInto(h hasher) {
	h.Write([]byte(t.BaseName))
	for _, arg := range t.GenericArgs {
		h.Write([]byte{'<'})
		arg.hashInto(h)
		h.Write([]byte{'>'})
	}
}
