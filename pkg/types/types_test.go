package types

import (
	"sync"
	"testing"
)

func arrayOf(elem string) *Type {
	t := New("Array")
	t.AddGenericArg(New(elem))
	return t
}

func TestTypeString(t *testing.T) {
	pair := New("Pair")
	pair.AddGenericArg(New("int"))
	pair.AddGenericArg(arrayOf("char"))

	tests := []struct {
		typ      *Type
		expected string
	}{
		{New("int"), "int"},
		{New("MyClass"), "MyClass"},
		{arrayOf("int"), "Array<int>"},
		{pair, "Pair<int, Array<char>>"},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}
}

func TestTypeEquals(t *testing.T) {
	tests := []struct {
		a, b     *Type
		expected bool
	}{
		{New("int"), New("int"), true},
		{New("int"), New("char"), false},
		{arrayOf("int"), arrayOf("int"), true},
		{arrayOf("int"), arrayOf("char"), false},
		{arrayOf("int"), New("Array"), false},
		// Const is not part of structural equality.
		{&Type{BaseName: "int", Const: true}, New("int"), true},
	}

	for _, tt := range tests {
		if got := tt.a.Equals(tt.b); got != tt.expected {
			t.Errorf("%s.Equals(%s) = %v, want %v", tt.a, tt.b, got, tt.expected)
		}
		// Equality is symmetric.
		if got := tt.b.Equals(tt.a); got != tt.expected {
			t.Errorf("%s.Equals(%s) = %v, want %v", tt.b, tt.a, got, tt.expected)
		}
	}
}

func TestBitWidth(t *testing.T) {
	tests := []struct {
		base     string
		expected int
	}{
		{"int", 32},
		{"char", 8},
		{"boolean", 8},
		{"float", 64},
		{"MyClass", 64},
		{"Array", 64},
	}

	for _, tt := range tests {
		if got := New(tt.base).BitWidth(); got != tt.expected {
			t.Errorf("BitWidth(%s) = %d, want %d", tt.base, got, tt.expected)
		}
	}
}

func TestInternPointerEquality(t *testing.T) {
	r := NewRegistry()

	a := r.Intern(arrayOf("int"))
	b := r.Intern(arrayOf("int"))

	if a != b {
		t.Fatalf("interned Array<int> twice, got distinct pointers %p and %p", a, b)
	}
	if a.String() != "Array<int>" {
		t.Errorf("canonical type prints as %q, want %q", a.String(), "Array<int>")
	}

	c := r.Intern(arrayOf("char"))
	if a == c {
		t.Errorf("Array<int> and Array<char> must not share a canonical instance")
	}
}

func TestInternCanonicalizesArguments(t *testing.T) {
	r := NewRegistry()

	elem := r.Primitive("int")
	arr := r.Intern(arrayOf("int"))

	if arr.GenericArgs[0] != elem {
		t.Errorf("generic argument of canonical Array<int> is not the canonical int")
	}
}

func TestInternDoesNotRetainArgument(t *testing.T) {
	r := NewRegistry()

	scratch := arrayOf("int")
	canonical := r.Intern(scratch)

	// Mutating the scratch value must not disturb the canonical one.
	scratch.BaseName = "Mangled"
	scratch.GenericArgs[0].BaseName = "junk"

	if canonical.String() != "Array<int>" {
		t.Errorf("canonical type was aliased to the caller's value: %s", canonical)
	}
	if r.Intern(arrayOf("int")) != canonical {
		t.Errorf("re-interning Array<int> no longer finds the canonical instance")
	}
}

func TestInternNested(t *testing.T) {
	r := NewRegistry()

	outer := New("Pair")
	outer.AddGenericArg(New("int"))
	outer.AddGenericArg(arrayOf("char"))

	p1 := r.Intern(outer)

	outer2 := New("Pair")
	outer2.AddGenericArg(New("int"))
	outer2.AddGenericArg(arrayOf("char"))

	if p2 := r.Intern(outer2); p1 != p2 {
		t.Fatalf("structurally equal nested types interned to distinct pointers")
	}
	if p1.String() != "Pair<int, Array<char>>" {
		t.Errorf("nested type prints as %q", p1.String())
	}
}

func TestInternConcurrent(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	results := make([]*Type, 16)

	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.Intern(arrayOf("int"))
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatalf("concurrent Intern produced distinct canonical instances")
		}
	}
	// Array<int> plus its int argument.
	if got := r.Size(); got != 2 {
		t.Errorf("registry holds %d types, want 2", got)
	}
}
