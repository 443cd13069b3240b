package typereg

import (
	"testing"

	"github.com/ebscore/ebs/ast"
)

func TestDefineAndLookup(t *testing.T) {
	r := New()
	spec := &ast.TypeSpec{IsRecord: true, Fields: []ast.FieldSpec{{Name: "x", Type: &ast.TypeSpec{Name: "integer"}}}}
	r.Define("Point", spec)

	got, ok := r.Lookup("Point")
	if !ok || got != spec {
		t.Fatalf("Lookup did not return the defined spec")
	}
	if _, ok := r.Lookup("Missing"); ok {
		t.Fatalf("Lookup should fail for an undefined name")
	}
}

func TestResolveFollowsAliasChain(t *testing.T) {
	r := New()
	r.Define("Base", &ast.TypeSpec{Name: "integer"})
	r.Define("Derived", &ast.TypeSpec{Name: "Base", Alias: true})

	resolved, err := r.Resolve(&ast.TypeSpec{Name: "Derived", Alias: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Name != "integer" {
		t.Fatalf("expected to resolve to integer, got %q", resolved.Name)
	}
}

func TestResolveDetectsCycle(t *testing.T) {
	r := New()
	r.Define("A", &ast.TypeSpec{Name: "B", Alias: true})
	r.Define("B", &ast.TypeSpec{Name: "A", Alias: true})

	if _, err := r.Resolve(&ast.TypeSpec{Name: "A", Alias: true}); err == nil {
		t.Fatalf("expected a cycle error")
	}
}

func TestResolveUndefinedAlias(t *testing.T) {
	r := New()
	if _, err := r.Resolve(&ast.TypeSpec{Name: "Ghost", Alias: true}); err == nil {
		t.Fatalf("expected an undefined-alias error")
	}
}

func TestIsBitPacked(t *testing.T) {
	r := New()
	r.Define("Flags", &ast.TypeSpec{IsBitmap: true, BitFields: []ast.BitFieldSpec{{Name: "active", StartBit: 0, EndBit: 0}}})
	r.Define("Plain", &ast.TypeSpec{Name: "integer"})

	if !r.IsBitPacked("Flags") {
		t.Errorf("expected Flags to be bit-packed")
	}
	if r.IsBitPacked("Plain") {
		t.Errorf("did not expect Plain to be bit-packed")
	}
	if r.IsBitPacked("Missing") {
		t.Errorf("did not expect an undefined name to be bit-packed")
	}
}

func TestNamesPreservesDefinitionOrder(t *testing.T) {
	r := New()
	r.Define("First", &ast.TypeSpec{Name: "integer"})
	r.Define("Second", &ast.TypeSpec{Name: "string"})
	r.Define("First", &ast.TypeSpec{Name: "long"}) // redefinition must not duplicate the order entry

	names := r.Names()
	if len(names) != 2 || names[0] != "First" || names[1] != "Second" {
		t.Fatalf("unexpected order: %v", names)
	}
}
