package errors

import (
	stderrors "errors"
	"testing"
)

func TestCodeValidation(t *testing.T) {
	valid := []string{"catalog.not_found", "pool.closed", "a.b.c", "rest_client.retry_budget"}
	for _, s := range valid {
		if _, err := NewCode(s); err != nil {
			t.Errorf("NewCode(%q) failed: %v", s, err)
		}
	}

	invalid := []string{"", "nopackage", "Upper.case", "trailing.", ".leading", "two..dots", "1starts.with_digit"}
	for _, s := range invalid {
		if _, err := NewCode(s); err == nil {
			t.Errorf("NewCode(%q) should fail", s)
		}
	}
}

func TestMustNewCodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNewCode with invalid input should panic")
		}
	}()
	MustNewCode("not-valid")
}

func TestCodeParts(t *testing.T) {
	code := MustNewCode("catalog.not_found")
	if code.Package() != "catalog" {
		t.Errorf("Expected package catalog, got %s", code.Package())
	}
	if code.Name() != "not_found" {
		t.Errorf("Expected name not_found, got %s", code.Name())
	}
	if code.String() != "catalog.not_found" {
		t.Errorf("Expected catalog.not_found, got %s", code.String())
	}
}

func TestErrorWrappingAndCode(t *testing.T) {
	inner := MustNewCode("store.read_failed")
	outer := MustNewCode("catalog.internal")

	cause := stderrors.New("disk on fire")
	err := New(inner, "read failed", cause)
	wrapped := New(outer, "operation failed", err)

	if GetCode(wrapped) != outer {
		t.Errorf("Expected outer code, got %s", GetCode(wrapped))
	}
	if !Is(wrapped, outer) {
		t.Error("Is should match the outermost code")
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("Unwrap chain should reach the root cause")
	}
}

func TestAddContext(t *testing.T) {
	code := MustNewCode("catalog.not_found")
	err := Newf(code, "namespace %s missing", "db1").
		AddContext("namespace", "db1").
		AddContext("attempt", "1")

	ctx := GetContext(err)
	if ctx["namespace"] != "db1" || ctx["attempt"] != "1" {
		t.Errorf("Context not preserved: %v", ctx)
	}
}

func TestAsErrorTotalMapping(t *testing.T) {
	plain := stderrors.New("something broke")
	e := AsError(plain)
	if e == nil {
		t.Fatal("AsError returned nil for non-nil error")
	}
	if e.Code != CommonInternal {
		t.Errorf("Plain errors should map to %s, got %s", CommonInternal, e.Code)
	}

	code := MustNewCode("pool.closed")
	typed := Newf(code, "closed")
	if AsError(typed).Code != code {
		t.Error("Typed errors should keep their code through AsError")
	}

	if AsError(nil) != nil {
		t.Error("AsError(nil) should be nil")
	}
}
