package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewCodeValidation(t *testing.T) {
	valid := []string{"engine.execution_failed", "ai.malformed_output", "config.file_read_failed"}
	for _, s := range valid {
		if _, err := NewCode(s); err != nil {
			t.Errorf("NewCode(%q) unexpectedly failed: %v", s, err)
		}
	}

	invalid := []string{"", "noprefix", "Upper.case", "engine.", ".name", "a.b.c "}
	for _, s := range invalid {
		if _, err := NewCode(s); err == nil {
			t.Errorf("NewCode(%q) should have failed", s)
		}
	}
}

func TestCodeParts(t *testing.T) {
	code := MustNewCode("viz.empty_result")
	if code.Package() != "viz" {
		t.Errorf("Package() = %q, want %q", code.Package(), "viz")
	}
	if code.Name() != "empty_result" {
		t.Errorf("Name() = %q, want %q", code.Name(), "empty_result")
	}
	if code.String() != "viz.empty_result" {
		t.Errorf("String() = %q", code.String())
	}
}

func TestErrorChaining(t *testing.T) {
	cause := fmt.Errorf("no such table: employees")
	err := New(CommonNotFound, "query failed", cause).AddContext("user_id", "42")

	if err.Error() != "query failed: no such table: employees" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if err.Context["user_id"] != "42" {
		t.Errorf("context not preserved: %v", err.Context)
	}
}

func TestGetCodeAndHasCode(t *testing.T) {
	err := New(CommonValidation, "bad input", nil)
	if GetCode(err) != "common.validation" {
		t.Errorf("GetCode = %q", GetCode(err))
	}
	if !HasCode(err, CommonValidation) {
		t.Error("HasCode should match")
	}
	if HasCode(err, CommonInternal) {
		t.Error("HasCode matched the wrong code")
	}
	if GetCode(fmt.Errorf("plain")) != "" {
		t.Error("GetCode on plain error should be empty")
	}
}

func TestAsError(t *testing.T) {
	if AsError(nil) != nil {
		t.Error("AsError(nil) should be nil")
	}

	structured := New(CommonNotFound, "missing", nil)
	if AsError(structured) != structured {
		t.Error("AsError should pass through structured errors")
	}

	plain := fmt.Errorf("boom")
	wrapped := AsError(plain)
	if !wrapped.Code.Equals(CommonInternal) {
		t.Errorf("plain errors should wrap as common.internal, got %s", wrapped.Code)
	}
	if wrapped.Cause != plain {
		t.Error("cause not preserved")
	}
}
