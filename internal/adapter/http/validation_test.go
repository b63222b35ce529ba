package http

import (
	"errors"
	"testing"
)

func TestNatID12Validation(t *testing.T) {
	type P struct {
		NationalID string `validate:"natid12"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{NationalID: "123456789012"}); err != nil {
		t.Fatalf("expected valid natid12, got err: %v", err)
	}

	for _, s := range []string{
		"",              // empty
		"12345678901",   // 11 digits
		"1234567890123", // 13 digits
		"12345678901a",  // letter
		"1234 5678 90 ", // spaces
	} {
		err := cv.Validate(P{NationalID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if !containsFieldMsg(ToFieldErrors(err), "NationalID", "exactly 12 digits") {
			t.Fatalf("expected natid12 message for %q, got: %+v", s, ToFieldErrors(err))
		}
	}
}

func TestDec2Validation(t *testing.T) {
	type P struct {
		Amount float64 `validate:"dec2"`
	}
	cv := NewValidator()

	for _, v := range []float64{1000, 999.99, 0.9, 1.2} {
		if err := cv.Validate(P{Amount: v}); err != nil {
			t.Fatalf("expected dec2 OK for %v, got %v", v, err)
		}
	}
	for _, v := range []float64{1.234, 2.9999} {
		err := cv.Validate(P{Amount: v})
		if err == nil {
			t.Fatalf("expected dec2 error for %v", v)
		}
		if !containsFieldMsg(ToFieldErrors(err), "Amount", "at most 2 decimal places") {
			t.Fatalf("expected dec2 message for %v, got %+v", v, ToFieldErrors(err))
		}
	}
}

func TestPaymodeValidation(t *testing.T) {
	type P struct {
		Mode string `validate:"paymode"`
	}
	cv := NewValidator()

	for _, s := range []string{"cash", "online"} {
		if err := cv.Validate(P{Mode: s}); err != nil {
			t.Fatalf("expected paymode OK for %q, got %v", s, err)
		}
	}
	for _, s := range []string{"", "card", "CASH", "upi"} {
		err := cv.Validate(P{Mode: s})
		if err == nil {
			t.Fatalf("expected paymode error for %q", s)
		}
		if !containsFieldMsg(ToFieldErrors(err), "Mode", "cash or online") {
			t.Fatalf("expected paymode message for %q, got %+v", s, ToFieldErrors(err))
		}
	}
}

func TestRequiredAndDatetimeMapping(t *testing.T) {
	type P struct {
		Name  string `validate:"required"`
		Start string `validate:"datetime=2006-01-02"`
	}
	cv := NewValidator()

	err := cv.Validate(P{Name: "", Start: "31-12-2026"})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)
	if !containsFieldMsg(fe, "Name", "is required") {
		t.Fatalf("missing 'is required' for Name: %+v", fe)
	}
	if !containsFieldMsg(fe, "Start", "YYYY-MM-DD") {
		t.Fatalf("missing datetime message for Start: %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}
