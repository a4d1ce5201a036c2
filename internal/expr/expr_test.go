package expr

import (
	"errors"
	"testing"
)

func TestEval(t *testing.T) {
	vars := map[string]float64{"price": 100, "qty": 3, "vat": 0.19}
	cases := []struct {
		input string
		want  float64
	}{
		{"1 + 2", 3},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 / 4", 2.5},
		{"price * qty", 300},
		{"price * qty * (1 + vat)", 357},
		{"-5 + 3", -2},
		{"-(2 + 3)", -5},
		{"2.5 * 2", 5},
		{"price - 10 - 5", 85},
	}
	for _, c := range cases {
		got, err := Eval(c.input, vars)
		if err != nil {
			t.Fatalf("Eval(%q): %v", c.input, err)
		}
		if got != c.want {
			t.Fatalf("Eval(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestEvalErrors(t *testing.T) {
	cases := []string{
		"1 +",
		"(1 + 2",
		"1 ** 2",
		"missing_var + 1",
		"1 ; import os",
		"",
		"1.2.3",
	}
	for _, input := range cases {
		if _, err := Eval(input, nil); err == nil {
			t.Fatalf("Eval(%q) expected error", input)
		}
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	_, err := Eval("1 / 0", nil)
	if !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
	_, err = Eval("1 / (2 - 2)", nil)
	if !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero for computed zero, got %v", err)
	}
}

func TestNames(t *testing.T) {
	got := Names("price * qty * (1 + vat) + price")
	want := []string{"price", "qty", "vat"}
	if len(got) != len(want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names = %v, want %v", got, want)
		}
	}
}
