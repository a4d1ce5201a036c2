package render

import "testing"

func TestSubstituteCalculated(t *testing.T) {
	vars := map[string]float64{"total": 238, "subtotal": 200}
	cases := []struct {
		in   string
		want string
	}{
		{"Pay {=total} now", "Pay 238.00 now"},
		{"Half: {=total / 2}", "Half: 119.00"},
		{"Skonto: {=subtotal * (1 - 0.02)}", "Skonto: 196.00"},
		{"no tokens here", "no tokens here"},
		{"{=unknownVar}", "{=unknownVar}"},
		{"{=1 +}", "{=1 +}"},
		{"{=total", "{=total"},
		{"{=total} and {=subtotal}", "238.00 and 200.00"},
	}
	for _, c := range cases {
		if got := SubstituteCalculated(c.in, vars); got != c.want {
			t.Errorf("SubstituteCalculated(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSubstituteCalculatedLeavesPlainTokens(t *testing.T) {
	// Plain {placeholder} tokens belong to Substitute and must pass through.
	got := SubstituteCalculated("Dear {clientName}, pay {=total}", map[string]float64{"total": 10})
	if got != "Dear {clientName}, pay 10.00" {
		t.Errorf("got %q", got)
	}
}
