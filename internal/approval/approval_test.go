package approval

import "testing"

func TestParseDecision(t *testing.T) {
	cases := []struct {
		input    string
		decision Decision
		ok       bool
	}{
		{"APPROVE", DecisionApproved, true},
		{"approve", DecisionApproved, true},
		{"  Approve  ", DecisionApproved, true},
		{"DENY", DecisionDenied, true},
		{"deny", DecisionDenied, true},
		{"APPROVED", "", false},
		{"yes", "", false},
		{"APPROVE please", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			decision, ok := ParseDecision(tc.input)
			if ok != tc.ok {
				t.Fatalf("ParseDecision(%q) ok = %v, expected %v", tc.input, ok, tc.ok)
			}
			if decision != tc.decision {
				t.Fatalf("ParseDecision(%q) = %q, expected %q", tc.input, decision, tc.decision)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	if StatusFor(DecisionApproved) != StatusApproved {
		t.Fatal("expected approved status")
	}
	if StatusFor(DecisionDenied) != StatusDenied {
		t.Fatal("expected denied status")
	}
}
