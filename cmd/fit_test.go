package cmd

import "testing"

func TestQualifierOf(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"period@binary", "period"},
		{"t0_supconj@binary", "t0_supconj"},
		{"incl", "incl"},
	}
	for _, tt := range tests {
		if got := qualifierOf(tt.in); got != tt.want {
			t.Errorf("qualifierOf(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
