package cmd

import "testing"

func TestLabelForFile(t *testing.T) {
	t.Parallel()
	tests := []struct {
		path string
		want string
	}{
		{"obs/lc01.dat", "lc01"},
		{"/data/rv01.txt", "rv01"},
		{"lc01", "lc01"},
		{"a.b.dat", "a.b"},
	}
	for _, tt := range tests {
		if got := labelForFile(tt.path); got != tt.want {
			t.Errorf("labelForFile(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
