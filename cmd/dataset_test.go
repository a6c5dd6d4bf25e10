package cmd

import "testing"

func TestParseOnOff(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"on", true, false},
		{"true", true, false},
		{"1", true, false},
		{"off", false, false},
		{"false", false, false},
		{"0", false, false},
		{"yes", false, true},
		{"", false, true},
	}
	for _, tt := range tests {
		got, err := parseOnOff(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseOnOff(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("parseOnOff(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOnOff(t *testing.T) {
	t.Parallel()
	if onOff(true) != "on" || onOff(false) != "off" {
		t.Error("onOff formatting wrong")
	}
}
