package cmd

import (
	"testing"

	"github.com/papapumpkin/cepheid/internal/view"
)

func TestParseXAxis(t *testing.T) {
	t.Parallel()
	if x, err := parseXAxis("phase"); err != nil || x != view.XPhase {
		t.Errorf("parseXAxis(phase) = %v, %v", x, err)
	}
	if x, err := parseXAxis("time"); err != nil || x != view.XTime {
		t.Errorf("parseXAxis(time) = %v, %v", x, err)
	}
	if _, err := parseXAxis("cycle"); err == nil {
		t.Error("parseXAxis(cycle) should fail")
	}
}

func TestParseYAxis(t *testing.T) {
	t.Parallel()
	if y, err := parseYAxis("magnitude"); err != nil || y != view.YMagnitude {
		t.Errorf("parseYAxis(magnitude) = %v, %v", y, err)
	}
	if _, err := parseYAxis("mag"); err == nil {
		t.Error("parseYAxis(mag) should fail")
	}
}
