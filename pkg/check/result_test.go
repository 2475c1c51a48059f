package check

import "testing"

func TestStatus(t *testing.T) {
	if StatusOK != "OK" {
		t.Errorf("StatusOK = %q, want %q", StatusOK, "OK")
	}
	if StatusFail != "FAIL" {
		t.Errorf("StatusFail = %q, want %q", StatusFail, "FAIL")
	}
}

func TestResultOK(t *testing.T) {
	result := Result{Status: StatusOK}
	if !result.OK() {
		t.Error("OK() = false, want true for StatusOK")
	}

	result.Status = StatusFail
	if result.OK() {
		t.Error("OK() = true, want false for StatusFail")
	}

	var zero Result
	if zero.OK() {
		t.Error("OK() = true, want false for zero Result")
	}
}
