package domain

import (
	"encoding/json"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want Money
	}{
		{"0", 0},
		{"10", 1000},
		{"10.5", 1050},
		{"10.50", 1050},
		{"130.00", 13000},
		{"-3.25", -325},
		{" 75.00 ", 7500},
	}

	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if err != nil {
			t.Fatalf("ParseMoney(%q) failed: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseMoney(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseMoneyRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "10.505", "10,50", "1.2.3", "."} {
		if _, err := ParseMoney(in); err == nil {
			t.Fatalf("ParseMoney(%q) should fail", in)
		}
	}
}

func TestMoneyString(t *testing.T) {
	if got := Money(13000).String(); got != "130.00" {
		t.Fatalf("expected 130.00, got %s", got)
	}
	if got := Money(1050).String(); got != "10.50" {
		t.Fatalf("expected 10.50, got %s", got)
	}
	if got := Money(-7).String(); got != "-0.07" {
		t.Fatalf("expected -0.07, got %s", got)
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Money(4300))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != "43.00" {
		t.Fatalf("expected 43.00, got %s", data)
	}

	var fromNumber Money
	if err := json.Unmarshal([]byte("43.00"), &fromNumber); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if fromNumber != 4300 {
		t.Fatalf("expected 4300, got %d", fromNumber)
	}

	var fromString Money
	if err := json.Unmarshal([]byte(`"12.34"`), &fromString); err != nil {
		t.Fatalf("unmarshal string failed: %v", err)
	}
	if fromString != 1234 {
		t.Fatalf("expected 1234, got %d", fromString)
	}

	var tooPrecise Money
	if err := json.Unmarshal([]byte("1.005"), &tooPrecise); err == nil {
		t.Fatal("expected error for three decimal places")
	}
}
