package param

import (
	"math"
	"testing"
)

func TestNormalizeDenormalizeRoundTrip(t *testing.T) {
	m := New(1, "Cutoff", 20, 20000, 800)

	cases := []float64{20, 100, 800, 10000, 20000}
	for _, plain := range cases {
		n := m.Normalize(plain)
		if n < 0 || n > 1 {
			t.Fatalf("Normalize(%v) = %v, out of [0,1]", plain, n)
		}
		got := m.Denormalize(n)
		if math.Abs(got-plain) > 1e-9 {
			t.Errorf("round trip for %v: got %v", plain, got)
		}
	}
}

func TestNormalizeClamps(t *testing.T) {
	m := New(1, "Gain", 0, 1, 0)
	if got := m.Normalize(-5); got != 0 {
		t.Errorf("Normalize(-5) = %v, want 0", got)
	}
	if got := m.Normalize(5); got != 1 {
		t.Errorf("Normalize(5) = %v, want 1", got)
	}
}

func TestDefaultNormalized(t *testing.T) {
	m := New(1, "Mix", 0, 100, 50)
	if got := m.DefaultNormalized(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("DefaultNormalized() = %v, want 0.5", got)
	}
}

func TestFrequencyFormatterSwitchesToKHz(t *testing.T) {
	if got := FrequencyFormatter(440); got != "440.0 Hz" {
		t.Errorf("FrequencyFormatter(440) = %q", got)
	}
	if got := FrequencyFormatter(1500); got != "1.50 kHz" {
		t.Errorf("FrequencyFormatter(1500) = %q", got)
	}
}

func TestFrequencyParserRoundTrip(t *testing.T) {
	v, err := FrequencyParser("1.50 kHz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(v-1500) > 1e-6 {
		t.Errorf("FrequencyParser(1.50 kHz) = %v, want 1500", v)
	}
}

func TestMetaWithFormatterUsedByFormat(t *testing.T) {
	m := New(1, "Cutoff", 20, 20000, 800).WithFormatter(FrequencyFormatter, FrequencyParser)
	got := m.Format(m.Normalize(1500))
	if got != "1.50 kHz" {
		t.Errorf("Format() = %q, want %q", got, "1.50 kHz")
	}
}

func TestMetaParseUsesCustomParser(t *testing.T) {
	m := New(1, "Cutoff", 20, 20000, 800).WithFormatter(FrequencyFormatter, FrequencyParser)
	n, err := m.Parse("2 kHz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := m.Normalize(2000)
	if math.Abs(n-want) > 1e-9 {
		t.Errorf("Parse(2 kHz) = %v, want %v", n, want)
	}
}
