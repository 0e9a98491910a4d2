package param

import (
	"fmt"
	"strconv"
	"strings"
)

// FrequencyFormatter renders a Hz value, switching to kHz above 1000.
func FrequencyFormatter(hz float64) string {
	if hz >= 1000 {
		return fmt.Sprintf("%.2f kHz", hz/1000)
	}
	return fmt.Sprintf("%.1f Hz", hz)
}

// FrequencyParser parses a "Hz"/"kHz"-suffixed string.
func FrequencyParser(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(strings.ToLower(s), "khz") {
		num := strings.TrimSpace(s[:len(s)-3])
		v, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, err
		}
		return v * 1000, nil
	}
	s = strings.TrimSuffix(strings.TrimSuffix(s, "Hz"), "hz")
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

