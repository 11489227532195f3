package purchasing

import (
	"fmt"
	"regexp"
	"strconv"
)

var sequencePattern = regexp.MustCompile(`(?i)^PO-(\d{4})-(\d+)$`)

// PoNumberPrefix returns the prefix shared by generated numbers of year.
func PoNumberPrefix(year int) string {
	return fmt.Sprintf("PO-%d-", year)
}

// FormatPoNumber renders a generated PO Number, padding seq to three digits.
func FormatPoNumber(year, seq int) string {
	return fmt.Sprintf("PO-%d-%03d", year, seq)
}

// ParsePoSequence extracts year and sequence from PO-YYYY-N numbers.
func ParsePoSequence(poNumber string) (year, seq int, ok bool) {
	m := sequencePattern.FindStringSubmatch(poNumber)
	if m == nil {
		return 0, 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	seq, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return year, seq, true
}

// NextPoNumber suggests the number following the highest sequence of year
// among existing. Numbers of other years or formats are ignored.
func NextPoNumber(year int, existing []string) string {
	highest := 0
	for _, po := range existing {
		y, seq, ok := ParsePoSequence(po)
		if ok && y == year && seq > highest {
			highest = seq
		}
	}
	return FormatPoNumber(year, highest+1)
}
