package purchasing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePoSequence(t *testing.T) {
	year, seq, ok := ParsePoSequence("PO-2025-042")
	assert.True(t, ok)
	assert.Equal(t, 2025, year)
	assert.Equal(t, 42, seq)

	year, seq, ok = ParsePoSequence("po-2025-043")
	assert.True(t, ok)
	assert.Equal(t, 2025, year)
	assert.Equal(t, 43, seq)

	_, _, ok = ParsePoSequence("INV-2025-042")
	assert.False(t, ok)
	_, _, ok = ParsePoSequence("PO-25-042")
	assert.False(t, ok)
}

func TestNextPoNumber(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		expected string
	}{
		{"no orders", nil, "PO-2025-001"},
		{"continues highest", []string{"PO-2025-001", "PO-2025-007", "PO-2025-003"}, "PO-2025-008"},
		{"ignores other years", []string{"PO-2024-099"}, "PO-2025-001"},
		{"ignores foreign formats", []string{"ABC-2025-500", "PO-2025-002"}, "PO-2025-003"},
		{"counts lower-case numbers", []string{"po-2025-010", "PO-2025-004"}, "PO-2025-011"},
		{"grows past padding", []string{"PO-2025-999"}, "PO-2025-1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextPoNumber(2025, tt.existing))
		})
	}
}

func TestContainsUnsafeInput(t *testing.T) {
	unsafe := []string{
		"1; DROP TABLE purchase_orders",
		"abc /* comment */",
		"exec xp_cmdshell",
		"name'' ",
		"x' = 'x",
		"<script>alert(1)</script>",
		"<iframe src=x></iframe>",
		"JavaScript:void(0)",
		"<div onclick = 'x'>",
		"<embed src=x>",
		"<object data=x>",
	}
	for _, s := range unsafe {
		assert.True(t, ContainsUnsafeInput(s), s)
	}

	safe := []string{
		"Office chairs",
		"O'Brien & Sons",
		"PO-2025-001",
		"Donation programme",
		"Selected items",
	}
	for _, s := range safe {
		assert.False(t, ContainsUnsafeInput(s), s)
	}
}
