package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRentalDays(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{"three days", "2026-05-01", "2026-05-04", 3},
		{"single day", "2026-05-01", "2026-05-02", 1},
		{"same day floors to one", "2026-05-01", "2026-05-01", 1},
		{"end before start floors to one", "2026-05-04", "2026-05-01", 1},
		{"unparseable start", "garbage", "2026-05-04", 1},
		{"unparseable end", "2026-05-01", "", 1},
		{"full month", "2026-05-01", "2026-05-31", 30},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RentalDays(tc.start, tc.end))
		})
	}
}

func TestAsNumber(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"nil", nil, 0},
		{"float64", 12.5, 12.5},
		{"int", 7, 7},
		{"decimal string", "49.90", 49.9},
		{"decimal bytes", []byte("125.00"), 125},
		{"garbage string", "n/a", 0},
		{"garbage bytes", []byte("oops"), 0},
		{"unsupported type", struct{}{}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AsNumber(tc.in))
		})
	}
}

func TestDedupePreservesOrder(t *testing.T) {
	assert.Equal(t, []string{"s1", "s2", "s3"}, dedupe([]string{"s1", "s2", "s1", "s3", "s2"}))
	assert.Empty(t, dedupe(nil))
}
