package handlers

import (
	"strconv"

	"github.com/tutor-digital/KAS-MIT/models"
)

// getMonthIndex converts an Indonesian month label to its 0-11 index,
// or -1 for an unknown label.
func getMonthIndex(monthStr string) int {
	for i, m := range models.Months {
		if m == monthStr {
			return i
		}
	}
	return -1
}

// formatRupiah renders a whole-rupiah amount with id-ID thousand dots,
// e.g. 15000 -> "Rp 15.000".
func formatRupiah(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}

	s := "Rp " + string(out)
	if neg {
		s = "-" + s
	}
	return s
}
