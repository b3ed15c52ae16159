package cyclecount

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextRunAfter(t *testing.T) {
	loc := time.UTC
	at := func(y int, m time.Month, d, h, min int) time.Time {
		return time.Date(y, m, d, h, min, 0, 0, loc)
	}

	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"antes de la hora, mismo día", at(2025, 8, 27, 1, 30), at(2025, 8, 27, 2, 0)},
		{"después de la hora, día siguiente", at(2025, 8, 27, 2, 1), at(2025, 8, 28, 2, 0)},
		{"exactamente a la hora, día siguiente", at(2025, 8, 27, 2, 0), at(2025, 8, 28, 2, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, nextRunAfter(tc.now, 2, 0),
				"la próxima ocurrencia debe ser estrictamente posterior a now")
		})
	}
}
