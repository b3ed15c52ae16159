package cyclecount

import (
	"fmt"
	"strings"
	"time"

	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/entity"
)

// BatchName arma el nombre de batch con el que la orden se crea en ItemPath:
// YYMMDD.<unidad><prefijo><tipo>Count.<rank>, sin espacios. El prefijo
// adicional permite distinguir corridas especiales (ej. recuentos de auditoría).
func BatchName(date time.Time, loc entity.RankedLocation, additionalPrefix string) string {
	name := fmt.Sprintf("%s.%s%s%sCount.%d",
		date.Format("060102"), loc.StorageUnit, additionalPrefix, loc.Type, loc.Rank)
	return strings.ReplaceAll(name, " ", "")
}

// NextBusinessDay devuelve el deadline por defecto de una orden: el siguiente
// día hábil (los viernes saltan al lunes).
func NextBusinessDay(from time.Time) time.Time {
	days := 1
	switch from.Weekday() {
	case time.Friday:
		days = 3
	case time.Saturday:
		days = 2
	}
	return from.AddDate(0, 0, days)
}
