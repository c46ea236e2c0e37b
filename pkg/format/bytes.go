package format

import "fmt"

var binaryUnits = []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}

// Bytes formats a byte count with IEC units, e.g. Bytes(1536) = "1.5 KiB".
// A value never rounds up into the next unit.
func Bytes(n int64) string {
	if n < 0 {
		return "-" + Bytes(-n)
	}
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}

	unit := int64(1024)
	i := 0
	for n/unit >= 1024 && i < len(binaryUnits)-1 {
		unit *= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", float64(n)/float64(unit), binaryUnits[i])
}

// Percent formats a percentage with one decimal place.
func Percent(percent float64) string {
	return fmt.Sprintf("%.1f%%", percent)
}
