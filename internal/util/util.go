package util

import (
	"fmt"
	"math"
)

// KiBToGB converts a value in kibibytes to gigabytes, the unit virtual disk
// capacities are reported in.
func KiBToGB[T ~int | ~int32 | ~int64](kib T) int {
	return int(math.Round(float64(kib) / 1024.0 / 1024.0))
}

// FormatWWN renders a world wide name as colon-separated hex octets, the way
// storage admins read them (e.g. 20:00:00:25:b5:00:00:1f).
func FormatWWN(wwn int64) string {
	raw := fmt.Sprintf("%016x", uint64(wwn))
	out := make([]byte, 0, len(raw)+7)
	for i := 0; i < len(raw); i += 2 {
		if i > 0 {
			out = append(out, ':')
		}
		out = append(out, raw[i], raw[i+1])
	}
	return string(out)
}
