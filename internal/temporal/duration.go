package temporal

import "strings"

var periodLabels = map[byte]string{
	'P': "Period:",
	'Y': "Year(s)",
	'M': "Month(s)",
	'W': "Week(s)",
	'D': "Day(s)",
}

var timeLabels = map[byte]string{
	'T': "Time:",
	'H': "Hour(s)",
	'M': "Minute(s)",
	'S': "Second(s)",
}

// DescribeDuration renders an ISO-8601 style duration such as
// "P3Y6M4DT12H30M5S" as a readable label. It returns "" unless the input
// starts with 'P'.
func DescribeDuration(suffix string) string {
	suffix = strings.TrimSpace(suffix)
	if !strings.HasPrefix(suffix, "P") {
		return ""
	}
	return decodeDuration(suffix, periodLabels, true)
}

// decodeDuration swaps designator letters for labels and passes everything
// else through. The time part after 'T' is decoded with its own table.
func decodeDuration(s string, labels map[byte]string, splitTime bool) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if splitTime && c == 'T' {
			b.WriteString(decodeDuration(s[i:], timeLabels, false))
			break
		}
		if label, ok := labels[c]; ok {
			b.WriteString(" " + label + " ")
			continue
		}
		b.WriteByte(c)
	}
	return strings.TrimSpace(b.String())
}
