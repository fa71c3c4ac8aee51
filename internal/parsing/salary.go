package parsing

import (
	"regexp"
	"strconv"
	"strings"
)

// Salary patterns, most specific first. A range is two figures joined by a
// dash or "to"; dollar-prefixed figures win over bare numbers such as a level.
var salaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\s*(\d[\d,]*)\s*(?:-|\x{2013}|to)\s*\$?\s*(\d[\d,]*)`),
	regexp.MustCompile(`(\d[\d,]*)\s*(?:-|\x{2013}|to)\s*(\d[\d,]*)`),
	regexp.MustCompile(`\$\s*(\d[\d,]*)`),
	regexp.MustCompile(`(\d[\d,]*)`),
}

// ParseSalaryRange extracts the bounds of a display string such as
// "$60,000 - $100,000". A single figure yields min == max. When no figure can
// be parsed both results are nil.
func ParseSalaryRange(s string) (minSalary, maxSalary *int) {
	for _, re := range salaryPatterns {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		values := make([]int, 0, 2)
		for _, g := range m[1:] {
			n, err := strconv.Atoi(strings.ReplaceAll(g, ",", ""))
			if err != nil {
				break
			}
			values = append(values, n)
		}
		if len(values) != len(m)-1 {
			continue
		}

		lo, hi := values[0], values[len(values)-1]
		if lo > hi {
			lo, hi = hi, lo
		}
		return &lo, &hi
	}
	return nil, nil
}
