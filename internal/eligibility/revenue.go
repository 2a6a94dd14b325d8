package eligibility

import (
	"regexp"
	"strconv"
	"strings"
)

// RevenueRange is a declared annual revenue interval. A nil bound is open.
type RevenueRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

var (
	// "10 000", "10.000", "1'250'000" or a plain/decimal number, with an optional k/M multiplier
	amountPattern = regexp.MustCompile(`(\d{1,3}(?:[ '.,]\d{3})+|\d+(?:[.,]\d+)?)(?:\s*(k|m)\b)?`)

	// longer markers first so "minimum" is not read as "min"
	upperBoundMarkers = []string{"inférieur à", "inferieur a", "jusqu'à", "jusqu'a", "moins de", "less than", "maximum", "up to", "under", "max", "<"}
	lowerBoundMarkers = []string{"à partir de", "a partir de", "supérieur à", "superieur a", "au-delà de", "au-dela de", "more than", "au moins", "plus de", "minimum", "over", "min", ">", "+"}

	rangeSeparators = map[string]bool{"-": true, "à": true, "a": true, "et": true, "to": true, "and": true}
	fillerWords     = map[string]bool{"entre": true, "de": true, "du": true, "between": true, "from": true, "euros": true, "euro": true, "eur": true, "ht": true, "ttc": true, "par": true, "an": true}
)

type bound int

const (
	boundNone bound = iota
	boundUpper
	boundLower
)

// ParseRevenueRange reads free-text revenue declarations such as "10 000 - 50 000",
// "10k à 50k €", "> 50 000", "au moins 20 000" or "50 000+". ok is false when the text
// cannot be read; callers treat that as no constraint. Text is unreadable when it holds
// anything besides amounts, range separators, currency words and a leading bound marker,
// or when a digit run could be read as two amounts.
func ParseRevenueRange(text string) (RevenueRange, bool) {
	s := normalizeRevenueText(text)
	if s == "" {
		return RevenueRange{}, false
	}

	marker, s := stripBoundMarker(s)

	matches := amountPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 || len(matches) > 2 {
		return RevenueRange{}, false
	}

	amounts := make([]float64, 0, len(matches))
	for _, m := range matches {
		raw := s[m[2]:m[3]]
		if ambiguousGrouping(raw) {
			return RevenueRange{}, false
		}
		multiplier := ""
		if m[4] >= 0 {
			multiplier = s[m[4]:m[5]]
		}
		v, ok := parseAmount(raw, multiplier)
		if !ok {
			return RevenueRange{}, false
		}
		amounts = append(amounts, v)
	}

	if !onlyFiller(words(s[:matches[0][0]])) {
		return RevenueRange{}, false
	}
	trailing := words(s[matches[len(matches)-1][1]:])
	if n := len(trailing); n > 0 && trailing[n-1] == "+" && len(amounts) == 1 && marker == boundNone {
		marker = boundLower
		trailing = trailing[:n-1]
	}
	if !onlyFiller(trailing) {
		return RevenueRange{}, false
	}

	if len(amounts) == 1 {
		v := amounts[0]
		switch marker {
		case boundUpper:
			return RevenueRange{Max: &v}, true
		case boundLower:
			return RevenueRange{Min: &v}, true
		default:
			lo, hi := v, v
			return RevenueRange{Min: &lo, Max: &hi}, true
		}
	}

	if marker != boundNone || !isRangeGap(words(s[matches[0][1]:matches[1][0]])) {
		return RevenueRange{}, false
	}
	lo, hi := amounts[0], amounts[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	return RevenueRange{Min: &lo, Max: &hi}, true
}

func normalizeRevenueText(text string) string {
	r := strings.NewReplacer(
		"\u00a0", " ",
		"\u202f", " ",
		"€", " ",
		"≤", "<",
		"≥", ">",
		"–", "-",
		"—", "-",
		"’", "'",
	)
	s := strings.ToLower(r.Replace(text))
	return strings.Join(strings.Fields(s), " ")
}

func stripBoundMarker(s string) (bound, string) {
	for _, m := range upperBoundMarkers {
		if strings.HasPrefix(s, m) {
			return boundUpper, strings.TrimSpace(s[len(m):])
		}
	}
	for _, m := range lowerBoundMarkers {
		if strings.HasPrefix(s, m) {
			return boundLower, strings.TrimSpace(s[len(m):])
		}
	}
	return boundNone, s
}

// words splits the text around amounts, keeping "-" and "+" as words of their own.
func words(s string) []string {
	s = strings.NewReplacer("-", " - ", "+", " + ").Replace(s)
	return strings.Fields(s)
}

func onlyFiller(ws []string) bool {
	for _, w := range ws {
		if !fillerWords[w] {
			return false
		}
	}
	return true
}

// isRangeGap reports whether the words between two amounts join them as a range.
func isRangeGap(ws []string) bool {
	separated := false
	for _, w := range ws {
		switch {
		case rangeSeparators[w]:
			separated = true
		case fillerWords[w]:
		default:
			return false
		}
	}
	return separated
}

func parseAmount(raw, multiplier string) (float64, bool) {
	var digits string
	if thousandsGrouped(raw) {
		digits = strings.NewReplacer(" ", "", "'", "", ".", "", ",", "").Replace(raw)
	} else {
		digits = strings.ReplaceAll(raw, ",", ".")
	}

	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, false
	}
	switch multiplier {
	case "k":
		v *= 1_000
	case "m":
		v *= 1_000_000
	}
	return v, true
}

var groupedPattern = regexp.MustCompile(`^\d{1,3}(?:[ '.,]\d{3})+$`)

func thousandsGrouped(raw string) bool {
	return groupedPattern.MatchString(raw)
}

// ambiguousGrouping reports whether a thousands-grouped run mixes separators or could
// be two grouped amounts written side by side, as in "100 000 200 000".
func ambiguousGrouping(raw string) bool {
	if !thousandsGrouped(raw) {
		return false
	}
	groups := strings.FieldsFunc(raw, func(r rune) bool { return r < '0' || r > '9' })
	seps := map[rune]bool{}
	for _, r := range raw {
		if r < '0' || r > '9' {
			seps[r] = true
		}
	}
	if len(seps) > 1 {
		return true
	}
	// a second amount starts at a group that is not zero-led and leaves at least two
	// groups on each side
	for i := 2; i <= len(groups)-2; i++ {
		if groups[i][0] != '0' {
			return true
		}
	}
	return false
}

// RevenueWithinThresholds applies the overlap rule: the declared range passes a floor
// when its upper end reaches it and passes a ceiling when its lower end stays under it.
// An unreadable declaration or a program without bounds always passes.
func RevenueWithinThresholds(declared RevenueRange, parsed bool, min, max *float64) bool {
	if !parsed {
		return true
	}
	if min != nil && declared.Max != nil && *declared.Max < *min {
		return false
	}
	if max != nil && declared.Min != nil && *declared.Min > *max {
		return false
	}
	return true
}
