// Package datetext normalizes free-text article dates into timezone-aware
// instants. Sites phrase dates in wildly different ways ("2 hours ago",
// "Posted on Sep 30, 2024", "13/09/2024"), so normalization runs an ordered
// chain of parser strategies from strict to permissive and stops at the
// first success.
package datetext

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Normalizer converts date text into instants in a configured timezone
type Normalizer struct {
	loc *time.Location
	now func() time.Time
}

// New creates a normalizer for the given timezone
func New(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{
		loc: loc,
		now: time.Now,
	}
}

// NewAt creates a normalizer with a fixed clock, for tests and for pinning
// every record in a batch to the batch's own "now"
func NewAt(loc *time.Location, now func() time.Time) *Normalizer {
	n := New(loc)
	if now != nil {
		n.now = now
	}
	return n
}

// strategy attempts one way of reading the cleaned text. Strategies are
// tried in order; a later, more permissive parser must only run after the
// stricter ones have failed.
type strategy func(n *Normalizer, text string, now time.Time) (time.Time, bool)

var strategies = []strategy{
	parseRelative,
	parseDayWord,
	parseAbsolute,
	parseManual,
}

// Normalize maps date text to an instant in the configured timezone.
// Returns false when no strategy matches; that is a normal outcome for
// records whose date the site simply does not render parseably.
func (n *Normalizer) Normalize(text string) (time.Time, bool) {
	cleaned := clean(text)
	if cleaned == "" {
		return time.Time{}, false
	}

	now := n.now().In(n.loc)
	for _, parse := range strategies {
		if t, ok := parse(n, cleaned, now); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDisplay renders an instant for human display ("Sep 30, 2024").
// A nil instant renders as "N/A".
func FormatDisplay(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format("Jan 02, 2006")
}

var (
	boilerplate = []*regexp.Regexp{
		regexp.MustCompile(`(?i)by\s+[\w\s]+`),
		regexp.MustCompile(`(?i)posted\s+on\s*`),
		regexp.MustCompile(`(?i)published\s+on\s*`),
		regexp.MustCompile(`(?i)updated\s+on\s*`),
		regexp.MustCompile(`•`),
		regexp.MustCompile(`\|\s*`),
		regexp.MustCompile(`\s-\s`),
	}
	separators = regexp.MustCompile(`[,|•]`)
	spaces     = regexp.MustCompile(`\s+`)
)

// clean strips author prefixes, publish-verb prefixes and separator noise
func clean(text string) string {
	cleaned := strings.TrimSpace(text)
	for _, re := range boilerplate {
		cleaned = strings.TrimSpace(re.ReplaceAllString(cleaned, " "))
	}
	cleaned = separators.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(spaces.ReplaceAllString(cleaned, " "))
}

// relativeUnits are tried in order; the first pattern found in the text
// wins, matching how sites abbreviate ("2 hrs ago", "5 min ago")
var relativeUnits = []struct {
	re   *regexp.Regexp
	unit string
}{
	{regexp.MustCompile(`(?i)(\d+)\s*hour`), "hour"},
	{regexp.MustCompile(`(?i)(\d+)\s*hr`), "hour"},
	{regexp.MustCompile(`(?i)(\d+)\s*minute`), "minute"},
	{regexp.MustCompile(`(?i)(\d+)\s*min`), "minute"},
	{regexp.MustCompile(`(?i)(\d+)\s*day`), "day"},
	{regexp.MustCompile(`(?i)(\d+)\s*week`), "week"},
	{regexp.MustCompile(`(?i)(\d+)\s*month`), "month"},
	{regexp.MustCompile(`(?i)(\d+)\s*year`), "year"},
}

// parseRelative handles "N <unit> ago" phrases. Minutes through weeks are
// fixed-duration subtraction; months and years are calendar-aware.
func parseRelative(n *Normalizer, text string, now time.Time) (time.Time, bool) {
	if !strings.Contains(strings.ToLower(text), "ago") {
		return time.Time{}, false
	}

	for _, candidate := range relativeUnits {
		m := candidate.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		count := 0
		for _, r := range m[1] {
			count = count*10 + int(r-'0')
		}
		switch candidate.unit {
		case "minute":
			return now.Add(-time.Duration(count) * time.Minute), true
		case "hour":
			return now.Add(-time.Duration(count) * time.Hour), true
		case "day":
			return now.Add(-time.Duration(count) * 24 * time.Hour), true
		case "week":
			return now.Add(-time.Duration(count) * 7 * 24 * time.Hour), true
		case "month":
			return addMonths(now, -count), true
		case "year":
			return addMonths(now, -count*12), true
		}
	}
	return time.Time{}, false
}

// parseDayWord handles "today" and "yesterday", both pinned to noon so the
// instant compares sanely against the recency cutoff
func parseDayWord(n *Normalizer, text string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "today") {
		return atNoon(now), true
	}
	if strings.Contains(lower, "yesterday") {
		return atNoon(now.Add(-24 * time.Hour)), true
	}
	return time.Time{}, false
}

// parseAbsolute runs a permissive absolute-date parse localized to the
// configured timezone. Same-day results keep their parsed time-of-day for
// ordering precision; older dates are coerced to noon because most sites
// render no time at all and midnight would misclassify articles sitting
// right on the cutoff in a different timezone.
func parseAbsolute(n *Normalizer, text string, now time.Time) (time.Time, bool) {
	parsed, err := dateparse.ParseIn(text, n.loc)
	if err != nil {
		return time.Time{}, false
	}

	parsed = parsed.In(n.loc)
	py, pm, pd := parsed.Date()
	ny, nm, nd := now.Date()
	if py == ny && pm == nm && pd == nd {
		return parsed, true
	}
	return atNoon(parsed), true
}

var (
	monthPattern = regexp.MustCompile(`(?i)^([a-z]{3,9})\.?\s+(\d{1,2}),?\s+(\d{4})`)
	slashPattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})`)

	monthNames = map[string]time.Month{
		"jan": time.January, "feb": time.February, "mar": time.March,
		"apr": time.April, "may": time.May, "jun": time.June,
		"jul": time.July, "aug": time.August, "sep": time.September,
		"oct": time.October, "nov": time.November, "dec": time.December,
		"january": time.January, "february": time.February, "march": time.March,
		"april": time.April, "june": time.June, "july": time.July,
		"august": time.August, "september": time.September, "october": time.October,
		"november": time.November, "december": time.December,
	}
)

// parseManual is the last-resort fallback for two formats the permissive
// parser occasionally rejects: "Month DD, YYYY" and "D/D/YYYY". The slash
// form is ambiguous between DD/MM and MM/DD; the first part is tried as the
// month and swapped only when that yields an impossible date. A
// wrong-but-valid reading can therefore slip through; the permissiveness
// is deliberate.
func parseManual(n *Normalizer, text string, now time.Time) (time.Time, bool) {
	if m := monthPattern.FindStringSubmatch(text); m != nil {
		month, ok := monthNames[strings.ToLower(m[1])]
		if !ok {
			return time.Time{}, false
		}
		day := atoi(m[2])
		year := atoi(m[3])
		if !validDate(year, month, day) {
			return time.Time{}, false
		}
		return time.Date(year, month, day, 12, 0, 0, 0, n.loc), true
	}

	if m := slashPattern.FindStringSubmatch(text); m != nil {
		part1, part2, year := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if validDate(year, time.Month(part1), part2) {
			return time.Date(year, time.Month(part1), part2, 12, 0, 0, 0, n.loc), true
		}
		if validDate(year, time.Month(part2), part1) {
			return time.Date(year, time.Month(part2), part1, 12, 0, 0, 0, n.loc), true
		}
	}

	return time.Time{}, false
}

// atNoon pins an instant to 12:00:00 of its calendar day
func atNoon(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, t.Location())
}

// addMonths shifts by whole calendar months, clamping the day to the last
// day of the target month. time.AddDate would normalize Feb 31 into March;
// "1 month ago" from Mar 31 must land on Feb 29, not Mar 2.
func addMonths(t time.Time, months int) time.Time {
	y, m, _ := t.Date()
	firstOfTarget := time.Date(y, m, 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	day := t.Day()
	if last := daysIn(firstOfTarget.Year(), firstOfTarget.Month(), t.Location()); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in a month
func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// validDate reports whether year/month/day name a real calendar date.
// time.Date never fails, so construct and compare.
func validDate(year int, month time.Month, day int) bool {
	if month < time.January || month > time.December || day < 1 {
		return false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && t.Month() == month && t.Day() == day
}

// atoi parses a small positive decimal; inputs come from \d+ captures
func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
