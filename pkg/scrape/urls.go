package scrape

import (
	"fmt"
	"strings"
)

// EncounterFilter selects which encounters of a log the summary view shows.
type EncounterFilter int

const (
	FilterAll EncounterFilter = iota
	FilterKills
	FilterWipes
)

// URL fragments understood by the log viewer. The fragment part is passed to
// the site verbatim; these are raw strings on purpose, url.Values encoding
// would mangle the form the site expects.
const (
	allBossesFragment = "#boss=-2"
	wipesOnlyParam    = "&wipes=1"
	killsOnlyParam    = "&wipes=2"
	damageViewParam   = "&type=damage-done"
	healingViewParam  = "&type=healing"
)

// ParseEncounterFilter converts the user-supplied encounters string into a
// filter. Accepted values are "all", "kills" and "wipes".
func ParseEncounterFilter(s string) (EncounterFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		return FilterAll, nil
	case "kills":
		return FilterKills, nil
	case "wipes":
		return FilterWipes, nil
	}
	return FilterAll, fmt.Errorf("%w: %q (want all, kills or wipes)", ErrInvalidEncounterType, s)
}

func (f EncounterFilter) String() string {
	switch f {
	case FilterKills:
		return "kills"
	case FilterWipes:
		return "wipes"
	default:
		return "all"
	}
}

// SummaryURL builds the all-encounters summary address for a log. The site
// treats a URL without a wipes parameter as "all encounters", so FilterAll
// appends nothing beyond the boss selector.
func SummaryURL(logURL string, filter EncounterFilter) string {
	url := logURL + allBossesFragment
	switch filter {
	case FilterWipes:
		url += wipesOnlyParam
	case FilterKills:
		url += killsOnlyParam
	}
	return url
}

// DamageURL switches whatever view the browser currently shows to the
// damage-done tab.
func DamageURL(currentURL string) string {
	return currentURL + damageViewParam
}

// HealingURL switches the damage-done tab to healing. The type parameter is
// shared between the two views, so this is a substitution, not an append.
func HealingURL(currentURL string) string {
	return strings.Replace(currentURL, damageViewParam, healingViewParam, 1)
}
