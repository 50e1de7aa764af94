package scrape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLogURL = "https://www.fflogs.com/reports/a1b2c3d4"

func TestParseEncounterFilter(t *testing.T) {
	cases := []struct {
		in   string
		want EncounterFilter
	}{
		{"all", FilterAll},
		{"kills", FilterKills},
		{"wipes", FilterWipes},
		{"ALL", FilterAll},
		{" Kills ", FilterKills},
	}
	for _, tc := range cases {
		got, err := ParseEncounterFilter(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseEncounterFilterRejectsUnknown(t *testing.T) {
	for _, in := range []string{"bosses", "kill", "", "all encounters"} {
		_, err := ParseEncounterFilter(in)
		require.Error(t, err, "input %q", in)
		assert.ErrorIs(t, err, ErrInvalidEncounterType)
	}
}

func TestSummaryURL(t *testing.T) {
	assert.Equal(t, testLogURL+"#boss=-2", SummaryURL(testLogURL, FilterAll))
	assert.Equal(t, testLogURL+"#boss=-2&wipes=2", SummaryURL(testLogURL, FilterKills))
	assert.Equal(t, testLogURL+"#boss=-2&wipes=1", SummaryURL(testLogURL, FilterWipes))
}

func TestSummaryURLAllNeverCarriesWipesParam(t *testing.T) {
	assert.NotContains(t, SummaryURL(testLogURL, FilterAll), "wipes=")
}

func TestDamageURLAppendsViewType(t *testing.T) {
	summary := SummaryURL(testLogURL, FilterKills)
	assert.Equal(t, summary+"&type=damage-done", DamageURL(summary))
}

func TestHealingURLSubstitutesViewType(t *testing.T) {
	damage := DamageURL(SummaryURL(testLogURL, FilterWipes))
	healing := HealingURL(damage)

	assert.Contains(t, healing, "&type=healing")
	assert.NotContains(t, healing, "&type=damage-done")
	// Everything but the view type survives the swap.
	prefix := testLogURL + "#boss=-2&wipes=1"
	assert.Equal(t, prefix+"&type=healing", healing)
}

func TestViewTypeSubstitutionRoundTrips(t *testing.T) {
	damage := DamageURL(SummaryURL(testLogURL, FilterAll))
	healing := HealingURL(damage)
	back := strings.Replace(healing, "&type=healing", "&type=damage-done", 1)
	assert.Equal(t, damage, back)
}

func TestURLBuildersArePure(t *testing.T) {
	first := SummaryURL(testLogURL, FilterKills)
	second := SummaryURL(testLogURL, FilterKills)
	assert.Equal(t, first, second)

	damage := DamageURL(first)
	assert.Equal(t, damage, DamageURL(second))
	assert.Equal(t, HealingURL(damage), HealingURL(damage))
}

func TestEncounterFilterString(t *testing.T) {
	assert.Equal(t, "all", FilterAll.String())
	assert.Equal(t, "kills", FilterKills.String())
	assert.Equal(t, "wipes", FilterWipes.String())
}
