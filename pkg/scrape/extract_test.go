package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const summaryPage = `<html><body>
<table class="composition-table">
<tr><td>
  <div class="composition-entry" data-job='"Warrior"'>Tank</div>
  <div class="composition-entry" data-job='"Paladin"'>Tank</div>
  <div class="composition-entry" data-job='"WhiteMage"'>Healer</div>
  <div class="composition-entry" data-job='"Bard"'>DPS</div>
</td></tr>
</table>
</body></html>`

func TestExtractComposition(t *testing.T) {
	comp, err := ExtractComposition(summaryPage)
	require.NoError(t, err)
	assert.Equal(t, Composition{"Warrior", "Paladin", "WhiteMage", "Bard"}, comp)
}

func TestExtractCompositionKeepsDuplicates(t *testing.T) {
	page := `<div class="composition-entry">"Warrior"</div>
<div class="composition-entry">"Warrior"</div>
<div class="composition-entry">"WhiteMage"</div>`

	comp, err := ExtractComposition(page)
	require.NoError(t, err)
	assert.Equal(t, Composition{"Warrior", "Warrior", "WhiteMage"}, comp)
}

func TestExtractCompositionIgnoresOtherQuotedText(t *testing.T) {
	page := `<html><body>
<div class="banner">"Ignored"</div>
<div class="composition-entry">"Scholar"</div>
<script>var x = "AlsoIgnored";</script>
</body></html>`

	comp, err := ExtractComposition(page)
	require.NoError(t, err)
	assert.Equal(t, Composition{"Scholar"}, comp)
}

func TestExtractCompositionSkipsNonLetterTokens(t *testing.T) {
	page := `<div class="composition-entry" data-id="1234" data-job='"Dancer"'>"42"</div>`

	comp, err := ExtractComposition(page)
	require.NoError(t, err)
	assert.Equal(t, Composition{"Dancer"}, comp)
}

func TestExtractCompositionEmptyPage(t *testing.T) {
	comp, err := ExtractComposition("<html><body><p>no table here</p></body></html>")
	require.NoError(t, err)
	assert.Empty(t, comp)
}
