package locname

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateAbbreviationFullName(t *testing.T) {
	assert.Equal(t, "CA", StateAbbreviation("California"))
	assert.Equal(t, "NY", StateAbbreviation("new york"))
	assert.Equal(t, "DC", StateAbbreviation("District of Columbia"))
}

func TestStateAbbreviationAlreadyAbbreviated(t *testing.T) {
	assert.Equal(t, "TX", StateAbbreviation("tx"))
}

func TestStateAbbreviationUnrecognizedPassesThrough(t *testing.T) {
	assert.Equal(t, "Ontario", StateAbbreviation("Ontario"))
}

func TestFormatCityAndState(t *testing.T) {
	assert.Equal(t, "Chicago, IL", Format("Chicago", "Illinois"))
}

func TestFormatCityOnly(t *testing.T) {
	assert.Equal(t, "Chicago", Format("Chicago", ""))
}

func TestFormatStateOnly(t *testing.T) {
	assert.Equal(t, "IL", Format("", "Illinois"))
}

func TestFormatBothEmpty(t *testing.T) {
	assert.Equal(t, UnknownLocation, Format("", ""))
}

func TestFormatTruncatesLongResult(t *testing.T) {
	longCity := strings.Repeat("a", 80)
	got := Format(longCity, "California")
	assert.LessOrEqual(t, len(got), 50)
}
