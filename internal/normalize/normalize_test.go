package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_Empty(t *testing.T) {
	assert.Equal(t, "", Key(""))
	assert.Equal(t, "", Key("   "))
	assert.Equal(t, "", Key("\t\n "))
}

func TestKey_Lowercase(t *testing.T) {
	assert.Equal(t, "erie hall", Key("Erie Hall"))
	assert.Equal(t, "lbj", Key("LBJ"))
}

func TestKey_TrimAndCollapse(t *testing.T) {
	assert.Equal(t, "erie hall", Key("  Erie    Hall  "))
	assert.Equal(t, "erie hall", Key("Erie\t\nHall"))
}

func TestKey_Numeric(t *testing.T) {
	assert.Equal(t, "401", Key(" 401 "))
}

func TestKey_CaseFolding(t *testing.T) {
	// Full case folding maps sharp s to "ss" and final sigma to sigma.
	assert.Equal(t, "strasse", Key("STRASSE"))
	assert.Equal(t, "strasse", Key("Straße"))
	assert.Equal(t, Key("ΟΔΟΣ"), Key("οδος"))
}

func TestKey_Idempotent(t *testing.T) {
	for _, s := range []string{"Erie Hall", "  LBJ  Library ", "Straße", ""} {
		once := Key(s)
		assert.Equal(t, once, Key(once), "Key should be idempotent for %q", s)
	}
}

func TestKeys_DropsBlank(t *testing.T) {
	assert.Equal(t, []string{"erie", "eh"}, Keys([]string{"Erie", "  ", "", "EH"}))
	assert.Empty(t, Keys(nil))
}
