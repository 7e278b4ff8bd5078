package id_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/battlecore/engine/id"
)

func TestFromCanonicalizesCaseAndPunctuation(t *testing.T) {
	cases := []struct {
		input string
		want  id.Id
	}{
		{"Will-O-Wisp", "willowisp"},
		{"will o wisp", "willowisp"},
		{"WILL_O_WISP", "willowisp"},
		{"Life Orb", "lifeorb"},
		{"", ""},
		{"Mr. Mime", "mrmime"},
		{"Iron Valiant", "ironvaliant"},
	}
	for _, c := range cases {
		got := id.From(c.input)
		assert.Equal(t, c.want, got, "From(%q)", c.input)
	}
}

func TestFromIsTotalAndCommutesWithEquality(t *testing.T) {
	a := id.From("Flame Thrower")
	b := id.From("flamethrower")
	assert.True(t, a.Equals(b))
	assert.Equal(t, a, b)
}

func TestEmpty(t *testing.T) {
	assert.True(t, id.Empty.IsEmpty())
	assert.False(t, id.From("tackle").IsEmpty())
}
