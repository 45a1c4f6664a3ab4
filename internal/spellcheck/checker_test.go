package spellcheck

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCheckerParsesDictionary(t *testing.T) {
	t.Parallel()
	c, err := NewChecker("en_US", []byte(enAffix), []byte(enDict))
	require.NoError(t, err)

	require.True(t, c.Check("hello"))
	require.True(t, c.Check("Hello"), "sentence-initial capital")
	require.True(t, c.Check("belief"), "affix flags stripped")
	require.False(t, c.Check("beleif"))
	require.True(t, c.Check(""), "empty word never flagged")
}

func TestNewCheckerEmptyDictionary(t *testing.T) {
	t.Parallel()
	_, err := NewChecker("en_US", nil, []byte("0\n"))
	require.ErrorIs(t, err, ErrEmptyDictionary)
}

func TestCheckerSkipsCountHeaderAndComments(t *testing.T) {
	t.Parallel()
	dic := "3\n# generated\nalpha/AB\nbeta\tpo:noun\n"
	c, err := NewChecker("en_US", nil, []byte(dic))
	require.NoError(t, err)

	require.True(t, c.Check("alpha"))
	require.True(t, c.Check("beta"))
	require.False(t, c.Check("3"), "count header is not a word")
}

func TestSuggestDistanceAndOrder(t *testing.T) {
	t.Parallel()
	c, err := NewChecker("en_US", nil, []byte("4\nhello\nhallo\nworld\nhollow\n"))
	require.NoError(t, err)

	sugg := c.Suggest("helo")
	// hello is 1 edit away, hallo 2; hollow 3 and world 4 are out.
	require.Equal(t, []string{"hello", "hallo"}, sugg)
}

func TestSuggestRepRulesRankFirst(t *testing.T) {
	t.Parallel()
	c, err := NewChecker("en_US", []byte(enAffix), []byte(enDict))
	require.NoError(t, err)

	// "beleif" hits the "REP ei ie" rule and resolves to a dictionary
	// word, so it leads the list ahead of distance neighbours.
	sugg := c.Suggest("beleif")
	require.NotEmpty(t, sugg)
	require.Equal(t, "belief", sugg[0])
}

func TestSuggestCountsRunesNotBytes(t *testing.T) {
	t.Parallel()
	c, err := NewChecker("fr_FR", nil, []byte("2\ndéjà\nvite\n"))
	require.NoError(t, err)

	// "dej" to "déjà" is two edits on runes even though the UTF-8
	// encodings differ by three bytes.
	require.Equal(t, []string{"déjà"}, c.Suggest("dej"))
}

func TestSuggestKeepsDictionaryCasing(t *testing.T) {
	t.Parallel()
	aff := "REP 1\nREP ee ea\n"
	dic := "2\nBeach\nhello\n"
	c, err := NewChecker("en_US", []byte(aff), []byte(dic))
	require.NoError(t, err)

	// The REP rewrite matches through the lowercase index, but the
	// suggestion surfaces the word as the dictionary spells it.
	sugg := c.Suggest("beech")
	require.NotEmpty(t, sugg)
	require.Equal(t, "Beach", sugg[0])
}

func TestSuggestNothingForCorrectWord(t *testing.T) {
	t.Parallel()
	c, err := NewChecker("en_US", nil, []byte("1\nhello\n"))
	require.NoError(t, err)
	require.Empty(t, c.Suggest("hello"))
}
