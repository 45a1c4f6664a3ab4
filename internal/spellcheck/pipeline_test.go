package spellcheck

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// recorder captures outbound fetch requests in order.
type recorder struct {
	calls []string
}

func (r *recorder) RequestAffix(lang string)      { r.calls = append(r.calls, "aff:"+lang) }
func (r *recorder) RequestDictionary(lang string) { r.calls = append(r.calls, "dic:"+lang) }

const enAffix = "SET UTF-8\nREP 2\nREP f ph\nREP ei ie\n"

const enDict = `5
hello
world
photo
friend
belief/S
`

const deDict = `2
hallo
welt
`

func TestBeginEmptyGoesStraightToReady(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	p := NewPipeline(rec, zaptest.NewLogger(t))

	p.Begin(nil)

	require.True(t, p.Ready())
	require.Empty(t, rec.calls)
	require.Empty(t, p.checkers)
}

func TestSequentialLoadOneRequestAtATime(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	p := NewPipeline(rec, zaptest.NewLogger(t))

	p.Begin([]string{"en_US", "de_DE"})
	require.Equal(t, []string{"aff:en_US"}, rec.calls)
	require.False(t, p.Ready())

	p.AffixReceived([]byte(enAffix))
	require.Equal(t, []string{"aff:en_US", "dic:en_US"}, rec.calls)

	p.DictionaryReceived([]byte(enDict))
	// en_US consumed; only now may the de_DE affix request go out.
	require.Equal(t, []string{"aff:en_US", "dic:en_US", "aff:de_DE"}, rec.calls)
	require.False(t, p.Ready())

	p.AffixReceived(nil)
	p.DictionaryReceived([]byte(deDict))
	require.True(t, p.Ready())
	require.Len(t, p.checkers, 2)
	require.Equal(t, "en_US", p.checkers[0].Lang())
	require.Equal(t, "de_DE", p.checkers[1].Lang())
}

func TestResponsesInWrongStateAreDropped(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	p := NewPipeline(rec, zaptest.NewLogger(t))

	// Idle: nothing was requested.
	p.AffixReceived([]byte(enAffix))
	p.DictionaryReceived([]byte(enDict))
	require.False(t, p.Ready())
	require.Empty(t, rec.calls)

	p.Begin([]string{"en_US"})
	// Awaiting affix, but a dictionary arrives.
	p.DictionaryReceived([]byte(enDict))
	require.Equal(t, []string{"aff:en_US"}, rec.calls)

	p.AffixReceived([]byte(enAffix))
	// Awaiting dictionary, but another affix arrives.
	p.AffixReceived([]byte(enAffix))
	require.Equal(t, []string{"aff:en_US", "dic:en_US"}, rec.calls)

	p.DictionaryReceived([]byte(enDict))
	require.True(t, p.Ready())

	// Ready: late responses are ignored too.
	p.AffixReceived([]byte(enAffix))
	p.DictionaryReceived([]byte(enDict))
	require.Len(t, p.checkers, 1)
}

func TestBeginTwiceIsRejected(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	p := NewPipeline(rec, zaptest.NewLogger(t))

	p.Begin([]string{"en_US"})
	p.Begin([]string{"de_DE"})

	require.Equal(t, []string{"aff:en_US"}, rec.calls)
	require.Equal(t, []string{"en_US"}, p.langs)
}

func TestMissingResponseLeavesPipelineParked(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	p := NewPipeline(rec, zaptest.NewLogger(t))

	p.Begin([]string{"en_US"})
	// The affix response never arrives. There is no timeout: the
	// pipeline stays parked and never becomes ready.
	require.False(t, p.Ready())
	require.Equal(t, stateAwaitingAffix, p.state)
	require.Equal(t, []string{"aff:en_US"}, rec.calls)
}

func TestQueriesBeforeReadyDegrade(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	p := NewPipeline(rec, zaptest.NewLogger(t))

	p.Begin([]string{"en_US"})
	require.True(t, p.IsCorrect("zzzzzz"))
	require.Empty(t, p.Suggest("zzzzzz"))
}

func TestQueriesAfterReady(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	p := NewPipeline(rec, zaptest.NewLogger(t))

	p.Begin([]string{"en_US", "de_DE"})
	p.AffixReceived([]byte(enAffix))
	p.DictionaryReceived([]byte(enDict))
	p.AffixReceived(nil)
	p.DictionaryReceived([]byte(deDict))
	require.True(t, p.Ready())

	// Accepted if any one checker knows the word.
	require.True(t, p.IsCorrect("hello"))
	require.True(t, p.IsCorrect("welt"))
	require.False(t, p.IsCorrect("qqqqqq"))

	// Suggestions concatenate in load order: en_US first.
	sugg := p.Suggest("helo")
	require.Contains(t, sugg, "hello")
	require.Contains(t, sugg, "hallo")
	require.Greater(t, indexOf(sugg, "hello"), -1)
	require.Greater(t, indexOf(sugg, "hallo"), indexOf(sugg, "hello"))
}

func TestBrokenDictionaryDoesNotStallTheQueue(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	p := NewPipeline(rec, zaptest.NewLogger(t))

	p.Begin([]string{"en_US", "de_DE"})
	p.AffixReceived(nil)
	p.DictionaryReceived([]byte("   \n")) // no usable words

	// en_US failed but de_DE still loads.
	require.Equal(t, []string{"aff:en_US", "dic:en_US", "aff:de_DE"}, rec.calls)

	p.AffixReceived(nil)
	p.DictionaryReceived([]byte(deDict))
	require.True(t, p.Ready())
	require.Len(t, p.checkers, 1)
	require.Equal(t, "de_DE", p.checkers[0].Lang())
}

func indexOf(ss []string, want string) int {
	for i, s := range ss {
		if s == want {
			return i
		}
	}
	return -1
}
