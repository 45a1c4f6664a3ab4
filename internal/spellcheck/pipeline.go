package spellcheck

import "go.uber.org/zap"

// Requester emits the outbound fetch requests the pipeline needs. It is
// fire-and-forget: the matching data arrives later through AffixReceived
// and DictionaryReceived.
type Requester interface {
	RequestAffix(lang string)
	RequestDictionary(lang string)
}

type pipelineState int

const (
	stateIdle pipelineState = iota
	stateAwaitingAffix
	stateAwaitingDictionary
	stateReady
)

func (s pipelineState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateAwaitingAffix:
		return "awaiting-affix"
	case stateAwaitingDictionary:
		return "awaiting-dictionary"
	case stateReady:
		return "ready"
	}
	return "unknown"
}

// Pipeline loads the requested languages strictly one at a time: affix,
// then dictionary, then on to the next language. At most one request is
// ever outstanding; a response the pipeline did not ask for is logged
// and dropped. Once every language is ready the pipeline goes inert for
// the rest of the session.
type Pipeline struct {
	log *zap.Logger
	req Requester

	state   pipelineState
	current string

	langs []string // requested languages in arrival order
	ready map[string]bool

	// raw blobs of the language currently loading, cleared as soon as
	// they are consumed into a checker
	pendingAffix      []byte
	pendingDictionary []byte

	checkers []*Checker
}

// NewPipeline returns an idle pipeline.
func NewPipeline(req Requester, log *zap.Logger) *Pipeline {
	return &Pipeline{
		log:   log,
		req:   req,
		ready: make(map[string]bool),
	}
}

// Begin starts loading the given languages, preserving their order. With
// no languages the pipeline is immediately ready. Begin is valid only
// once, from the idle state.
func (p *Pipeline) Begin(langs []string) {
	if p.state != stateIdle {
		p.log.Warn("spellcheck load already started",
			zap.String("state", p.state.String()))
		return
	}
	for _, lang := range langs {
		if _, dup := p.ready[lang]; dup {
			continue
		}
		p.langs = append(p.langs, lang)
		p.ready[lang] = false
	}
	if len(p.langs) == 0 {
		p.state = stateReady
		p.log.Info("spellcheck ready, no languages requested")
		return
	}
	p.advance()
}

// AffixReceived accepts the affix blob for the language currently
// loading and requests its dictionary.
func (p *Pipeline) AffixReceived(data []byte) {
	if p.state != stateAwaitingAffix {
		p.log.Warn("unexpected affix data dropped",
			zap.String("state", p.state.String()))
		return
	}
	p.pendingAffix = data
	p.state = stateAwaitingDictionary
	p.req.RequestDictionary(p.current)
}

// DictionaryReceived accepts the dictionary blob, builds the checker for
// the current language and moves on to the next one, or to ready.
func (p *Pipeline) DictionaryReceived(data []byte) {
	if p.state != stateAwaitingDictionary {
		p.log.Warn("unexpected dictionary data dropped",
			zap.String("state", p.state.String()))
		return
	}
	p.pendingDictionary = data

	checker, err := NewChecker(p.current, p.pendingAffix, p.pendingDictionary)
	if err != nil {
		// The language still counts as handled; a stalled pipeline would
		// block every language behind it.
		p.log.Error("checker construction failed",
			zap.String("lang", p.current), zap.Error(err))
	} else {
		p.checkers = append(p.checkers, checker)
	}
	p.ready[p.current] = true
	p.pendingAffix = nil
	p.pendingDictionary = nil
	p.advance()
}

// advance requests the affix of the first not-ready language in arrival
// order, or declares the pipeline ready.
func (p *Pipeline) advance() {
	for _, lang := range p.langs {
		if p.ready[lang] {
			continue
		}
		p.current = lang
		p.state = stateAwaitingAffix
		p.req.RequestAffix(lang)
		return
	}
	p.current = ""
	p.state = stateReady
	p.log.Info("spellcheck ready",
		zap.Int("languages", len(p.langs)),
		zap.Int("checkers", len(p.checkers)))
}

// Ready reports whether every requested language has been handled.
func (p *Pipeline) Ready() bool { return p.state == stateReady }

// IsCorrect reports whether any loaded checker accepts the word. Before
// the pipeline is ready every word is assumed correct, so nothing gets
// flagged while dictionaries are still in flight.
func (p *Pipeline) IsCorrect(word string) bool {
	if p.state != stateReady {
		return true
	}
	if len(p.checkers) == 0 {
		return true
	}
	for _, c := range p.checkers {
		if c.Check(word) {
			return true
		}
	}
	return false
}

// Suggest concatenates each checker's suggestions in load order. It is
// empty before the pipeline is ready.
func (p *Pipeline) Suggest(word string) []string {
	if p.state != stateReady {
		return nil
	}
	var out []string
	for _, c := range p.checkers {
		out = append(out, c.Suggest(word)...)
	}
	return out
}
