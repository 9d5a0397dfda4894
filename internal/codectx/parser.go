package codectx

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/timsgardner/compliment/internal/logger"
)

// Same asks the parser to reuse the hint of the previous snippet.
const Same = ":same"

// DefaultCacheSize is the number of parsed snippets kept.
const DefaultCacheSize = 256

type result struct {
	hint *Hint
}

// Parser parses snippets with an LRU of recent results. Unparseable
// snippets produce a nil hint, exactly like an absent snippet.
type Parser struct {
	cache *lru.Cache[string, result]
	last  atomic.Pointer[Hint]
	log   *logger.Logger
}

// NewParser creates a parser remembering size snippets. log may be nil.
func NewParser(size int, log *logger.Logger) *Parser {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if log == nil {
		log = logger.Nop()
	}
	cache, _ := lru.New[string, result](size)
	return &Parser{cache: cache, log: log.With("component", "context")}
}

// Parse returns the hint for snippet. The empty snippet yields nil and
// Same yields the previous hint.
func (p *Parser) Parse(snippet string) *Hint {
	switch snippet {
	case "":
		return nil
	case Same:
		return p.last.Load()
	}

	if r, ok := p.cache.Get(snippet); ok {
		p.last.Store(r.hint)
		return r.hint
	}

	hint, err := Parse(snippet)
	if err != nil {
		p.log.Debug().Err(err).Msg("ignoring unparseable context")
		hint = nil
	}
	p.cache.Add(snippet, result{hint: hint})
	p.last.Store(hint)
	return hint
}

// Len returns the number of cached snippets.
func (p *Parser) Len() int {
	return p.cache.Len()
}
