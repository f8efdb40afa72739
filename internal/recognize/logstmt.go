package recognize

import (
	"regexp"

	"github.com/samcharles93/codeprep/internal/logger"
	"github.com/samcharles93/codeprep/internal/token"
)

// MaxLogContent bounds the argument tokens buffered for one call.
const MaxLogContent = 40

// UnknownLevel is reported for generic log(...) calls.
const UnknownLevel = "unknown"

var loggerNameRe = regexp.MustCompile(`^(?:_+|[ms])?(?i:log|logger|logging|timber)$`)

// levels maps logging method names to a normalised level. It covers SLF4J
// and Log4j, java.util.logging and android.util.Log.
var levels = map[string]string{
	"trace":   "trace",
	"debug":   "debug",
	"info":    "info",
	"warn":    "warn",
	"warning": "warn",
	"error":   "error",
	"fatal":   "fatal",
	"severe":  "error",
	"config":  "info",
	"fine":    "debug",
	"finer":   "trace",
	"finest":  "trace",
	"v":       "trace",
	"d":       "debug",
	"i":       "info",
	"w":       "warn",
	"e":       "error",
	"wtf":     "fatal",
	"log":     UnknownLevel,
}

type logState uint8

const (
	searching logState = iota
	loggerFound
	dotFound
	methodFound
	closingBracketFinder
	semicolonFinder
)

// Statements replaces logging calls such as LOG.info("x", y); with
// token.LogStatement.
type Statements struct {
	log logger.Logger
}

func NewStatements(log logger.Logger) *Statements {
	return &Statements{log: logger.OrDiscard(log)}
}

// Rewrite recognises statements at the top level and inside loggable
// blocks.
func (s *Statements) Rewrite(tokens []token.Token) []token.Token {
	m := &logMachine{out: make([]token.Token, 0, len(tokens)), stmts: s}
	for _, t := range tokens {
		m.feed(t)
	}
	m.flush()
	if m.abandoned > 0 {
		s.log.Debug("abandoned partial log statement matches", "count", m.abandoned)
	}
	return m.out
}

type logMachine struct {
	stmts *Statements
	out   []token.Token
	state logState

	// pending holds every token consumed since the logger name.
	pending   []token.Token
	method    int
	level     string
	headEnd   int
	depth     int
	closeIdx  int
	abandoned int
}

func (m *logMachine) feed(t token.Token) {
	if m.state != searching && m.state != closingBracketFinder && token.IsWhitespace(t) {
		m.pending = append(m.pending, t)
		return
	}

	switch m.state {
	case searching:
		switch v := t.(type) {
		case token.LoggableBlock:
			m.out = append(m.out, token.LoggableBlock{Tokens: m.stmts.Rewrite(v.Tokens)})
		case token.FullWord:
			if loggerNameRe.MatchString(v.Text()) {
				m.pending = append(m.pending[:0], t)
				m.state = loggerFound
				return
			}
			m.out = append(m.out, t)
		default:
			m.out = append(m.out, t)
		}

	case loggerFound:
		if !token.IsLiteral(t, ".") {
			m.fail(t)
			return
		}
		m.pending = append(m.pending, t)
		m.state = dotFound

	case dotFound:
		w, ok := t.(token.FullWord)
		level, known := levels[w.Text()]
		if !ok || !known {
			m.fail(t)
			return
		}
		m.method, m.level = len(m.pending), level
		m.pending = append(m.pending, t)
		m.state = methodFound

	case methodFound:
		if !token.IsLiteral(t, "(") {
			m.fail(t)
			return
		}
		m.pending = append(m.pending, t)
		m.headEnd = len(m.pending)
		m.depth = 0
		m.state = closingBracketFinder

	case closingBracketFinder:
		switch {
		case token.IsLiteral(t, ")") && m.depth == 0:
			m.closeIdx = len(m.pending)
			m.pending = append(m.pending, t)
			m.state = semicolonFinder
			return
		case len(m.pending)-m.headEnd >= MaxLogContent:
			m.fail(t)
			return
		case token.IsLiteral(t, "("):
			m.depth++
		case token.IsLiteral(t, ")"):
			m.depth--
		}
		m.pending = append(m.pending, t)

	case semicolonFinder:
		if !token.IsLiteral(t, ";") {
			m.fail(t)
			return
		}
		m.out = append(m.out, m.build())
		m.reset()
	}
}

func (m *logMachine) build() token.LogStatement {
	p := m.pending
	return token.LogStatement{
		Level:       m.level,
		Head:        clone(p[:m.headEnd]),
		ObjectIndex: 0,
		MethodIndex: m.method,
		Content:     clone(p[m.headEnd:m.closeIdx]),
		Tail:        clone(p[m.closeIdx+1:]),
	}
}

// fail puts the buffered tokens back unchanged and re-feeds t from the
// searching state.
func (m *logMachine) fail(t token.Token) {
	m.abandoned++
	m.flush()
	m.feed(t)
}

func (m *logMachine) flush() {
	if m.state != searching {
		m.out = append(m.out, m.pending...)
	}
	m.reset()
}

func (m *logMachine) reset() {
	m.pending = m.pending[:0]
	m.state = searching
	m.method, m.headEnd, m.closeIdx, m.depth = 0, 0, 0, 0
	m.level = ""
}

func clone(tokens []token.Token) []token.Token {
	out := make([]token.Token, len(tokens))
	copy(out, tokens)
	return out
}
