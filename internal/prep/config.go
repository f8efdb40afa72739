package prep

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samcharles93/codeprep/internal/render"
	"github.com/samcharles93/codeprep/internal/split"
)

// ErrInvalidConfig is wrapped by every ConfigError.
var ErrInvalidConfig = errors.New("prep: invalid config key")

// ConfigError reports which axis of a key is wrong.
type ConfigError struct {
	Key    string
	Axis   string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Axis == "" {
		return fmt.Sprintf("invalid config key %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("invalid config key %q: %s: %s", e.Key, e.Axis, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// Strip selects which text containers are replaced by placeholders.
type Strip uint8

const (
	StripNone Strip = iota
	StripStrings
	StripStringsAndComments
)

// Config is a parsed representation key. Its axes, in key order, are
// en_only, com_str, split, sep, case, tabs and logs.
type Config struct {
	EnOnly   bool
	Strip    Strip
	Split    split.Level
	Sep      bool
	KeepCase bool
	KeepTabs bool
	MarkLogs bool
}

type axis struct {
	name string
	max  int
}

var axes = [...]axis{
	{"en_only", 1},
	{"com_str", 2},
	{"split", 9},
	{"sep", 1},
	{"case", 1},
	{"tabs", 1},
	{"logs", 1},
}

// KeyLength is the number of digits in a config key.
const KeyLength = len(axes)

// ParseConfig parses and validates a key such as "0021101".
func ParseConfig(key string) (Config, error) {
	if len(key) != KeyLength {
		return Config{}, &ConfigError{Key: key, Reason: fmt.Sprintf("want %d digits, got %d characters", KeyLength, len(key))}
	}
	var d [KeyLength]int
	for i := range key {
		c := key[i]
		if c < '0' || c > '9' {
			return Config{}, &ConfigError{Key: key, Axis: axes[i].name, Reason: fmt.Sprintf("%q is not a digit", c)}
		}
		d[i] = int(c - '0')
		if d[i] > axes[i].max {
			return Config{}, &ConfigError{Key: key, Axis: axes[i].name, Reason: fmt.Sprintf("%d out of range 0-%d", d[i], axes[i].max)}
		}
	}
	cfg := Config{
		EnOnly:   d[0] == 1,
		Strip:    Strip(d[1]),
		Split:    split.Level(d[2]),
		Sep:      d[3] == 1,
		KeepCase: d[4] == 1,
		KeepTabs: d[5] == 1,
		MarkLogs: d[6] == 1,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MustParseConfig is ParseConfig for keys known at compile time.
func MustParseConfig(key string) Config {
	cfg, err := ParseConfig(key)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate rejects combinations the renderer cannot represent. BPE output
// is only recoverable with word boundaries.
func (c Config) Validate() error {
	if c.Strip > StripStringsAndComments {
		return &ConfigError{Key: c.String(), Axis: "com_str", Reason: "out of range 0-2"}
	}
	if c.Split < split.LevelNone || c.Split > split.LevelChars {
		return &ConfigError{Key: c.String(), Axis: "split", Reason: "out of range 0-9"}
	}
	if c.Split.IsBPE() && !c.Sep {
		return &ConfigError{Key: c.String(), Axis: "sep", Reason: fmt.Sprintf("split level %d requires word boundaries", c.Split)}
	}
	return nil
}

func (c Config) String() string {
	var b strings.Builder
	b.Grow(KeyLength)
	b.WriteString(bit(c.EnOnly))
	b.WriteString(strconv.Itoa(int(c.Strip)))
	b.WriteString(strconv.Itoa(int(c.Split)))
	b.WriteString(bit(c.Sep))
	b.WriteString(bit(c.KeepCase))
	b.WriteString(bit(c.KeepTabs))
	b.WriteString(bit(c.MarkLogs))
	return b.String()
}

func bit(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// RenderConfig derives the renderer settings for the key.
func (c Config) RenderConfig() render.Config {
	return render.Config{
		NonEng:         c.EnOnly,
		CapMarkers:     !c.KeepCase,
		WordBoundaries: c.Sep,
		KeepWhitespace: c.KeepTabs,
		StripStrings:   c.Strip >= StripStrings,
		StripComments:  c.Strip == StripStringsAndComments,
		MarkLogs:       c.MarkLogs,
	}
}

// PassNames lists the passes a Preprocessor built from c runs after
// scanning, in order.
func (c Config) PassNames() []string {
	var names []string
	if c.MarkLogs {
		names = append(names, passBlocks, passStatements)
	}
	if c.Split != split.LevelNone {
		names = append(names, passSplit)
	}
	if c.EnOnly {
		names = append(names, passNonEng)
	}
	return names
}

// Setting is one axis of a key with a human-readable meaning.
type Setting struct {
	Axis    string `json:"axis"`
	Value   int    `json:"value"`
	Meaning string `json:"meaning"`
}

var splitMeanings = [...]string{
	"no identifier splitting",
	"underscore and camel-case splitting",
	"underscore, camel-case and number splitting",
	"same-case dictionary splitting",
	"BPE with 1000 merges",
	"BPE with 5000 merges",
	"BPE with 10000 merges",
	"BPE with 20000 merges",
	"BPE with a custom merge table",
	"split into characters",
}

// Describe explains every axis of the key.
func (c Config) Describe() []Setting {
	key := c.String()
	out := make([]Setting, 0, KeyLength)
	for i, a := range axes {
		v := int(key[i] - '0')
		out = append(out, Setting{Axis: a.name, Value: v, Meaning: meaning(a.name, v)})
	}
	return out
}

func meaning(name string, v int) string {
	switch name {
	case "en_only":
		return pick(v, "keep non-English words", "replace non-English words with placeholders")
	case "com_str":
		return [...]string{"keep strings and comments", "replace strings", "replace strings and comments"}[v]
	case "split":
		return splitMeanings[v]
	case "sep":
		return pick(v, "no word boundaries", "wrap split identifiers in <w> </w>")
	case "case":
		return pick(v, "lowercase with capitalization markers", "keep case")
	case "tabs":
		return pick(v, "drop whitespace", "keep newlines and tabs")
	case "logs":
		return pick(v, "keep log statements as code", "mark loggable blocks and log statements")
	}
	return ""
}

func pick(v int, off, on string) string {
	if v == 1 {
		return on
	}
	return off
}
