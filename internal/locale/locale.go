// Package locale converts locale identifiers between the local file naming
// convention (zh-Hans) and the remote service convention (zh_Hans).
package locale

import (
	"strings"

	zerrors "github.com/tildaslashalef/zanata-sync/internal/errors"
)

// Func transforms a single locale identifier
type Func func(string) string

// Rule names selectable from configuration
const (
	RuleDefault  = "default"
	RuleIdentity = "identity"
	RuleLower    = "lower"
	RulePOSIX    = "posix"
)

// Codec holds the two locale transforms. Both must be pure.
type Codec struct {
	ToRemote Func
	ToLocal  Func
}

// Option customizes a Codec
type Option func(*Codec)

// WithToRemote overrides the local-to-remote transform
func WithToRemote(fn Func) Option {
	return func(c *Codec) {
		if fn != nil {
			c.ToRemote = fn
		}
	}
}

// WithToLocal overrides the remote-to-local transform
func WithToLocal(fn Func) Option {
	return func(c *Codec) {
		if fn != nil {
			c.ToLocal = fn
		}
	}
}

// Default returns the first-separator swap codec, with optional overrides
func Default(opts ...Option) Codec {
	c := Codec{
		ToRemote: HyphenToUnderscore,
		ToLocal:  UnderscoreToHyphen,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// HyphenToUnderscore replaces the first '-' with '_'
func HyphenToUnderscore(s string) string {
	return strings.Replace(s, "-", "_", 1)
}

// UnderscoreToHyphen replaces the first '_' with '-'
func UnderscoreToHyphen(s string) string {
	return strings.Replace(s, "_", "-", 1)
}

// Encode converts a local locale to the remote convention
func (c Codec) Encode(loc string) string {
	if c.ToRemote == nil {
		return HyphenToUnderscore(loc)
	}
	return c.ToRemote(loc)
}

// Decode converts a remote locale to the local convention
func (c Codec) Decode(loc string) string {
	if c.ToLocal == nil {
		return UnderscoreToHyphen(loc)
	}
	return c.ToLocal(loc)
}

// EncodeAll maps Encode over locales, preserving order
func (c Codec) EncodeAll(locales []string) []string {
	out := make([]string, len(locales))
	for i, l := range locales {
		out[i] = c.Encode(l)
	}
	return out
}

// DecodeAll maps Decode over locales, preserving order
func (c Codec) DecodeAll(locales []string) []string {
	out := make([]string, len(locales))
	for i, l := range locales {
		out[i] = c.Decode(l)
	}
	return out
}

// RemoteRule returns the local-to-remote transform registered under name
func RemoteRule(name string) (Func, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", RuleDefault:
		return HyphenToUnderscore, nil
	case RuleIdentity:
		return identity, nil
	case RuleLower:
		return func(s string) string { return HyphenToUnderscore(strings.ToLower(s)) }, nil
	case RulePOSIX:
		return func(s string) string { return strings.ReplaceAll(s, "-", "_") }, nil
	default:
		return nil, zerrors.Configuration("zanata locale rule", "unknown locale rule %q (use default, identity, lower or posix)", name)
	}
}

// LocalRule returns the remote-to-local transform registered under name
func LocalRule(name string) (Func, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", RuleDefault:
		return UnderscoreToHyphen, nil
	case RuleIdentity:
		return identity, nil
	case RuleLower:
		return func(s string) string { return UnderscoreToHyphen(strings.ToLower(s)) }, nil
	case RulePOSIX:
		return func(s string) string { return strings.ReplaceAll(s, "_", "-") }, nil
	default:
		return nil, zerrors.Configuration("local locale rule", "unknown locale rule %q (use default, identity, lower or posix)", name)
	}
}

// FromRules builds a codec from rule names
func FromRules(remote, local string) (Codec, error) {
	toRemote, err := RemoteRule(remote)
	if err != nil {
		return Codec{}, err
	}
	toLocal, err := LocalRule(local)
	if err != nil {
		return Codec{}, err
	}
	return Codec{ToRemote: toRemote, ToLocal: toLocal}, nil
}

func identity(s string) string { return s }
