package model

import (
	"github.com/blang/semver"
	"github.com/paul-soporan/relmon/pkg/errors"
)

// Keyword enumerates the relative bump strategies
type Keyword string

const (
	// KeywordMajor bumps the major component
	KeywordMajor Keyword = "major"

	// KeywordMinor bumps the minor component
	KeywordMinor Keyword = "minor"

	// KeywordPatch bumps the patch component
	KeywordPatch Keyword = "patch"

	// KeywordPremajor bumps the major component and opens a prerelease
	KeywordPremajor Keyword = "premajor"

	// KeywordPreminor bumps the minor component and opens a prerelease
	KeywordPreminor Keyword = "preminor"

	// KeywordPrepatch bumps the patch component and opens a prerelease
	KeywordPrepatch Keyword = "prepatch"

	// KeywordPrerelease advances the prerelease counter
	KeywordPrerelease Keyword = "prerelease"

	// KeywordDecline records an explicit "no bump" decision
	KeywordDecline Keyword = "decline"

	// KeywordUndecided marks a package awaiting a decision
	KeywordUndecided Keyword = "undecided"
)

// ErrInvalidStrategy indicates a strategy which is neither a bump
// keyword nor a valid semantic version
var ErrInvalidStrategy = errors.New("strategy is neither a bump keyword nor a valid semantic version")

var keywords = map[Keyword]struct{}{
	KeywordMajor:      {},
	KeywordMinor:      {},
	KeywordPatch:      {},
	KeywordPremajor:   {},
	KeywordPreminor:   {},
	KeywordPrepatch:   {},
	KeywordPrerelease: {},
	KeywordDecline:    {},
	KeywordUndecided:  {},
}

// Strategy is the decision attached to a package in a pending release
// record: either one of the enumerated bump keywords, or an explicit
// target version. It is a tagged union, never both at once.
type Strategy struct {
	Keyword Keyword
	Version string
	_       struct{}
}

// ParseStrategy is the validating constructor for Strategy.
// Fails with ErrInvalidStrategy on anything that is neither an
// enumerated keyword nor a syntactically valid semver string.
func ParseStrategy(raw string) (Strategy, error) {
	if _, ok := keywords[Keyword(raw)]; ok {
		return Strategy{Keyword: Keyword(raw)}, nil
	}
	v, err := semver.Parse(raw)
	if err != nil {
		return Strategy{}, ErrInvalidStrategy.WrapMessage("%q", raw)
	}
	return Strategy{Version: v.String()}, nil
}

// KeywordStrategy builds a Strategy from an enumerated keyword
func KeywordStrategy(kw Keyword) Strategy {
	return Strategy{Keyword: kw}
}

// VersionStrategy builds a Strategy targeting an explicit version
func VersionStrategy(version string) Strategy {
	return Strategy{Version: version}
}

// IsExplicit tells whether the strategy targets an explicit version
func (s Strategy) IsExplicit() bool {
	return s.Keyword == "" && s.Version != ""
}

// IsDecline tells whether the strategy declines any bump
func (s Strategy) IsDecline() bool {
	return s.Keyword == KeywordDecline
}

// IsUndecided tells whether a decision is still pending
func (s Strategy) IsUndecided() bool {
	return s.Keyword == KeywordUndecided || (s.Keyword == "" && s.Version == "")
}

func (s Strategy) String() string {
	if s.IsExplicit() {
		return s.Version
	}
	if s.Keyword == "" {
		// the zero value means no decision yet, keep it round-trippable
		return string(KeywordUndecided)
	}
	return string(s.Keyword)
}

// MarshalYAML encodes the strategy as a single scalar: the keyword,
// or the explicit version string.
func (s Strategy) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML decodes and validates a strategy scalar
func (s *Strategy) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseStrategy(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalJSON encodes the strategy as a json string
func (s Strategy) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes and validates a strategy json string
func (s *Strategy) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return ErrInvalidStrategy.WrapMessage("%s", raw)
	}
	parsed, err := ParseStrategy(raw[1 : len(raw)-1])
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
