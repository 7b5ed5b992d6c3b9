package core

import (
	"github.com/blang/semver"
	"github.com/paul-soporan/relmon/pkg/core/status"
	"github.com/paul-soporan/relmon/pkg/model"
)

// ApplyStrategy computes the version resulting from a strategy applied
// to a package's current version. An empty current version means the
// package has never been released.
//
// Explicit-version strategies pass through verbatim. Relative bump
// keywords require a non-empty current version and fail with
// status.ErrInvalidBump otherwise. A decline leaves the version
// untouched: tracking the decline nonce is a record concern.
func ApplyStrategy(current string, strategy model.Strategy) (string, error) {
	switch {
	case strategy.IsExplicit():
		v, err := semver.Parse(strategy.Version)
		if err != nil {
			return "", status.ErrInvalidVersion.WrapMessage("%q", strategy.Version)
		}
		return v.String(), nil
	case strategy.IsDecline():
		return current, nil
	case strategy.IsUndecided():
		return "", status.ErrInvalidVersion.WrapMessage("strategy is undecided")
	}

	if current == "" {
		return "", status.ErrInvalidBump.WrapMessage("strategy %q", strategy)
	}
	v, err := semver.Parse(current)
	if err != nil {
		return "", status.ErrInvalidVersion.WrapMessage("current version %q", current)
	}
	next, err := bump(v, strategy.Keyword)
	if err != nil {
		return "", err
	}
	return next.String(), nil
}

var preZero = []semver.PRVersion{{VersionNum: 0, IsNum: true}}

func bump(v semver.Version, kw model.Keyword) (semver.Version, error) {
	switch kw {
	case model.KeywordMajor:
		return semver.Version{Major: v.Major + 1}, nil
	case model.KeywordMinor:
		return semver.Version{Major: v.Major, Minor: v.Minor + 1}, nil
	case model.KeywordPatch:
		return semver.Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}, nil
	case model.KeywordPremajor:
		return semver.Version{Major: v.Major + 1, Pre: preZero}, nil
	case model.KeywordPreminor:
		return semver.Version{Major: v.Major, Minor: v.Minor + 1, Pre: preZero}, nil
	case model.KeywordPrepatch:
		return semver.Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1, Pre: preZero}, nil
	case model.KeywordPrerelease:
		return bumpPrerelease(v), nil
	default:
		return semver.Version{}, status.ErrInvalidVersion.WrapMessage("keyword %q", kw)
	}
}

func bumpPrerelease(v semver.Version) semver.Version {
	if len(v.Pre) == 0 {
		return semver.Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1, Pre: preZero}
	}
	pre := make([]semver.PRVersion, len(v.Pre))
	copy(pre, v.Pre)
	if last := &pre[len(pre)-1]; last.IsNum {
		last.VersionNum++
	} else {
		pre = append(pre, semver.PRVersion{VersionNum: 0, IsNum: true})
	}
	return semver.Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch, Pre: pre}
}

var suggestable = []model.Keyword{
	model.KeywordMajor,
	model.KeywordMinor,
	model.KeywordPatch,
	model.KeywordPremajor,
	model.KeywordPreminor,
	model.KeywordPrepatch,
	model.KeywordPrerelease,
}

// SuggestStrategy inspects whether target is the result of applying
// exactly one bump keyword to current, and returns that keyword.
//
// Storing the keyword instead of a frozen target version keeps a record
// correct even if the package's current version moves before the record
// is applied. The second return value is false when no single keyword
// matches.
func SuggestStrategy(current, target string) (model.Keyword, bool, error) {
	cur, err := semver.Parse(current)
	if err != nil {
		return "", false, status.ErrInvalidVersion.WrapMessage("current version %q", current)
	}
	tgt, err := semver.Parse(target)
	if err != nil {
		return "", false, status.ErrInvalidVersion.WrapMessage("target version %q", target)
	}

	var (
		match model.Keyword
		hits  int
	)
	for _, kw := range suggestable {
		candidate, err := bump(cur, kw)
		if err != nil {
			return "", false, err
		}
		if candidate.String() == tgt.String() {
			match = kw
			hits++
		}
	}
	if hits != 1 {
		return "", false, nil
	}
	return match, true, nil
}
