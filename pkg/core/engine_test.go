package core

import (
	"testing"

	"github.com/paul-soporan/relmon/pkg/core/status"
	"github.com/paul-soporan/relmon/pkg/errors"
	"github.com/paul-soporan/relmon/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustStrategy(t *testing.T, raw string) model.Strategy {
	s, err := model.ParseStrategy(raw)
	require.NoError(t, err)
	return s
}

func TestApplyStrategyBumps(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		strategy string
		want     string
	}{
		{name: "major", current: "1.2.3", strategy: "major", want: "2.0.0"},
		{name: "major strips prerelease", current: "1.2.3-rc.1", strategy: "major", want: "2.0.0"},
		{name: "minor", current: "1.2.3", strategy: "minor", want: "1.3.0"},
		{name: "minor strips prerelease", current: "1.2.3-0", strategy: "minor", want: "1.3.0"},
		{name: "patch", current: "1.2.3", strategy: "patch", want: "1.2.4"},
		{name: "premajor", current: "1.2.3", strategy: "premajor", want: "2.0.0-0"},
		{name: "preminor", current: "1.2.3", strategy: "preminor", want: "1.3.0-0"},
		{name: "prepatch", current: "1.2.3", strategy: "prepatch", want: "1.2.4-0"},
		{name: "prerelease opens suffix", current: "1.0.0", strategy: "prerelease", want: "1.0.1-0"},
		{name: "prerelease advances numeric tail", current: "1.0.1-0", strategy: "prerelease", want: "1.0.1-1"},
		{name: "prerelease keeps named tag", current: "1.0.0-rc.1", strategy: "prerelease", want: "1.0.0-rc.2"},
		{name: "prerelease appends counter to named tag", current: "1.0.0-rc", strategy: "prerelease", want: "1.0.0-rc.0"},
		{name: "explicit version", current: "1.2.3", strategy: "5.0.0", want: "5.0.0"},
		{name: "explicit version without current", current: "", strategy: "1.2.3", want: "1.2.3"},
		{name: "decline leaves version alone", current: "1.2.3", strategy: "decline", want: "1.2.3"},
	}
	for _, tts := range tests {
		tt := tts
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ApplyStrategy(tt.current, mustStrategy(t, tt.strategy))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyStrategyTwicePrerelease(t *testing.T) {
	// once a prerelease suffix exists, repeated application only moves the counter
	v1, err := ApplyStrategy("1.0.0", mustStrategy(t, "prerelease"))
	require.NoError(t, err)
	v2, err := ApplyStrategy(v1, mustStrategy(t, "prerelease"))
	require.NoError(t, err)
	assert.Equal(t, "1.0.1-0", v1)
	assert.Equal(t, "1.0.1-1", v2)
}

func TestApplyStrategyInvalidBump(t *testing.T) {
	for _, raw := range []string{"major", "minor", "patch", "premajor", "preminor", "prepatch", "prerelease"} {
		_, err := ApplyStrategy("", mustStrategy(t, raw))
		require.Error(t, err, "keyword %s", raw)
		assert.True(t, errors.Is(err, status.ErrInvalidBump), "keyword %s", raw)
	}
}

func TestApplyStrategyInvalidVersion(t *testing.T) {
	_, err := ApplyStrategy("definitely-not-semver", mustStrategy(t, "major"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidVersion))

	_, err = ApplyStrategy("1.0.0", model.KeywordStrategy(model.KeywordUndecided))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidVersion))
}

func TestSuggestStrategy(t *testing.T) {
	tests := []struct {
		name    string
		current string
		target  string
		want    model.Keyword
		wantOK  bool
	}{
		{name: "major", current: "1.0.0", target: "2.0.0", want: model.KeywordMajor, wantOK: true},
		{name: "minor", current: "1.0.0", target: "1.1.0", want: model.KeywordMinor, wantOK: true},
		{name: "patch", current: "1.0.0", target: "1.0.1", want: model.KeywordPatch, wantOK: true},
		{name: "premajor", current: "1.0.0", target: "2.0.0-0", want: model.KeywordPremajor, wantOK: true},
		{name: "no single keyword matches", current: "1.0.0", target: "1.0.5", wantOK: false},
		{name: "distant target", current: "1.0.0", target: "4.2.0", wantOK: false},
		// prepatch and prerelease both yield 1.0.1-0 from 1.0.0: ambiguous, no suggestion
		{name: "ambiguous target", current: "1.0.0", target: "1.0.1-0", wantOK: false},
	}
	for _, tts := range tests {
		tt := tts
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok, err := SuggestStrategy(tt.current, tt.target)
			require.NoError(t, err)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSuggestStrategyInvalidInput(t *testing.T) {
	_, _, err := SuggestStrategy("nope", "1.0.0")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidVersion))

	_, _, err = SuggestStrategy("1.0.0", "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidVersion))
}
