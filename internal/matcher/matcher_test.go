package matcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lower = &Options{Fold: func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		pattern     string
		patternType PatternType
		wantType    PatternType
		wantErr     bool
	}{
		{"exact", "C02XYZ", Exact, Exact, false},
		{"empty exact", "  ", Exact, Exact, true},
		{"valid glob", "C02*", Glob, Glob, false},
		{"invalid glob", "[unclosed", Glob, Glob, true},
		{"valid regex", `^dmp\d+$`, Regex, Regex, false},
		{"invalid regex", "(unclosed", Regex, Regex, true},
		{"auto regex", `^031\d+`, Auto, Regex, false},
		{"auto glob", "ksn-*", Auto, Glob, false},
		{"auto exact", "abc123", Auto, Exact, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.patternType, tt.pattern, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, m.Type())
			assert.Equal(t, tt.pattern, m.Pattern())
		})
	}
}

func TestMatcherMatch(t *testing.T) {
	tests := []struct {
		name        string
		patternType PatternType
		pattern     string
		input       string
		want        bool
	}{
		{"exact folded", Exact, "C02XYZ", " c02xyz ", true},
		{"exact mismatch", Exact, "C02XYZ", "c02xy", false},
		{"prefix", Prefix, "031", "031245", true},
		{"prefix mismatch", Prefix, "031", "0031", false},
		{"contains", Contains, "kaya", "Ayşe Kaya", true},
		{"glob", Glob, "c02*", "C02ABC", true},
		{"glob single char", Glob, "pf?x", "PF2X", true},
		{"regex", Regex, `^dmp\d+$`, "DMP123", true},
		{"regex mismatch", Regex, `^dmp\d+$`, "DMPX", false},
		{"uppercase regex on folded input", Regex, `^C02`, "c02xyz", true},
		{"uppercase class on folded input", Regex, `^C02[A-Z]+$`, " C02XYZ ", true},
		{"empty input never matches", Contains, "a", "   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.patternType, tt.pattern, lower)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Match(tt.input))
		})
	}
}

func TestSet(t *testing.T) {
	s, err := NewSet([]string{"ABC123", "", "c02*", `^dmp\d+$`}, Auto, lower)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())

	assert.True(t, s.Match("abc123"))
	assert.True(t, s.Match("C02Q1"))
	assert.True(t, s.Match("dmp42"))
	assert.False(t, s.Match("xyz"))
}

func TestNilAndEmptySet(t *testing.T) {
	var s *Set
	assert.False(t, s.Match("x"))
	assert.Equal(t, 0, s.Len())

	empty, err := NewSet(nil, Exact, nil)
	require.NoError(t, err)
	assert.False(t, empty.Match("x"))
}

func TestSetInvalidPattern(t *testing.T) {
	_, err := NewSet([]string{"[bad"}, Glob, nil)
	assert.Error(t, err)

	_, err = NewSet([]string{"(bad"}, Regex, nil)
	assert.Error(t, err)
}
