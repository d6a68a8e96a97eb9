/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: registry_test.go
Description: Tests for the encoding candidate registry. Verifies the documented
candidate order and heuristic flags, name resolution for every default candidate,
and the fail-fast behavior on unknown encoding names.
*/

package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultRegistry_Order verifies the fixed candidate order:
// restrictive multi-byte encodings before permissive single-byte ones
func TestDefaultRegistry_Order(t *testing.T) {
	names := make([]string, 0)
	for _, c := range DefaultRegistry() {
		names = append(names, c.Name)
	}

	assert.Equal(t, []string{
		"shift_jis",
		"euc-kr",
		"big5",
		"gbk",
		"gb2312",
		"cp1251",
		"iso-8859-2",
		"cp1252",
		"latin-1",
	}, names)
}

// TestDefaultRegistry_HeuristicFlags verifies the static heuristic
// dispatch table
func TestDefaultRegistry_HeuristicFlags(t *testing.T) {
	byName := make(map[string]Candidate)
	for _, c := range DefaultRegistry() {
		byName[c.Name] = c
	}

	// The Western pair.
	assert.True(t, byName["cp1252"].Western)
	assert.True(t, byName["latin-1"].Western)
	assert.False(t, byName["cp1252"].Asian)
	assert.False(t, byName["latin-1"].Asian)

	// The Asian set; only shift_jis also carries the katakana check.
	for _, name := range []string{"shift_jis", "euc-kr", "big5", "gbk", "gb2312"} {
		assert.True(t, byName[name].Asian, name)
		assert.False(t, byName[name].Western, name)
	}
	assert.True(t, byName["shift_jis"].Katakana)
	assert.False(t, byName["euc-kr"].Katakana)

	// Plain single-byte candidates carry no heuristics at all.
	assert.Equal(t, Candidate{Name: "cp1251"}, byName["cp1251"])
	assert.Equal(t, Candidate{Name: "iso-8859-2"}, byName["iso-8859-2"])
}

// TestResolveEncoding_AllCandidates verifies every default candidate
// name resolves to a codec
func TestResolveEncoding_AllCandidates(t *testing.T) {
	for _, c := range DefaultRegistry() {
		enc, err := resolveEncoding(c.Name)
		require.NoError(t, err, c.Name)
		require.NotNil(t, enc, c.Name)
	}
}

// TestResolveEncoding_Unknown verifies an unknown name is an error
func TestResolveEncoding_Unknown(t *testing.T) {
	_, err := resolveEncoding("klingon-8")
	assert.Error(t, err)
}

// TestNewEngine_UnknownCandidate verifies engine construction fails
// fast on a bad registry instead of deferring to call time
func TestNewEngine_UnknownCandidate(t *testing.T) {
	_, err := NewEngine([]Candidate{{Name: "utf-9000"}})
	assert.Error(t, err)
}

// TestNewEngine_EmptyRegistry verifies an empty candidate list is a
// configuration fault
func TestNewEngine_EmptyRegistry(t *testing.T) {
	_, err := NewEngine(nil)
	assert.Error(t, err)
}

// TestEngine_Candidates verifies the engine reports the registry order
// it was built with
func TestEngine_Candidates(t *testing.T) {
	engine, err := NewDefaultEngine()
	require.NoError(t, err)

	assert.Equal(t, DefaultRegistry(), engine.Candidates())
}
