/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: registry.go
Description: Encoding candidate registry for the Inspector decoding engine. Defines
the fixed, ordered list of fallback encodings together with the heuristic checks
that apply to each, and resolves candidate names to golang.org/x/text codecs.
*/

package charset

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

// Candidate describes a single encoding in the fallback order.
// The zero value is not useful; candidates come from DefaultRegistry
// or from an explicitly constructed list.
type Candidate struct {
	// Name is the canonical codec name, resolvable to a decoder table.
	Name string `json:"name"`

	// Western marks the permissive single-byte Western encodings that
	// are checked for misread multi-byte Asian source bytes.
	Western bool `json:"western"`

	// Asian marks multi-byte Asian encodings that are checked for the
	// ASCII+CJK mixture pattern.
	Asian bool `json:"asian"`

	// Katakana marks encodings checked for the half-width katakana
	// flood pattern. Only meaningful together with Asian.
	Katakana bool `json:"katakana"`
}

// DefaultRegistry returns the fixed candidate order used by the engine.
//
// The order is a deliberate trade-off, not an implementation detail:
// restrictive multi-byte encodings are probed before permissive
// single-byte ones, because a permissive table decodes every byte
// sequence and would starve every candidate behind it. Putting GBK or
// GB2312 earlier breaks too many other encodings; this order maximizes
// correct detections while keeping the misdetections documented in the
// package tests.
func DefaultRegistry() []Candidate {
	return []Candidate{
		{Name: "shift_jis", Asian: true, Katakana: true}, // Japanese (restrictive multi-byte)
		{Name: "euc-kr", Asian: true},                    // Korean (restrictive multi-byte)
		{Name: "big5", Asian: true},                      // Chinese Traditional (restrictive multi-byte)
		{Name: "gbk", Asian: true},                       // Chinese Simplified
		{Name: "gb2312", Asian: true},                    // Chinese Simplified, older
		{Name: "cp1251"},                                 // Cyrillic
		{Name: "iso-8859-2"},                             // Central/Eastern European
		{Name: "cp1252", Western: true},                  // Windows Western European (very permissive)
		{Name: "latin-1", Western: true},                 // ISO-8859-1 fallback (never fails)
	}
}

// quirks resolves names the index tables either miss or fold into a
// different table. htmlindex in particular maps latin-1 labels to
// windows-1252, which would erase the distinction the western
// heuristic relies on.
var quirks = map[string]encoding.Encoding{
	"latin-1":    charmap.ISO8859_1,
	"iso-8859-1": charmap.ISO8859_1,
	"cp1251":     charmap.Windows1251,
	"cp1252":     charmap.Windows1252,
	"iso-8859-2": charmap.ISO8859_2,
}

// resolveEncoding maps a candidate name to a codec: quirks table first,
// then the IANA index, then the WHATWG html index.
func resolveEncoding(name string) (encoding.Encoding, error) {
	if enc, ok := quirks[name]; ok {
		return enc, nil
	}
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("charset: unsupported encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("charset: unsupported encoding %q", name)
	}
	return enc, nil
}

// resolvedCandidate pairs a candidate with its decoder table.
type resolvedCandidate struct {
	Candidate
	enc encoding.Encoding
}

// resolveRegistry validates a candidate list, resolving every name
// eagerly. An unresolvable name is a deployment fault and must surface
// at construction time, never during a decode call.
func resolveRegistry(candidates []Candidate) ([]resolvedCandidate, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("charset: candidate registry is empty")
	}
	resolved := make([]resolvedCandidate, 0, len(candidates))
	for _, c := range candidates {
		enc, err := resolveEncoding(c.Name)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, resolvedCandidate{Candidate: c, enc: enc})
	}
	return resolved, nil
}
