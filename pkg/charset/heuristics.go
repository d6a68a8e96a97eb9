/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: heuristics.go
Description: Script-mismatch heuristics for the Inspector decoding engine. Detects
decodings that are syntactically valid but semantically wrong: Western single-byte
tables applied to multi-byte Asian source bytes, and Asian multi-byte tables applied
to bytes produced by a different encoding.
*/

package charset

// Unicode ranges and thresholds used by the mismatch heuristics. The
// thresholds are tuned against the detection matrix in the package
// tests; changing one changes which encodings win on real inputs.
const (
	// Latin-1 Supplement through Latin Extended-A/B.
	highLatinLo = 0x0080
	highLatinHi = 0x024F

	// Half-width katakana block.
	halfWidthKatakanaLo = 0xFF61
	halfWidthKatakanaHi = 0xFF9F

	// CJK Unified Ideographs.
	cjkLo = 0x4E00
	cjkHi = 0x9FFF

	// minHeuristicLen is the string length above which the mismatch
	// heuristics are statistically meaningful.
	minHeuristicLen = 3

	highLatinRatioLimit = 0.5
	spaceRatioFloor     = 0.1
	katakanaRatioLimit  = 0.3
	cjkRatioFloor       = 0.5
	minASCIILetters     = 2
)

// westernMisreadsAsian reports whether a decoding produced by one of
// the permissive single-byte Western tables (cp1252, latin-1) looks
// like multi-byte Asian source bytes read one byte at a time.
//
// Asian multi-byte sequences reinterpreted under a Western table yield
// dense clusters of accented Latin-range glyphs with almost no spaces,
// while real Western text is full of spaces.
func westernMisreadsAsian(text string) bool {
	runes := 0
	highLatin := 0
	spaces := 0
	for _, r := range text {
		runes++
		if r >= highLatinLo && r <= highLatinHi {
			highLatin++
		}
		if r == ' ' {
			spaces++
		}
	}
	if runes <= minHeuristicLen {
		return false
	}

	n := float64(runes)
	return float64(highLatin)/n > highLatinRatioLimit && float64(spaces) < n*spaceRatioFloor
}

// crossAsianMismatch reports whether an Asian multi-byte decoding looks
// like it misinterpreted bytes from a different encoding. Two
// independent patterns, either sufficient:
//
// Pattern A (katakana flood, checked only when the candidate carries
// the Katakana flag, i.e. shift_jis): more than 30% of the code points
// in the half-width katakana block. Genuine Japanese text uses mostly
// full-width kana and kanji; a half-width flood is the signature of
// another Asian encoding's bytes.
//
// Pattern B (ASCII+CJK mixture): at least two ASCII letters mixed with
// CJK ideographs while CJK stays below half the text. Genuine CJK text
// is overwhelmingly CJK with only punctuation-level ASCII.
func crossAsianMismatch(text string, katakana bool) bool {
	runes := 0
	halfWidth := 0
	asciiRunes := 0
	asciiLetters := 0
	cjk := 0
	for _, r := range text {
		runes++
		switch {
		case r >= halfWidthKatakanaLo && r <= halfWidthKatakanaHi:
			halfWidth++
		case r < 128:
			asciiRunes++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				asciiLetters++
			}
		case r >= cjkLo && r <= cjkHi:
			cjk++
		}
	}
	if runes <= minHeuristicLen {
		return false
	}

	n := float64(runes)
	if katakana && float64(halfWidth)/n > katakanaRatioLimit {
		return true
	}
	if asciiRunes > 0 && cjk > 0 {
		if asciiLetters >= minASCIILetters && float64(cjk)/n < cjkRatioFloor {
			return true
		}
	}
	return false
}
