/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: plausibility.go
Description: Text plausibility filter for the Inspector decoding engine. Rejects
decodings whose control-character density marks them as binary data that merely
survived a decode table, rather than genuine text.
*/

package charset

// maxControlRatio is the highest tolerated share of control code
// points in a decoding that still counts as text. Genuine text has
// occasional control characters; binary data decoded through a
// permissive table produces them densely.
const maxControlRatio = 0.3

// isLikelyText reports whether a decoded string looks like valid text
// rather than misdecoded binary data.
//
// An empty string is vacuously text. Otherwise the ratio of control
// code points (scalar value below 32, excluding TAB, LF and CR) to
// total code points must not exceed maxControlRatio. The comparison is
// inclusive: exactly 30% control characters still passes.
func isLikelyText(text string) bool {
	if text == "" {
		return true
	}

	total := 0
	control := 0
	for _, r := range text {
		total++
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			control++
		}
	}

	return float64(control)/float64(total) <= maxControlRatio
}
