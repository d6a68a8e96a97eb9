/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: plausibility_test.go
Description: Tests for the text plausibility filter. Covers the control-character
density threshold, the inclusive boundary, whitespace exclusions, and the vacuous
empty-string case.
*/

package charset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestIsLikelyText_Empty verifies an empty string is vacuously text
func TestIsLikelyText_Empty(t *testing.T) {
	assert.True(t, isLikelyText(""))
}

// TestIsLikelyText_PlainText verifies ordinary text passes
func TestIsLikelyText_PlainText(t *testing.T) {
	assert.True(t, isLikelyText("def main():\n\treturn 0\r\n"))
	assert.True(t, isLikelyText("Hello, world!"))
}

// TestIsLikelyText_AllowedControls verifies TAB, LF and CR never count
// against the ratio
func TestIsLikelyText_AllowedControls(t *testing.T) {
	assert.True(t, isLikelyText("\t\n\r\t\n\r"))
	assert.True(t, isLikelyText(strings.Repeat("\n", 100)))
}

// TestIsLikelyText_Boundary verifies the comparison is inclusive:
// exactly 30% control characters still passes, anything above fails
func TestIsLikelyText_Boundary(t *testing.T) {
	// 3 control code points out of 10: ratio 0.3, passes.
	assert.True(t, isLikelyText("abcdefg\x01\x02\x03"))

	// 4 out of 10: ratio 0.4, fails.
	assert.False(t, isLikelyText("abcdef\x01\x02\x03\x04"))
}

// TestIsLikelyText_Binary verifies dense control characters are
// rejected
func TestIsLikelyText_Binary(t *testing.T) {
	assert.False(t, isLikelyText("\x00\x01\x02\x03\x04"))
	assert.False(t, isLikelyText(strings.Repeat("\x00", 10)))
}

// TestIsLikelyText_NullBytesCount verifies NUL falls into the control
// count with no special-casing
func TestIsLikelyText_NullBytesCount(t *testing.T) {
	// One NUL among nine letters: 10% control, passes.
	assert.True(t, isLikelyText("abcdefghi\x00"))
}
