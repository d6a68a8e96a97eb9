/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: checks.go
Description: File-level analysis for rendered archive members. Computes the
basic details shown alongside a file view: size, content digest, line count,
and an extension-based type hint.
*/

package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"
)

// Details describes one archive member for the file view.
type Details struct {
	Path      string `json:"path"`
	Size      int    `json:"size"`
	SHA256    string `json:"sha256"`
	LineCount int    `json:"line_count"`
	TypeHint  string `json:"type_hint"`
}

// typeHints maps common member extensions to a display label. Anything
// not listed falls back to the bare extension.
var typeHints = map[string]string{
	".py":   "Python source",
	".pyi":  "Python stub",
	".pyx":  "Cython source",
	".c":    "C source",
	".h":    "C header",
	".txt":  "plain text",
	".md":   "Markdown",
	".rst":  "reStructuredText",
	".cfg":  "config",
	".ini":  "config",
	".toml": "TOML",
	".json": "JSON",
	".yaml": "YAML",
	".yml":  "YAML",
	".xml":  "XML",
	".html": "HTML",
	".so":   "shared object",
	".pyd":  "Python extension",
}

// BasicDetails computes the display metadata for one member.
func BasicDetails(memberPath string, data []byte) Details {
	return Details{
		Path:      memberPath,
		Size:      len(data),
		SHA256:    digest(data),
		LineCount: countLines(data),
		TypeHint:  hintFor(memberPath),
	}
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// countLines counts newline-terminated lines plus a trailing partial
// line, so "a\nb" is two lines and "a\n" is one.
func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	count := 0
	for _, b := range data {
		if b == '\n' {
			count++
		}
	}
	if data[len(data)-1] != '\n' {
		count++
	}
	return count
}

func hintFor(memberPath string) string {
	ext := strings.ToLower(path.Ext(memberPath))
	if hint, ok := typeHints[ext]; ok {
		return hint
	}
	if ext == "" {
		return "file"
	}
	return strings.TrimPrefix(ext, ".")
}
