// Package frontmatter splits `---` delimited YAML front matter from Markdown/MDX bodies.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a front matter
// delimiter but never closed it.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// Block is the result of splitting a document.
//
// When Present is false, Header is nil and Body is the full input.
type Block struct {
	Header  []byte
	Body    []byte
	Present bool
	Newline string
}

// Split separates YAML front matter from the body.
//
// The opening delimiter must be the first line of the document. Both LF and
// CRLF line endings are recognized; the style is taken from the first line break.
func Split(content []byte) (Block, error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return Block{Body: content, Newline: nl}, nil
	}

	start := len(open)
	closeLine := []byte("---" + nl)
	if bytes.HasPrefix(content[start:], closeLine) {
		return Block{Header: []byte{}, Body: content[start+len(closeLine):], Present: true, Newline: nl}, nil
	}
	if bytes.Equal(content[start:], []byte("---")) {
		return Block{Header: []byte{}, Body: []byte{}, Present: true, Newline: nl}, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter at EOF without a trailing newline still counts.
		tail := []byte(nl + "---")
		if bytes.HasSuffix(content[start:], tail) {
			end := len(content) - len(tail)
			return Block{Header: content[start : end+len(nl)], Body: []byte{}, Present: true, Newline: nl}, nil
		}
		return Block{Body: content, Newline: nl}, ErrMissingClosingDelimiter
	}

	headerEnd := start + idx + len(nl)
	bodyStart := start + idx + len(closeSeq)
	return Block{Header: content[start:headerEnd], Body: content[bodyStart:], Present: true, Newline: nl}, nil
}

// ParseYAML parses raw YAML front matter (without delimiters) into a map.
func ParseYAML(header []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(header)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(header, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
