// Package transcript reads ground-truth text and mirrors the page structure
// of lines, words and characters.
package transcript

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Word is the characters of one word, one string per rune.
type Word []string

// Line is the words of one text line.
type Line []Word

// Document is a full transcript.
type Document []Line

// ReadFile reads a transcript as UTF-8, falling back to UTF-16 (BOM aware,
// little endian without one) when the bytes are not valid UTF-8.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	text, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode transcript %s: %w", path, err)
	}
	return Parse(text), nil
}

// Decode converts raw transcript bytes to a string.
func Decode(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))), nil
	}
	dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	out, err := dec.Bytes(data)
	if err != nil {
		return "", fmt.Errorf("utf-16: %w", err)
	}
	return string(out), nil
}

// Parse splits text into lines and single-space separated words. Empty
// words and lines without words are skipped.
func Parse(text string) Document {
	var doc Document
	for _, raw := range splitLines(text) {
		var line Line
		for _, w := range strings.Split(raw, " ") {
			if w == "" {
				continue
			}
			word := make(Word, 0, utf8.RuneCountInString(w))
			for _, r := range w {
				word = append(word, string(r))
			}
			line = append(line, word)
		}
		if len(line) > 0 {
			doc = append(doc, line)
		}
	}
	return doc
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// String joins a word's characters.
func (w Word) String() string {
	return strings.Join(w, "")
}

// String joins the words of a line with single spaces.
func (l Line) String() string {
	words := make([]string, len(l))
	for i, w := range l {
		words[i] = w.String()
	}
	return strings.Join(words, " ")
}

// Format renders the document: words separated by one space, lines by a
// line break.
func (d Document) Format() string {
	lines := make([]string, len(d))
	for i, l := range d {
		lines[i] = l.String()
	}
	return strings.Join(lines, "\n")
}

// CharCount returns the number of characters in the document.
func (d Document) CharCount() int {
	n := 0
	for _, l := range d {
		for _, w := range l {
			n += len(w)
		}
	}
	return n
}

// WriteFile writes the formatted document as UTF-8 with a trailing newline.
func (d Document) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(d.Format()+"\n"), 0644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}
