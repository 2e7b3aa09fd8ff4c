package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// Source produces the text to analyze. Failures are *ExtractionError values.
type Source interface {
	Text(ctx context.Context) (string, error)
}

// FileSource reads a file through ParseFile.
type FileSource string

func (p FileSource) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &ExtractionError{Source: string(p), Err: err}
	}
	parsed, err := ParseFile(string(p))
	if err != nil {
		return "", err
	}
	return parsed.Text, nil
}

// ReaderSource reads UTF-8 text from R, at most MaxBytes when positive.
type ReaderSource struct {
	Name     string
	R        io.Reader
	MaxBytes int64
}

func (s ReaderSource) Text(ctx context.Context) (string, error) {
	name := s.Name
	if name == "" {
		name = "reader"
	}
	if err := ctx.Err(); err != nil {
		return "", &ExtractionError{Source: name, Err: err}
	}
	if s.R == nil {
		return "", &ExtractionError{Source: name, Err: errors.New("no reader")}
	}

	r := s.R
	if s.MaxBytes > 0 {
		r = io.LimitReader(r, s.MaxBytes+1)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", &ExtractionError{Source: name, Err: fmt.Errorf("read: %w", err)}
	}
	if s.MaxBytes > 0 && int64(len(raw)) > s.MaxBytes {
		return "", &ExtractionError{Source: name, Err: fmt.Errorf("input exceeds %d bytes", s.MaxBytes)}
	}
	text, err := parsePlain(raw)
	if err != nil {
		return "", &ExtractionError{Source: name, Err: err}
	}
	return text, nil
}

// StringSource returns itself. It exists so callers can treat literal text
// like any other source.
type StringSource string

func (s StringSource) Text(context.Context) (string, error) {
	if !utf8.ValidString(string(s)) {
		return "", &ExtractionError{Source: "string", Err: errors.New("text is not valid UTF-8")}
	}
	return string(s), nil
}
