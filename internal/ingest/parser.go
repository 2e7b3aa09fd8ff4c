// Package ingest turns files and streams into plain text for analysis.
package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ErrExtraction is matched by every *ExtractionError via errors.Is.
var ErrExtraction = errors.New("text extraction failed")

type ExtractionError struct {
	Source string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract text from %s: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func (e *ExtractionError) Is(target error) bool { return target == ErrExtraction }

type Parsed struct {
	Title      string
	SourcePath string
	Format     string
	Text       string
}

// ParseFile extracts the text of a .txt, .md, .pdf or .docx file. Plain text
// is returned verbatim so match offsets line up with the file; PDF and DOCX
// text has its whitespace normalised.
func ParseFile(path string) (*Parsed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ExtractionError{Source: path, Err: fmt.Errorf("read file: %w", err)}
	}

	ext := strings.ToLower(filepath.Ext(path))
	var text string
	switch ext {
	case ".txt", ".md", ".text":
		text, err = parsePlain(raw)
	case ".docx":
		text, err = parseDOCX(raw)
		text = normalizeWhitespace(text)
	case ".pdf":
		text, err = parsePDF(path)
		text = normalizeWhitespace(text)
	default:
		err = fmt.Errorf("unsupported file type: %q", ext)
	}
	if err != nil {
		return nil, &ExtractionError{Source: path, Err: err}
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &Parsed{
		Title:      title,
		SourcePath: path,
		Format:     strings.TrimPrefix(ext, "."),
		Text:       text,
	}, nil
}

func parsePlain(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(raw) {
		return "", errors.New("file is not valid UTF-8")
	}
	return string(raw), nil
}

func parseDOCX(raw []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open docx zip: %w", err)
	}

	var xmlData []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, openErr := f.Open()
			if openErr != nil {
				return "", fmt.Errorf("open document.xml: %w", openErr)
			}
			defer rc.Close()
			xmlData, err = io.ReadAll(rc)
			if err != nil {
				return "", fmt.Errorf("read document.xml: %w", err)
			}
			break
		}
	}
	if len(xmlData) == 0 {
		return "", fmt.Errorf("word/document.xml not found")
	}

	decoder := xml.NewDecoder(bytes.NewReader(xmlData))
	var b strings.Builder
	inText := false
	for {
		tok, tokenErr := decoder.Token()
		if tokenErr == io.EOF {
			break
		}
		if tokenErr != nil {
			return "", fmt.Errorf("decode document.xml: %w", tokenErr)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "p":
				if b.Len() > 0 {
					b.WriteString("\n")
				}
			case "tab":
				b.WriteString(" ")
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}

func parsePDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, pageErr := p.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("no extractable text found in pdf")
	}
	return b.String(), nil
}

func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.Join(strings.Fields(line), " ")
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
