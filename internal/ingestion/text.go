// Package ingestion reads report documents from disk and exposes their visible text
// line by line for classification and parsing.
package ingestion

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/redshirtrob/blb-extractor/internal/types"
)

// ReadReport reads the report at path. Content that is not valid UTF-8 is decoded
// using the charset declared in the document, falling back to windows-1252.
func ReadReport(path string) (*types.RawReport, *Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	content, encoding, err := decode(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	report := &types.RawReport{Filename: path, Content: content}
	metadata := NewMetadata(report, encoding)

	return report, metadata, nil
}

func decode(data []byte) (string, string, error) {
	if utf8.Valid(data) {
		return string(data), "utf-8", nil
	}

	enc, name, _ := charset.DetermineEncoding(data, "text/html")
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", name, err
	}
	return string(decoded), name, nil
}

// ReportLines returns the visible text of a report as lines with line endings
// normalized and trailing whitespace removed. For HTML input the text of all <pre>
// blocks is used, or the <body> text when there are none; other input is used as is.
func ReportLines(content string) []string {
	text := content
	if looksLikeHTML(content) {
		if extracted, ok := htmlText(content); ok {
			text = extracted
		}
	}

	text = NormalizeLineEndings(text)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\u00a0")
	}
	return lines
}

// ReportTitle returns the <title> text of an HTML report, or "".
func ReportTitle(content string) string {
	if !looksLikeHTML(content) {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// NormalizeLineEndings converts CRLF and bare CR line endings to LF.
func NormalizeLineEndings(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}

func htmlText(content string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", false
	}

	doc.Find("script, style, noscript").Remove()

	var buf bytes.Buffer
	doc.Find("pre").Each(func(i int, s *goquery.Selection) {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(s.Text())
	})
	if buf.Len() > 0 {
		return buf.String(), true
	}

	return doc.Find("body").Text(), true
}

func looksLikeHTML(content string) bool {
	head := strings.ToLower(content)
	if len(head) > 4096 {
		head = head[:4096]
	}
	return strings.Contains(head, "<html") || strings.Contains(head, "<pre") ||
		strings.Contains(head, "<body") || strings.Contains(head, "<!doctype html")
}
