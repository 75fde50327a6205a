package extract

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"strings"
	"unicode/utf8"

	"rsc.io/pdf"
)

// MaxContentRunes caps extracted document text so a single upload cannot
// blow up prompt sizes downstream.
const MaxContentRunes = 220_000

var ErrUnsupportedContentType = errors.New("unsupported content type")

// FromUpload extracts plain text from an uploaded document body. PDF and
// text-like content types are supported.
func FromUpload(contentType string, body []byte) (string, error) {
	mediaType := strings.ToLower(strings.TrimSpace(contentType))
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = parsed
	}

	switch {
	case mediaType == "application/pdf":
		return fromPDF(body)
	case mediaType == "text/plain" || mediaType == "text/markdown" || mediaType == "text/csv":
		return trimToRunes(normalize(string(body)), MaxContentRunes), nil
	case strings.HasPrefix(mediaType, "text/"):
		return trimToRunes(normalize(string(body)), MaxContentRunes), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedContentType, mediaType)
	}
}

func fromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	var builder strings.Builder
	runeCount := 0
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		for _, item := range page.Content().Text {
			chunk := strings.TrimSpace(item.S)
			if chunk == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteByte('\n')
				runeCount++
			}
			builder.WriteString(chunk)
			runeCount += utf8.RuneCountInString(chunk)
			if runeCount >= MaxContentRunes {
				return trimToRunes(builder.String(), MaxContentRunes), nil
			}
		}
	}

	return normalize(builder.String()), nil
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func trimToRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
