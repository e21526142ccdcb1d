// Package textsrc loads raw text from files: it detects the byte encoding,
// converts to UTF-8 and reduces HTML pages to their visible text.
package textsrc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cognicore/docnorm/pkg/docnorm/internalerr"
)

// Options control how a file is decoded.
type Options struct {
	// Encoding is a WHATWG/IANA label such as "windows-1252". Empty means
	// detect.
	Encoding string
	// HTML forces HTML stripping. Files ending in .html, .htm or .xhtml are
	// always stripped.
	HTML bool
}

// Load reads path and returns its text as UTF-8.
func Load(path string, opts Options) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return "", fmt.Errorf("read %s: %w: %v", path, internalerr.ErrNotFound, err)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	if opts.HTML || isHTMLPath(path) {
		text, err := decodeHTML(data, opts.Encoding)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return text, nil
	}

	text, err := Decode(data, opts.Encoding)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return text, nil
}

// Decode converts data to UTF-8. With an empty label the encoding is taken
// from a byte order mark, then UTF-8 validity, then the legacy fallbacks.
func Decode(data []byte, label string) (string, error) {
	if label != "" {
		enc, err := htmlindex.Get(label)
		if err != nil {
			return "", fmt.Errorf("%w: unknown encoding %q", internalerr.ErrInvalidInput, label)
		}
		return decodeWith(data, enc)
	}

	if len(data) == 0 {
		return "", nil
	}

	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return string(data[3:]), nil
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return decodeWith(data[2:], xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM))
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return decodeWith(data[2:], xunicode.UTF16(xunicode.BigEndian, xunicode.IgnoreBOM))
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	for _, enc := range fallbacks {
		res, err := decodeWith(data, enc)
		if err == nil && isReasonableText(res) {
			return res, nil
		}
	}
	return "", fmt.Errorf("%w: undetectable text encoding", internalerr.ErrInvalidInput)
}

// Tried in order when the input is neither marked nor valid UTF-8.
var fallbacks = []encoding.Encoding{
	charmap.Windows1252,
	charmap.ISO8859_15,
}

func decodeWith(data []byte, enc encoding.Encoding) (string, error) {
	res, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return string(res), nil
}

// isReasonableText reports whether more than 90% of the runes are printable.
func isReasonableText(text string) bool {
	if text == "" {
		return false
	}
	printable, total := 0, 0
	for _, r := range text {
		total++
		if r != utf8.RuneError && (unicode.IsPrint(r) || unicode.IsSpace(r)) {
			printable++
		}
	}
	return float64(printable)/float64(total) > 0.9
}

func isHTMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}

func decodeHTML(data []byte, label string) (string, error) {
	var text string
	if label != "" {
		var err error
		if text, err = Decode(data, label); err != nil {
			return "", err
		}
	} else {
		// Honors <meta charset> and BOMs, defaulting to windows-1252.
		enc, _, _ := charset.DetermineEncoding(data, "text/html")
		var err error
		if text, err = decodeWith(data, enc); err != nil {
			return "", err
		}
	}
	return StripHTML(text), nil
}

// StripHTML returns the visible text of an HTML fragment or page. Block
// elements end with a newline so sentence splitters see their boundaries.
func StripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.ElementNode && skipElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			buf.WriteByte('\n')
		}
	}
	extractText(doc)

	return collapseBlankLines(strings.TrimSpace(buf.String()))
}

var skipElements = map[string]bool{"script": true, "style": true, "noscript": true, "template": true, "head": true}

var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "section": true, "article": true,
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		l = strings.TrimRightFunc(l, unicode.IsSpace)
		if l == "" {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
