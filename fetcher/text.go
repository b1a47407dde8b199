package fetcher

import (
	"bytes"
	"io"
	"net/url"
	"strings"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/cnosuke/fetch-analytics/types"
	"github.com/cockroachdb/errors"
	"github.com/go-shiori/go-readability"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// NormalizeText returns the response body as UTF-8 text, decoding it with
// the charset declared in the Content-Type header (or sniffed from the body).
// Invalid sequences are replaced with U+FFFD.
func NormalizeText(resp *types.FetchResponse) string {
	if utf8.Valid(resp.Body) && !declaresNonUTF8(resp.ContentType) {
		return string(resp.Body)
	}

	r, err := charset.NewReader(bytes.NewReader(resp.Body), resp.ContentType)
	if err != nil {
		zap.S().Warnw("charset detection failed, using raw body", "url", resp.URL, "error", err)
		return strings.ToValidUTF8(string(resp.Body), "�")
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		zap.S().Warnw("charset decoding failed, using raw body", "url", resp.URL, "error", err)
		return strings.ToValidUTF8(string(resp.Body), "�")
	}
	return strings.ToValidUTF8(string(decoded), "�")
}

func declaresNonUTF8(contentType string) bool {
	ct := strings.ToLower(contentType)
	idx := strings.Index(ct, "charset=")
	if idx == -1 {
		return false
	}
	cs := strings.Trim(strings.TrimSpace(ct[idx+len("charset="):]), `"'`)
	if semi := strings.Index(cs, ";"); semi != -1 {
		cs = cs[:semi]
	}
	return cs != "utf-8" && cs != "utf8" && cs != "us-ascii"
}

// IsHTML reports whether the content type declares an HTML document.
func IsHTML(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "text/html")
}

// ExtractReadable extracts the main content of an HTML page and converts it
// to Markdown. It falls back to a direct conversion, then to the raw body.
func ExtractReadable(htmlContent, urlStr string) string {
	markdown, err := processHTMLContent(htmlContent, urlStr)
	if err == nil {
		return markdown
	}
	zap.S().Warnw("failed to process HTML content with readability, falling back to basic conversion", "url", urlStr, "error", err)

	converter := md.NewConverter("", true, nil)
	basic, err := converter.ConvertString(htmlContent)
	if err != nil {
		zap.S().Warnw("fallback HTML conversion also failed", "url", urlStr, "error", err)
		return htmlContent
	}
	return basic
}

func processHTMLContent(htmlContent, urlStr string) (string, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse URL")
	}

	article, err := readability.FromReader(strings.NewReader(htmlContent), parsedURL)
	if err != nil {
		return "", errors.Wrap(err, "failed to extract content with readability")
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(article.Content)
	if err != nil {
		return "", errors.Wrap(err, "failed to convert extracted content to Markdown")
	}

	if article.Title != "" {
		markdown = "# " + article.Title + "\n\n" + markdown
	}

	zap.S().Debugw(
		"processed HTML content",
		"url", urlStr,
		"title", article.Title,
		"length", len(markdown),
	)
	return markdown, nil
}
