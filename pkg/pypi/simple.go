/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: simple.go
Description: Reader for the PEP 503 simple index. Parses the anchor list of
/simple/<name>/ into distribution links so callers can enumerate artifacts
without the JSON API.
*/

package pypi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SimpleLink is one anchor from a simple index project page.
type SimpleLink struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// SimpleLinks fetches and parses the simple index page for a project.
// Fragment markers (#sha256=...) are stripped from the link targets.
func (c *Client) SimpleLinks(ctx context.Context, name string) ([]SimpleLink, error) {
	endpoint := fmt.Sprintf("%s/simple/%s/", c.baseURL, url.PathEscape(CanonicalName(name)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrProjectNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("index returned status %d for %s", resp.StatusCode, endpoint)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse simple index page: %w", err)
	}

	var links []SimpleLink
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		if i := strings.IndexByte(href, '#'); i >= 0 {
			href = href[:i]
		}
		filename := strings.TrimSpace(sel.Text())
		if filename == "" || href == "" {
			return
		}
		links = append(links, SimpleLink{Filename: filename, URL: href})
	})
	return links, nil
}
