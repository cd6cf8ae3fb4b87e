package fetch

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/publicsuffix"
)

// Links fetches pageURL and returns the absolute http and https URLs of
// its anchors, resolved against the page URL, deduplicated and in document
// order. With sameSite set only links sharing the page's registrable
// domain (eTLD+1) are kept.
func (c *Client) Links(ctx context.Context, pageURL string, sameSite bool) ([]string, error) {
	markup, err := c.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return ExtractLinks(pageURL, markup, sameSite)
}

// ExtractLinks returns the anchor links of markup as Links does, without fetching.
func ExtractLinks(pageURL, markup string, sameSite bool) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil || !IsValidURL(pageURL) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}

	site := ""
	if sameSite {
		site = registrableDomain(base.Hostname())
	}

	seen := make(map[string]struct{})
	links := make([]string, 0)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		link := resolveURL(base, href)
		if link == "" || !IsValidURL(link) {
			return
		}
		if _, ok := seen[link]; ok {
			return
		}
		if sameSite && !isSameSite(link, site) {
			return
		}
		seen[link] = struct{}{}
		links = append(links, link)
	})
	return links, nil
}

// registrableDomain returns the eTLD+1 of host, or the lowercased host
// itself when it has none (IP addresses, localhost).
func registrableDomain(host string) string {
	host = strings.ToLower(host)
	if net.ParseIP(host) != nil {
		return host
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}

// isSameSite reports whether link belongs to the registrable domain site.
func isSameSite(link, site string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return registrableDomain(u.Hostname()) == site
}
