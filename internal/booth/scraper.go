// Package booth lists the item pages linked from a BOOTH shop page.
package booth

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"

	"github.com/30Piraten/notify-booth-update/internal/logging"
)

const itemPathPrefix = "/items/"

// Scraper collects item links from a shop page.
type Scraper struct {
	logger logrus.FieldLogger
}

func NewScraper(logger logrus.FieldLogger) *Scraper {
	return &Scraper{logger: logging.OrStandard(logger)}
}

// ItemURLs returns the absolute, de-duplicated, sorted item URLs linked
// from shopURL.
func (s *Scraper) ItemURLs(ctx context.Context, shopURL string) ([]string, error) {
	// a fresh collector per call, colly refuses to revisit a URL
	collector := colly.NewCollector(colly.StdlibContext(ctx))

	seen := map[string]struct{}{}
	collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
		href := e.Attr("href")
		if !strings.HasPrefix(href, itemPathPrefix) {
			return
		}
		seen[e.Request.AbsoluteURL(href)] = struct{}{}
	})

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Cache-Control", "no-cache, no-store")
	})

	collector.OnResponse(func(r *colly.Response) {
		s.logger.WithFields(logrus.Fields{
			"url":    r.Request.URL.String(),
			"status": r.StatusCode,
		}).Debug("shop page fetched")
	})

	if err := collector.Visit(shopURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", shopURL, err)
	}

	urls := make([]string, 0, len(seen))
	for u := range seen {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	return urls, nil
}

// NormalizeURLs rewrites stored item URLs into the form ItemURLs returns.
// Sets written by joining the shop URL and the href carry a doubled slash
// when the shop URL ends in one.
func NormalizeURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil {
			out = append(out, raw)
			continue
		}
		for strings.Contains(u.Path, "//") {
			u.Path = strings.ReplaceAll(u.Path, "//", "/")
		}
		u.RawPath = ""
		out = append(out, u.String())
	}
	return out
}

// NewURLs returns the entries of current that are not in known, in the
// order they appear in current.
func NewURLs(known, current []string) []string {
	knownSet := make(map[string]struct{}, len(known))
	for _, k := range known {
		knownSet[k] = struct{}{}
	}

	fresh := make([]string, 0)
	for _, c := range current {
		if _, ok := knownSet[c]; ok {
			continue
		}
		fresh = append(fresh, c)
	}
	return fresh
}
