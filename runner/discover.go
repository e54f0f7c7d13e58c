package runner

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DiscoverRoutes fetches the base URL and collects the paths of its internal
// links, always including "/". External hosts, fragments, mailto/tel links
// and asset files are skipped. The result is capped at maxRoutes and sorted
// for deterministic run order.
func DiscoverRoutes(baseURL string, maxRoutes int, timeout time.Duration) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("base URL returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	seen := map[string]bool{"/": true}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if route, ok := internalRoute(base, href); ok {
			seen[route] = true
		}
	})

	routes := make([]string, 0, len(seen))
	for r := range seen {
		routes = append(routes, r)
	}
	sort.Strings(routes)

	if maxRoutes > 0 && len(routes) > maxRoutes {
		routes = routes[:maxRoutes]
	}
	return routes, nil
}

func internalRoute(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "javascript:") {
		return "", false
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if u.Host != "" && u.Host != base.Host {
		return "", false
	}

	path := u.Path
	if path == "" {
		return "", false
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if isAssetPath(path) {
		return "", false
	}
	return path, true
}

func isAssetPath(path string) bool {
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".svg", ".gif", ".webp", ".css", ".js", ".ico", ".pdf", ".xml", ".txt", ".woff", ".woff2"} {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
