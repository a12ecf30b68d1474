// Package catalog reads game details from a store page.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var (
	ErrInvalidURL = errors.New("invalid store url")
	ErrIncomplete = errors.New("store page lacks required fields")
	ErrUpstream   = errors.New("store page unavailable")
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36"

// maxField matches the width of the games.title and games.maker columns.
const maxField = 100

var (
	spaces       = regexp.MustCompile(`\s+`)
	developerRow = regexp.MustCompile(`Developer:\s*(.+?)\s*(?:Publisher:|Franchise:|Release Date:|$)`)
)

type Entry struct {
	Title string
	Maker string
	URL   string
}

// Fetcher only requests pages on the hosts it was built with.
type Fetcher struct {
	client *http.Client
	hosts  map[string]struct{}
	log    *slog.Logger
}

func New(timeout time.Duration, allowedHosts []string, log *slog.Logger) *Fetcher {
	hosts := make(map[string]struct{}, len(allowedHosts))
	for _, h := range allowedHosts {
		hosts[strings.ToLower(h)] = struct{}{}
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if _, ok := hosts[strings.ToLower(req.URL.Hostname())]; !ok {
					return fmt.Errorf("redirect to %s: %w", req.URL.Host, ErrInvalidURL)
				}
				if len(via) >= 5 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
		hosts: hosts,
		log:   log,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Entry, error) {
	const op = "catalog.Fetch"

	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%s: %q: %w", op, rawURL, ErrInvalidURL)
	}

	if _, ok := f.hosts[strings.ToLower(u.Hostname())]; !ok {
		return nil, fmt.Errorf("%s: host %q not allowed: %w", op, u.Hostname(), ErrInvalidURL)
	}

	q := u.Query()
	q.Set("l", "english")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")
	req.AddCookie(&http.Cookie{Name: "Steam_Language", Value: "english"})
	req.AddCookie(&http.Cookie{Name: "birthtime", Value: "473385601"})
	req.AddCookie(&http.Cookie{Name: "wants_mature_content", Value: "1"})

	resp, err := f.client.Do(req)
	if errors.Is(err, ErrInvalidURL) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: status %d: %w", op, resp.StatusCode, ErrUpstream)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entry := parse(doc)
	entry.URL = rawURL

	if entry.Title == "" {
		f.log.Warn("store page without title", slog.String("url", rawURL))
		return nil, fmt.Errorf("%s: %q: %w", op, rawURL, ErrIncomplete)
	}

	return entry, nil
}

func parse(doc *goquery.Document) *Entry {
	e := &Entry{}

	e.Title = clean(doc.Find("#appHubAppName, .apphub_AppName").First().Text())
	if e.Title == "" {
		if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
			e.Title = clean(og)
		}
	}

	e.Maker = clean(doc.Find("#developers_list a").First().Text())
	if e.Maker == "" {
		details := clean(doc.Find("div.details_block, #genresAndManufacturer").Text())
		if m := developerRow.FindStringSubmatch(details); len(m) > 1 {
			e.Maker = strings.TrimSpace(m[1])
		}
	}

	e.Title = truncate(e.Title, maxField)
	e.Maker = truncate(e.Maker, maxField)

	return e
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}

func clean(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}
