package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/rpupo63/foodgram-backend/database"
)

const (
	maxPageSize   = 100
	maxPageNumber = 1_000_000
)

// PageResponse is the envelope every paginated listing is returned in
type PageResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// pageFromRequest reads ?page= and ?limit=, falling back to page 1 and defaultSize
func pageFromRequest(r *http.Request, defaultSize int) database.Page {
	page := database.Page{
		Number: queryInt(r, "page", 1),
		Size:   queryInt(r, "limit", defaultSize),
	}
	if page.Number < 1 {
		page.Number = 1
	}
	if page.Number > maxPageNumber {
		page.Number = maxPageNumber
	}
	if page.Size < 1 {
		page.Size = defaultSize
	}
	if page.Size > maxPageSize {
		page.Size = maxPageSize
	}
	return page
}

func newPageResponse[T any](r *http.Request, page database.Page, total int64, results []T) PageResponse[T] {
	if results == nil {
		results = []T{}
	}
	response := PageResponse[T]{Count: total, Results: results}
	if int64(page.Number)*int64(page.Size) < total {
		next := pageURL(r, page.Number+1)
		response.Next = &next
	}
	if page.Number > 1 {
		previous := pageURL(r, page.Number-1)
		response.Previous = &previous
	}
	return response
}

func pageURL(r *http.Request, number int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	query := r.URL.Query()
	query.Set("page", strconv.Itoa(number))
	u := url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: query.Encode(),
	}
	return u.String()
}

// queryInt parses an integer query parameter, returning def when absent or malformed
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// queryFlag reports whether a boolean-ish query parameter is set ("1" or "true")
func queryFlag(r *http.Request, name string) bool {
	switch r.URL.Query().Get(name) {
	case "1", "true", "True":
		return true
	}
	return false
}
