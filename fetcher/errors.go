package fetcher

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the distinguishable fetch failure kinds. Callers
// match with errors.Is; HTTPError carries the status and matches with
// errors.As.
var (
	ErrInvalidURL = errors.New("invalid url: scheme and host are required")
	ErrConnection = errors.New("could not connect to host")
	ErrTimeout    = errors.New("request timed out")
	ErrBlocked    = errors.New("blocked by robots.txt")
)

// HTTPError reports a non-2xx response from the target site.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	switch e.Status {
	case http.StatusForbidden:
		return "got status 403: the website is likely blocking scraper requests"
	case http.StatusNotFound:
		return "got status 404: page not found"
	default:
		return fmt.Sprintf("got status %d from the website", e.Status)
	}
}
