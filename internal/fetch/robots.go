package fetch

import (
	"context"
	"net/http"
	"time"

	"github.com/temoto/robotstxt"
)

// robotsTimeout bounds the robots.txt fetch; a slow robots endpoint should not
// stall the whole scrape.
const robotsTimeout = 5 * time.Second

// Allowed checks robots.txt at the given origin and reports whether the site
// permits crawling "/" for our user agent. An unreachable or malformed
// robots.txt defaults to allowed.
func Allowed(ctx context.Context, origin string) bool {
	robotsURL := origin + "/robots.txt"

	result, err := URL(ctx, robotsURL, &Options{
		Timeout:   robotsTimeout,
		UserAgent: DefaultUserAgent,
	})
	if err != nil || result.StatusCode != http.StatusOK {
		return true
	}

	robots, err := robotstxt.FromString(result.HTML)
	if err != nil {
		return true
	}

	return robots.TestAgent("/", DefaultUserAgent)
}
