// Package platform holds the pieces shared by the Musinsa and Poizon
// clients. Both talk to undocumented web APIs: every request carries
// desktop browser headers, and every parse fails closed so a payload
// change degrades to "not found" instead of a crash.
package platform

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// UserAgent mirrors a current desktop Chrome; the platforms reject
// obviously non-browser clients.
const UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/144.0.0.0 Safari/537.36"

// NewHTTPClient returns the client both adapters use. Timeouts live
// here, at the adapter boundary, not in the comparison engine.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}

// DecodeJSON drains and decodes a response body, rejecting non-2xx
// statuses. The body is read fully so connections can be reused.
func DecodeJSON(resp *http.Response, v any) error {
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.Unmarshal(body, v)
}
