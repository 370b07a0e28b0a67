package browser

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultAllowedDomains keeps navigation on WhatsApp hosts
var DefaultAllowedDomains = []string{"whatsapp.com", "*.whatsapp.com"}

// URLPolicy restricts where a tab may navigate. Patterns are exact hosts,
// "*.example.com" or ".example.com" (both match the apex and subdomains).
// Local addresses are refused unless listed explicitly.
type URLPolicy struct {
	AllowedDomains []string
}

// NewURLPolicy creates a policy; an empty list selects DefaultAllowedDomains
func NewURLPolicy(domains []string) URLPolicy {
	if len(domains) == 0 {
		domains = DefaultAllowedDomains
	}
	return URLPolicy{AllowedDomains: domains}
}

// Check returns a *BrowserError when the URL may not be opened
func (p URLPolicy) Check(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return &BrowserError{
			Code:    ErrCodeSecurity,
			Message: fmt.Sprintf("invalid URL %q", raw),
			Err:     err,
		}
	}

	if u.Scheme != "https" && u.Scheme != "http" {
		return &BrowserError{
			Code:    ErrCodeSecurity,
			Message: fmt.Sprintf("scheme %q is not allowed", u.Scheme),
		}
	}

	host := strings.ToLower(u.Hostname())
	for _, pattern := range p.AllowedDomains {
		if matchDomain(host, strings.ToLower(pattern)) {
			return nil
		}
	}

	message := fmt.Sprintf("domain not in allowed list: %s", host)
	if isLocalhost(host) {
		message = "localhost URLs are not allowed"
	}
	return &BrowserError{Code: ErrCodeSecurity, Message: message}
}

func isLocalhost(host string) bool {
	return host == "localhost" ||
		host == "::1" ||
		host == "0.0.0.0" ||
		strings.HasPrefix(host, "127.") ||
		strings.HasSuffix(host, ".localhost")
}

// matchDomain checks if a host matches a domain pattern
func matchDomain(host, pattern string) bool {
	if host == pattern {
		return true
	}

	// Wildcard match (*.example.com)
	if strings.HasPrefix(pattern, "*.") {
		suffix := pattern[2:]
		return strings.HasSuffix(host, "."+suffix) || host == suffix
	}

	// Subdomain match (.example.com)
	if strings.HasPrefix(pattern, ".") {
		return strings.HasSuffix(host, pattern) || host == pattern[1:]
	}

	return false
}
