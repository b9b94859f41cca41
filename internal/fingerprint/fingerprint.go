// Package fingerprint derives a stable pseudonymous identity token from
// request metadata. The token stands in for a login: the same browser behind
// the same address always maps to the same identity, and the original IP is
// not recoverable from the token.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
)

// Length is the number of hex characters kept from the digest.
const Length = 32

// Sentinels used when a metadata field is absent.
const (
	fallbackAddr  = "127.0.0.1"
	fallbackAgent = "unknown"
)

// Metadata is the request tuple the fingerprint is derived from.
type Metadata struct {
	IP             string
	UserAgent      string
	AcceptLanguage string
	AcceptEncoding string
	Connection     string
}

// Derive hashes the metadata tuple into a fixed-length lowercase hex token.
// It is a pure function: the same tuple always yields the same token.
func Derive(m Metadata) string {
	if m.IP == "" {
		m.IP = fallbackAddr
	}
	if m.UserAgent == "" {
		m.UserAgent = fallbackAgent
	}
	data := strings.Join([]string{m.IP, m.UserAgent, m.AcceptLanguage, m.AcceptEncoding, m.Connection}, "|")
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])[:Length]
}

// FromRequest extracts the metadata tuple from an HTTP request and derives
// the fingerprint. A forwarded-for header takes precedence over the
// transport-level address, using only its first comma-separated value.
func FromRequest(r *http.Request) string {
	return Derive(Metadata{
		IP:             clientIP(r),
		UserAgent:      headerOr(r, "User-Agent", fallbackAgent),
		AcceptLanguage: r.Header.Get("Accept-Language"),
		AcceptEncoding: r.Header.Get("Accept-Encoding"),
		Connection:     r.Header.Get("Connection"),
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
		if first != "" {
			return first
		}
	}
	if r.RemoteAddr == "" {
		return fallbackAddr
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func headerOr(r *http.Request, key, fallback string) string {
	if v := r.Header.Get(key); v != "" {
		return v
	}
	return fallback
}

var displayAdjectives = []string{
	"Tech", "Smart", "Creative", "Digital", "Pro", "Expert", "Quick", "Modern",
	"Bright", "Sharp", "Swift", "Cool", "Alpha", "Beta", "Gamma", "Delta",
}

var displayNouns = []string{
	"User", "Developer", "Designer", "Reviewer", "Tester", "Builder", "Maker", "Creator",
	"Coder", "Hacker", "Ninja", "Wizard", "Master", "Guru", "Expert", "Pioneer",
}

// DisplayName maps a fingerprint to a stable human-readable pseudonym,
// e.g. "SwiftReviewer042". The same fingerprint always yields the same name.
func DisplayName(fp string) string {
	if len(fp) < 8 {
		fp = fp + strings.Repeat("0", 8-len(fp))
	}
	hash, err := strconv.ParseUint(fp[:8], 16, 64)
	if err != nil {
		hash = 0
	}
	adj := displayAdjectives[hash%uint64(len(displayAdjectives))]
	noun := displayNouns[(hash/uint64(len(displayAdjectives)))%uint64(len(displayNouns))]
	return fmt.Sprintf("%s%s%03d", adj, noun, hash%1000)
}
