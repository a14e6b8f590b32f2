package netutil

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// NormalizeIP accepts "ip", "ip:port" or "[ipv6]:port" and returns the bare
// address without zone. ok is false when no address could be parsed.
func NormalizeIP(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if ap, err := netip.ParseAddrPort(raw); err == nil {
		return ap.Addr().WithZone("").String(), true
	}
	host := raw
	if h, _, err := net.SplitHostPort(raw); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr.WithZone("").String(), true
	}
	return raw, false
}

// ClientIP returns the caller address for logging. Forwarding headers are
// honoured first; only deploy behind a proxy that overwrites them.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip, ok := NormalizeIP(first); ok {
			return ip
		}
	}
	if ip, ok := NormalizeIP(r.Header.Get("X-Real-IP")); ok {
		return ip
	}
	if ip, ok := NormalizeIP(r.RemoteAddr); ok {
		return ip
	}
	return r.RemoteAddr
}
