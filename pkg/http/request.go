package http

import (
	"net"
	"net/http"
	"strings"
)

// ClientKey returns the identifier used to bucket login attempts: the first
// entry of X-Forwarded-For when present, otherwise the transport-level peer
// address with the port stripped.
//
// The forwarded header is client-controlled when no proxy sits in front of
// the service; that only lets an attacker spread attempts across buckets,
// never collapse someone else's bucket into a lockout they didn't earn.
func ClientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first != "" {
			return first
		}
	}

	return remoteAddr(r)
}

// remoteAddr extracts the IP address from RemoteAddr (removing port if present)
func remoteAddr(r *http.Request) string {
	if r.RemoteAddr != "" {
		// RemoteAddr may include port: "ip:port"
		if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			return ip
		}
		return r.RemoteAddr
	}
	return "unknown"
}
