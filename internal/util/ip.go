package util

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP extracts the client address for a request. Forwarded-for headers
// are only honored when the deployment declares itself behind a proxy,
// otherwise anyone could spoof their address with a crafted header.
func ClientIP(r *http.Request, behindProxy bool) string {
	if behindProxy {
		// Format: client, proxy1, proxy2 — first value is the client
		xForwardedFor := r.Header.Get("X-Forwarded-For")
		if xForwardedFor != "" {
			ips := strings.Split(xForwardedFor, ",")
			if len(ips) > 0 {
				clientIP := strings.TrimSpace(ips[0])
				if clientIP != "" {
					return clientIP
				}
			}
		}

		xRealIP := r.Header.Get("X-Real-IP")
		if xRealIP != "" {
			return strings.TrimSpace(xRealIP)
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return ip
	}

	return r.RemoteAddr
}
