package http

import (
	"net"
	"net/http"
	"strings"
)

// ClientAddrs holds the addresses observed for a request: the peer that
// connected to us and, when a proxy forwarded the request, the original
// client it reported.
type ClientAddrs struct {
	RemoteIP string // IP of the direct peer (proxy or client)
	ProxyIP  string // First hop from X-Forwarded-For, empty when not proxied
}

// ExtractClientAddrs extracts both the remote address and any proxied client
// address from a request. Lockout alerts report both so an operator can tell
// a direct attack from one coming through the load balancer.
func ExtractClientAddrs(r *http.Request) ClientAddrs {
	addrs := ClientAddrs{RemoteIP: remoteAddr(r)}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// X-Forwarded-For can carry multiple hops, take the first valid one
		for _, ip := range strings.Split(xff, ",") {
			ip = strings.TrimSpace(ip)
			if isValidIP(ip) {
				addrs.ProxyIP = ip
				break
			}
		}
	}

	if addrs.ProxyIP == "" {
		if xri := r.Header.Get("X-Real-IP"); xri != "" && isValidIP(xri) {
			addrs.ProxyIP = xri
		}
	}

	return addrs
}

// ClientIP returns the best guess at the real client address: the proxied
// address when present, otherwise the direct peer.
func (a ClientAddrs) ClientIP() string {
	if a.ProxyIP != "" {
		return a.ProxyIP
	}
	return a.RemoteIP
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

// isValidIP checks if a string is a valid IPv4 or IPv6 address
func isValidIP(ip string) bool {
	return net.ParseIP(ip) != nil
}
