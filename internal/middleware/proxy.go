package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// TrustedProxies installs an IP extractor that honors X-Real-IP and
// X-Forwarded-For only when the direct peer falls inside one of the given
// CIDRs. The service sits behind a reverse proxy in production; without
// this, c.RealIP() would return the proxy address and the per-IP rate
// limits on the credential endpoints would throttle everyone together.
func TrustedProxies(e *echo.Echo, trustedCIDRs []string) {
	e.IPExtractor = trustedIPExtractor(parseCIDRs(trustedCIDRs))
}

// parseCIDRs drops invalid entries silently; this runs once at startup
// with values from our own wiring, not user input.
func parseCIDRs(cidrs []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, cidr := range cidrs {
		if _, network, err := net.ParseCIDR(cidr); err == nil {
			nets = append(nets, network)
		}
	}
	return nets
}

func trustedIPExtractor(trusted []*net.IPNet) echo.IPExtractor {
	return func(req *http.Request) string {
		peer := peerIP(req.RemoteAddr)

		// Forwarding headers are client-controlled unless the request came
		// through one of our own proxies, so an untrusted peer is taken at
		// face value.
		if !cidrsContain(trusted, peer) {
			return peer
		}

		if realIP := strings.TrimSpace(req.Header.Get("X-Real-IP")); realIP != "" {
			return realIP
		}
		// X-Forwarded-For is comma-separated, leftmost entry is the client.
		if xff := req.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if first = strings.TrimSpace(first); first != "" {
				return first
			}
		}
		return peer
	}
}

func peerIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

func cidrsContain(nets []*net.IPNet, ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	for _, network := range nets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
