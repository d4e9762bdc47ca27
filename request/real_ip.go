package request

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/TykTechnologies/kvrouter/headers"
)

// ClientIP returns the address the request originated from. Proxy headers
// are honoured in order X-Real-IP, then the first X-Forwarded-For hop,
// then the peer address of the connection.
func ClientIP(r *http.Request) string {
	forwarded, _, _ := strings.Cut(r.Header.Get(headers.XForwardFor), ",")

	for _, candidate := range []string{r.Header.Get(headers.XRealIP), forwarded} {
		if addr, err := netip.ParseAddr(strings.TrimSpace(candidate)); err == nil {
			return addr.String()
		}
	}

	if peer, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		return peer.Addr().String()
	}
	return r.RemoteAddr
}
