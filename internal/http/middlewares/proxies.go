package middlewares

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/idraxiom/contact-relay/internal/util"
)

// TrustedProxies son las redes cuyos headers X-Forwarded-For / X-Real-IP se
// aceptan. Un *TrustedProxies nil no confía en nadie: la IP es RemoteAddr.
type TrustedProxies struct {
	prefixes []netip.Prefix
}

// ParseTrustedProxies parsea CIDRs o IPs sueltas. Sin entradas devuelve nil.
func ParseTrustedProxies(entries []string) (*TrustedProxies, error) {
	var prefixes []netip.Prefix
	for _, e := range entries {
		if strings.TrimSpace(e) == "" {
			continue
		}
		p, err := util.ParsePrefix(e)
		if err != nil {
			return nil, err
		}
		prefixes = append(prefixes, p)
	}
	if len(prefixes) == 0 {
		return nil, nil
	}
	return &TrustedProxies{prefixes: prefixes}, nil
}

func (tp *TrustedProxies) trusts(a netip.Addr) bool {
	if tp == nil {
		return false
	}
	a = a.Unmap()
	for _, p := range tp.prefixes {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// ClientIP resuelve la IP del cliente. Los headers de forwarding solo se
// leen si el peer directo es un proxy confiable; X-Forwarded-For se recorre
// de derecha a izquierda saltando hops confiables.
func (tp *TrustedProxies) ClientIP(r *http.Request) string {
	peer := ClientIP(r)
	addr, err := netip.ParseAddr(peer)
	if err != nil || !tp.trusts(addr) {
		return peer
	}

	if xf := r.Header.Values("X-Forwarded-For"); len(xf) > 0 {
		hops := strings.Split(strings.Join(xf, ","), ",")
		var last netip.Addr
		for i := len(hops) - 1; i >= 0; i-- {
			a, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				// hop ilegible: nada a su izquierda es confiable
				break
			}
			a = a.Unmap()
			if !tp.trusts(a) {
				return a.String()
			}
			last = a
		}
		if last.IsValid() {
			return last.String()
		}
		return peer
	}

	if xr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return xr.Unmap().String()
	}
	return peer
}
