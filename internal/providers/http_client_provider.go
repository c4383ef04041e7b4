package providers

import (
	"net"
	"net/http"
	"pbcheck/internal/structures"
	"time"
)

func NewHTTPClientProvider(conf *structures.Config) *http.Client {
	return &http.Client{
		Timeout: conf.Source.Timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        4,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}
}
