package httputil

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"estate_browser/config"
)

type Clients struct {
	Records *http.Client // record service, proxied when configured
}

func NewClients(cfg *config.RecordServiceConfig) (*Clients, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 4

	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &Clients{
		Records: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}, nil
}
