package httpserver

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/streamlens/streamlens/internal/logger"
	"github.com/streamlens/streamlens/internal/manifest"
)

const (
	upstreamTimeout = 15 * time.Second
	maxManifestSize = 4 << 20
)

// ProxyHandler serves /proxy?url=<upstream playlist URL>.
type ProxyHandler struct {
	client *http.Client
	// prefix is the path players use to reach this handler, used when
	// rewriting nested playlist URIs.
	prefix string
}

// NewProxyHandler creates a proxy handler mounted at prefix.
func NewProxyHandler(prefix string) *ProxyHandler {
	return &ProxyHandler{
		client: &http.Client{Timeout: upstreamTimeout},
		prefix: prefix,
	}
}

func (p *ProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	raw := r.URL.Query().Get("url")
	if raw == "" {
		http.Error(w, "missing url parameter", http.StatusBadRequest)
		return
	}

	upstream, err := url.Parse(raw)
	if err != nil || (upstream.Scheme != "http" && upstream.Scheme != "https") {
		http.Error(w, "invalid url parameter", http.StatusBadRequest)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, upstream.String(), nil)
	if err != nil {
		http.Error(w, "invalid url parameter", http.StatusBadRequest)
		return
	}
	req.Header.Set("User-Agent", "streamlens/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		logger.Warn("proxy fetch %s: %v", upstream.Host, err)
		http.Error(w, "upstream fetch failed", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		http.Error(w, fmt.Sprintf("upstream returned %d", resp.StatusCode), http.StatusBadGateway)
		return
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestSize))
	if err != nil {
		http.Error(w, "upstream read failed", http.StatusBadGateway)
		return
	}

	cleaned := manifest.Filter(string(body))
	rewritten := p.rewrite(cleaned, upstream)

	w.Header().Set("Content-Type", "application/vnd.apple.mpegurl")
	w.Header().Set("Cache-Control", "no-cache")
	io.WriteString(w, rewritten)
}

// rewrite resolves URI lines against the upstream base and routes
// nested playlists back through the proxy. Segment URIs are left as
// absolute upstream URLs so media bytes bypass the proxy.
func (p *ProxyHandler) rewrite(playlist string, base *url.URL) string {
	eol := "\n"
	if strings.Contains(playlist, "\r\n") {
		eol = "\r\n"
	}

	lines := strings.Split(playlist, eol)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		ref, err := url.Parse(trimmed)
		if err != nil {
			continue
		}
		resolved := base.ResolveReference(ref)

		if isPlaylistURI(resolved.Path) {
			lines[i] = p.prefix + "?url=" + url.QueryEscape(resolved.String())
		} else {
			lines[i] = resolved.String()
		}
	}
	return strings.Join(lines, eol)
}

func isPlaylistURI(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".m3u8")
}
