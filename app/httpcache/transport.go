package httpcache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const DefaultTTL = 24 * time.Hour

const keyPrefix = "yearbook:v1:"

// Transport is an http.RoundTripper that keeps successful GET responses in
// memory for a fixed TTL.
type Transport struct {
	base  http.RoundTripper
	store *gocache.Cache
	ttl   time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

type entry struct {
	status     int
	statusText string
	header     http.Header
	body       []byte
}

func NewTransport(base http.RoundTripper, ttl time.Duration) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Transport{
		base:  base,
		store: gocache.New(ttl, ttl/2),
		ttl:   ttl,
	}
}

// Key returns the cache key for a request URL.
func Key(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return keyPrefix + hex.EncodeToString(sum[:])
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.base.RoundTrip(req)
	}

	key := Key(req.URL.String())
	if cached, found := t.store.Get(key); found {
		t.hits.Add(1)
		return cached.(*entry).response(req), nil
	}
	t.misses.Add(1)

	res, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return res, nil
	}

	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	e := &entry{
		status:     res.StatusCode,
		statusText: res.Status,
		header:     res.Header.Clone(),
		body:       body,
	}
	t.store.Set(key, e, t.ttl)
	slog.Debug("Response cached", "url", req.URL.String(), "bytes", len(body))

	return e.response(req), nil
}

func (e *entry) response(req *http.Request) *http.Response {
	return &http.Response{
		Status:        e.statusText,
		StatusCode:    e.status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        e.header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(e.body)),
		ContentLength: int64(len(e.body)),
		Request:       req,
	}
}

func (t *Transport) Stats() Stats {
	return Stats{
		Entries: t.store.ItemCount(),
		Hits:    t.hits.Load(),
		Misses:  t.misses.Load(),
	}
}
