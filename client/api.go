// Package client is the Go rendition of the Restora browser client: a
// local-first cache of every collection, a timeout-bounded remote access
// layer, and per-collection reconcilers that keep the two approximately
// consistent while several devices edit the same data.
package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const (
	defaultReadTimeout  = 500 * time.Millisecond
	defaultWriteTimeout = 700 * time.Millisecond
)

// Fallback produces the value an API call resolves to when the remote
// side is unreachable, times out or answers with a non-2xx status.
type Fallback func() []byte

// API wraps network access to the collection store. Calls never return an
// error: every failure is logged and converted to the fallback (nil when
// none is given). There are no retries — the next sync trigger is the
// retry.
type API struct {
	base         string
	client       *http.Client
	log          zerolog.Logger
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewAPI(base string, log zerolog.Logger) *API {
	return &API{
		base:         base,
		client:       &http.Client{},
		log:          log,
		readTimeout:  defaultReadTimeout,
		writeTimeout: defaultWriteTimeout,
	}
}

func (a *API) Get(ctx context.Context, path string, fallback Fallback) []byte {
	return a.do(ctx, http.MethodGet, path, nil, a.readTimeout, fallback)
}

func (a *API) Post(ctx context.Context, path string, body any, fallback Fallback) []byte {
	return a.do(ctx, http.MethodPost, path, body, a.writeTimeout, fallback)
}

func (a *API) Put(ctx context.Context, path string, body any, fallback Fallback) []byte {
	return a.do(ctx, http.MethodPut, path, body, a.writeTimeout, fallback)
}

func (a *API) Patch(ctx context.Context, path string, body any, fallback Fallback) []byte {
	return a.do(ctx, http.MethodPatch, path, body, a.writeTimeout, fallback)
}

// Delete reports whether the remote accepted the deletion (204 counts as
// success). Failures are logged, never returned.
func (a *API) Delete(ctx context.Context, path string) bool {
	ctx, cancel := context.WithTimeout(ctx, a.readTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, a.base+path, nil)
	if err != nil {
		a.log.Warn().Err(err).Str("path", path).Msg("api delete failed")
		return false
	}
	res, err := a.client.Do(req)
	if err != nil {
		a.log.Warn().Err(err).Str("path", path).Msg("api delete failed, keeping local state")
		return false
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		a.log.Warn().Int("status", res.StatusCode).Str("path", path).Msg("api delete rejected")
		return false
	}
	return true
}

func (a *API) do(ctx context.Context, method, path string, body any, timeout time.Duration, fallback Fallback) []byte {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := gojson.Marshal(body)
		if err != nil {
			a.log.Warn().Err(err).Str("path", path).Msg("api request encode failed")
			return resolve(fallback)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.base+path, reader)
	if err != nil {
		a.log.Warn().Err(err).Str("path", path).Msg("api request build failed")
		return resolve(fallback)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := a.client.Do(req)
	if err != nil {
		// Timeout cancels the in-flight request; the caller still gets a
		// resolved fallback, never an error.
		a.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("api call failed, falling back to local data")
		return resolve(fallback)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, res.Body)
		a.log.Warn().Int("status", res.StatusCode).Str("method", method).Str("path", path).Msg("api call rejected, falling back to local data")
		return resolve(fallback)
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		a.log.Warn().Err(err).Str("path", path).Msg("api response read failed")
		return resolve(fallback)
	}
	return raw
}

func resolve(fallback Fallback) []byte {
	if fallback != nil {
		return fallback()
	}
	return nil
}
