// Package resource reads remote and local resources named by URL.
//
// URLs may carry protocol options after a "|" separator, in the form
// "http://host/file|Encoding=gzip&Other=value". The only option acted on is
// "Encoding=gzip", which requests and decodes a gzip encoded body.
package resource

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/time/rate"

	"github.com/quay/addonrepo"
)

// Fetcher retrieves resources over HTTP or from a filesystem.
//
// A Fetcher is safe for concurrent use.
type Fetcher struct {
	client  *http.Client
	fs      afero.Fs
	limiter *rate.Limiter
}

// Option configures a Fetcher.
type Option func(*Fetcher) error

// WithClient sets the client used for "http" and "https" URLs.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) error {
		f.client = c
		return nil
	}
}

// WithFS sets the filesystem used for "file" URLs and bare paths.
func WithFS(fs afero.Fs) Option {
	return func(f *Fetcher) error {
		f.fs = fs
		return nil
	}
}

// WithLimiter bounds the rate of remote requests.
func WithLimiter(l *rate.Limiter) Option {
	return func(f *Fetcher) error {
		f.limiter = l
		return nil
	}
}

// New returns a Fetcher configured according to the provided Options.
func New(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		client: http.DefaultClient,
		fs:     afero.NewOsFs(),
	}
	for _, o := range opts {
		if err := o(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Fetch reads the entire resource named by "u".
//
// The body is read until EOF; a declared length is never trusted, so chunked
// responses work.
func (f *Fetcher) Fetch(ctx context.Context, u string) ([]byte, error) {
	rc, err := f.Open(ctx, u)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, &addonrepo.Error{
			Op:      "resource/Fetch",
			Kind:    addonrepo.ErrNetwork,
			Message: fmt.Sprintf("unable to read %q", u),
			Inner:   err,
		}
	}
	return buf.Bytes(), nil
}

// Open returns a reader for the resource named by "u".
//
// The caller must close the returned ReadCloser.
func (f *Fetcher) Open(ctx context.Context, u string) (io.ReadCloser, error) {
	const op = `resource/Open`
	log := zerolog.Ctx(ctx).With().
		Str("component", "resource/Fetcher.Open").
		Logger()

	if err := ctx.Err(); err != nil {
		return nil, addonrepo.Canceled(ctx, op)
	}
	loc, opts := SplitOptions(u)
	gz := opts.Get("Encoding") == "gzip"
	pu, err := url.Parse(loc)
	if err != nil {
		return nil, &addonrepo.Error{
			Op:      op,
			Kind:    addonrepo.ErrInvalid,
			Message: fmt.Sprintf("bad url %q", loc),
			Inner:   err,
		}
	}

	var rc io.ReadCloser
	switch pu.Scheme {
	case "http", "https":
		rc, err = f.openHTTP(ctx, loc, gz)
	case "file":
		rc, err = f.openFile(pu.Path)
	case "":
		rc, err = f.openFile(loc)
	default:
		err = &addonrepo.Error{
			Op:      op,
			Kind:    addonrepo.ErrInvalid,
			Message: fmt.Sprintf("unsupported scheme %q", pu.Scheme),
		}
	}
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("url", loc).
		Bool("gzip", gz).
		Msg("opened resource")
	if !gz {
		return rc, nil
	}
	return gunzip(rc)
}

func (f *Fetcher) openHTTP(ctx context.Context, u string, gz bool) (io.ReadCloser, error) {
	const op = `resource/openHTTP`
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, addonrepo.Canceled(ctx, op)
			}
			return nil, &addonrepo.Error{
				Op:      op,
				Kind:    addonrepo.ErrNetwork,
				Message: "rate limit exceeded",
				Inner:   err,
			}
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &addonrepo.Error{
			Op:      op,
			Kind:    addonrepo.ErrInvalid,
			Message: "unable to construct request",
			Inner:   err,
		}
	}
	if gz {
		// The transport leaves the body encoded when this is set by hand.
		req.Header.Set("Accept-Encoding", "gzip")
	}
	res, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, addonrepo.Canceled(ctx, op)
		}
		return nil, &addonrepo.Error{
			Op:      op,
			Kind:    addonrepo.ErrNetwork,
			Message: fmt.Sprintf("error requesting %q", u),
			Inner:   err,
		}
	}
	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return nil, &addonrepo.Error{
			Op:      op,
			Kind:    addonrepo.ErrNetwork,
			Message: fmt.Sprintf("unexpected response requesting %q: %s", u, res.Status),
		}
	}
	return res.Body, nil
}

func (f *Fetcher) openFile(p string) (io.ReadCloser, error) {
	fi, err := f.fs.Open(p)
	if err != nil {
		return nil, &addonrepo.Error{
			Op:      "resource/openFile",
			Kind:    addonrepo.ErrNetwork,
			Message: fmt.Sprintf("unable to open %q", p),
			Inner:   err,
		}
	}
	return fi, nil
}

// Gunzip decodes "rc" if it starts with the gzip magic number, and passes it
// through otherwise.
func gunzip(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	magic, err := br.Peek(2)
	if err != nil || magic[0] != 0x1f || magic[1] != 0x8b {
		return readCloser{Reader: br, Closer: rc}, nil
	}
	z, err := gzip.NewReader(br)
	if err != nil {
		rc.Close()
		return nil, &addonrepo.Error{
			Op:      "resource/gunzip",
			Kind:    addonrepo.ErrNetwork,
			Message: "bad gzip stream",
			Inner:   err,
		}
	}
	return readCloser{Reader: z, Closer: closerFunc(func() error {
		z.Close()
		return rc.Close()
	})}, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// SplitOptions separates a URL from its protocol options.
func SplitOptions(u string) (string, url.Values) {
	loc, raw, ok := strings.Cut(u, "|")
	if !ok {
		return u, url.Values{}
	}
	v, err := url.ParseQuery(raw)
	if err != nil {
		return loc, url.Values{}
	}
	return loc, v
}

// AddOption appends the protocol option "key=value" to the URL "u".
func AddOption(u, key, value string) string {
	opt := url.QueryEscape(key) + "=" + url.QueryEscape(value)
	if _, raw, ok := strings.Cut(u, "|"); ok {
		if raw == "" {
			return u + opt
		}
		return u + "&" + opt
	}
	return u + "|" + opt
}
