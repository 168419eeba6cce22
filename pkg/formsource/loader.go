package formsource

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"
)

// Loader fetches form documents by delegating to file, fs.FS, or HTTP
// strategies. HTTP sources stay disabled unless a client or fallback is
// configured, keeping the default offline.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

// LoaderOption mutates loader construction.
type LoaderOption func(*Loader)

// WithFileSystem injects an fs.FS implementation for fs sources.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(l *Loader) {
		l.fs = files
	}
}

// WithHTTPClient injects a custom HTTP client and enables URL sources.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		l.http = client
	}
}

// WithHTTPFallback enables URL sources on a default client with an optional
// request timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(l *Loader) {
		l.allowHTTP = true
		l.timeout = timeout
	}
}

// NewLoader constructs a Loader from the supplied options.
func NewLoader(options ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}

	switch {
	case l.http != nil:
		clone := *l.http
		if l.timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = l.timeout
		}
		l.http = &clone
	case l.allowHTTP:
		l.http = &http.Client{Timeout: l.timeout}
	}
	l.allowHTTP = l.http != nil

	return l
}

// Load fetches a document from the provided source and parses it.
func (l *Loader) Load(ctx context.Context, src Source) (Document, error) {
	if ctx == nil {
		return Document{}, errors.New("formsource: context is required")
	}
	if src == nil {
		return Document{}, errors.New("formsource: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case SourceKindURL:
		if !l.allowHTTP {
			return Document{}, errors.New("formsource: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("formsource: unsupported source kind")
	}
	if err != nil {
		return Document{}, err
	}

	return Parse(data)
}
