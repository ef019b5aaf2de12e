package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/remu"
)

// body is the acquired byte stream plus what the transport says about it.
type body struct {
	io.ReadSeekCloser
	size        int64
	contentType string
}

// memFile serves a fetched response body from memory.
type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func (l *Loader) openFile(ctx context.Context, path string) (*body, error) {
	if err := ctx.Err(); err != nil {
		return nil, aborted(remu.OpOpenFile, path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, remu.NewError(remu.OpOpenFile, path, remu.ErrNotFound, err)
		}
		return nil, remu.NewError(remu.OpOpenFile, path, remu.ErrIO, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, remu.NewError(remu.OpReadFile, path, remu.ErrIO, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, remu.NewError(remu.OpReadFile, path, remu.ErrIO, errors.New("is a directory"))
	}
	return &body{ReadSeekCloser: f, size: info.Size()}, nil
}

func (l *Loader) fetch(ctx context.Context, rawURL string) (*body, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, remu.NewError(remu.OpFetch, rawURL, remu.ErrNetwork, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, remu.NewError(remu.OpFetch, rawURL, remu.ErrNetwork,
			fmt.Errorf("unsupported scheme %q", u.Scheme))
	}

	reqCtx := ctx
	if l.opts.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, remu.NewError(remu.OpFetch, rawURL, remu.ErrNetwork, err)
	}
	if l.opts.UserAgent != "" {
		req.Header.Set("User-Agent", l.opts.UserAgent)
	}

	resp, err := l.opts.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, aborted(remu.OpFetch, rawURL, ctx.Err())
		}
		return nil, remu.NewError(remu.OpFetch, rawURL, remu.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, remu.NewError(remu.OpFetch, rawURL, remu.ErrNetwork,
			fmt.Errorf("unexpected status: %s", resp.Status))
	}

	var r io.Reader = resp.Body
	if l.opts.MaxBytes > 0 {
		if resp.ContentLength > l.opts.MaxBytes {
			return nil, tooLarge(rawURL, l.opts.MaxBytes)
		}
		r = io.LimitReader(resp.Body, l.opts.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		if ctx.Err() != nil {
			return nil, aborted(remu.OpFetch, rawURL, ctx.Err())
		}
		return nil, remu.NewError(remu.OpFetch, rawURL, remu.ErrNetwork, err)
	}
	if l.opts.MaxBytes > 0 && int64(len(data)) > l.opts.MaxBytes {
		return nil, tooLarge(rawURL, l.opts.MaxBytes)
	}

	return &body{
		ReadSeekCloser: memFile{bytes.NewReader(data)},
		size:           int64(len(data)),
		contentType:    resp.Header.Get("Content-Type"),
	}, nil
}

func tooLarge(origin string, limit int64) error {
	return remu.NewError(remu.OpFetch, origin, remu.ErrNetwork,
		fmt.Errorf("response exceeds %s", humanize.IBytes(uint64(limit))))
}

func aborted(op remu.Op, origin string, cause error) error {
	return remu.NewError(op, origin, remu.ErrAborted, cause)
}
