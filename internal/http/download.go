package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
)

// ProgressWriter wraps a writer to track download progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, conn.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes, -1 when unknown.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// DownloadFile streams u to destPath with an optional progress callback.
//
// The file is created (or truncated if it exists). On failure the partial
// file is removed.
func (c *Client) DownloadFile(ctx context.Context, u *url.URL, destPath string, onProgress func(written, total int64)) error {
	conn, err := c.Open(ctx, u)
	if err != nil {
		return err
	}
	defer conn.Close()

	if conn.StatusCode() != http.StatusOK {
		return &FetchError{URL: conn.URL().String(), StatusCode: conn.StatusCode(), Err: errors.New(http.StatusText(conn.StatusCode()))}
	}

	file, err := os.Create(destPath)
	if err != nil {
		return err
	}

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    conn.ContentLength,
			OnUpdate: onProgress,
		}
	}

	_, err = io.Copy(writer, conn.Body)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(destPath)
		return &FetchError{URL: conn.URL().String(), StatusCode: conn.StatusCode(), Err: err}
	}
	return nil
}

// DownloadBytes downloads a small file, such as cover art, into memory.
func (c *Client) DownloadBytes(ctx context.Context, u *url.URL) ([]byte, error) {
	data, _, err := c.Get(ctx, u)
	return data, err
}
