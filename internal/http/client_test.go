package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/handiism/bandcamp-explorer/internal/logger"
)

func testClient(maxRedirects int) *Client {
	cfg := DefaultClientConfig()
	cfg.ConnectTimeout = 5 * time.Second
	cfg.ReadTimeout = 5 * time.Second
	cfg.MaxRedirects = maxRedirects
	return NewClient(cfg, logger.Discard())
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q): %v", raw, err)
	}
	return u
}

// redirectServer serves /hop/N, which redirects to /hop/N-1 until N is 0.
func redirectServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/hop/"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if n == 0 {
			fmt.Fprint(w, "final")
			return
		}
		codes := []int{http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther}
		w.Header().Set("Location", fmt.Sprintf("/hop/%d", n-1))
		w.WriteHeader(codes[n%len(codes)])
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_RedirectCeiling(t *testing.T) {
	srv := redirectServer(t)
	client := testClient(10)

	tests := []struct {
		name    string
		hops    int
		wantErr bool
	}{
		{name: "no redirect", hops: 0},
		{name: "nine redirects", hops: 9},
		{name: "ten redirects", hops: 10},
		{name: "eleven redirects", hops: 11, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := mustParse(t, fmt.Sprintf("%s/hop/%d", srv.URL, tt.hops))
			body, final, err := client.GetString(context.Background(), u)

			if tt.wantErr {
				if !errors.Is(err, ErrTooManyRedirects) {
					t.Fatalf("expected ErrTooManyRedirects, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if body != "final" {
				t.Errorf("body = %q, want %q", body, "final")
			}
			if final.Path != "/hop/0" {
				t.Errorf("final URL = %s, want path /hop/0", final)
			}
		})
	}
}

func TestClient_RedirectAcrossServers(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "moved here")
	}))
	defer target.Close()

	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL+"/landing", http.StatusMovedPermanently)
	}))
	defer origin.Close()

	body, final, err := testClient(10).GetString(context.Background(), mustParse(t, origin.URL+"/start"))
	if err != nil {
		t.Fatalf("GetString: %v", err)
	}
	if body != "moved here" {
		t.Errorf("body = %q", body)
	}
	if final.String() != target.URL+"/landing" {
		t.Errorf("final = %s, want %s", final, target.URL+"/landing")
	}
}

func TestClient_UntrustedCertificateDowngrade(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "secure")
	}))
	defer srv.Close()

	body, _, err := testClient(10).GetString(context.Background(), mustParse(t, srv.URL))
	if err != nil {
		t.Fatalf("expected downgrade to succeed, got %v", err)
	}
	if body != "secure" {
		t.Errorf("body = %q, want %q", body, "secure")
	}
}

func TestClient_HTTPToHTTPSRedirect(t *testing.T) {
	tlsSrv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "over tls")
	}))
	defer tlsSrv.Close()

	plain := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, tlsSrv.URL+r.URL.Path, http.StatusFound)
	}))
	defer plain.Close()

	body, final, err := testClient(10).GetString(context.Background(), mustParse(t, plain.URL+"/album/x"))
	if err != nil {
		t.Fatalf("GetString: %v", err)
	}
	if body != "over tls" || final.Scheme != "https" {
		t.Errorf("got body %q at %s", body, final)
	}
}

func TestClient_StatusCodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/"))
		w.WriteHeader(code)
	}))
	defer srv.Close()

	client := testClient(10)
	for _, code := range []int{http.StatusNotFound, http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusInternalServerError} {
		t.Run(strconv.Itoa(code), func(t *testing.T) {
			_, _, err := client.GetString(context.Background(), mustParse(t, fmt.Sprintf("%s/%d", srv.URL, code)))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := StatusCode(err); got != code {
				t.Errorf("StatusCode(err) = %d, want %d", got, code)
			}
		})
	}
}

func TestClient_ConnectionFailureHasNoStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, _, err := testClient(10).GetString(context.Background(), mustParse(t, addr))
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	if got := StatusCode(err); got != 0 {
		t.Errorf("StatusCode(err) = %d, want 0", got)
	}
}

func TestClient_OpenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	if err := os.WriteFile(path, []byte("<html>file</html>"), 0644); err != nil {
		t.Fatal(err)
	}

	client := testClient(10)

	body, _, err := client.GetString(context.Background(), &url.URL{Scheme: "file", Path: path})
	if err != nil {
		t.Fatalf("GetString(file): %v", err)
	}
	if body != "<html>file</html>" {
		t.Errorf("body = %q", body)
	}

	if _, err := client.Open(context.Background(), &url.URL{Scheme: "file", Path: dir}); err == nil {
		t.Error("opening a directory should fail")
	}
	if _, err := client.Open(context.Background(), &url.URL{Scheme: "file", Path: filepath.Join(dir, "missing")}); err == nil {
		t.Error("opening a missing file should fail")
	}
}

func TestClient_UnsupportedProtocol(t *testing.T) {
	_, err := testClient(10).Open(context.Background(), mustParse(t, "ftp://example.com/file"))
	if !errors.Is(err, ErrUnsupportedProtocol) {
		t.Errorf("expected ErrUnsupportedProtocol, got %v", err)
	}
}

func TestClient_UserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	if _, _, err := testClient(10).GetString(context.Background(), mustParse(t, srv.URL)); err != nil {
		t.Fatal(err)
	}
	if got != "BandcampExplorer" {
		t.Errorf("User-Agent = %q", got)
	}
}

func TestClient_DownloadFile(t *testing.T) {
	payload := strings.Repeat("x", 4096)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		fmt.Fprint(w, payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "out.mp3")
	var last int64
	err := testClient(10).DownloadFile(context.Background(), mustParse(t, srv.URL), dest, func(written, total int64) {
		last = written
	})
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != len(payload) || last != int64(len(payload)) {
		t.Errorf("wrote %d bytes, progress %d, want %d", len(data), last, len(payload))
	}
}
