// Package http opens connections to item pages and resource files.
//
// The Client in this package handles:
//   - file: URLs, opened directly from disk
//   - http: and https: URLs with connect and read timeouts
//   - 301/302/303 redirects, followed manually up to a ceiling,
//     including http to https hops
//   - a one-time retry with certificate checks disabled when a server
//     presents an untrusted certificate chain
//   - an optional client-wide request rate limit
//
// # Basic Usage
//
//	client := http.NewClient(http.DefaultClientConfig(), log)
//
//	// Fetch a page as text; final is the URL after redirects
//	body, final, err := client.GetString(ctx, pageURL)
//	if code := http.StatusCode(err); code == 404 {
//	    // not found
//	}
//
//	// Download a file with progress callback
//	client.DownloadFile(ctx, mp3URL, "/path/to/file.mp3", func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
package http
