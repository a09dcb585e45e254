package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/handiism/bandcamp-explorer/internal/api"
	"github.com/handiism/bandcamp-explorer/internal/bandcamp"
	"github.com/handiism/bandcamp-explorer/internal/config"
	"github.com/handiism/bandcamp-explorer/internal/explorer"
	"github.com/handiism/bandcamp-explorer/internal/logger"
	"github.com/handiism/bandcamp-explorer/internal/search"
)

func main() {
	// Command line flags
	var (
		queryFlag     = flag.String("query", "", "Search text, tag name or page URL")
		typeFlag      = flag.String("type", "search", "Search type: search, tag or direct")
		pagesFlag     = flag.Int("pages", 1, "Number of result pages to scan")
		sortFlag      = flag.String("sort", "", "Sort order: "+strings.Join(search.SortNames(), ", "))
		configFlag    = flag.String("config", "", "Path to config file")
		verboseFlag   = flag.Bool("verbose", false, "Show verbose output")
		jsonFlag      = flag.Bool("json", false, "Print the result as JSON")
		playlistFlag  = flag.Bool("playlist", false, "Write a playlist of the preview streams")
		previewsFlag  = flag.Bool("previews", false, "Save preview MP3s of every release")
		exportDirFlag = flag.String("export-dir", "", "Export directory (overrides config)")
	)

	flag.Parse()

	query := *queryFlag
	if query == "" && flag.NArg() > 0 {
		query = strings.Join(flag.Args(), " ")
	}
	if query == "" {
		fmt.Println("Bandcamp Explorer - Discover releases on Bandcamp")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  bandcamp-explorer -query <text> [options]")
		fmt.Println("  bandcamp-explorer <text> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: bandcamp-explorer-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if *exportDirFlag != "" {
		settings.ExportDir = *exportDirFlag
	}
	if *verboseFlag {
		settings.LogLevel = "debug"
	}

	searchType, err := bandcamp.ParseSearchType(*typeFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	sort := settings.Sort()
	if *sortFlag != "" {
		if sort, err = search.ParseSortBy(*sortFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	log := logger.New(settings.ToLoggerConfig())
	exp, err := explorer.New(settings, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer exp.Close()

	// Handle interrupts
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	task, err := exp.Search(ctx, search.Params{
		Query: query,
		Type:  searchType,
		Pages: *pagesFlag,
		Sort:  sort,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printed := make(chan struct{})
	if *jsonFlag {
		close(printed)
	} else {
		fmt.Println("♪ Bandcamp Explorer")
		fmt.Println(strings.Repeat("━", 40))
		go func() {
			defer close(printed)
			printEvents(task)
		}()
	}

	result, err := task.Wait()
	<-printed
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error during search: %v\n", err)
		os.Exit(1)
	}
	if result.Cancelled {
		fmt.Fprintln(os.Stderr, "\nSearch cancelled.")
		os.Exit(130)
	}

	if *jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(api.NewResultResponse(result)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		printResult(result)
	}

	if *playlistFlag && result.Loaded() > 0 {
		path, err := exp.WritePlaylist(result.Releases, query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing playlist: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Playlist written to %s\n", path)
	}

	if *previewsFlag && result.Loaded() > 0 {
		err := exp.ExportPreviews(ctx, result.Releases, func(event explorer.ProgressEvent) {
			if event.Level == explorer.LevelVerbose && !*verboseFlag {
				return
			}
			fmt.Fprintf(os.Stderr, "%s[%d/%d] %s\n", levelPrefix(event.Level), event.Done, event.Total, event.Message)
		})
		if err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(os.Stderr, "\nExport cancelled.")
				os.Exit(130)
			}
			fmt.Fprintf(os.Stderr, "Error during export: %v\n", err)
			os.Exit(1)
		}
	}
}

func printEvents(task *search.Task) {
	for event := range task.Events() {
		fmt.Fprintf(os.Stderr, "\r%-60s", event.Status)
	}
	fmt.Fprintln(os.Stderr)
}

func printResult(result *search.Result) {
	for i, r := range result.Releases {
		published := "unknown"
		if !r.PublishDate().IsZero() {
			published = r.PublishDate().Format("2006-01-02")
		}
		fmt.Printf("%3d. %s - %s (%s, %s, %s)\n", i+1, r.Artist(), r.Title(), published, r.Duration(), r.DownloadType())
		if src := r.Source(); src != nil {
			fmt.Printf("     %s\n", src)
		}
	}
	fmt.Println(strings.Repeat("━", 40))
	fmt.Printf("Found %d, loaded %d, failed %d\n", result.Found, result.Loaded(), result.Failed)
}

func levelPrefix(level explorer.ProgressLevel) string {
	switch level {
	case explorer.LevelError:
		return "✗ "
	case explorer.LevelWarning:
		return "! "
	case explorer.LevelSuccess:
		return "✓ "
	case explorer.LevelInfo:
		return "› "
	default:
		return "  "
	}
}
