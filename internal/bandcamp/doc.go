// Package bandcamp discovers and parses Bandcamp items.
//
// The package has two halves:
//
//  1. Resource fetching: a Strategy turns a query into search, tag or direct
//     resource URLs and a Fetcher pulls the album and track links off them.
//  2. Item parsing: a Parser downloads an album or track page and builds an
//     immutable model.Release from its embedded item data.
//
// # Resource Fetching
//
//	strategy, _ := bandcamp.NewStrategy(bandcamp.TypeTag, bandcamp.DefaultSiteURL)
//	fetcher := bandcamp.NewFetcher(client, log)
//	links, err := fetcher.FetchLinks(ctx, strategy, "dark ambient", 1)
//
// Links are lowercased, absolute and unique per page.
//
// # Item Parsing
//
//	parser := bandcamp.NewParser(client, bandcamp.DefaultArtworkSize, log)
//	release, err := parser.Parse(ctx, links[0])
//
// Compilations are detected from the artist name, the title and the tags.
// On those, track titles of the form "Artist - Title" are split into track
// artist and title. Single artist releases are split only when the track
// link suggests the raw title names another artist.
package bandcamp
