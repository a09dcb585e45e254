// Package model defines the core data structures used throughout
// bandcamp-explorer.
//
// # Release
//
// Release is the immutable record parsed from one album or track page.
// It is built once from a ReleaseInfo and never modified afterwards:
//
//	release := model.NewRelease(model.ReleaseInfo{
//	    Artist: "Artist",
//	    Title:  "Title",
//	    Source: sourceURL,
//	    Tracks: tracks,
//	})
//	fmt.Println(release.Duration()) // sum of track durations
//
// Two releases are equal when they share an Identity, the lowercased
// host and path of their source URL.
//
// # Value types
//
// Price holds a non-negative amount with two decimals and Time holds a
// non-negative number of whole seconds:
//
//	p, _ := model.NewPrice(7.5) // "7.50"
//	t := model.NewTime(245.3)   // "04:05"
package model
