// Package export turns search results into files on disk.
//
// # Playlists
//
// A playlist lists the preview stream of every playable track, in result
// order:
//
//	creator := export.NewPlaylistCreator(export.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist(result.Releases)
//	os.WriteFile("previews.m3u", []byte(content), 0644)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//
// # Preview saving
//
// PreviewSaver downloads the preview MP3s of a release into its own
// folder and, when enabled, writes ID3 tags with embedded cover art:
//
//	saver := export.NewPreviewSaver(client, export.DefaultConfig(), log)
//	paths, err := saver.Save(ctx, release)
package export
