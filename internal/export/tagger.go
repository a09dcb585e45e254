package export

import (
	"strconv"

	"github.com/bogem/id3v2"
	"github.com/handiism/bandcamp-explorer/internal/model"
)

// tagPreview writes ID3 tags for track into the MP3 at path.
//
// Frames written: TPE1 (track artist), TPE2 (release artist), TALB, TIT2,
// TRCK, TYER when the release date is known, TCON from the first tag and
// an APIC front cover when artwork is not nil.
func tagPreview(path string, r *model.Release, track model.Track, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	artist := track.Artist
	if artist == "" {
		artist = r.Artist()
	}
	tag.SetArtist(artist)
	tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, r.Artist())
	tag.SetAlbum(r.Title())
	tag.SetTitle(track.Title)

	tag.DeleteFrames("TRCK")
	if track.Number > 0 {
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, strconv.Itoa(track.Number))
	}

	tag.DeleteFrames("TYER")
	if date, ok := r.ReleaseDate(); ok {
		tag.SetYear(date.Format("2006"))
	}

	tags := r.Tags()
	if len(tags) > 0 {
		tag.SetGenre(tags[0])
	} else {
		tag.SetGenre("")
	}

	if artwork != nil {
		// Remove any existing cover pictures
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     artwork,
		})
	}

	return tag.Save()
}
