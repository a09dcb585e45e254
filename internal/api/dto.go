package api

import (
	"time"

	"github.com/handiism/bandcamp-explorer/internal/model"
	"github.com/handiism/bandcamp-explorer/internal/search"
)

type SubmitResponse struct {
	ID string `json:"id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type TaskResponse struct {
	ID        string          `json:"id"`
	State     string          `json:"state"`
	Status    string          `json:"status"`
	Processed int             `json:"processed"`
	Total     int             `json:"total"`
	StartedAt string          `json:"started_at"`
	Params    search.Params   `json:"params"`
	Error     string          `json:"error,omitempty"`
	Result    *ResultResponse `json:"result,omitempty"`
}

type ResultResponse struct {
	Found     int               `json:"found"`
	Loaded    int               `json:"loaded"`
	Failed    int               `json:"failed"`
	Cancelled bool              `json:"cancelled"`
	Releases  []ReleaseResponse `json:"releases"`
}

type ReleaseResponse struct {
	URL          string          `json:"url"`
	Artist       string          `json:"artist"`
	Title        string          `json:"title"`
	ReleaseDate  string          `json:"release_date,omitempty"`
	PublishDate  string          `json:"publish_date,omitempty"`
	Tags         []string        `json:"tags"`
	DownloadType string          `json:"download_type"`
	Price        string          `json:"price"`
	Duration     int64           `json:"duration"`
	ArtworkURL   string          `json:"artwork_url,omitempty"`
	Compilation  bool            `json:"compilation"`
	Tracks       []TrackResponse `json:"tracks"`
}

type TrackResponse struct {
	Number   int    `json:"number"`
	Artist   string `json:"artist"`
	Title    string `json:"title"`
	Duration int64  `json:"duration"`
	AudioURL string `json:"audio_url,omitempty"`
}

const timeFormat = "2006-01-02T15:04:05Z07:00"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeFormat)
}

// NewTaskResponse describes task. The result is included when withResult
// is set and the task has ended.
func NewTaskResponse(task *search.Task, withResult bool) TaskResponse {
	processed, total := task.Progress()
	resp := TaskResponse{
		ID:        task.ID(),
		State:     task.State().String(),
		Status:    task.Status(),
		Processed: processed,
		Total:     total,
		StartedAt: task.StartedAt().Format(timeFormat),
		Params:    task.Params(),
	}

	result, err := task.Result()
	if err != nil {
		resp.Error = err.Error()
	}
	if withResult && result != nil {
		r := NewResultResponse(result)
		resp.Result = &r
	}
	return resp
}

func NewResultResponse(r *search.Result) ResultResponse {
	resp := ResultResponse{
		Found:     r.Found,
		Loaded:    r.Loaded(),
		Failed:    r.Failed,
		Cancelled: r.Cancelled,
		Releases:  make([]ReleaseResponse, 0, len(r.Releases)),
	}
	for _, rel := range r.Releases {
		resp.Releases = append(resp.Releases, NewReleaseResponse(rel))
	}
	return resp
}

func NewReleaseResponse(r *model.Release) ReleaseResponse {
	resp := ReleaseResponse{
		Artist:       r.Artist(),
		Title:        r.Title(),
		PublishDate:  formatDate(r.PublishDate()),
		Tags:         r.Tags(),
		DownloadType: r.DownloadType().String(),
		Price:        r.Price().String(),
		Duration:     r.Duration().Seconds(),
		ArtworkURL:   r.ArtworkURL(),
		Compilation:  r.IsCompilation(),
		Tracks:       make([]TrackResponse, 0, r.TrackCount()),
	}
	if src := r.Source(); src != nil {
		resp.URL = src.String()
	}
	if date, ok := r.ReleaseDate(); ok {
		resp.ReleaseDate = formatDate(date)
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	for _, t := range r.Tracks() {
		resp.Tracks = append(resp.Tracks, TrackResponse{
			Number:   t.Number,
			Artist:   t.Artist,
			Title:    t.Title,
			Duration: t.Duration.Seconds(),
			AudioURL: t.AudioURL,
		})
	}
	return resp
}
