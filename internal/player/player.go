// Package player holds the helpers a playback client needs: periodic progress
// checkpoints, the skip-intro cue, embed url resolution and a view reporter.
package player

import (
	"regexp"

	"streamhub/proj/internal/domain/models"
)

const DefaultCheckpointInterval = 30 // seconds

// SkipIntro returns the position to jump to when position lies inside the
// intro window of ep. ok is false outside the window or when the episode has
// no intro markers.
func SkipIntro(ep *models.Episode, position float64) (target float64, ok bool) {
	if ep == nil || ep.IntroStart == nil || ep.IntroEnd == nil {
		return 0, false
	}
	start, end := *ep.IntroStart, *ep.IntroEnd
	if end <= start {
		return 0, false
	}
	if position >= start && position < end {
		return end, true
	}
	return 0, false
}

var driveFileID = regexp.MustCompile(`[-\w]{25,}`)

// EmbedURL rewrites a Google Drive share link into its preview player url.
// Other hosts are embedded as is.
func EmbedURL(url string, server models.ServerType) string {
	if url == "" {
		return ""
	}
	if server == models.ServerGoogleDrive {
		id := driveFileID.FindString(url)
		if id == "" {
			id = url
		}
		return "https://drive.google.com/file/d/" + id + "/preview"
	}
	return url
}
