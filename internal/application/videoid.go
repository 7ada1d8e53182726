package application

import (
	"regexp"

	"github.com/ericfisherdev/commentpanel/internal/domain/model"
)

// videoIDPatterns are tried in order: watch URL query parameter, short link,
// embed path.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[?&]v=([^&#]+)`),
	regexp.MustCompile(`youtu\.be/([^?#/]+)`),
	regexp.MustCompile(`embed/([^?#/]+)`),
}

// ExtractVideoID finds the video id in a page URL. It returns
// model.ErrContextUnavailable when no known URL shape matches.
func ExtractVideoID(pageURL string) (string, error) {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(pageURL); m != nil {
			return m[1], nil
		}
	}
	return "", model.ErrContextUnavailable
}
