package validation

import (
	"net/url"
	"strings"

	"fitforge/exercise-engine/internal/domain"
)

// MediaValidator checks the optional demo video link. It only applies when
// a URL is declared; absence of media is never a finding.
type MediaValidator struct{}

func (MediaValidator) Name() string { return "MediaValidator" }

func (MediaValidator) Priority() int { return 70 }

func (MediaValidator) ShouldApply(ex domain.Exercise) bool {
	return ex.VideoURL != ""
}

func (MediaValidator) Validate(ex domain.Exercise) Report {
	var r Report

	u, err := url.Parse(ex.VideoURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		r.addError("videoUrl", "VIDEO_URL_INVALID",
			"video URL is not a valid absolute URL", SeverityError)
		return r
	}

	if u.Scheme != "https" {
		r.addWarning("videoUrl", "video URL does not use https",
			"serve media over https so clients embed it without mixed-content issues")
	}

	if ext := strings.ToLower(ex.VideoURL); !strings.HasSuffix(ext, ".mp4") &&
		!strings.HasSuffix(ext, ".mov") && !strings.HasSuffix(ext, ".webm") &&
		!strings.Contains(u.Host, "youtube") && !strings.Contains(u.Host, "vimeo") {
		r.addWarning("videoUrl", "video URL has an unrecognized format",
			"use mp4, mov or webm files, or a supported video host")
	}

	return r
}
