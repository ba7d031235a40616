package scraper

import (
	"net/url"

	"hingescraper/pkg/hinge"
)

// HingeAPI is the subset of the Hinge client the orchestrator depends on.
type HingeAPI interface {
	Recommendations(activeToday, newHere bool) (*hinge.RecommendationsResponse, error)
	Standouts() (*hinge.StandoutsResponse, error)
	PublicProfiles(ids []string) ([]hinge.PublicProfile, error)
}

// MediaFetcher downloads raw image bytes from the media CDN.
type MediaFetcher interface {
	GetImage(imagePath string, params url.Values) ([]byte, error)
}
