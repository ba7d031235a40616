package scraper

import (
	"fmt"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"time"

	"hingescraper/pkg/config"
	"hingescraper/pkg/hinge"
	"hingescraper/pkg/logger"
	"hingescraper/pkg/questions"
	"hingescraper/pkg/store"
)

// Source identifies where a batch of profiles was fetched from.
type Source string

const (
	SourceRecommendations Source = "recommendations"
	SourceStandouts       Source = "standouts"
)

// Scraper orchestrates profile fetching, reshaping and persistence. All
// work is sequential; the only suspension point is the politeness sleep
// between scrape cycles.
type Scraper struct {
	api    HingeAPI
	media  MediaFetcher
	config *config.Config
	logger logger.Logger

	// sleep is indirected so tests never block on real delays.
	sleep func(time.Duration)
}

// New creates a new Scraper instance.
func New(cfg *config.Config, api HingeAPI, media MediaFetcher, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Scraper{
		api:    api,
		media:  media,
		config: cfg,
		logger: log,
		sleep:  time.Sleep,
	}
}

// Run scrapes recommendations for the configured number of iterations,
// appending previously-unseen profiles to the accumulated store and
// rewriting the store file after every cycle. The run aborts on the first
// API or persistence error; cycles already flushed to disk are kept.
func (s *Scraper) Run(iterations int) error {
	if iterations <= 0 {
		iterations = s.config.Scrape.Iterations
	}

	questionMap, err := questions.Load(s.config.Scrape.QuestionsFile)
	if err != nil {
		s.logger.WithError(err).Error("failed to load question mapping")
		return err
	}

	st, err := store.Open(s.config.Scrape.OutputFile)
	if err != nil {
		s.logger.WithError(err).Error("failed to open profile store")
		return err
	}

	for i := 0; i < iterations; i++ {
		s.logger.InfoWithFields("starting scrape iteration", map[string]interface{}{
			"iteration":  i + 1,
			"iterations": iterations,
		})

		recs, err := s.api.Recommendations(s.config.Scrape.ActiveToday, s.config.Scrape.NewHere)
		if err != nil {
			s.logger.WithError(err).Error("failed to fetch recommendations")
			return err
		}

		subjects := recs.Subjects()
		if len(subjects) == 0 {
			s.logger.Warn("no subjects found in this iteration")
			continue
		}

		added, dupes, err := s.collect(st, subjects, SourceRecommendations, questionMap)
		if err != nil {
			return err
		}

		s.logger.InfoWithFields("iteration complete", map[string]interface{}{
			"iteration":  i + 1,
			"unique":     added,
			"duplicates": dupes,
			"total":      st.Len(),
		})

		if err := st.Save(); err != nil {
			s.logger.WithError(err).Error("failed to persist profile store")
			return err
		}

		if i < iterations-1 {
			d := s.sleepDuration()
			s.logger.InfoWithFields("sleeping before next scrape", map[string]interface{}{
				"duration": d,
			})
			s.sleep(d)
		}
	}

	s.logger.InfoWithFields("scrape run complete", map[string]interface{}{
		"iterations": iterations,
		"total":      st.Len(),
		"output":     st.Path(),
	})

	return nil
}

// Export performs a one-shot profile export from either the
// recommendations or the standouts source, overwriting outputFile. Unlike
// Run it does not dedupe against previous runs.
func (s *Scraper) Export(source Source, outputFile string) error {
	questionMap, err := questions.Load(s.config.Scrape.QuestionsFile)
	if err != nil {
		s.logger.WithError(err).Error("failed to load question mapping")
		return err
	}

	subjects, err := s.fetchSubjects(source)
	if err != nil {
		return err
	}
	if len(subjects) == 0 {
		s.logger.WarnWithFields("no subjects found", map[string]interface{}{
			"source": string(source),
		})
		return nil
	}

	st := store.New(outputFile)
	if _, _, err := s.collect(st, subjects, source, questionMap); err != nil {
		return err
	}
	if err := st.Save(); err != nil {
		s.logger.WithError(err).Error("failed to write export file")
		return err
	}

	s.logger.InfoWithFields("profile export complete", map[string]interface{}{
		"source":   string(source),
		"profiles": st.Len(),
		"output":   outputFile,
	})

	return nil
}

// DownloadImages fetches the current recommendations and downloads every
// profile photo into a per-user folder under outputDir. Individual photo
// failures are logged and skipped; they never abort the broader run.
func (s *Scraper) DownloadImages(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	s.logger.Info("fetching recommendations")
	recs, err := s.api.Recommendations(s.config.Scrape.ActiveToday, s.config.Scrape.NewHere)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch recommendations")
		return err
	}

	subjects := recs.Subjects()
	if len(subjects) == 0 {
		s.logger.Warn("no subjects found in recommendations")
		return nil
	}

	ids := make([]string, 0, len(subjects))
	for _, sub := range subjects {
		ids = append(ids, sub.SubjectID)
	}

	s.logger.InfoWithFields("fetching profiles", map[string]interface{}{
		"count": len(ids),
	})
	profiles, err := s.api.PublicProfiles(ids)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch profiles")
		return err
	}

	for _, profile := range profiles {
		s.downloadUserImages(profile, outputDir)
	}

	return nil
}

// downloadUserImages downloads all photos for one user into a folder named
// after the identity.
func (s *Scraper) downloadUserImages(profile hinge.PublicProfile, outputDir string) {
	log := s.logger.WithField("identity", profile.IdentityID)

	if len(profile.Profile.Photos) == 0 {
		log.Warn("no photos found for user")
		return
	}

	userDir := filepath.Join(outputDir, profile.IdentityID)
	if err := os.MkdirAll(userDir, 0755); err != nil {
		log.WithError(err).Error("failed to create user directory")
		return
	}

	log.InfoWithFields("downloading images", map[string]interface{}{
		"count": len(profile.Profile.Photos),
	})

	for idx, photo := range profile.Profile.Photos {
		if photo.CdnID == "" {
			log.WarnWithFields("photo has no cdn id", map[string]interface{}{
				"index": idx,
			})
			continue
		}

		ext := path.Ext(photo.URL)
		if ext == "" {
			ext = ".jpg"
		}

		data, err := s.media.GetImage(fmt.Sprintf("image/upload/%s%s", photo.CdnID, ext), nil)
		if err != nil {
			log.WithError(err).WithField("cdn_id", photo.CdnID).Error("failed to download image")
			continue
		}

		imagePath := filepath.Join(userDir, fmt.Sprintf("photo_%d%s", idx, ext))
		if err := os.WriteFile(imagePath, data, 0644); err != nil {
			log.WithError(err).WithField("path", imagePath).Error("failed to save image")
			continue
		}
	}
}

// fetchSubjects gathers identity/token pairs from the given source.
func (s *Scraper) fetchSubjects(source Source) ([]hinge.Subject, error) {
	switch source {
	case SourceStandouts:
		s.logger.Info("fetching standouts")
		standouts, err := s.api.Standouts()
		if err != nil {
			s.logger.WithError(err).Error("failed to fetch standouts")
			return nil, err
		}
		return standouts.Subjects(), nil
	default:
		s.logger.Info("fetching recommendations")
		recs, err := s.api.Recommendations(s.config.Scrape.ActiveToday, s.config.Scrape.NewHere)
		if err != nil {
			s.logger.WithError(err).Error("failed to fetch recommendations")
			return nil, err
		}
		return recs.Subjects(), nil
	}
}

// collect batch-fetches full profiles for the given subjects, reshapes each
// unseen one and inserts it into the store. It returns the number of
// inserted and duplicate profiles.
func (s *Scraper) collect(st *store.Store, subjects []hinge.Subject, source Source, questionMap questions.Map) (added, dupes int, err error) {
	ids := make([]string, 0, len(subjects))
	tokens := make(map[string]string, len(subjects))
	for _, sub := range subjects {
		ids = append(ids, sub.SubjectID)
		tokens[sub.SubjectID] = sub.RatingToken
	}

	s.logger.InfoWithFields("fetching profiles", map[string]interface{}{
		"count": len(ids),
	})
	profiles, err := s.api.PublicProfiles(ids)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch profiles")
		return 0, 0, err
	}

	for _, profile := range profiles {
		if st.Has(profile.IdentityID) {
			dupes++
			continue
		}
		record := reshape(profile, tokens[profile.IdentityID], source, questionMap)
		st.Add(profile.IdentityID, record)
		added++
	}

	return added, dupes, nil
}

// reshape flattens an API profile into the persisted record schema:
// question ids resolved to display text, text and voice answers split, and
// image metadata extracted.
func reshape(profile hinge.PublicProfile, ratingToken string, source Source, questionMap questions.Map) store.ProfileRecord {
	prompts := make([]store.PromptEntry, 0, len(profile.Profile.Answers))
	for _, answer := range profile.Profile.Answers {
		entry := store.PromptEntry{
			Question:   questionMap.Lookup(answer.QuestionID),
			QuestionID: answer.QuestionID,
			Type:       answer.Type,
		}
		if entry.Type == "" {
			entry.Type = "text"
		}
		if entry.Type == "voice" {
			entry.Response = answer.Transcription.Transcript
			entry.VoiceURL = answer.URL
			entry.Waveform = answer.Waveform
		} else {
			entry.Response = answer.Response
		}
		prompts = append(prompts, entry)
	}

	images := make([]store.ImageEntry, 0, len(profile.Profile.Photos))
	for _, photo := range profile.Profile.Photos {
		images = append(images, store.ImageEntry{
			URL:       photo.URL,
			CdnID:     photo.CdnID,
			ContentID: photo.ContentID,
		})
	}

	return store.ProfileRecord{
		ProfileInfo: profile.Profile.Attributes,
		Prompts:     prompts,
		Images:      images,
		Interaction: store.InteractionData{
			SubjectID:   profile.IdentityID,
			RatingToken: ratingToken,
			Source:      string(source),
		},
	}
}

// sleepDuration picks a uniformly random politeness delay within the
// configured window.
func (s *Scraper) sleepDuration() time.Duration {
	min := s.config.Scrape.MinSleep
	max := s.config.Scrape.MaxSleep
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}
