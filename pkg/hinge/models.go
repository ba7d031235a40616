package hinge

import "encoding/json"

// Subject is a recommended or standout profile reference: the stable
// identity plus the short-lived token required to act on it this cycle.
type Subject struct {
	SubjectID   string `json:"subjectId"`
	RatingToken string `json:"ratingToken"`
}

// Feed is one group of subjects in a recommendations response.
type Feed struct {
	Subjects []Subject `json:"subjects"`
}

// RecommendationsResponse is the response from the recommendations endpoint.
type RecommendationsResponse struct {
	Feeds []Feed `json:"feeds"`
}

// Subjects flattens all feeds into a single subject list.
func (r *RecommendationsResponse) Subjects() []Subject {
	var out []Subject
	for _, feed := range r.Feeds {
		out = append(out, feed.Subjects...)
	}
	return out
}

// StandoutsResponse is the response from the standouts endpoint.
type StandoutsResponse struct {
	Status     string    `json:"status"`
	Expiration string    `json:"expiration"`
	Free       []Subject `json:"free"`
	Paid       []Subject `json:"paid"`
}

// Subjects returns the free and paid standouts as a single list.
func (r *StandoutsResponse) Subjects() []Subject {
	out := make([]Subject, 0, len(r.Free)+len(r.Paid))
	out = append(out, r.Free...)
	out = append(out, r.Paid...)
	return out
}

// Transcription carries the transcript of a voice prompt answer.
type Transcription struct {
	Transcript string `json:"transcript"`
}

// Answer is a single prompt answer on a public profile. Text answers carry
// Response; voice answers carry a media URL, waveform and transcription.
type Answer struct {
	QuestionID    string        `json:"questionId"`
	Type          string        `json:"type"`
	Response      string        `json:"response"`
	URL           string        `json:"url,omitempty"`
	Waveform      []float64     `json:"waveform,omitempty"`
	Transcription Transcription `json:"transcription,omitempty"`
}

// Photo is a single profile image with its CDN identifiers.
type Photo struct {
	URL       string `json:"url"`
	CdnID     string `json:"cdnId"`
	ContentID string `json:"contentId"`
}

// Profile is the profile body of a public user. Answers and photos are
// typed; every other attribute the API returns is kept verbatim in
// Attributes so callers can persist it without modeling the whole schema.
type Profile struct {
	Answers    []Answer
	Photos     []Photo
	Attributes map[string]json.RawMessage
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if answers, ok := raw["answers"]; ok {
		if err := json.Unmarshal(answers, &p.Answers); err != nil {
			return err
		}
		delete(raw, "answers")
	}
	if photos, ok := raw["photos"]; ok {
		if err := json.Unmarshal(photos, &p.Photos); err != nil {
			return err
		}
		delete(raw, "photos")
	}
	p.Attributes = raw
	return nil
}

func (p Profile) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(p.Attributes)+2)
	for k, v := range p.Attributes {
		out[k] = v
	}
	if p.Answers != nil {
		out["answers"] = p.Answers
	}
	if p.Photos != nil {
		out["photos"] = p.Photos
	}
	return json.Marshal(out)
}

// PublicProfile is one entry in a public users response.
type PublicProfile struct {
	IdentityID string  `json:"identityId"`
	Profile    Profile `json:"profile"`
}

// LikeContent is the optional content block attached to a like. Exactly one
// of comment, photo or prompt is populated; construct values through
// CommentContent, PhotoContent or PromptContent.
type LikeContent struct {
	comment string
	photo   *likePhoto
	prompt  *likePrompt
}

type likePhoto struct {
	ContentID string `json:"contentId"`
	Comment   string `json:"comment"`
}

type likePrompt struct {
	QuestionID string `json:"questionId"`
	Response   string `json:"response"`
}

// CommentContent builds a like content block carrying only a comment.
func CommentContent(comment string) *LikeContent {
	return &LikeContent{comment: comment}
}

// PhotoContent builds a like content block targeting a photo.
func PhotoContent(contentID, comment string) *LikeContent {
	return &LikeContent{photo: &likePhoto{ContentID: contentID, Comment: comment}}
}

// PromptContent builds a like content block targeting a prompt answer.
func PromptContent(questionID, response string) *LikeContent {
	return &LikeContent{prompt: &likePrompt{QuestionID: questionID, Response: response}}
}

func (c *LikeContent) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, 1)
	switch {
	case c.photo != nil:
		out["photo"] = c.photo
	case c.prompt != nil:
		out["prompt"] = c.prompt
	case c.comment != "":
		out["comment"] = c.comment
	}
	return json.Marshal(out)
}

// LikeOptions configures a like action. SubjectID and RatingToken are
// required; the zero values of the remaining fields select the defaults the
// mobile app sends.
type LikeOptions struct {
	SubjectID     string
	RatingToken   string
	Content       *LikeContent
	InitiatedWith string // default "standard"
	Origin        string // default "compatibles"
	HasPairing    bool
}

// likePayload is the exact wire shape of a rate request.
type likePayload struct {
	RatingID      string       `json:"ratingId"`
	RatingToken   string       `json:"ratingToken"`
	SubjectID     string       `json:"subjectId"`
	SessionID     string       `json:"sessionId"`
	Rating        string       `json:"rating"`
	Origin        string       `json:"origin"`
	HasPairing    bool         `json:"hasPairing"`
	Created       string       `json:"created"`
	InitiatedWith string       `json:"initiatedWith"`
	Content       *LikeContent `json:"content,omitempty"`
}

// MessageOptions configures a chat message send.
type MessageOptions struct {
	MatchMessage bool
	Origin       string // default "Native Chat"
	MessageType  string // default "message"
	AYS          *bool  // default true
}

type messageData struct {
	Message string `json:"message"`
}

// messagePayload is the exact wire shape of a message send request.
type messagePayload struct {
	SubjectID    string      `json:"subjectId"`
	MatchMessage bool        `json:"matchMessage"`
	Origin       string      `json:"origin"`
	DedupID      string      `json:"dedupId"`
	MessageData  messageData `json:"messageData"`
	MessageType  string      `json:"messageType"`
	AYS          bool        `json:"ays"`
}

// Session is the credential set produced by a completed SMS login.
type Session struct {
	Token     string `json:"token"`
	PlayerID  string `json:"playerId"`
	SessionID string `json:"sessionId"`
}
