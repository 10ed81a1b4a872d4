package models

import "time"

// Meeting is a scheduled sitting of a conference. Minutes ingestion runs
// against the pre-extracted text blob when one is available.
type Meeting struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Date       *time.Time `json:"date,omitempty"`
	GCSTextURI *string    `json:"gcs_text_uri,omitempty"`
	GCSPdfURI  *string    `json:"gcs_pdf_uri,omitempty"`
}

// Minutes is the transcript record for a meeting. Exactly one per meeting,
// created lazily on the first successful ingestion.
type Minutes struct {
	ID          int64      `json:"id"`
	MeetingID   int64      `json:"meeting_id"`
	URL         *string    `json:"url,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Conversation is a single utterance within one Minutes. Sequence numbers
// are 1-based and contiguous within their Minutes once ingestion succeeds.
type Conversation struct {
	ID             int64     `json:"id"`
	MinutesID      int64     `json:"minutes_id"`
	SequenceNumber int       `json:"sequence_number"`
	SpeakerName    string    `json:"speaker_name"`
	Comment        string    `json:"comment"`
	SpeakerID      *int64    `json:"speaker_id,omitempty"` // nil: unknown speaker
	CreatedAt      time.Time `json:"created_at"`
}

// Speaker is a deduplicated utterer. The dedup key is the
// (normalized name, party, position) triple; the ingestion pipeline never
// updates a speaker after creation.
type Speaker struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"` // normalized
	Party        *string   `json:"party,omitempty"`
	Position     *string   `json:"position,omitempty"`
	PoliticianID *int64    `json:"politician_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
