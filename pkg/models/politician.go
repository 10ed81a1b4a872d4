package models

// Politician is a canonical, already-known person record that extraction
// candidates are matched against.
type Politician struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Party    *string `json:"party,omitempty"`
	District *string `json:"district,omitempty"`
}

// ParliamentaryGroup is a canonical faction within a conference.
type ParliamentaryGroup struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ConferenceID int64  `json:"conference_id"`
}
