package models

// DefaultPageStatus is assigned to pages created from the structure tree
const DefaultPageStatus = "not_started"

// Flow is a named, ordered grouping of pages owned by the backend
type Flow struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Project string `json:"project"`
	Order   int    `json:"order"`
}

// Page is a screen or unit of work owned by the backend.
// Flow is empty when the page belongs to no flow.
type Page struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Project string `json:"project"`
	Flow    string `json:"flow,omitempty"`
	Status  string `json:"status"`
}
