package scryfall

import "fmt"

// BulkData describes one downloadable bulk dataset.
type BulkData struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	DownloadURI string `json:"download_uri"`
	UpdatedAt   string `json:"updated_at"`
	Size        int64  `json:"size"`
}

// BulkDataList is the response of the bulk-data endpoint.
type BulkDataList struct {
	Data []BulkData `json:"data"`
}

// BulkCard is the subset of Scryfall's card object the catalog builder
// needs to assign identities and eligibility tags.
type BulkCard struct {
	Name        string            `json:"name"`
	Set         string            `json:"set"`
	SetType     string            `json:"set_type"`
	Rarity      string            `json:"rarity"`
	BorderColor string            `json:"border_color"`
	Layout      string            `json:"layout"`
	Legalities  map[string]string `json:"legalities"`
}

// NotFoundError indicates a 404 from the API.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// APIError represents an error response from the Scryfall API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Details string `json:"details"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scryfall API error %d (%s): %s", e.Status, e.Code, e.Details)
}
