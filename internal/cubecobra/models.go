package cubecobra

import "fmt"

// cubeJSON mirrors the CubeCobra cube JSON payload, reduced to the
// fields the fetcher consumes.
type cubeJSON struct {
	Name             string    `json:"name"`
	CategoryOverride string    `json:"categoryOverride"`
	Cards            cardLists `json:"cards"`
}

type cardLists struct {
	Mainboard []cardEntry `json:"mainboard"`
}

type cardEntry struct {
	CardID  string      `json:"cardID"`
	Details cardDetails `json:"details"`
}

type cardDetails struct {
	Name string `json:"name"`
}

// NotFoundError indicates that a cube id does not exist on CubeCobra.
type NotFoundError struct {
	CubeID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("cube %q not found", e.CubeID)
}
