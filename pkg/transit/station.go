package transit

// Station identifies one searchable endpoint. The ID is the backend's opaque
// location identifier and may encode coordinate indices as @-delimited
// KEY=VALUE pairs.
type Station struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
