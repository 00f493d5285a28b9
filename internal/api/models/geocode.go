package models

// GeocodeRequest asks for an address to be resolved to coordinates.
type GeocodeRequest struct {
	Address string `json:"address"`
}

// GeocodeResponse is a resolved address.
type GeocodeResponse struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"displayName,omitempty"`
}
