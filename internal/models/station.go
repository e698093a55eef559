package models

// Station is a rail interchange, the centre of an intermodal analysis.
type Station struct {
	ID        string  `json:"stop_id"`
	Name      string  `json:"stop_name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Stop is a bus boarding point. Stores only hand out stops that have a name
// and both coordinates.
type Stop struct {
	Code      string  `json:"stop_code"`
	Name      string  `json:"stop_name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// ServiceMembership pairs a stop with a bus service calling at it.
type ServiceMembership struct {
	StopCode  string `json:"stop_code"`
	ServiceNo string `json:"service_no"`
}
