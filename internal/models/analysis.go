package models

// ServiceRef is a single bus service as rendered in an analysis.
type ServiceRef struct {
	ServiceNo string `json:"service_no"`
}

// BusStop is a stop found inside the analysis radius.
type BusStop struct {
	StopCode string       `json:"stop_code"`
	StopName string       `json:"stop_name"`
	Lat      float64      `json:"lat"`
	Lng      float64      `json:"lng"`
	Distance int64        `json:"distance"`
	Services []ServiceRef `json:"services"`
}

// AnalysisResponse is the intermodal transfer analysis for one station.
type AnalysisResponse struct {
	Station           Station   `json:"station"`
	Radius            int       `json:"radius"`
	BusStops          []BusStop `json:"bus_stops"`
	TotalBusStops     int       `json:"total_bus_stops"`
	UniqueBusServices int       `json:"unique_bus_services"`
}
