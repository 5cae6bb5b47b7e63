package opennotify

type PassAPIResponse struct {
	Message  string     `json:"message"`
	Request  PassParams `json:"request"`
	Response []Pass     `json:"response"`
}

type PassParams struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  int     `json:"altitude"`
	Passes    int     `json:"passes"`
	Datetime  int64   `json:"datetime"`
}

type Pass struct {
	// Risetime is a unix timestamp in UTC.
	Risetime int64 `json:"risetime"`
	Duration int   `json:"duration"`
}
