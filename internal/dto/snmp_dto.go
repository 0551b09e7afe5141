package dto

// TestarSNMPRequest keeps ip untyped so a number or object is answered as an
// invalid IP instead of an undecodable body.
type TestarSNMPRequest struct {
	IP any `json:"ip" swaggertype:"string" example:"192.168.1.10"`
}

// SNMPResultado is the probe envelope. Successful probes relay the probe's
// own JSON instead of this struct.
type SNMPResultado struct {
	Success bool   `json:"success"`
	Paginas *int64 `json:"paginas,omitempty"`
	Error   string `json:"error,omitempty"`
}
