package dto

type PingResponse struct {
	Pong bool `json:"pong"`
}
