package dto

type SettingsRequest struct {
	Parser string `json:"parser"`
}

type SettingsResponse struct {
	Parser string `json:"parser"`
}

type SettingsUpdateResponse struct {
	Status string `json:"status"`
	Parser string `json:"parser"`
}
