package dto

type CheckoutSessionResponse struct {
	Url string `json:"url"`
}

type PortalSessionResponse struct {
	Url string `json:"url"`
}

type UsageResponse struct {
	IsPro        bool  `json:"is_pro"`
	MessageCount int64 `json:"message_count"`
	Limit        int   `json:"limit"`
}
