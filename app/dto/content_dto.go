package dto

// AudioClip points at a time range inside a topic's audio file
type AudioClip struct {
	URL   string  `json:"url"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// ContentItem is one recited line with its transliteration and translation
type ContentItem struct {
	ID          int       `json:"id"`
	Arabic      string    `json:"arabic"`
	Latin       string    `json:"latin"`
	Translation string    `json:"translation"`
	Repeat      int       `json:"repeat,omitempty"`
	Audio       AudioClip `json:"audio"`
}

// ContentDocument is the payload of a static content endpoint
type ContentDocument struct {
	Topic       string        `json:"topic"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	AudioURL    string        `json:"audioUrl"`
	Items       []ContentItem `json:"items"`
	Notes       []string      `json:"notes,omitempty"`
	CreatedAt   string        `json:"createdAt"`
}

// ContentResponse wraps a ContentDocument
type ContentResponse struct {
	Success bool             `json:"success"`
	Data    *ContentDocument `json:"data"`
}
