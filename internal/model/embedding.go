package model

import "time"

// EmbeddingRecord is the vector of one document page, unique per (FileID, PageIndex).
type EmbeddingRecord struct {
	FileID    string    `json:"file_id"`
	PageIndex int       `json:"page_index"`
	OCRText   string    `json:"ocr_text"`
	Vector    []float32 `json:"vector,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PageText is the extracted text of a 1-indexed page.
type PageText struct {
	PageIndex int
	Text      string
}

// SearchHit is one ranked page.
type SearchHit struct {
	PageIndex  int     `json:"page_index"`
	Similarity float64 `json:"similarity"`
	Preview    string  `json:"preview"`
}
