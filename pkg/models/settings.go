package models

// Settings holds per-user presentation preferences
type Settings struct {
	AutoStart    bool `json:"auto_start"`
	LargeText    bool `json:"large_text"`
	HighContrast bool `json:"high_contrast"`
}
