package model

// StagedFile references audio bytes already uploaded to the remote staging
// area; transcription operates on the reference, not the bytes.
type StagedFile struct {
	Stage string `json:"stage"`
	Name  string `json:"name"`
}

func (f StagedFile) Path() string { return f.Stage + "/" + f.Name }

// Transcript is the transcription service's response.
type Transcript struct {
	Text          string  `json:"text"`
	AudioDuration float64 `json:"audio_duration"` // seconds
}
