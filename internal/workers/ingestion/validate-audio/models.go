package validateaudio

import "meeting-workers/internal/models"

type Input struct {
	AudioPath string `json:"audioPath"`
}

type Output struct {
	Valid      bool                  `json:"valid"`
	FileFormat string                `json:"fileFormat"`
	Metadata   *models.AudioMetadata `json:"metadata"`
}
