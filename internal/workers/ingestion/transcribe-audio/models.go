package transcribeaudio

type Input struct {
	AudioPath string `json:"audioPath"`
}

type Output struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type transcriptRequest struct {
	AudioURL string `json:"audio_url"`
}

// transcriptResponse is the subset of the AssemblyAI transcript resource
// the client reads.
type transcriptResponse struct {
	ID         string  `json:"id"`
	Status     string  `json:"status"`
	Text       string  `json:"text"`
	Error      string  `json:"error"`
	Confidence float64 `json:"confidence"`
}
