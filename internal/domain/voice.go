package domain

// VoiceOptions controls how a single utterance is synthesized.
type VoiceOptions struct {
	Voice  string  `json:"voice"`
	Speed  float64 `json:"speed"`
	Volume float64 `json:"volume"`
}

// DefaultVoiceOptions is the base option set merged under per-call overrides.
func DefaultVoiceOptions() VoiceOptions {
	return VoiceOptions{
		Voice:  "ash",
		Speed:  1.0,
		Volume: 1.0,
	}
}

// Transcription is the text produced from an audio utterance.
type Transcription struct {
	Text string `json:"text"`
}

// AudioAnalysis is the result of scanning ambient audio for threat sounds.
type AudioAnalysis struct {
	DetectedThreats []string `json:"detectedThreats"`
	Confidence      float64  `json:"confidence"`
}
