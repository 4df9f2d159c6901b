package dto

// ProcessInputRequest names an input source: a file path or "webcam".
type ProcessInputRequest struct {
	Source string `json:"source" binding:"required"`
}

// InputResponse describes how a source was dispatched
type InputResponse struct {
	Source        string `json:"source"`
	Kind          string `json:"kind"`
	HasFrames     bool   `json:"has_frames"`
	AudioPath     string `json:"audio_path,omitempty"`
	AudioArtifact string `json:"audio_artifact,omitempty"`
	AudioURL      string `json:"audio_url,omitempty"`
}
