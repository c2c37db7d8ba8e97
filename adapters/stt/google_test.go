package stt

import "testing"

func TestAudioEncoding(t *testing.T) {
	for _, name := range []string{"WAV", "LINEAR16", "FLAC", "MULAW", "OGG_OPUS", "WEBM_OPUS"} {
		if _, err := audioEncoding(name); err != nil {
			t.Errorf("audioEncoding(%q) returned error: %v", name, err)
		}
	}
	if _, err := audioEncoding("MP3"); err == nil {
		t.Error("Expected error for unsupported encoding")
	}
}
