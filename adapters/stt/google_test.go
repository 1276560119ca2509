package stt

import (
	"testing"

	"cloud.google.com/go/speech/apiv1/speechpb"
)

func TestEncodingForFile(t *testing.T) {
	wavHeader := append([]byte("RIFF1234WAVE"), make([]byte, 16)...)

	cases := []struct {
		name string
		path string
		data []byte
		want speechpb.RecognitionConfig_AudioEncoding
	}{
		{"wav extension", "clip.wav", nil, speechpb.RecognitionConfig_LINEAR16},
		{"flac extension", "clip.flac", nil, speechpb.RecognitionConfig_FLAC},
		{"webm extension", "clip.webm", nil, speechpb.RecognitionConfig_WEBM_OPUS},
		{"ogg extension", "clip.ogg", nil, speechpb.RecognitionConfig_OGG_OPUS},
		{"riff header sniff", "blob", wavHeader, speechpb.RecognitionConfig_LINEAR16},
		{"ogg header sniff", "blob", []byte("OggS...."), speechpb.RecognitionConfig_OGG_OPUS},
		{"flac header sniff", "blob", []byte("fLaC...."), speechpb.RecognitionConfig_FLAC},
		{"unknown defaults to linear16", "blob", []byte{0, 1, 2, 3}, speechpb.RecognitionConfig_LINEAR16},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := encodingForFile(tc.path, tc.data); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestHasRIFFHeader(t *testing.T) {
	if hasRIFFHeader([]byte("RIFF")) {
		t.Error("truncated header should not match")
	}
	if !hasRIFFHeader([]byte("RIFF1234WAVEfmt ")) {
		t.Error("expected RIFF/WAVE header to match")
	}
}
