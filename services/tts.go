package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	texttospeechpb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"

	"github.com/dtnghia/syllabus-backend/utils"
)

// SynthesizeText turns topic content into MP3 bytes via Google Cloud TTS.
func SynthesizeText(ctx context.Context, text string, voice string, rate float64) ([]byte, error) {
	if len(text) == 0 {
		return nil, errors.New("text is empty")
	}
	if voice == "" {
		voice = "en-US-Neural2-C"
	}
	if rate <= 0 {
		rate = 1.0
	}

	credPath := os.Getenv("GOOGLE_CREDENTIALS_JSON")
	if credPath == "" {
		return nil, errors.New("GOOGLE_CREDENTIALS_JSON environment variable is not set")
	}

	client, err := texttospeech.NewClient(ctx, option.WithCredentialsFile(credPath))
	if err != nil {
		return nil, fmt.Errorf("cannot create TTS client: %v: %w", err, utils.ErrUpstream)
	}
	defer client.Close()

	// The API rejects inputs over 5000 bytes.
	chunks := splitTextToChunksByByte(text, 4500)
	var allAudio []byte

	for _, chunk := range chunks {
		req := &texttospeechpb.SynthesizeSpeechRequest{
			Input: &texttospeechpb.SynthesisInput{
				InputSource: &texttospeechpb.SynthesisInput_Text{
					Text: chunk,
				},
			},
			Voice: &texttospeechpb.VoiceSelectionParams{
				LanguageCode: "en-US",
				Name:         voice,
			},
			AudioConfig: &texttospeechpb.AudioConfig{
				AudioEncoding: texttospeechpb.AudioEncoding_MP3,
				SpeakingRate:  rate,
			},
		}

		resp, err := client.SynthesizeSpeech(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("speech synthesis failed: %v: %w", err, utils.ErrUpstream)
		}
		allAudio = append(allAudio, resp.AudioContent...)
	}

	return allAudio, nil
}

// splitTextToChunksByByte cuts text at whitespace so no chunk exceeds
// maxBytes.
func splitTextToChunksByByte(text string, maxBytes int) []string {
	var chunks []string
	for len(text) > maxBytes {
		cut := maxBytes
		for cut > 0 && text[cut] != ' ' && text[cut] != '\n' {
			cut--
		}
		if cut == 0 {
			cut = maxBytes
		}
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	if len(text) > 0 {
		chunks = append(chunks, text)
	}
	return chunks
}
