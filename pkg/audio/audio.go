package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"

	"github.com/ratalie/aws-nova/pkg/hash"
)

// Downloader synthesizes phrase audio via the Google text-to-speech api
// and caches the MP3 files on disk, keyed by the sha1 of the text. The
// underlying client is created once and shared.
type Downloader struct {
	client     *texttospeech.Client
	dir        string
	voice      *texttospeechpb.VoiceSelectionParams
	sampleRate int32
}

func NewDownloader(ctx context.Context, dir, languageCode, voiceName string, sampleRate int32) (*Downloader, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not create text-to-speech client: %w", err)
	}
	return &Downloader{
		client: client,
		dir:    dir,
		voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: languageCode,
			Name:         voiceName,
		},
		sampleRate: sampleRate,
	}, nil
}

// Fetch returns the path of the MP3 for the given text, synthesizing and
// caching it on the first request.
func (d *Downloader) Fetch(ctx context.Context, text string) (string, error) {
	if err := os.MkdirAll(d.dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("could not create audio dir: %w", err)
	}
	path := filepath.Join(d.dir, hash.Sha1(text)+".mp3")

	if _, err := os.Stat(path); err == nil {
		slog.Debug("audio cache hit", "path", path)
		return path, nil
	}

	req := texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: d.voice,
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding:   texttospeechpb.AudioEncoding_MP3,
			SampleRateHertz: d.sampleRate,
		},
	}
	resp, err := d.client.SynthesizeSpeech(ctx, &req)
	if err != nil {
		return "", fmt.Errorf("could not synthesize audio: %w", err)
	}

	if err := os.WriteFile(path, resp.AudioContent, 0644); err != nil {
		return "", fmt.Errorf("could not write audio file: %w", err)
	}
	slog.Debug("downloaded audio", "path", path)
	return path, nil
}

func (d *Downloader) Close() error {
	return d.client.Close()
}
