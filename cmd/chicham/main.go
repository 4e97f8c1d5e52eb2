package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/ratalie/aws-nova/pkg/audio"
	"github.com/ratalie/aws-nova/pkg/config"
	"github.com/ratalie/aws-nova/pkg/detect"
	"github.com/ratalie/aws-nova/pkg/nova"
	"github.com/ratalie/aws-nova/pkg/server"
	"github.com/ratalie/aws-nova/pkg/speech"
)

var (
	addr    string
	lang    string
	verbose bool
)

func main() {
	flag.StringVar(&addr, "addr", "", "listen address, overrides CHICHAM_ADDR")
	flag.StringVar(&lang, "lang", "", "target language key, overrides CHICHAM_LANGUAGE")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("could not load config", "err", err)
		os.Exit(1)
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if lang != "" {
		cfg.LanguageKey = lang
	}

	target, err := cfg.Language(cfg.LanguageKey)
	if err != nil {
		log.Error("could not resolve target language", "err", err)
		os.Exit(1)
	}

	if cfg.GenAPIKey == "" {
		log.Error("environment variable GEN_API_KEY is not set")
		os.Exit(1)
	}
	gen, err := nova.NewClient(nova.Config{
		Endpoint:    cfg.GenEndpoint,
		APIKey:      cfg.GenAPIKey,
		Model:       cfg.GenModel,
		MaxTokens:   cfg.GenMaxTokens,
		Temperature: cfg.GenTemperature,
		TopP:        cfg.GenTopP,
	})
	if err != nil {
		log.Error("could not create generation client", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	deps := server.Deps{
		Generator: gen,
		DataDir:   cfg.DataDir,
		Source:    config.Source,
		Target:    target,
		Log:       log,
	}

	if cfg.SpeechAPIKey != "" {
		stt, err := speech.NewClient(cfg.SpeechEndpoint, cfg.SpeechAPIKey, cfg.SpeechModel, config.Source.ISOCode)
		if err != nil {
			log.Error("could not create speech client", "err", err)
			os.Exit(1)
		}
		deps.Speech = stt
	} else {
		log.Warn("SPEECH_API_KEY not set, voice input disabled")
	}

	// text-to-speech and language detection need Google credentials;
	// without them the endpoints degrade instead of failing the process
	if tts, err := audio.NewDownloader(ctx, cfg.AudioDir, cfg.VoiceLanguage, cfg.VoiceName, cfg.AudioSampleRate); err != nil {
		log.Warn("phrase audio disabled", "err", err)
	} else {
		defer tts.Close()
		deps.Audio = tts
	}
	if det, err := detect.New(ctx, config.Source.ISOCode); err != nil {
		log.Warn("language detection disabled", "err", err)
	} else {
		defer det.Close()
		deps.Detector = det
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      server.New(deps),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  time.Minute,
	}

	log.Info("listening", "addr", cfg.Addr, "language", target.Key, "model", cfg.GenModel)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
