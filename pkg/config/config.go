package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/ilyakaznacheev/cleanenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

// Language describes one supported language of the assistant.
type Language struct {
	Key      string `yaml:"-"`
	Name     string `yaml:"name"`
	ISOCode  string `yaml:"iso_code"`
	Family   string `yaml:"family,omitempty"`
	Speakers int    `yaml:"speakers,omitempty"`
}

// Source is the fixed source-language side of every interaction.
var Source = Language{Key: "es", Name: "Español", ISOCode: "es"}

// Config is the immutable process configuration. It is loaded once in
// main and passed into constructors, never read ambiently.
// Priority: ENV > languages file > defaults.
type Config struct {
	Addr        string `env:"CHICHAM_ADDR" env-default:":8080"`
	DataDir     string `env:"CHICHAM_DATA_DIR" env-default:"data"`
	LanguageKey string `env:"CHICHAM_LANGUAGE" env-default:"awajun"`

	// path to the supported-language table; empty means built-in default
	LanguagesFile string `env:"CHICHAM_LANGUAGES_FILE"`

	GenEndpoint    string  `env:"GEN_ENDPOINT" env-default:"https://api.openai.com/v1/chat/completions"`
	GenAPIKey      string  `env:"GEN_API_KEY"`
	GenModel       string  `env:"GEN_MODEL" env-default:"gpt-4o-mini"`
	GenMaxTokens   int     `env:"GEN_MAX_TOKENS" env-default:"2048"`
	GenTemperature float64 `env:"GEN_TEMPERATURE" env-default:"0.3"`
	GenTopP        float64 `env:"GEN_TOP_P" env-default:"0.9"`

	SpeechEndpoint string `env:"SPEECH_ENDPOINT" env-default:"https://api.openai.com/v1/audio/transcriptions"`
	SpeechAPIKey   string `env:"SPEECH_API_KEY"`
	SpeechModel    string `env:"SPEECH_MODEL" env-default:"whisper-1"`

	AudioDir        string `env:"CHICHAM_AUDIO_DIR" env-default:"data/cache/audio"`
	VoiceLanguage   string `env:"CHICHAM_VOICE_LANGUAGE" env-default:"es-US"`
	VoiceName       string `env:"CHICHAM_VOICE" env-default:"es-US-Neural2-B"`
	AudioSampleRate int32  `env:"CHICHAM_SAMPLE_RATE" env-default:"16000"`

	Languages map[string]Language `env:"-"`
}

// Load reads configuration from the environment and, when configured, the
// supported-language table file.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read config from env: %w", err)
	}

	if cfg.LanguagesFile != "" {
		langs, err := loadLanguages(cfg.LanguagesFile)
		if err != nil {
			return nil, err
		}
		cfg.Languages = langs
	} else {
		cfg.Languages = map[string]Language{
			"awajun": {Key: "awajun", Name: "Awajún", ISOCode: "agr", Family: "Jíbaro", Speakers: 56584},
		}
	}

	if _, err := cfg.Language(cfg.LanguageKey); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Language resolves a configured language by key.
func (c *Config) Language(key string) (Language, error) {
	lang, ok := c.Languages[key]
	if !ok {
		keys := make([]string, 0, len(c.Languages))
		for k := range c.Languages {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return Language{}, fmt.Errorf("unsupported language %q, configured: %v", key, keys)
	}
	return lang, nil
}

func loadLanguages(path string) (map[string]Language, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read languages file %s: %w", path, err)
	}
	var raw map[string]Language
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("could not parse languages file %s: %w", path, err)
	}

	langs := make(map[string]Language, len(raw))
	for key, lang := range raw {
		lang.Key = key
		if lang.Name == "" {
			return nil, fmt.Errorf("languages file %s: language %q has no name", path, key)
		}
		if _, err := language.Parse(lang.ISOCode); err != nil {
			return nil, fmt.Errorf("languages file %s: language %q has invalid iso_code %q: %w", path, key, lang.ISOCode, err)
		}
		langs[key] = lang
	}
	return langs, nil
}
