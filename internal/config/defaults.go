package config

const (
	defaultConfigPath             = "~/.config/bookvoice/config.toml"
	defaultLogDir                 = "~/.local/share/bookvoice/logs"
	defaultStateDir               = "~/.local/share/bookvoice"
	defaultAttributionBaseURL     = "http://localhost:11434"
	defaultAttributionModel       = "llama2"
	defaultAttributionTimeout     = 30
	defaultAttributionTemperature = 0.1
	defaultAttributionTopP        = 0.9
	defaultAttributionWorkers     = 1
	defaultAttributionRetries     = 1
	defaultSpeechBaseURL          = "https://api.openai.com/v1"
	defaultSpeechModel            = "tts-1-hd"
	defaultSpeechTimeout          = 60
	defaultMaxChunkChars          = 4000
	defaultRequestIntervalMS      = 100
	defaultSpeechRetries          = 3
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Attribution: Attribution{
			BaseURL:        defaultAttributionBaseURL,
			Model:          defaultAttributionModel,
			TimeoutSeconds: defaultAttributionTimeout,
			Temperature:    defaultAttributionTemperature,
			TopP:           defaultAttributionTopP,
			Workers:        defaultAttributionWorkers,
			RetryAttempts:  defaultAttributionRetries,
		},
		Speech: Speech{
			BaseURL:           defaultSpeechBaseURL,
			Model:             defaultSpeechModel,
			TimeoutSeconds:    defaultSpeechTimeout,
			MaxChunkChars:     defaultMaxChunkChars,
			RequestIntervalMS: defaultRequestIntervalMS,
			RetryAttempts:     defaultSpeechRetries,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
