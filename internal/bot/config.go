package bot

import "path/filepath"

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Long-poll timeout in seconds for the Telegram updates channel
	UpdateTimeout int
	// Path of the bundled starter vocabulary deck
	SampleDatasetPath string
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		UpdateTimeout:     60,
		SampleDatasetPath: filepath.Join("datasets", "cefr_vocab_en_fa_sample.csv"),
	}
}
