package tutor

// Config holds reply generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	// HistoryTurns is how many recent turns are sent verbatim. Older turns
	// are folded into the conversation summary.
	HistoryTurns int
}

// DefaultConfig returns sensible defaults for reply generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:    512,
		Temperature:  0.7,
		HistoryTurns: 12,
	}
}

// CompressorConfig holds history compression settings.
type CompressorConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultCompressorConfig returns sensible defaults for compression.
func DefaultCompressorConfig() CompressorConfig {
	return CompressorConfig{
		MaxTokens:   256,
		Temperature: 0.3,
	}
}
