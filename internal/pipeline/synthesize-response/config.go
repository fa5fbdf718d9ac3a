// internal/pipeline/synthesize-response/config.go
package synthesizeresponse

// Config bounds the generated completion.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the generation bounds used when the service config
// leaves them unset.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   300,
		Temperature: 0.7,
	}
}
