package config

// DomainConfig holds configurable business rules for the content graph
type DomainConfig struct {
	// Timestamp bounds for posts, in milliseconds since the Unix epoch.
	// The window rejects seconds-precision and nanoseconds-precision values.
	TimestampMin int64
	TimestampMax int64

	// Graph size limits
	MaxCreators         int
	MaxCategories       int
	MaxPostsPerCategory int

	// Field limits
	MaxLabelLength   int
	MaxContentLength int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		TimestampMin: 1_000_000_000_000,
		TimestampMax: 999_999_999_999_999,

		MaxCreators:         500,
		MaxCategories:       1000,
		MaxPostsPerCategory: 5000,

		MaxLabelLength:   255,
		MaxContentLength: 100_000,
	}
}

// LoadDomainConfig returns the domain configuration for an environment
func LoadDomainConfig(environment string) *DomainConfig {
	cfg := DefaultDomainConfig()
	if environment == "development" {
		cfg.MaxCreators = 10_000
		cfg.MaxCategories = 10_000
	}
	return cfg
}
