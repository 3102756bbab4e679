package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://app.example.com").
	// Used for generating absolute photo URLs in API responses.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
}

// UploadConfig contains roll photo upload configuration.
type UploadConfig struct {
	// Dir is the local directory photo files are written to.
	Dir string `env:"UPLOADS_DIR" envDefault:"uploads"`

	// MaxBytes caps the size of a single uploaded photo.
	MaxBytes int64 `env:"UPLOADS_MAX_BYTES" envDefault:"10485760"`
}

// Sanitize applies guardrails to upload configuration values.
func (u *UploadConfig) Sanitize() {
	if u.Dir == "" {
		u.Dir = "uploads"
	}
	if u.MaxBytes <= 0 {
		u.MaxBytes = 10 << 20
	}
}
