package server

type Config struct {
	// ListenAddr is the HTTP listen address for the API and pages.
	ListenAddr string `yaml:"listen_addr"`

	// AllowedOrigins lists origins allowed by CORS and the websocket
	// upgrader. "*" allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:     ":8080",
		AllowedOrigins: []string{"*"},
	}
}
