package config

// Default returns a Config holding default values
func Default() *Config {
	return &Config{
		Core: Core{
			DownloadsDir: "",
			PreviewLimit: 25,
			Lock:         true,
			Verbose:      false,
		},
		Exclude: Exclude{
			Files:    []string{},
			Patterns: []string{},
			Globs:    []string{},
			Size: SizeConfig{
				Min: "",
				Max: "",
			},
		},
		History: History{
			WithinDays: 0,
		},
		Logging: Logging{
			Enabled: true,
			Level:   "info",
			Rotation: RotationConfig{
				MaxSize:  "10MB",
				MaxFiles: 3,
			},
		},
	}
}
