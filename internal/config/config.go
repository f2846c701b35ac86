package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server         ServerConfig         `mapstructure:"server"         validate:"required"`
	Database       DatabaseConfig       `mapstructure:"database"       validate:"required"`
	Auth           AuthConfig           `mapstructure:"auth"           validate:"required"`
	Recommendation RecommendationConfig `mapstructure:"recommendation" validate:"required"`
	Sweeper        SweeperConfig        `mapstructure:"sweeper"        validate:"required"`
	Storage        StorageConfig        `mapstructure:"storage"        validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"omitempty,gte=4,lte=31"`
}

// RecommendationConfig controls which scripts the recommendation view
// surfaces. The thresholds are deliberately independent from the
// sweeper's: the two policies are not symmetric complements.
type RecommendationConfig struct {
	MinUsageCount int `mapstructure:"min_usage_count" validate:"required,gte=0"`
	WindowDays    int `mapstructure:"window_days"     validate:"required,gt=0"`
}

// SweeperConfig controls the periodic deletion of low-usage, stale scripts.
type SweeperConfig struct {
	// Schedule is a standard 5-field cron expression. The default runs
	// once per day at midnight.
	Schedule       string `mapstructure:"schedule"         validate:"required"`
	MaxUsageCount  int    `mapstructure:"max_usage_count"  validate:"required,gt=0"`
	StaleAfterDays int    `mapstructure:"stale_after_days" validate:"required,gt=0"`
}

// StorageConfig contains settings for the music blob store.
type StorageConfig struct {
	MediaDir string `mapstructure:"media_dir" validate:"required"`
}
