package config

// Config holds the server settings.
type Config struct {
	ListenAddr      string `mapstructure:"listenAddr"`
	MinPlayers      int    `mapstructure:"minPlayers"`
	MaxPlayers      int    `mapstructure:"maxPlayers"`
	AutoScorePolicy string `mapstructure:"autoScorePolicy"` // category choice for disconnected players
	LogLevel        string `mapstructure:"logLevel"`
}
