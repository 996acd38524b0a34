package config

const (
	DefaultCountryKey = "DefaultCountry"
	JWTSecretKey      = "JWTSecret"
)

type AppConfig struct {
	Workdir        string `envconfig:"WORK_DIR"`
	Port           string `envconfig:"PORT" default:"1611"`
	DatabaseUri    string `envconfig:"DATABASE_URI" default:"ipahub.db"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"4"`
	LogToFile      bool   `envconfig:"LOG_TO_FILE" default:"true"`
	LogDBQueries   bool   `envconfig:"LOG_DB_QUERIES" default:"false"`
	BaseUrl        string `envconfig:"BASE_URL"`
	DefaultCountry string `envconfig:"DEFAULT_COUNTRY" default:"us"`
	// UnlockPassword protects the HTTP API. When empty the API is open,
	// which is only sensible on a trusted local network.
	UnlockPassword string `envconfig:"UNLOCK_PASSWORD"`
}

type Config interface {
	Get(key string) (string, error)
	SetIgnore(key string, value string) error
	SetUpdate(key string, value string) error
	GetJWTSecret() (string, error)
	GetDefaultCountry() string
	SetDefaultCountry(value string) error
	GetEnv() *AppConfig
	CheckUnlockPassword(password string) bool
	AuthEnabled() bool
	GetDefaultWorkDir() string
}
