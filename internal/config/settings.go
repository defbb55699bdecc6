package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Settings are the values that can change between deployments.
// Everything else lives in the const block.
type Settings struct {
	ListenAddr        string        `mapstructure:"LISTEN_ADDR"`
	UploadDir         string        `mapstructure:"UPLOAD_DIR"`
	StoreBackend      string        `mapstructure:"STORE_BACKEND"`
	RedisAddr         string        `mapstructure:"REDIS_ADDR"`
	RedisPassword     string        `mapstructure:"REDIS_PASSWORD"`
	MongoURI          string        `mapstructure:"MONGODB_URI"`
	MongoDatabase     string        `mapstructure:"MONGODB_DATABASE"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	TokenTTL          time.Duration `mapstructure:"TOKEN_TTL"`
	GeminiAPIKey      string        `mapstructure:"GEMINI_API_KEY"`
	OpenAIAPIKey      string        `mapstructure:"OPENAI_API_KEY"`
	LLMProvider       string        `mapstructure:"LLM_PROVIDER"`
	EmbeddingProvider string        `mapstructure:"EMBEDDING_PROVIDER"`
	RetrievalMode     string        `mapstructure:"RETRIEVAL_MODE"`
	EmbedConcurrency  int           `mapstructure:"EMBED_CONCURRENCY"`
	CORSOrigins       string        `mapstructure:"CORS_ORIGINS"`
	IsProd            bool          `mapstructure:"IS_PROD"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
}

var settingKeys = []string{
	"LISTEN_ADDR", "UPLOAD_DIR", "STORE_BACKEND", "REDIS_ADDR", "REDIS_PASSWORD", "MONGODB_URI",
	"MONGODB_DATABASE", "JWT_SECRET", "TOKEN_TTL", "GEMINI_API_KEY", "OPENAI_API_KEY", "LLM_PROVIDER",
	"EMBEDDING_PROVIDER", "RETRIEVAL_MODE", "EMBED_CONCURRENCY", "CORS_ORIGINS", "IS_PROD", "LOG_LEVEL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LISTEN_ADDR", ServerListenAddr)
	v.SetDefault("UPLOAD_DIR", UploadDir)
	v.SetDefault("STORE_BACKEND", StoreBackendMemory)
	v.SetDefault("REDIS_ADDR", RedisAddr)
	v.SetDefault("MONGODB_URI", MongoURI)
	v.SetDefault("MONGODB_DATABASE", MongoDatabase)
	v.SetDefault("JWT_SECRET", DevTokenSecret)
	v.SetDefault("TOKEN_TTL", TokenTTL)
	v.SetDefault("LLM_PROVIDER", LLMProviderGemini)
	v.SetDefault("EMBEDDING_PROVIDER", LLMProviderGemini)
	v.SetDefault("RETRIEVAL_MODE", RetrievalModeKeyword)
	v.SetDefault("EMBED_CONCURRENCY", EmbedConcurrency)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("IS_PROD", IS_PROD)
	v.SetDefault("LOG_LEVEL", "debug")
}

// LoadSettings reads .env (if present), the optional yaml config file and the environment,
// in increasing order of precedence.
func LoadSettings(configFile string) (*Settings, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	for _, key := range settingKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *Settings) Validate() error {
	switch s.StoreBackend {
	case StoreBackendMemory, StoreBackendRedis, StoreBackendMongo:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", s.StoreBackend)
	}
	switch s.RetrievalMode {
	case RetrievalModeKeyword, RetrievalModeSemantic:
	default:
		return fmt.Errorf("unknown RETRIEVAL_MODE %q", s.RetrievalMode)
	}
	for key, provider := range map[string]string{"LLM_PROVIDER": s.LLMProvider, "EMBEDDING_PROVIDER": s.EmbeddingProvider} {
		switch provider {
		case LLMProviderGemini, LLMProviderOpenAI, LLMProviderNone:
		default:
			return fmt.Errorf("unknown %s %q", key, provider)
		}
	}
	if s.EmbedConcurrency < 1 {
		s.EmbedConcurrency = 1
	}
	if s.TokenTTL <= 0 {
		s.TokenTTL = TokenTTL
	}
	return nil
}

// AllowedOrigins splits the comma separated CORS_ORIGINS value.
func (s *Settings) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(s.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
