package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD                     = false
	LOG_LEVEL_PROD              = slog.LevelInfo
	TRACE_ID_KEY                = "traceId"
	USER_KEY                    = "user"
	RATE_LIMIT_PER_SECOND       = 5
	BURST_RATE_LIMIT_PER_SECOND = 20
	RateLimiterIdleTTL          = 3 * time.Minute

	//serverTimeouts
	//uploads of up to 500MB need a long read window
	ReadTimeout            = 5 * time.Minute
	WriteTimeout           = 5 * time.Minute
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port, the frontend expects 8000
	ServerListenAddr = ":8000"

	//documents
	UploadDir                  = "uploads"
	MaxUploadSize        int64 = 500 << 20 //500MB
	MultipartMemoryLimit       = 32 << 20
	ChunkSize                  = 1500
	ChunkOverlap               = 200
	PageExtractTimeout         = 10 * time.Second
	ImageRenderDPI             = 150
	ListLimit                  = 100

	//retrieval
	RetrievalModeKeyword  = "keyword"
	RetrievalModeSemantic = "semantic"
	FallbackChunkCount    = 3
	MaxContextChunks      = 5

	EmbeddingOutputDimensionality int32 = 1536
	EmbedConcurrency                    = 8

	//llm
	LLMProviderGemini = "gemini"
	LLMProviderOpenAI = "openai"
	LLMProviderNone   = "none"

	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIModelName      = "gpt-4o-mini"
	OpenAIEmbeddingModel = "text-embedding-3-small"

	llmConnectionTimeout = 60 * time.Second
	LLMRequestTimeout    = llmConnectionTimeout

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//auth
	TokenTTL       = 60 * time.Minute
	DevTokenSecret = "change-me-in-production"

	//record stores
	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"
	StoreBackendMongo  = "mongo"

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisUserStore     = 0
	RedisDocumentStore = 1
	RedisChatStore     = 2

	//mongo
	MongoURI            = "mongodb://localhost:27017"
	MongoDatabase       = "pdfchat"
	MongoConnectTimeout = 5 * time.Second
)

var Languages = []string{"English", "Hindi", "Kannada", "Marathi", "Tamil", "Spanish", "German", "French", "Chinese", "Japanese"}

var AnswerFormats = []string{"points", "paragraph", "summary"}
