package config

import (
	"os"
	"strconv"
	"strings"
)

// Settings holds the environment-driven configuration for the service.
// .env loading happens in main via godotenv; everything here reads the
// process environment with defaults suitable for local development.
type Settings struct {
	ServerAddr  string
	Environment string
	Debug       bool

	APITitle   string
	APIVersion string

	MinioEndpoint   string
	MinioAccessKey  string
	MinioSecretKey  string
	MinioBucketName string
	MinioSecure     bool

	PGHost         string
	PGPort         int
	PGUser         string
	PGPass         string
	PGDBName       string
	IndexTableName string

	OllamaEmbeddingURL   string
	OllamaEmbeddingModel string
	EmbeddingDimension   int
	ChunkMaxTokens       int

	SupportedFileExtensions []string
}

func Load() *Settings {
	return &Settings{
		ServerAddr:  getEnv("SERVER_ADDR", ":8000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		Debug:       getEnvBool("DEBUG", true),

		APITitle:   "RAG Search API",
		APIVersion: "0.1.0",

		MinioEndpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:  getEnv("MINIO_ACCESS_KEY", "admin"),
		MinioSecretKey:  getEnv("MINIO_SECRET_KEY", "admin123"),
		MinioBucketName: getEnv("MINIO_BUCKET_NAME", "documents"),
		MinioSecure:     getEnvBool("MINIO_SECURE", false),

		PGHost:         getEnv("PG_HOST", "localhost"),
		PGPort:         getEnvInt("PG_PORT", 5432),
		PGUser:         getEnv("PG_USER", "postgres"),
		PGPass:         getEnv("PG_PASS", "postgres"),
		PGDBName:       getEnv("PG_DB_NAME", "ragsearch"),
		IndexTableName: getEnv("INDEX_TABLE_NAME", "documents"),

		OllamaEmbeddingURL:   getEnv("OLLAMA_EMBEDDING_URL", "http://localhost:11434/api/embeddings"),
		OllamaEmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		EmbeddingDimension:   getEnvInt("EMBEDDING_DIMENSION", 768),
		ChunkMaxTokens:       getEnvInt("CHUNK_MAX_TOKENS", 2000),

		SupportedFileExtensions: getEnvList("SUPPORTED_FILE_EXTENSIONS",
			[]string{"pdf", "txt", "docx", "xls", "xlsx", "json"}),
	}
}

// ConnString builds the Postgres connection string for pgxpool.
func (s *Settings) ConnString() string {
	b := strings.Builder{}
	b.WriteString("host=" + s.PGHost)
	b.WriteString(" port=" + strconv.Itoa(s.PGPort))
	b.WriteString(" user=" + s.PGUser)
	b.WriteString(" password=" + s.PGPass)
	b.WriteString(" dbname=" + s.PGDBName)
	b.WriteString(" sslmode=disable")
	return b.String()
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
