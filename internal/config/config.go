// Package config loads the service settings from config/<env>.yaml.
package config

// Config holds the geoknow API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Redis     RedisConfig     `yaml:"redis"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	LLM       LLMConfig       `yaml:"llm"`
	Index     IndexConfig     `yaml:"index"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	History   HistoryConfig   `yaml:"history"`
	Eras      []EraConfig     `yaml:"eras"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"` // must cover a full streamed answer
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// RedisConfig holds the vector index and cache connection settings.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	DialTimeoutSec   int      `yaml:"dial_timeout_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// PostgresConfig holds the structured store connection settings.
type PostgresConfig struct {
	DSN                string `yaml:"dsn"`
	MaxConns           int32  `yaml:"max_conns"`
	MinConns           int32  `yaml:"min_conns"`
	MaxConnLifetimeSec int    `yaml:"max_conn_lifetime_sec"`
	ReadinessTimeout   int    `yaml:"readiness_timeout_sec"`
}

// IndexConfig holds HNSW index settings.
type IndexConfig struct {
	HNSWM           int `yaml:"hnsw_m"`
	HNSWEFConstruct int `yaml:"hnsw_ef_construction"`
	// Recreate rebuilds the index on startup, e.g. after changing dimensions.
	Recreate bool `yaml:"recreate"`
}

// RetrievalConfig tunes the hybrid retrieval.
type RetrievalConfig struct {
	TimeoutMs   int `yaml:"timeout_ms"`
	DefaultTopK int `yaml:"default_top_k"`
	MaxTopK     int `yaml:"max_top_k"` // 0 = unlimited
}

// HistoryConfig controls detached query history writes.
type HistoryConfig struct {
	Disabled  bool `yaml:"disabled"`
	Workers   int  `yaml:"workers"`
	TimeoutMs int  `yaml:"timeout_ms"`
}

// EraConfig is a named period recognised in questions. Years are astronomical
// (1 BC is 0, 2 BC is -1).
type EraConfig struct {
	Name      string   `yaml:"name"`
	Aliases   []string `yaml:"aliases"`
	StartYear int      `yaml:"start_year"`
	EndYear   int      `yaml:"end_year"`
}

// LLMConfig holds provider credentials and the models used for each role.
type LLMConfig struct {
	Providers  map[string]ProviderConfig `yaml:"providers"`
	Embedding  EmbeddingModelConfig      `yaml:"embedding"`
	Chat       ChatModelConfig           `yaml:"chat"`
	Structurer StructurerConfig          `yaml:"structurer"`
}

// ProviderConfig holds OpenAI-compatible provider settings.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// EmbeddingModelConfig holds vectorizer settings.
type EmbeddingModelConfig struct {
	Provider            string `yaml:"provider"`
	Model               string `yaml:"model"`
	Dimensions          int    `yaml:"dimensions"`
	DocumentInstruction string `yaml:"document_instruction"`
	QueryInstruction    string `yaml:"query_instruction"`
	CacheTTLSec         int    `yaml:"cache_ttl_sec"` // 0 disables the query embedding cache
}

// ChatModelConfig holds answer generation settings.
type ChatModelConfig struct {
	Provider     string  `yaml:"provider"`
	Model        string  `yaml:"model"`
	MaxTokens    int     `yaml:"max_tokens"`
	Temperature  float32 `yaml:"temperature"`
	SystemPrompt string  `yaml:"system_prompt"`
}

// StructurerConfig holds query understanding settings. Empty provider and
// model fall back to the chat settings.
type StructurerConfig struct {
	Disabled bool   `yaml:"disabled"`
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	JSONMode bool   `yaml:"json_mode"`
}
