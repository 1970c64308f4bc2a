// Package config loads the application settings from a YAML file into
// an explicit struct. There is no package-level state: the loaded
// Config is passed into every component constructor.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config mirrors the config.yaml structure.
type Config struct {
	QuestionsFile  string            `mapstructure:"questions_file"`
	OutputDir      string            `mapstructure:"output_dir"`
	EmbedModel     string            `mapstructure:"embed_model"`
	Models         map[string]string `mapstructure:"models"`
	RagModel       string            `mapstructure:"rag_model"`
	PromptTemplate string            `mapstructure:"prompt_template"`
	EmbeddingsFile string            `mapstructure:"embeddings_file"`

	Ollama   OllamaConfig   `mapstructure:"ollama"`
	OpenAI   APIConfig      `mapstructure:"openai"`
	Groq     APIConfig      `mapstructure:"groq"`
	Vector   VectorConfig   `mapstructure:"vector"`
	Chunking ChunkingConfig `mapstructure:"chunking"`
	Sources  SourcesConfig  `mapstructure:"sources"`
	Index    IndexConfig    `mapstructure:"index"`
	Log      LogConfig      `mapstructure:"log"`
}

// OllamaConfig addresses the local Ollama server.
type OllamaConfig struct {
	Host string `mapstructure:"host"`
}

// APIConfig holds credentials for a hosted model provider.
type APIConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// VectorConfig addresses the vector index collection.
type VectorConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Collection string `mapstructure:"collection"`
	TopK       int    `mapstructure:"top_k"`
}

// ChunkingConfig holds the sentence chunking parameters.
type ChunkingConfig struct {
	SentencesPerChunk int    `mapstructure:"sentences_per_chunk"`
	Overlap           int    `mapstructure:"overlap"`
	Language          string `mapstructure:"language"`
}

// SourcesConfig selects the documents to index.
type SourcesConfig struct {
	Dir       string `mapstructure:"dir"`
	Extension string `mapstructure:"extension"`
}

// IndexConfig controls the indexing run.
type IndexConfig struct {
	UsePrecalculated   bool `mapstructure:"use_precalculated"`
	RecreateCollection bool `mapstructure:"recreate_collection"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads the YAML file at path and applies defaults. Missing or
// malformed files are fatal to the run.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output_dir", "evaluation")
	v.SetDefault("ollama.host", "http://localhost:11434")
	v.SetDefault("vector.host", "localhost")
	v.SetDefault("vector.port", 6334)
	v.SetDefault("vector.top_k", 5)
	v.SetDefault("chunking.sentences_per_chunk", 10)
	v.SetDefault("chunking.overlap", 2)
	v.SetDefault("chunking.language", "english")
	v.SetDefault("sources.extension", ".txt")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

func (c *Config) validate() error {
	if c.EmbedModel == "" {
		return fmt.Errorf("config: embed_model is required")
	}
	if c.Vector.Collection == "" {
		return fmt.Errorf("config: vector.collection is required")
	}
	return nil
}
