package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the API and the import worker read at startup.
// Values come from config/app.yaml with env var overrides.
type Config struct {
	App struct {
		Port string
		Env  string
	}

	Meili struct {
		Host        string
		APIKey      string
		IndexPrefix string
		Datasets    []string
	}

	Query struct {
		DefaultTimeout time.Duration
		MaxTimeout     time.Duration
	}

	Import struct {
		Workers    int
		BatchSize  int
		NbShards   int
		NbReplicas int
	}

	Cache struct {
		Enabled  bool
		RedisURL string
		L1Size   int
		TTL      time.Duration
	}

	Mongo struct {
		URL      string
		Database string
	}
}

// Load reads config/app.yaml (or ./app.yaml) and applies env overrides.
// A missing config file is not an error, defaults and env vars still apply.
func Load() *Config {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("meilisearch.url", "http://localhost:7700")
	viper.SetDefault("meilisearch.master_key", "")
	viper.SetDefault("meilisearch.index_prefix", "munin")
	viper.SetDefault("meilisearch.datasets", []string{"fr"})
	viper.SetDefault("query.default_timeout_ms", 1500)
	viper.SetDefault("query.max_timeout_ms", 10000)
	viper.SetDefault("import.workers", 0) // 0 means one per CPU
	viper.SetDefault("import.batch_size", 1000)
	viper.SetDefault("import.nb_shards", 1)
	viper.SetDefault("import.nb_replicas", 1)
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.redis_url", "redis://localhost:6379")
	viper.SetDefault("cache.l1_size", 10000)
	viper.SetDefault("cache.ttl_ms", 120000)
	viper.SetDefault("mongo.url", "mongodb://localhost:27017/munin")
	viper.SetDefault("mongo.database", "munin")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: cannot read config file: %v", err)
	}

	c := &Config{}
	c.App.Port = viper.GetString("app.port")
	c.App.Env = viper.GetString("app.env")
	c.Meili.Host = viper.GetString("meilisearch.url")
	c.Meili.APIKey = viper.GetString("meilisearch.master_key")
	c.Meili.IndexPrefix = viper.GetString("meilisearch.index_prefix")
	c.Meili.Datasets = viper.GetStringSlice("meilisearch.datasets")
	c.Query.DefaultTimeout = time.Duration(viper.GetInt("query.default_timeout_ms")) * time.Millisecond
	c.Query.MaxTimeout = time.Duration(viper.GetInt("query.max_timeout_ms")) * time.Millisecond
	c.Import.Workers = viper.GetInt("import.workers")
	c.Import.BatchSize = viper.GetInt("import.batch_size")
	c.Import.NbShards = viper.GetInt("import.nb_shards")
	c.Import.NbReplicas = viper.GetInt("import.nb_replicas")
	c.Cache.Enabled = viper.GetBool("cache.enabled")
	c.Cache.RedisURL = viper.GetString("cache.redis_url")
	c.Cache.L1Size = viper.GetInt("cache.l1_size")
	c.Cache.TTL = time.Duration(viper.GetInt("cache.ttl_ms")) * time.Millisecond
	c.Mongo.URL = viper.GetString("mongo.url")
	c.Mongo.Database = viper.GetString("mongo.database")
	return c
}
