package providers

import (
	"github.com/samber/do/v2"

	"github.com/couchqueue/couchqueue-server/internal/config"
	"github.com/couchqueue/couchqueue-server/internal/llm"
	"github.com/couchqueue/couchqueue-server/internal/logger"
	"github.com/couchqueue/couchqueue-server/internal/metadata/omdb"
	"github.com/couchqueue/couchqueue-server/internal/metadata/tmdb"
)

// ProvideTMDBClient provides the catalog client. Responses are cached in Badger.
func ProvideTMDBClient(i do.Injector) (*tmdb.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)

	if cfg.TMDB.APIKey == "" {
		log.Warn("TMDB API key not set, search and enrichment will fail")
	}

	client := tmdb.New(tmdb.Config{
		APIKey:  cfg.TMDB.APIKey,
		BaseURL: cfg.TMDB.BaseURL,
	}, cacheHandle.Cache, log.Logger)
	log.Info("TMDB client initialized")

	return client, nil
}

// ProvideOMDbClient provides the ratings client.
func ProvideOMDbClient(i do.Injector) (*omdb.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.OMDb.APIKey == "" {
		log.Warn("OMDb API key not set, ratings will be skipped")
	}

	return omdb.New(omdb.Config{
		APIKey:  cfg.OMDb.APIKey,
		BaseURL: cfg.OMDb.BaseURL,
	}, log.Logger), nil
}

// ProvideLLMClient provides the generative backend client.
func ProvideLLMClient(i do.Injector) (*llm.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.LLM.APIKey == "" {
		log.Warn("LLM API key not set, recommendations will fail")
	}

	client := llm.New(llm.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	}, log.Logger)
	log.Info("LLM client initialized", "model", client.Model(), "timeout", cfg.LLM.Timeout)

	return client, nil
}
