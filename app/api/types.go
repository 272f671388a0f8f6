package api

import (
	"context"

	"github.com/lysyi3m/yearbook/app/config"
	"github.com/lysyi3m/yearbook/app/feed"
	"github.com/lysyi3m/yearbook/app/httpcache"
	"github.com/lysyi3m/yearbook/app/year"
)

type YearService interface {
	GetYearData(ctx context.Context, y int) *year.Data
	Stats() year.Stats
}

var _ YearService = (*year.Service)(nil)

type CacheStatsProvider interface {
	Stats() httpcache.Stats
}

var _ CacheStatsProvider = (*httpcache.Transport)(nil)

type GeneratorInterface interface {
	Run(y int, data *year.Data) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

type FiltererInterface interface {
	Run(data *year.Data, query string) *year.Data
}

var _ FiltererInterface = (*feed.Filterer)(nil)

type Handler struct {
	years      YearService
	generator  GeneratorInterface
	filterer   FiltererInterface
	site       *config.SiteConfig
	cache      CacheStatsProvider // nil when the response cache is disabled
	version    string
	randomYear func() int
}
