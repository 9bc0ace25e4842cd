package global

import (
	"github.com/rs/zerolog/log"
	"github.com/travigo/multimodal/pkg/dataaggregator"
	"github.com/travigo/multimodal/pkg/dataaggregator/source/cachedresults"
	"github.com/travigo/multimodal/pkg/dataaggregator/source/carrental"
	"github.com/travigo/multimodal/pkg/dataaggregator/source/contentapi"
	"github.com/travigo/multimodal/pkg/dataaggregator/source/multimodal"
	"github.com/travigo/multimodal/pkg/redis_client"
	"github.com/travigo/multimodal/pkg/util"
)

// Setup registers every data source on the global aggregator.
// Multimodal searches are cached when a Redis client is connected.
func Setup(client contentapi.Client) error {
	aggregator := &dataaggregator.GlobalAggregator

	aggregator.RegisterSource(contentapi.Source{Client: client})

	multimodalSource := multimodal.Source{Aggregator: aggregator}
	if redis_client.Client != nil {
		env := util.GetEnvironmentVariables()

		cachedSource := &cachedresults.Source{
			Next:       multimodalSource,
			Expiration: util.EnvironmentDuration(env, "TRAVIGO_SEARCH_CACHE_TTL", cachedresults.DefaultExpiration),
		}
		cachedSource.Setup(redis_client.Client)

		aggregator.RegisterSource(cachedSource)
	} else {
		log.Info().Msg("Redis not connected, multimodal searches will not be cached")

		aggregator.RegisterSource(multimodalSource)
	}

	carRentalSource := &carrental.Source{}
	if err := carRentalSource.Setup(); err != nil {
		return err
	}
	aggregator.RegisterSource(carRentalSource)

	return nil
}
