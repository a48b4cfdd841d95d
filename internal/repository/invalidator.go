package repository

import (
	"context"

	"barokah/internal/domain"
	"barokah/internal/events"

	"github.com/rs/zerolog"
)

// Cache keys per topic. A table change drops the whole collection; readers
// refetch on the next request (full-refetch strategy, no incremental patch).
var topicKeys = map[string][]string{
	events.TopicBrands:      {KeyBrands},
	events.TopicModels:      {KeyBrands},
	events.TopicCategories:  {KeyCategories},
	events.TopicProblems:    {KeyCategories},
	events.TopicTechnicians: {KeyTechnicians},
	events.TopicGallery:     {KeyGallery},
}

const (
	KeyBrands      = "catalog:brands"
	KeyCategories  = "catalog:categories"
	KeyTechnicians = "catalog:technicians"
	KeyGallery     = "gallery:images"
)

// Invalidator subscribes to table-change events and drops the affected
// cache keys. Stop must be called on teardown to release the
// subscriptions.
type Invalidator struct {
	bus   *events.Bus
	cache domain.Cache
	log   zerolog.Logger
	subs  map[string]string // topic -> subscription id
}

func NewInvalidator(bus *events.Bus, cache domain.Cache, logger *zerolog.Logger) *Invalidator {
	var log zerolog.Logger
	if logger != nil {
		log = logger.With().Str("component", "cache-invalidator").Logger()
	}
	return &Invalidator{bus: bus, cache: cache, log: log, subs: make(map[string]string)}
}

func (inv *Invalidator) Start() {
	for topic, keys := range topicKeys {
		keys := keys
		inv.subs[topic] = inv.bus.Subscribe(topic, func(event events.Event) {
			if err := inv.cache.Delete(context.Background(), keys...); err != nil {
				inv.log.Warn().Err(err).Str("table", event.Topic).Msg("cache invalidation failed")
			}
		})
	}
}

func (inv *Invalidator) Stop() {
	for topic, id := range inv.subs {
		inv.bus.Unsubscribe(topic, id)
	}
	inv.subs = make(map[string]string)
}
