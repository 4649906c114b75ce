// Package iovocab implements vocab.Source. It downloads occurrence
// fields, quality assertions, spatial layers and download reasons from
// web services and keeps them in a local key-value cache.
package iovocab

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/occdl/internal/iohttp"
	"github.com/gnames/occdl/pkg/config"
	"github.com/gnames/occdl/pkg/vocab"
)

type iovocab struct {
	cfg    *config.Config
	client *iohttp.Client
	now    func() time.Time
}

// New creates a vocabulary source that uses the vocabulary cache
// according to cfg.Cache settings.
func New(cfg *config.Config, client *iohttp.Client) vocab.Source {
	return &iovocab{cfg: cfg, client: client, now: time.Now}
}

// Load returns vocabularies. With cache mode "on" fresh cached data is
// used, "refresh" always fetches and updates the cache, and "off"
// fetches without touching the cache.
func (v *iovocab) Load(ctx context.Context) (*vocab.Vocabulary, error) {
	if v.cfg.Cache.Mode == config.CacheOff {
		return v.fetch(ctx)
	}

	cm, err := newCacheManager(config.VocabularyDir(v.cfg.HomeDir))
	if err != nil {
		return nil, err
	}
	if err = cm.open(); err != nil {
		// a broken cache should not stop downloads
		slog.Warn("Vocabulary cache is not available", "error", err)
		return v.fetch(ctx)
	}
	defer cm.close()

	key := v.cacheKey()
	if v.cfg.Cache.Mode == config.CacheOn {
		e, err := cm.get(key)
		if err != nil {
			slog.Warn("Cannot read vocabulary cache", "error", err)
		}
		if e != nil && v.now().Sub(e.FetchedAt) < v.cfg.Cache.VocabularyTTL {
			slog.Debug("Using cached vocabularies",
				"fetched_at", e.FetchedAt.Format(time.RFC3339))
			return &e.Vocabulary, nil
		}
	}

	res, err := v.fetch(ctx)
	if err != nil {
		return nil, err
	}

	e := entry{FetchedAt: v.now(), Vocabulary: *res}
	if err = cm.store(key, &e); err != nil {
		slog.Warn("Cannot save vocabularies to cache", "error", err)
	}
	return res, nil
}

// Clear invalidates all cached vocabularies.
func (v *iovocab) Clear() error {
	cm, err := newCacheManager(config.VocabularyDir(v.cfg.HomeDir))
	if err != nil {
		return err
	}
	return cm.clear()
}

// cacheKey depends on service URLs, so switching servers does not mix
// their vocabularies.
func (v *iovocab) cacheKey() string {
	api := v.cfg.API
	return strings.Join(
		[]string{"vocab", api.BiocacheURL, api.LoggerURL, api.LayersURL}, "|",
	)
}

func (v *iovocab) fetch(ctx context.Context) (*vocab.Vocabulary, error) {
	var err error
	res := &vocab.Vocabulary{}
	api := v.cfg.API
	slog.Info("Fetching vocabularies", "biocache", api.BiocacheURL)

	url := api.BiocacheURL + "/index/fields"
	if err = v.client.GetJSON(ctx, url, &res.Fields); err != nil {
		return nil, FetchError("occurrence fields", url, err)
	}
	if len(res.Fields) == 0 {
		return nil, EmptyError("occurrence fields", url)
	}

	url = api.BiocacheURL + "/assertions/codes"
	if err = v.client.GetJSON(ctx, url, &res.Assertions); err != nil {
		return nil, FetchError("quality assertions", url, err)
	}

	url = api.LoggerURL + "/reasons"
	if err = v.client.GetJSON(ctx, url, &res.Reasons); err != nil {
		return nil, FetchError("download reasons", url, err)
	}
	if len(res.Reasons) == 0 {
		return nil, EmptyError("download reasons", url)
	}

	// layers only improve column names, downloads work without them
	url = api.LayersURL + "/layers"
	var layers []layerJSON
	if err = v.client.GetJSON(ctx, url, &layers); err != nil {
		slog.Warn("Cannot fetch spatial layers", "url", url, "error", err)
		gn.Warn("Cannot get spatial layers, layer columns keep their ids")
	}
	res.Layers = convertLayers(layers)

	slog.Info("Vocabularies fetched",
		"fields", len(res.Fields),
		"assertions", len(res.Assertions),
		"reasons", len(res.Reasons),
		"layers", len(res.Layers),
	)
	return res, nil
}

// layerJSON is a layer as the spatial service describes it. Layer ids
// are numeric there, while occurrence archives use prefixed ids:
// 'el' for environmental and 'cl' for contextual layers.
type layerJSON struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayname"`
	Type        string `json:"type"`
}

func convertLayers(ll []layerJSON) []vocab.Layer {
	res := make([]vocab.Layer, 0, len(ll))
	for _, l := range ll {
		var prefix string
		switch strings.ToLower(l.Type) {
		case "environmental":
			prefix = "el"
		case "contextual":
			prefix = "cl"
		default:
			continue
		}
		name := l.DisplayName
		if name == "" {
			name = l.Name
		}
		res = append(res, vocab.Layer{
			ID:   fmt.Sprintf("%s%d", prefix, l.ID),
			Name: name,
			Type: l.Type,
		})
	}
	return res
}
