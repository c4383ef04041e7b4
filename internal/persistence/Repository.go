package persistence

import (
	"strconv"
	"strings"
	"time"

	"pbcheck/internal/lottery"
	"pbcheck/internal/models"
	"pbcheck/internal/persistence/interfaces"
	"pbcheck/internal/providers"

	json "github.com/goccy/go-json"
)

const (
	KeySelection = "selection"
	KeyDrawing   = "drawing"
	KeyLastFetch = "lastFetchTimestamp"
)

type RepositoryInterface interface {
	LoadSelection() (models.NumberSelection, bool)
	SaveSelection(sel models.NumberSelection) error
	LoadDrawing() (models.Drawing, models.FetchMeta, bool)
	SaveDrawing(drawing models.Drawing, meta models.FetchMeta) error
}

// Repository is the only owner of the durable selection and drawing. Values that fail to
// decode are reported as absent.
type Repository struct {
	store  interfaces.KeyValueStore
	logger providers.Logger
}

func NewRepository(store interfaces.KeyValueStore, logger providers.Logger) RepositoryInterface {
	return &Repository{store: store, logger: logger}
}

func (r *Repository) LoadSelection() (models.NumberSelection, bool) {
	var sel models.NumberSelection
	raw, ok := r.store.Get(KeySelection)
	if !ok {
		return sel, false
	}
	if err := json.Unmarshal([]byte(raw), &sel); err != nil {
		r.logger.Warnf(providers.TypeApp, "Ignoring undecodable %s: %s", KeySelection, err)
		return models.NumberSelection{}, false
	}
	if err := lottery.ValidateSelection(sel); err != nil {
		r.logger.Warnf(providers.TypeApp, "Ignoring invalid %s: %s", KeySelection, err)
		return models.NumberSelection{}, false
	}
	return sel, true
}

func (r *Repository) SaveSelection(sel models.NumberSelection) error {
	data, err := json.Marshal(sel)
	if err != nil {
		return err
	}
	return r.store.Set(KeySelection, string(data))
}

// LoadDrawing returns the cached drawing. A drawing whose timestamp is missing is still returned,
// with a zero FetchMeta, so it can serve as a fallback while the policy asks for a refresh.
func (r *Repository) LoadDrawing() (models.Drawing, models.FetchMeta, bool) {
	var d models.Drawing
	raw, ok := r.store.Get(KeyDrawing)
	if !ok {
		return d, models.FetchMeta{}, false
	}
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		r.logger.Warnf(providers.TypeApp, "Ignoring undecodable %s: %s", KeyDrawing, err)
		return models.Drawing{}, models.FetchMeta{}, false
	}
	if err := d.Check(); err != nil {
		r.logger.Warnf(providers.TypeApp, "Ignoring invalid %s: %s", KeyDrawing, err)
		return models.Drawing{}, models.FetchMeta{}, false
	}

	var meta models.FetchMeta
	if ts, ok := r.store.Get(KeyLastFetch); ok {
		ms, err := strconv.ParseInt(strings.TrimSpace(ts), 10, 64)
		if err != nil || ms <= 0 {
			r.logger.Warnf(providers.TypeApp, "Ignoring invalid %s %q", KeyLastFetch, ts)
		} else {
			meta.LastFetch = time.UnixMilli(ms)
		}
	}
	return d, meta, true
}

// SaveDrawing writes the drawing, then its timestamp. The keys are independent; a failure between
// the two writes leaves a drawing without a fresh timestamp, which only causes an earlier refetch.
func (r *Repository) SaveDrawing(drawing models.Drawing, meta models.FetchMeta) error {
	data, err := json.Marshal(drawing)
	if err != nil {
		return err
	}
	if err := r.store.Set(KeyDrawing, string(data)); err != nil {
		return err
	}
	return r.store.Set(KeyLastFetch, strconv.FormatInt(meta.LastFetch.UnixMilli(), 10))
}
