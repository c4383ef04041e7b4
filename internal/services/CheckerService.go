package services

import (
	"context"
	"errors"
	"time"

	"pbcheck/internal/fetcher"
	"pbcheck/internal/lottery"
	"pbcheck/internal/models"
	"pbcheck/internal/parser"
	"pbcheck/internal/persistence"
	"pbcheck/internal/providers"

	"golang.org/x/sync/singleflight"
)

const fetchKey = "drawing"

// Acquisition is the drawing to show and how it was obtained. Err is set when a refresh was
// attempted and failed but a cached drawing could be used instead.
type Acquisition struct {
	Drawing models.Drawing
	Meta    models.FetchMeta
	Source  DrawingSource
	Err     error
}

type CheckerServiceInterface interface {
	Load(ctx context.Context, sink Sink)
	SubmitSelection(white []string, powerball string, sink Sink) error
	Refresh(ctx context.Context, force bool) (Acquisition, error)
	Selection() (models.NumberSelection, bool)
	Drawing() (models.Drawing, models.FetchMeta, bool)
	NextCutoff() time.Time
}

type CheckerService struct {
	repo    persistence.RepositoryInterface
	fetcher fetcher.Fetcher
	parser  parser.Parser
	policy  *lottery.FetchPolicy
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	group   singleflight.Group
	now     func() time.Time
}

func NewCheckerService(repo persistence.RepositoryInterface, f fetcher.Fetcher, p parser.Parser, policy *lottery.FetchPolicy, logger providers.Logger, metrics providers.MetricsProviderInterface) CheckerServiceInterface {
	return &CheckerService{
		repo:    repo,
		fetcher: f,
		parser:  p,
		policy:  policy,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// Load is the page-ready sequence: saved numbers, then the drawing, then the result.
func (cs *CheckerService) Load(ctx context.Context, sink Sink) {
	sel, hasSel := cs.repo.LoadSelection()
	if hasSel {
		sink.RenderSelection(sel)
	}

	sink.RenderStatus(models.StatusLoading, MessageLoading)
	acq, err := cs.acquire(ctx, false)
	if err != nil {
		cs.logger.Errorf(providers.TypeApp, "No drawing available: %s", err)
		sink.RenderStatus(models.StatusError, MessageUnableToLoad)
		return
	}

	sink.RenderDrawing(acq.Drawing, acq.Source)
	if !hasSel {
		sink.RenderStatus(models.StatusPrompt, MessagePrompt)
		return
	}
	sink.RenderResult(lottery.Evaluate(sel, acq.Drawing))
}

// SubmitSelection validates and stores new numbers, then checks them against the cached drawing.
// It never fetches.
func (cs *CheckerService) SubmitSelection(white []string, powerball string, sink Sink) error {
	sel, err := lottery.Validate(white, powerball)
	if err != nil {
		var verr *lottery.ValidationError
		if errors.As(err, &verr) {
			sink.RenderValidationError(verr)
		}
		return err
	}

	if err := cs.repo.SaveSelection(sel); err != nil {
		cs.logger.Errorf(providers.TypeApp, "Saving selection failed: %s", err)
		sink.RenderStatus(models.StatusError, MessageSaveFailed)
		return err
	}
	cs.logger.Infof(providers.TypeApp, "Saved selection %v PB %d", sel.White, sel.Powerball)

	sink.RenderSelection(sel)
	sink.RenderStatus(models.StatusSaved, MessageSaved)

	if drawing, _, ok := cs.repo.LoadDrawing(); ok {
		sink.RenderDrawing(drawing, SourceCache)
		sink.RenderResult(lottery.Evaluate(sel, drawing))
	}
	return nil
}

// Refresh acquires the drawing on behalf of the scheduler or an explicit refresh request.
// With force the fetch policy is bypassed.
func (cs *CheckerService) Refresh(ctx context.Context, force bool) (Acquisition, error) {
	return cs.acquire(ctx, force)
}

func (cs *CheckerService) Selection() (models.NumberSelection, bool) {
	return cs.repo.LoadSelection()
}

func (cs *CheckerService) Drawing() (models.Drawing, models.FetchMeta, bool) {
	return cs.repo.LoadDrawing()
}

func (cs *CheckerService) NextCutoff() time.Time {
	return cs.policy.NextCutoff(cs.now())
}

// acquire returns an error only when no drawing at all is available.
func (cs *CheckerService) acquire(ctx context.Context, force bool) (Acquisition, error) {
	cached, meta, ok := cs.repo.LoadDrawing()
	if !force && !cs.policy.ShouldFetch(cs.now(), meta, ok) {
		cs.metrics.IncFetchTotal(providers.OutcomeSkipped)
		cs.logger.Debugf(providers.TypeFetch, "Reusing cached drawing of %s fetched at %s", cached.Date, meta.LastFetch.Format(time.RFC3339))
		return Acquisition{Drawing: cached, Meta: meta, Source: SourceCache}, nil
	}

	v, err, shared := cs.group.Do(fetchKey, func() (any, error) {
		return cs.fetchAndStore(ctx)
	})
	if shared {
		cs.logger.Debugf(providers.TypeFetch, "Joined an in-flight drawing fetch")
	}
	if err == nil {
		return v.(Acquisition), nil
	}

	if !ok {
		cs.metrics.IncFetchTotal(providers.OutcomeFailure)
		return Acquisition{}, err
	}
	cs.metrics.IncFetchTotal(providers.OutcomeFallback)
	cs.logger.Warnf(providers.TypeFetch, "Refresh failed, using cached drawing of %s: %s", cached.Date, err)
	return Acquisition{Drawing: cached, Meta: meta, Source: SourceFallback, Err: err}, nil
}

func (cs *CheckerService) fetchAndStore(ctx context.Context) (Acquisition, error) {
	raw, err := cs.fetcher.Fetch(ctx)
	if err != nil {
		return Acquisition{}, err
	}

	drawing, err := cs.parser.Parse(raw)
	if err != nil {
		return Acquisition{}, err
	}

	meta := models.FetchMeta{LastFetch: cs.now()}
	if err := cs.repo.SaveDrawing(drawing, meta); err != nil {
		// the drawing is still good for this render; the next load simply fetches again
		cs.logger.Errorf(providers.TypeApp, "Caching drawing failed: %s", err)
	}

	cs.metrics.IncFetchTotal(providers.OutcomeSuccess)
	cs.metrics.SetLastFetch(meta.LastFetch)
	cs.logger.Infof(providers.TypeFetch, "Drawing of %s: %v PB %d", drawing.Date, drawing.White, drawing.Powerball)
	return Acquisition{Drawing: drawing, Meta: meta, Source: SourceFresh}, nil
}
