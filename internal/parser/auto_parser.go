package parser

import (
	"bytes"
	"fmt"

	"pbcheck/internal/models"
	"pbcheck/internal/providers"

	"github.com/tidwall/gjson"
)

type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeJSON
	ShapeEnvelope
	ShapeMarkup
)

// envelopes nest at most this deep, e.g. a proxy wrapping a proxy
const maxEnvelopeDepth = 2

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ShapeOf guesses the payload shape from its first significant byte. A JSON object with a
// string "contents" field is a CORS proxy envelope around the real payload.
func ShapeOf(raw []byte) Shape {
	raw = bytes.TrimSpace(bytes.TrimPrefix(raw, utf8BOM))
	if len(raw) == 0 {
		return ShapeUnknown
	}
	switch raw[0] {
	case '[':
		return ShapeJSON
	case '{':
		if gjson.GetBytes(raw, "contents").Type == gjson.String {
			return ShapeEnvelope
		}
		return ShapeJSON
	}
	return ShapeMarkup
}

// AutoParser selects a strategy by response shape so the source endpoint can be swapped
// without configuration.
type AutoParser struct {
	json    Parser
	markup  Parser
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewAutoParser(logger providers.Logger, metrics providers.MetricsProviderInterface) *AutoParser {
	return &AutoParser{
		json:    NewJSONParser(),
		markup:  NewMarkupParser(),
		logger:  logger,
		metrics: metrics,
	}
}

func (p *AutoParser) Parse(raw []byte) (d models.Drawing, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Errorf(providers.TypeFetch, "Parser panic: %v", r)
			d, err = models.Drawing{}, malformed("parser panic: %v", r)
		}
	}()
	return p.parse(raw, 0)
}

func (p *AutoParser) parse(raw []byte, depth int) (models.Drawing, error) {
	raw = bytes.TrimSpace(bytes.TrimPrefix(raw, utf8BOM))

	switch ShapeOf(raw) {
	case ShapeEnvelope:
		if depth >= maxEnvelopeDepth {
			return models.Drawing{}, p.observe(StrategyEnvelope, malformed("envelopes nested deeper than %d", maxEnvelopeDepth))
		}
		contents := gjson.GetBytes(raw, "contents").String()
		p.logger.Debugf(providers.TypeFetch, "Unwrapping proxy envelope (%d bytes)", len(contents))
		return p.parse([]byte(contents), depth+1)

	case ShapeJSON:
		d, err := p.json.Parse(raw)
		if err == nil || gjson.ValidBytes(raw) {
			return d, p.observe(StrategyJSON, err)
		}
		// looked like JSON but is not; let the markup scan have a go
		p.logger.Debugf(providers.TypeFetch, "Payload is not valid JSON, trying markup")
		d, err = p.markup.Parse(raw)
		return d, p.observe(StrategyMarkup, err)

	case ShapeMarkup:
		d, err := p.markup.Parse(raw)
		return d, p.observe(StrategyMarkup, err)
	}

	return models.Drawing{}, malformed("empty payload")
}

func (p *AutoParser) observe(strategy string, err error) error {
	if err != nil {
		p.metrics.IncParseTotal(strategy, providers.OutcomeFailure)
		p.logger.Warnf(providers.TypeFetch, "Parse with %s strategy failed: %s", strategy, err)
		return err
	}
	p.metrics.IncParseTotal(strategy, providers.OutcomeSuccess)
	return nil
}

func (s Shape) String() string {
	switch s {
	case ShapeJSON:
		return StrategyJSON
	case ShapeEnvelope:
		return StrategyEnvelope
	case ShapeMarkup:
		return StrategyMarkup
	}
	return fmt.Sprintf("shape(%d)", int(s))
}
