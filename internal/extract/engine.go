package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atlanticofertlog/cargo-docs/constants"
	"github.com/atlanticofertlog/cargo-docs/internal/common"
	"github.com/atlanticofertlog/cargo-docs/internal/rules"
)

// Result is the output of one extractor run.
type Result struct {
	Kind constants.DocumentKind
	// Record is []entity.OrderLineItem for order kinds, otherwise the
	// kind's record struct.
	Record  any
	Records int
}

// Engine routes document text to the extractor of its kind. It is safe for
// concurrent use.
type Engine struct {
	order        *OrderExtractor
	heringer     *HeringerExtractor
	license      *LicenseExtractor
	registration *RegistrationExtractor
	carrier      *CarrierExtractor
}

func NewEngine(r rules.Rules, locator CityLocator, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	r = r.Clone()
	return &Engine{
		order:        NewOrderExtractor(r.Order, locator, logger.With("extractor", "order")),
		heringer:     NewHeringerExtractor(r.Heringer, logger.With("extractor", "heringer")),
		license:      NewLicenseExtractor(r.License, logger.With("extractor", "license")),
		registration: NewRegistrationExtractor(r.Registration, logger.With("extractor", "registration")),
		carrier:      NewCarrierExtractor(r.Carrier),
	}
}

func (e *Engine) Extract(ctx context.Context, kind constants.DocumentKind, text string) (Result, error) {
	res := Result{Kind: kind}
	switch kind {
	case constants.KindOrder:
		items, err := e.order.Extract(ctx, text)
		if err != nil {
			return res, err
		}
		res.Record, res.Records = items, len(items)
	case constants.KindHeringerOrder:
		items := e.heringer.Extract(text)
		res.Record, res.Records = items, len(items)
	case constants.KindLicense:
		res.Record, res.Records = e.license.Extract(text), 1
	case constants.KindRegistration:
		res.Record, res.Records = e.registration.Extract(text), 1
	case constants.KindCarrier:
		res.Record, res.Records = e.carrier.Extract(text), 1
	default:
		return res, common.NewAppError("UNSUPPORTED_KIND", fmt.Sprintf("no extractor for %q", kind), common.ErrUnsupported)
	}
	return res, nil
}
