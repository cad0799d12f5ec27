package extract

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlanticofertlog/cargo-docs/constants"
	"github.com/atlanticofertlog/cargo-docs/internal/common"
	"github.com/atlanticofertlog/cargo-docs/internal/entity"
	"github.com/atlanticofertlog/cargo-docs/internal/rules"
)

func TestEngine_RoutesByKind(t *testing.T) {
	e := NewEngine(rules.Default(), &stubLocator{city: "Rio Verde-GO"}, nil)
	ctx := context.Background()

	res, err := e.Extract(ctx, constants.KindOrder, oldFormatOrder)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Records)
	items, ok := res.Record.([]entity.OrderLineItem)
	require.True(t, ok)
	assert.Equal(t, "Rio Verde-GO", items[0].City)

	res, err = e.Extract(ctx, constants.KindHeringerOrder, heringerForm)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Records)

	res, err = e.Extract(ctx, constants.KindLicense, licenseText)
	require.NoError(t, err)
	assert.IsType(t, entity.LicenseRecord{}, res.Record)

	res, err = e.Extract(ctx, constants.KindRegistration, registrationText)
	require.NoError(t, err)
	assert.IsType(t, entity.RegistrationRecord{}, res.Record)

	res, err = e.Extract(ctx, constants.KindCarrier, "RNTRC 012345678")
	require.NoError(t, err)
	assert.Equal(t, entity.CarrierRecord{RNTRC: "012345678"}, res.Record)
}

func TestEngine_UnsupportedKind(t *testing.T) {
	_, err := NewEngine(rules.Default(), nil, nil).Extract(context.Background(), "INVOICE", "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnsupported))
}

func TestEngine_RepeatedRunsAreByteIdentical(t *testing.T) {
	e := NewEngine(rules.Default(), &stubLocator{city: "São Paulo-SP"}, nil)
	inputs := map[constants.DocumentKind]string{
		constants.KindOrder:         oldFormatOrder,
		constants.KindHeringerOrder: heringerForm,
		constants.KindLicense:       licenseText,
		constants.KindRegistration:  registrationText,
		constants.KindCarrier:       "RNTRC 012345678",
	}
	for kind, text := range inputs {
		t.Run(string(kind), func(t *testing.T) {
			first, err := e.Extract(context.Background(), kind, text)
			require.NoError(t, err)
			second, err := e.Extract(context.Background(), kind, text)
			require.NoError(t, err)

			a, err := json.Marshal(first.Record)
			require.NoError(t, err)
			b, err := json.Marshal(second.Record)
			require.NoError(t, err)
			assert.Equal(t, string(a), string(b))
		})
	}
}
