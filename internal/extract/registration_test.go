package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atlanticofertlog/cargo-docs/constants"
	"github.com/atlanticofertlog/cargo-docs/internal/entity"
	"github.com/atlanticofertlog/cargo-docs/internal/rules"
)

const registrationText = `CERTIFICADO DE REGISTRO E LICENCIAMENTO DE VEÍCULO
CÓDIGO RENAVAM
01234567890
PLACA
ABC1D23
EXERCÍCIO 2024
MARCA / MODELO / VERSÃO
SCANIA R 450 A6X4
ESPÉCIE / TIPO
TRACAO CAMINHAO TRATOR
CARROCERIA
NAO APLICAVEL
EIXOS
3
LOCAL
RIO VERDE GO
DATA 01/02/2024`

func newRegistrationExtractor() *RegistrationExtractor {
	return NewRegistrationExtractor(rules.Default().Registration, nil)
}

func TestFormatPlate(t *testing.T) {
	assert.Equal(t, "ABC-1D23", FormatPlate("ABC1D23"))
	assert.Equal(t, "ABC1D2", FormatPlate("ABC1D2"))
	assert.Equal(t, "ABC1D234", FormatPlate("ABC1D234"))
}

func TestRegistrationExtractor_FullDocument(t *testing.T) {
	rec := newRegistrationExtractor().Extract(registrationText)
	assert.Equal(t, entity.RegistrationRecord{
		Plate:           "ABC-1D23",
		Renavam:         "01234567890",
		AxleCount:       "3",
		Brand:           "SCANIA",
		Model:           "R 450 A6X4",
		City:            "Rio Verde",
		State:           "GO",
		VehicleCategory: constants.VehicleTractor,
		BodyType:        "NÃO APLICÁVEL",
	}, rec)
}

func TestRegistrationExtractor_SameLineFallbacks(t *testing.T) {
	rec := newRegistrationExtractor().Extract("CODIGO RENAVAM 2024 EXERCICIO 01234567891 EIXOS TOTAIS 2 CAPACIDADE")
	assert.Equal(t, "01234567891", rec.Renavam)
	assert.Equal(t, "2", rec.AxleCount)
}

func TestRegistrationExtractor_BrandLongestFirst(t *testing.T) {
	text := "MARCA / MODELO\nREB KRONE SR3E27\n"
	rec := newRegistrationExtractor().Extract(text)
	assert.Equal(t, "REB KRONE", rec.Brand)
	assert.Equal(t, "SR3E27", rec.Model)
}

func TestRegistrationExtractor_VehicleCategories(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"CARGA CAMINHAO", constants.VehicleTruck},
		{"CARGA SEMI-REBOQUE", constants.VehicleSemiTrailer},
		{"TRAÇÃO CAMINHÃO TRATOR", constants.VehicleTractor},
		{"PASSAGEIRO AUTOMOVEL", entity.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			rec := newRegistrationExtractor().Extract("ESPÉCIE / TIPO\n" + tt.line)
			assert.Equal(t, tt.want, rec.VehicleCategory)
		})
	}
}

func TestRegistrationExtractor_LocationNeedsLongCityName(t *testing.T) {
	rec := newRegistrationExtractor().Extract("LOCAL\nABC SP\nSAO PAULO SP")
	assert.Equal(t, "Sao Paulo", rec.City)
	assert.Equal(t, "SP", rec.State)
}

func TestRegistrationExtractor_BodyTypeOrder(t *testing.T) {
	rec := newRegistrationExtractor().Extract("CARROCERIA GRANELEIRA")
	assert.Equal(t, "GRANELEIRA", rec.BodyType)

	rec = newRegistrationExtractor().Extract("CARROCERIA FECHADA/BAU")
	assert.Equal(t, "FECHADA/BAÚ", rec.BodyType)
}

func TestRegistrationExtractor_EmptyText(t *testing.T) {
	assert.Equal(t, entity.NewRegistrationRecord(), newRegistrationExtractor().Extract(""))
}
