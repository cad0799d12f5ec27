package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlanticofertlog/cargo-docs/constants"
	"github.com/atlanticofertlog/cargo-docs/internal/rules"
)

func TestHeringerExtractor_Table(t *testing.T) {
	text := "1234567 123456789 FERTILIZANTE NPK 04-14-08 JOSE DA SILVA FILHO 32,00\n" +
		"7654321 FERTILIZANTE MAP 11-52-00 ANTONIO PEREIRA FILHO 16,50"
	items := NewHeringerExtractor(rules.Default().Heringer, nil).Extract(text)
	require.Len(t, items, 2)

	assert.Equal(t, "123456789", items[0].OrderNumber)
	assert.Equal(t, "FERTILIZANTE NPK 04-14-08", items[0].ProductName)
	assert.Equal(t, "JOSE DA SILVA FILHO", items[0].Customer)
	assert.InDelta(t, 32.0, items[0].WeightTons, 1e-9)
	assert.Equal(t, constants.PackageBigBag, items[0].PackageType)
	assert.Equal(t, "", items[0].City)

	assert.Equal(t, "7654321", items[1].OrderNumber)
	assert.Equal(t, "FERTILIZANTE MAP 11-52-00", items[1].ProductName)
	assert.Equal(t, "ANTONIO PEREIRA FILHO", items[1].Customer)
	assert.InDelta(t, 16.5, items[1].WeightTons, 1e-9)
	assert.Equal(t, SupplierHeringer, items[1].Supplier)
}

const heringerForm = `ORDEM DE
VENDA
998877
NOME DO CLIENTE DE FATURAMENTO POR EXTENSO
AGRO COMERCIAL LTDA
NOME DO CLIENTE PARA ENTREGA
FAZENDA SANTA LUZIA
FERTILIZANTE SUPER SIMPLES BAG 1000 KG
QUANTIDADE
40
LOCAL DE
CARREGAMENTO
CANDEIAS BA`

func TestHeringerExtractor_Form(t *testing.T) {
	items := NewHeringerExtractor(rules.Default().Heringer, nil).Extract(heringerForm)
	require.Len(t, items, 1)
	it := items[0]
	assert.Equal(t, "998877", it.OrderNumber)
	assert.Equal(t, "FAZENDA SANTA LUZIA", it.Customer)
	assert.Equal(t, "FERTILIZANTE SUPER SIMPLES BAG 1000 KG", it.ProductName)
	assert.Equal(t, "BAG 1000 KG", it.PackageLabel)
	assert.Equal(t, constants.PackageBigBag, it.PackageType)
	assert.InDelta(t, 40.0, it.WeightTons, 1e-9)
	assert.Equal(t, "CANDEIAS BA", it.LoadingLocation)
	assert.Equal(t, "", it.City)
}

func TestHeringerExtractor_FormFallbacks(t *testing.T) {
	text := `ordem de venda 4411
nome do cliente de faturamento por extenso
agro comercial ltda
fertilizante ureia
quantidade 12`
	items := NewHeringerExtractor(rules.Default().Heringer, nil).Extract(text)
	require.Len(t, items, 1)
	assert.Equal(t, "AGRO COMERCIAL LTDA", items[0].Customer)
	assert.Equal(t, "BAG 1000 KG", items[0].PackageLabel)
	assert.Equal(t, "", items[0].LoadingLocation)
}

func TestHeringerExtractor_FormNeedsQuantity(t *testing.T) {
	text := "ORDEM DE VENDA 4411\nFERTILIZANTE UREIA"
	assert.Empty(t, NewHeringerExtractor(rules.Default().Heringer, nil).Extract(text))
	assert.Empty(t, NewHeringerExtractor(rules.Default().Heringer, nil).Extract(""))
}
