package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "accents and case", in: "São Paulo", want: "SAO PAULO"},
		{name: "cedilla", in: "Conceição do Jacuípe", want: "CONCEICAO DO JACUIPE"},
		{name: "whitespace runs", in: "  santo \t\n andré  ", want: "SANTO ANDRE"},
		{name: "empty", in: "", want: ""},
		{name: "already normalized", in: "RIO VERDE - GO", want: "RIO VERDE - GO"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	once := Normalize("Mogi das Cruzes/SP  ÁGUA  BOA")
	assert.Equal(t, once, Normalize(once))
}

func TestStripAccents_KeepsLines(t *testing.T) {
	assert.Equal(t, "ESPECIE / TIPO\nCaminhao", StripAccents("ESPÉCIE / TIPO\nCaminhão"))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "São Paulo", TitleCase("SÃO PAULO"))
	assert.Equal(t, "Santo André", TitleCase("santo andré"))
	assert.Equal(t, "Conceição Do Jacuípe", TitleCase("Conceição do Jacuípe"))
	assert.Equal(t, "", TitleCase("   "))
}
