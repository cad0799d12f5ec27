package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalPackageType(t *testing.T) {
	tests := []struct {
		in   string
		want PackageType
		ok   bool
	}{
		{"big bag", PackageBigBag, true},
		{" GRANEL ", PackageBulk, true},
		{"Sacaria", PackageBagged, true},
		{"", PackageUnknown, false},
		{"CAIXA", PackageUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := CanonicalPackageType(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapExtToFormat(t *testing.T) {
	assert.Equal(t, PDF, MapExtToFormat(".PDF"))
	assert.Equal(t, IMAGE, MapExtToFormat("jpeg"))
	assert.Equal(t, TEXT, MapExtToFormat(".txt"))
	assert.Equal(t, "", MapExtToFormat(".docx"))
}
