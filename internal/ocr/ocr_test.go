package ocr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlanticofertlog/cargo-docs/constants"
)

type call struct {
	name string
	args []string
}

// stubRunner answers by binary name and records every call.
type stubRunner struct {
	t        *testing.T
	outputs  map[string]string
	failures map[string]error
	pages    int
	calls    []call
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, call{name: name, args: args})
	if err := s.failures[name]; err != nil {
		return nil, []byte("stub failure"), err
	}
	if name == "pdftoppm" {
		prefix := args[len(args)-1]
		for i := 1; i <= s.pages; i++ {
			p := prefix + "-" + string(rune('0'+i)) + ".png"
			require.NoError(s.t, os.WriteFile(p, []byte("png"), 0o600))
		}
		return nil, nil, nil
	}
	if name == "tesseract" {
		img := filepath.Base(args[0])
		if out, ok := s.outputs["tesseract:"+img]; ok {
			return []byte(out), nil, nil
		}
	}
	return []byte(s.outputs[name]), nil, nil
}

func (s *stubRunner) called(name string) int {
	n := 0
	for _, c := range s.calls {
		if c.name == name {
			n++
		}
	}
	return n
}

func TestExtract_PDFTextLayerJoinsPages(t *testing.T) {
	r := &stubRunner{t: t, outputs: map[string]string{
		"pdftotext": "CLIENTE: FAZENDA BOA SORTE\nNr. Pedido 4521\f001234 : FERTILIZANTE XYZ BIG BAG 12,500\n\f",
	}}
	e := NewExtractorWithRunner(Config{}, r, nil)

	res, err := e.Extract(context.Background(), "order.pdf")
	require.NoError(t, err)
	assert.Equal(t, constants.PDF, res.SourceType)
	assert.Equal(t, "pdf-text", res.Method)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, "CLIENTE: FAZENDA BOA SORTE\nNr. Pedido 4521\n001234 : FERTILIZANTE XYZ BIG BAG 12,500", res.Text)
	assert.Zero(t, r.called("pdftoppm"))
	assert.Equal(t, []string{"-enc", "UTF-8", "-eol", "unix", "order.pdf", "-"}, r.calls[0].args)
}

func TestExtract_ScannedPDFFallsBackToOCR(t *testing.T) {
	r := &stubRunner{t: t, pages: 2, outputs: map[string]string{
		"pdftotext":            "\f\f",
		"tesseract:page-1.png": "CARTEIRA NACIONAL DE HABILITAÇÃO",
		"tesseract:page-2.png": "VALIDADE 01/01/2030",
	}}
	e := NewExtractorWithRunner(Config{}, r, nil)

	res, err := e.Extract(context.Background(), "cnh.pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf-ocr", res.Method)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, "CARTEIRA NACIONAL DE HABILITAÇÃO\nVALIDADE 01/01/2030", res.Text)
	assert.Equal(t, 2, r.called("tesseract"))

	for _, c := range r.calls {
		if c.name == "tesseract" {
			assert.Contains(t, strings.Join(c.args, " "), "-l por")
		}
	}
}

func TestExtract_PDFToPPMFailure(t *testing.T) {
	r := &stubRunner{t: t,
		outputs:  map[string]string{"pdftotext": ""},
		failures: map[string]error{"pdftoppm": errors.New("exit status 1")},
	}
	_, err := NewExtractorWithRunner(Config{}, r, nil).Extract(context.Background(), "broken.pdf")
	assert.Error(t, err)
}

func TestExtract_Image(t *testing.T) {
	r := &stubRunner{t: t, outputs: map[string]string{
		"tesseract": "PLACA\tABC1D23\n\n\n\nRENAVAM   01234567890\n-----\nEMISSAO 01/02/2024",
	}}
	res, err := NewExtractorWithRunner(Config{}, r, nil).Extract(context.Background(), "crlv.JPG")
	require.NoError(t, err)
	assert.Equal(t, constants.IMAGE, res.SourceType)
	assert.Equal(t, "image-ocr", res.Method)
	assert.Equal(t, "PLACA ABC1D23\n\nRENAVAM 01234567890\n\nEMISSAO 01/02/2024", res.Text)
	assert.Greater(t, res.Confidence, float32(0.6))
}

func TestExtract_TextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rntrc.txt")
	require.NoError(t, os.WriteFile(path, []byte("RNTRC 012345678\r\n"), 0o600))

	res, err := NewExtractorWithRunner(Config{}, &stubRunner{t: t}, nil).Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "RNTRC 012345678", res.Text)
	assert.Equal(t, constants.TEXT, res.SourceType)
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	_, err := NewExtractorWithRunner(Config{}, &stubRunner{t: t}, nil).Extract(context.Background(), "photo.heic")
	assert.Error(t, err)
}

func TestNormalizeKeepsDates(t *testing.T) {
	assert.Equal(t, "NASC 01/01/1990", Normalize("  NASC   01/01/1990  \r\n"))
}
