//go:build !ocr

package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_NotEnabled(t *testing.T) {
	client, err := New()
	assert.ErrorIs(t, err, ErrOCRNotEnabled)
	assert.Nil(t, client)
}

func TestStubClient(t *testing.T) {
	var client *Client
	assert.NoError(t, client.Close(), "Close is safe on a nil client")

	_, err := client.RecognizeFragments([]byte{0x89, 'P', 'N', 'G'})
	assert.ErrorIs(t, err, ErrOCRNotEnabled)
	assert.ErrorIs(t, client.SetLanguage(DefaultLanguages...), ErrOCRNotEnabled)
	assert.ErrorIs(t, client.SetPageSegMode(PSM_AUTO), ErrOCRNotEnabled)
}
