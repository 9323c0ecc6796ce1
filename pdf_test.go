package timetable_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanvanderbyl/timetable"
)

// setupPDFium initialises a pdfium instance for testing.
func setupPDFium(t *testing.T) pdfium.Pdfium {
	t.Helper()

	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
	})

	instance, err := pool.GetInstance(time.Second * 30)
	require.NoError(t, err)

	return instance
}

func samplePDF(t *testing.T) string {
	t.Helper()

	path := filepath.Join("testdata", "timetable.pdf")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("Test PDF not found, skipping test")
	}
	return path
}

func TestPDFSource_FileFragments(t *testing.T) {
	path := samplePDF(t)
	source := timetable.NewPDFSource(setupPDFium(t))

	pages, err := source.FileFragments(path)
	require.NoError(t, err)
	require.NotEmpty(t, pages)

	for _, page := range pages {
		t.Logf("Page %d: %d fragments", page.Number, len(page.Fragments))
		for _, f := range page.Fragments {
			assert.GreaterOrEqual(t, f.Box.MinX, 0.0)
			assert.LessOrEqual(t, f.Box.MaxX, 1.0)
			assert.GreaterOrEqual(t, f.Box.MinY, 0.0)
			assert.LessOrEqual(t, f.Box.MaxY, 1.0)
			assert.NotEmpty(t, f.Text)
		}
	}
}

func TestPDFSource_BytesAndReaderMatchFile(t *testing.T) {
	path := samplePDF(t)
	source := timetable.NewPDFSource(setupPDFium(t))

	fromFile, err := source.FileFragments(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	fromBytes, err := source.BytesFragments(data)
	require.NoError(t, err)
	assert.Equal(t, fromFile, fromBytes)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	fromReader, err := source.ReaderFragments(f)
	require.NoError(t, err)
	assert.Equal(t, fromFile, fromReader)
}

func TestParser_ParsePDF(t *testing.T) {
	path := samplePDF(t)
	parser := timetable.NewParser()

	items, err := parser.ParsePDF(timetable.NewPDFSource(setupPDFium(t)), path)
	require.NoError(t, err)

	for _, item := range items {
		t.Logf("%s", item)
		assert.Greater(t, item.End.Minutes(), item.Start.Minutes())
	}
}

func TestPDFSource_InvalidDocument(t *testing.T) {
	source := timetable.NewPDFSource(setupPDFium(t))

	_, err := source.BytesFragments([]byte("not a pdf"))
	assert.Error(t, err)

	_, err = source.FileFragments(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}
