package timetable

import (
	"io"
	"math"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
)

// PageFragments holds the fragments extracted from one PDF page.
type PageFragments struct {
	Number    int // 1-based page number
	Fragments []Fragment
}

// PDFSource extracts positioned text fragments from timetable PDFs using
// pdfium's text layer.
type PDFSource struct {
	instance  pdfium.Pdfium
	gapFactor float64
}

// NewPDFSource creates a PDF fragment source backed by a pdfium instance.
func NewPDFSource(instance pdfium.Pdfium) *PDFSource {
	return &PDFSource{
		instance:  instance,
		gapFactor: DefaultRunGapFactor,
	}
}

// FileFragments extracts fragments from every page of a PDF file.
func (s *PDFSource) FileFragments(filePath string) ([]PageFragments, error) {
	doc, err := s.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &filePath,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer s.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	return s.documentFragments(doc.Document)
}

// BytesFragments extracts fragments from PDF bytes.
func (s *PDFSource) BytesFragments(pdfBytes []byte) ([]PageFragments, error) {
	doc, err := s.instance.OpenDocument(&requests.OpenDocument{
		File: &pdfBytes,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer s.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	return s.documentFragments(doc.Document)
}

// ReaderFragments extracts fragments from a PDF read from an io.ReadSeeker.
func (s *PDFSource) ReaderFragments(reader io.ReadSeeker) ([]PageFragments, error) {
	doc, err := s.instance.OpenDocument(&requests.OpenDocument{
		FileReader: reader,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer s.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	return s.documentFragments(doc.Document)
}

func (s *PDFSource) documentFragments(docRef references.FPDF_DOCUMENT) ([]PageFragments, error) {
	pageCount, err := s.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: docRef,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page count")
	}

	pages := make([]PageFragments, 0, pageCount.PageCount)
	for i := 0; i < pageCount.PageCount; i++ {
		fragments, err := s.pageFragments(docRef, i)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to extract page %d", i+1)
		}
		pages = append(pages, PageFragments{Number: i + 1, Fragments: fragments})
	}

	return pages, nil
}

func (s *PDFSource) pageFragments(docRef references.FPDF_DOCUMENT, pageIndex int) ([]Fragment, error) {
	pageResp, err := s.instance.FPDF_LoadPage(&requests.FPDF_LoadPage{
		Document: docRef,
		Index:    pageIndex,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load page")
	}
	defer s.instance.FPDF_ClosePage(&requests.FPDF_ClosePage{
		Page: pageResp.Page,
	})

	page := pageResp.Page

	pageWidth, err := s.instance.FPDF_GetPageWidthF(&requests.FPDF_GetPageWidthF{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page width")
	}

	pageHeight, err := s.instance.FPDF_GetPageHeightF(&requests.FPDF_GetPageHeightF{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page height")
	}

	textPage, err := s.instance.FPDFText_LoadPage(&requests.FPDFText_LoadPage{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load text page")
	}
	defer s.instance.FPDFText_ClosePage(&requests.FPDFText_ClosePage{
		TextPage: textPage.TextPage,
	})

	charCount, err := s.instance.FPDFText_CountChars(&requests.FPDFText_CountChars{
		TextPage: textPage.TextPage,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to count characters")
	}
	if charCount.Count == 0 {
		return nil, nil
	}

	chars := s.extractChars(textPage.TextPage, charCount.Count,
		float64(pageWidth.PageWidth), float64(pageHeight.PageHeight))

	return MergeRuns(groupCharsIntoWords(chars, s.gapFactor), s.gapFactor), nil
}

// pdfChar is a character with its normalized box.
type pdfChar struct {
	Text rune
	Box  Rect
}

// extractChars reads every character with its box, skipping characters
// pdfium cannot describe.
func (s *PDFSource) extractChars(textPage references.FPDF_TEXTPAGE, count int, pageWidth, pageHeight float64) []pdfChar {
	chars := make([]pdfChar, 0, count)

	for i := range count {
		unicodeRes, err := s.instance.FPDFText_GetUnicode(&requests.FPDFText_GetUnicode{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil || unicodeRes.Unicode == 0 {
			continue
		}

		charBox, err := s.instance.FPDFText_GetCharBox(&requests.FPDFText_GetCharBox{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil {
			continue
		}

		// PDF user space already has its origin at the bottom-left
		chars = append(chars, pdfChar{
			Text: rune(unicodeRes.Unicode),
			Box:  normalizeRect(charBox.Left, charBox.Bottom, charBox.Right, charBox.Top, pageWidth, pageHeight),
		})
	}

	return chars
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// ligatureMap maps typographic ligatures to their component letters
var ligatureMap = map[rune]string{
	0xFB00: "ff",
	0xFB01: "fi",
	0xFB02: "fl",
	0xFB03: "ffi",
	0xFB04: "ffl",
	0xFB05: "ft",
	0xFB06: "st",
}

// groupCharsIntoWords splits the character stream into words at
// whitespace, at horizontal gaps wider than gapFactor median character
// widths and where the text jumps to another line. Text layers of
// generated timetables often omit the spaces between table cells.
func groupCharsIntoWords(chars []pdfChar, gapFactor float64) []Fragment {
	widths := make([]float64, 0, len(chars))
	for _, c := range chars {
		if !isWhitespace(c.Text) {
			widths = append(widths, c.Box.Width())
		}
	}
	maxGap := calculateMedian(widths) * gapFactor

	var words []Fragment
	var text []rune
	var box Rect

	flush := func() {
		if len(text) > 0 {
			words = append(words, Fragment{Text: string(text), Box: box})
		}
		text = nil
	}

	for _, char := range chars {
		if isWhitespace(char.Text) {
			flush()
			continue
		}
		if len(text) > 0 {
			gap := char.Box.MinX - box.MaxX
			lineJump := math.Abs(char.Box.CenterY()-box.CenterY()) > box.Height()/2
			if gap > maxGap || gap < -box.Width() || lineJump {
				flush()
			}
		}
		if len(text) == 0 {
			box = char.Box
		} else {
			box = mergeRects(box, char.Box)
		}
		if expansion, ok := ligatureMap[char.Text]; ok {
			text = append(text, []rune(expansion)...)
		} else {
			text = append(text, char.Text)
		}
	}
	flush()

	return words
}

// ParsePDF parses every page of a PDF file and returns the deduplicated
// union of the per-page schedules in page order.
func (p *Parser) ParsePDF(source *PDFSource, filePath string) ([]ScheduleItem, error) {
	pages, err := source.FileFragments(filePath)
	if err != nil {
		return nil, err
	}
	return p.ParsePages(pages), nil
}

// ParsePages parses each page on its own and returns the deduplicated
// union of the per-page schedules in page order.
func (p *Parser) ParsePages(pages []PageFragments) []ScheduleItem {
	var items []ScheduleItem
	for _, page := range pages {
		items = append(items, p.Parse(page.Fragments)...)
	}
	return DeduplicateItems(items)
}
