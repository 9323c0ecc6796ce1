package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/urfave/cli/v3"

	"github.com/ivanvanderbyl/timetable"
	"github.com/ivanvanderbyl/timetable/ocr"
)

const dateLayout = "2006-01-02"

var (
	errNoFragments = errors.New("no text fragments found in input")
	errNoSchedule  = errors.New("no schedule found")
	errNoneAdded   = errors.New("nothing imported")
)

func main() {
	cmd := &cli.Command{
		Name:  "timetable",
		Usage: "Reconstruct weekly class schedules from timetable PDFs, photos and text",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Input file (.json fragments, .pdf, image, or plain text)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: stdout)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: json, markdown or ics",
				Value:   "json",
			},
			&cli.BoolFlag{
				Name:  "lines",
				Usage: "Treat the input as plain text lines",
			},
			&cli.StringFlag{
				Name:  "locale",
				Usage: "YAML file with extra keywords merged into the built-in dictionaries",
			},
			&cli.StringSliceFlag{
				Name:  "ocr-lang",
				Usage: "Tesseract languages for image input",
				Value: ocr.DefaultLanguages,
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "Log parse timing and statistics",
			},
			&cli.StringFlag{
				Name:  "anchor-date",
				Usage: "Calendar anchor date (YYYY-MM-DD, default: today)",
			},
			&cli.StringFlag{
				Name:  "until",
				Usage: "Last date for recurring events (YYYY-MM-DD)",
			},
			&cli.IntFlag{
				Name:  "subgroup",
				Usage: "Only export classes for this subgroup (1 or 2)",
			},
			&cli.StringFlag{
				Name:  "week-parity",
				Usage: "Parity of the anchor week: odd or even",
			},
			&cli.BoolFlag{
				Name:  "single-day",
				Usage: "Export only the classes held on the anchor date",
			},
			&cli.StringFlag{
				Name:  "address",
				Usage: "Address appended to every event location",
			},
		},
		Action: convertTimetable,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func convertTimetable(_ context.Context, cmd *cli.Command) error {
	inputPath := cmd.String("input")
	outputPath := cmd.String("output")

	config := timetable.DefaultConfig()
	config.EnableMetricsLogging = cmd.Bool("metrics")

	if localePath := cmd.String("locale"); localePath != "" {
		extra, err := timetable.LoadLocaleFile(localePath)
		if err != nil {
			return fmt.Errorf("failed to load locale: %w", err)
		}
		config.Locale = timetable.DefaultLocale().Merge(extra)
	}

	parser := timetable.NewParserWithConfig(config)

	items, err := parseInput(cmd, parser, inputPath)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return errNoSchedule
	}

	fmt.Fprintf(os.Stderr, "Found %d classes\n", len(items))

	var out bytes.Buffer
	switch format := cmd.String("format"); format {
	case "json":
		enc := json.NewEncoder(&out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("failed to encode items: %w", err)
		}
	case "markdown", "md":
		out.WriteString(timetable.RenderMarkdown(items))
	case "ics":
		opts, err := importOptions(cmd)
		if err != nil {
			return err
		}
		result, err := timetable.ExportICS(items, opts, &out)
		if err != nil {
			return fmt.Errorf("failed to export calendar: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Added %d events, skipped %d\n", result.Added, result.Skipped)
		if result.Added == 0 {
			return errNoneAdded
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, out.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Output written to %s\n", outputPath)
		return nil
	}

	_, err = os.Stdout.Write(out.Bytes())
	return err
}

func parseInput(cmd *cli.Command, parser *timetable.Parser, inputPath string) ([]timetable.ScheduleItem, error) {
	if cmd.Bool("lines") {
		return parseLinesFile(parser, inputPath)
	}

	switch strings.ToLower(filepath.Ext(inputPath)) {
	case ".json":
		return parseFragmentsFile(parser, inputPath)
	case ".pdf":
		return parsePDF(parser, inputPath)
	case ".png", ".jpg", ".jpeg", ".gif", ".tif", ".tiff", ".bmp", ".webp":
		return parseImage(parser, inputPath, cmd.StringSlice("ocr-lang"))
	default:
		return parseLinesFile(parser, inputPath)
	}
}

func parseFragmentsFile(parser *timetable.Parser, path string) ([]timetable.ScheduleItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var fragments []timetable.Fragment
	if err := json.Unmarshal(data, &fragments); err != nil {
		return nil, fmt.Errorf("failed to decode fragments: %w", err)
	}
	if len(fragments) == 0 {
		return nil, errNoFragments
	}

	return parser.Parse(fragments), nil
}

func parsePDF(parser *timetable.Parser, path string) ([]timetable.ScheduleItem, error) {
	// Initialise pdfium
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialise pdfium: %w", err)
	}
	defer pool.Close()

	instance, err := pool.GetInstance(time.Second * 30)
	if err != nil {
		return nil, fmt.Errorf("failed to get pdfium instance: %w", err)
	}

	source := timetable.NewPDFSource(instance)
	pages, err := source.FileFragments(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Processing PDF with %d pages...\n", len(pages))

	total := 0
	for _, page := range pages {
		total += len(page.Fragments)
	}
	if total == 0 {
		return nil, errNoFragments
	}

	return parser.ParsePages(pages), nil
}

func parseImage(parser *timetable.Parser, path string, langs []string) ([]timetable.ScheduleItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	client, err := ocr.New()
	if errors.Is(err, ocr.ErrOCRNotEnabled) {
		return nil, fmt.Errorf("cannot read %s: %w", filepath.Base(path), err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialise OCR: %w", err)
	}
	defer client.Close()

	if len(langs) > 0 {
		if err := client.SetLanguage(langs...); err != nil {
			return nil, fmt.Errorf("failed to set OCR language: %w", err)
		}
	}

	fragments, err := client.RecognizeFragments(data)
	if err != nil {
		return nil, fmt.Errorf("failed to recognize image: %w", err)
	}
	if len(fragments) == 0 {
		return nil, errNoFragments
	}

	return parser.Parse(fragments), nil
}

func parseLinesFile(parser *timetable.Parser, path string) ([]timetable.ScheduleItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if len(lines) == 0 {
		return nil, errNoFragments
	}

	return parser.ParseLines(lines), nil
}

func importOptions(cmd *cli.Command) (timetable.ImportOptions, error) {
	opts := timetable.ImportOptions{
		Mode:       timetable.ImportWeekly,
		AnchorDate: time.Now(),
		Location:   time.Local,
		Address:    cmd.String("address"),
	}

	if cmd.Bool("single-day") {
		opts.Mode = timetable.ImportSingleDay
	}

	if s := cmd.String("anchor-date"); s != "" {
		d, err := time.ParseInLocation(dateLayout, s, time.Local)
		if err != nil {
			return opts, fmt.Errorf("invalid anchor date: %w", err)
		}
		opts.AnchorDate = d
	}

	if s := cmd.String("until"); s != "" {
		d, err := time.ParseInLocation(dateLayout, s, time.Local)
		if err != nil {
			return opts, fmt.Errorf("invalid until date: %w", err)
		}
		// Include classes on the last day
		opts.Until = d.AddDate(0, 0, 1).Add(-time.Second)
	}

	switch cmd.Int("subgroup") {
	case 0:
	case 1:
		opts.SubgroupFilter = timetable.SubgroupOne
	case 2:
		opts.SubgroupFilter = timetable.SubgroupTwo
	default:
		return opts, fmt.Errorf("subgroup must be 1 or 2")
	}

	switch strings.ToLower(cmd.String("week-parity")) {
	case "":
	case "odd":
		opts.AnchorWeekParity = timetable.ParityOdd
	case "even":
		opts.AnchorWeekParity = timetable.ParityEven
	default:
		return opts, fmt.Errorf("week parity must be odd or even")
	}

	return opts, nil
}
