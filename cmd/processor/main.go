package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"pickpulse/internal/config"
	"pickpulse/internal/dataprocessing"
	"pickpulse/internal/exporter"
	"pickpulse/internal/files"
	"pickpulse/internal/infrastructure"
	"pickpulse/internal/validation"
	"pickpulse/pkg/contracts/domain"
)

func main() {
	inDir := flag.String("in", "", "input directory for .xlsx workbooks (defaults to data/uploads relative to executable)")
	outDir := flag.String("out", "", "output directory for CSV reports (defaults to data/reports relative to executable)")
	kind := flag.String("kind", "", `record kind for all workbooks ("pick" or "pack"); empty means detect from each filename`)
	normalize := flag.Bool("normalize-names", false, "fold employee-name case and whitespace before grouping")
	workers := flag.Int("workers", runtime.NumCPU(), "number of workbooks parsed concurrently")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	if *inDir == "" {
		*inDir = paths.UploadsDir
	}
	if *outDir == "" {
		*outDir = paths.ReportsDir
	}
	// The CSV writer treats relative paths as report-dir relative; pin the
	// output directory down before building file paths from it.
	if abs, err := filepath.Abs(*outDir); err == nil {
		*outDir = abs
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("processor.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	declared := domain.RecordKind(*kind)
	if declared != "" && declared != domain.KindPick && declared != domain.KindPack {
		logger.Error("Invalid -kind value", slog.String("kind", *kind))
		os.Exit(1)
	}

	logger.Info("Starting workbook processing",
		slog.String("input_dir", *inDir),
		slog.String("output_dir", *outDir),
		slog.String("kind", *kind),
		slog.Bool("normalize_names", *normalize),
		slog.Int("workers", *workers))

	validator := validation.NewFileValidator(logger, 0)
	if err := validator.ValidateInputDirectory(*inDir, "*.xls*"); err != nil {
		logger.Error("Input directory validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := validator.ValidateOutputDirectory(*outDir); err != nil {
		logger.Error("Output directory validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	discovery := files.NewDiscovery(paths.ExecutableDir)
	workbooks, err := discovery.FindWorkbooks(*inDir)
	if err != nil {
		logger.Error("Failed to discover workbooks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if len(workbooks) == 0 {
		logger.Warn("No workbooks found, nothing to do",
			slog.String("input_dir", *inDir))
		return
	}

	parser := dataprocessing.NewParser(logger)
	ctx := context.Background()

	// Parse concurrently but keep the discovery order in the combined
	// dataset: results land in a slot per workbook.
	parsed := make([]dataprocessing.ParsedFile, len(workbooks))
	failures := make([]error, len(workbooks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*workers)
	for i, wb := range workbooks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			file, err := os.Open(wb.Path)
			if err != nil {
				failures[i] = err
				return nil
			}
			defer file.Close()

			records, err := parser.ParseWorkbook(file, wb.Name, declared)
			if err != nil {
				// One bad workbook must not sink the batch
				failures[i] = err
				return nil
			}

			parsed[i] = dataprocessing.ParsedFile{FileName: wb.Name, Records: records}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("Processing cancelled", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var parsedFiles []dataprocessing.ParsedFile
	failed := 0
	for i, wb := range workbooks {
		if failures[i] != nil {
			failed++
			logger.Error("Workbook parse failed",
				slog.String("file", wb.Name),
				slog.String("error", failures[i].Error()))
			continue
		}
		parsedFiles = append(parsedFiles, parsed[i])
		logger.Info("Workbook parsed",
			slog.String("file", wb.Name),
			slog.Int("record_count", len(parsed[i].Records)))
	}

	records := dataprocessing.Combine(parsedFiles)

	aggregator := dataprocessing.NewAggregator(logger, dataprocessing.AggregatorConfig{
		NormalizeNames: *normalize,
	})
	performances := aggregator.GenerateFromRecords(ctx, records)
	trends := dataprocessing.WeeklyTrends(records)

	writer := exporter.NewCSVWriter(paths)

	// Reports land in the -out directory, not the executable-relative default.
	performanceCSV, trendsCSV, recordsCSV := config.ReportFilePaths(*outDir)

	outputs := []struct {
		path    string
		headers []string
		rows    [][]string
	}{
		{performanceCSV, exporter.PerformanceHeaders, exporter.PerformanceRows(performances)},
		{trendsCSV, exporter.TrendHeaders, exporter.TrendRows(trends)},
	}
	for _, out := range outputs {
		if err := writer.WriteSimpleCSV(out.path, out.headers, out.rows); err != nil {
			logger.Error("Failed to write report",
				slog.String("path", out.path),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// The raw record export grows with every workbook; stream it row by row.
	stream, err := writer.CreateStreamWriter(recordsCSV, exporter.RecordHeaders)
	if err != nil {
		logger.Error("Failed to create records report",
			slog.String("path", recordsCSV),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	for _, row := range exporter.RecordRows(records) {
		if err := stream.WriteRecord(row); err != nil {
			logger.Error("Failed to write records report",
				slog.String("path", recordsCSV),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	if err := stream.Close(); err != nil {
		logger.Error("Failed to finish records report",
			slog.String("path", recordsCSV),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Processing complete",
		slog.Int("workbooks", len(workbooks)),
		slog.Int("failed", failed),
		slog.Int("records", len(records)),
		slog.Int("employees", len(performances)),
		slog.Int("weeks", len(trends)))
}
