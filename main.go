package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"trendlens-go/pkg/chart"
	"trendlens-go/pkg/logger"
	"trendlens-go/pkg/retry"
	"trendlens-go/pkg/seo"
	"trendlens-go/pkg/storage"
	"trendlens-go/pkg/trends"
)

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns environment variable as int or default
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBoolOrDefault returns environment variable as bool or default
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("CRITICAL ERROR: Application panic recovered: %v\n", r)
			os.Exit(1)
		}
	}()

	// Environment variable defaults (CI friendly)
	defaultTrendsAPIURL := getEnvOrDefault("TRENDS_API_URL", "")
	defaultTrendsAPIKey := getEnvOrDefault("TRENDS_API_KEY", "")
	defaultKeywords := getEnvOrDefault("KEYWORDS", "Black Friday Deals,Cyber Monday Deals,Holiday Sales")
	defaultRegionKeyword := getEnvOrDefault("REGION_KEYWORD", "Holiday Sales")
	defaultGeo := getEnvOrDefault("GEO", "US")
	defaultTimeframe := getEnvOrDefault("TIMEFRAME", trends.DefaultTimeframe)
	defaultRetries := getEnvIntOrDefault("MAX_RETRIES", retry.DefaultMaxRetries)
	defaultRetryDelay := getEnvIntOrDefault("RETRY_DELAY_SECONDS", 5)
	defaultOutputDir := getEnvOrDefault("OUTPUT_DIR", "charts")
	defaultHistoryPath := getEnvOrDefault("HISTORY_PATH", "trendlens.db")
	defaultDebug := getEnvBoolOrDefault("DEBUG", false)

	// Command line flags (override environment variables)
	var (
		trendsAPIURL  = flag.String("trends-api-url", defaultTrendsAPIURL, "Trends provider API URL (env: TRENDS_API_URL)")
		trendsAPIKey  = flag.String("trends-api-key", defaultTrendsAPIKey, "Trends provider API key (env: TRENDS_API_KEY)")
		keywords      = flag.String("keywords", defaultKeywords, "Comma-separated keywords to analyze (env: KEYWORDS)")
		regionKeyword = flag.String("region-keyword", defaultRegionKeyword, "Keyword for the regional breakdown (env: REGION_KEYWORD)")
		geo           = flag.String("geo", defaultGeo, "Geography code, empty for worldwide (env: GEO)")
		timeframe     = flag.String("timeframe", defaultTimeframe, "Time window descriptor (env: TIMEFRAME)")
		maxRetries    = flag.Int("max-retries", defaultRetries, "Fetch attempts before giving up (env: MAX_RETRIES)")
		retryDelay    = flag.Int("retry-delay", defaultRetryDelay, "Base backoff delay in seconds (env: RETRY_DELAY_SECONDS)")
		outputDir     = flag.String("output-dir", defaultOutputDir, "Directory for rendered charts (env: OUTPUT_DIR)")
		historyPath   = flag.String("history-path", defaultHistoryPath, "Fetch history database path (env: HISTORY_PATH)")
		debug         = flag.Bool("debug", defaultDebug, "Enable debug logging (env: DEBUG)")
		help          = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	if *help {
		printUsage()
		return
	}

	if *trendsAPIURL == "" {
		fmt.Println("ERROR: Trends provider API URL is required.")
		fmt.Println("Use -trends-api-url flag or TRENDS_API_URL environment variable.")
		fmt.Println("")
		printUsage()
		os.Exit(1)
	}

	logLevel := "info"
	if *debug {
		logLevel = "debug"
	}
	logger.SetLogger(logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stdout"}))
	log := logger.ForComponent("main")

	client, err := trends.NewHTTPClient(*trendsAPIURL, *trendsAPIKey)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}

	fetcher := retry.New(*maxRetries, time.Duration(*retryDelay)*time.Second)
	analyzer := seo.NewAnalyzerWithRetry(client, fetcher)
	renderer := chart.NewRenderer()

	history, err := storage.OpenHistory(*historyPath)
	if err != nil {
		log.WithError(err).Warn("Fetch history unavailable, continuing without it")
		history = nil
	} else {
		defer history.Close()
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Printf("ERROR: cannot create output directory %s: %v\n", *outputDir, err)
		os.Exit(1)
	}

	scenario := &analysisScenario{
		analyzer:  analyzer,
		renderer:  renderer,
		history:   history,
		log:       log,
		outputDir: *outputDir,
	}

	keywordList := splitKeywords(*keywords)
	scenario.Run(context.Background(), keywordList, *regionKeyword, *timeframe, *geo)
}

// analysisScenario runs the fixed two-phase analysis: interest over time
// for the keyword set, then regional interest for one keyword. Each phase
// is independent; a failure in one never prevents the other.
type analysisScenario struct {
	analyzer  *seo.Analyzer
	renderer  chart.Renderer
	history   *storage.FetchHistory
	log       *logger.Logger
	outputDir string
}

func (s *analysisScenario) Run(ctx context.Context, keywords []string, regionKeyword, timeframe, geo string) {
	// 1. Interest over time
	s.runTimeSeriesPhase(ctx, keywords, timeframe, geo)

	// 2. Regional analysis
	s.runRegionalPhase(ctx, regionKeyword, geo)
}

func (s *analysisScenario) runTimeSeriesPhase(ctx context.Context, keywords []string, timeframe, geo string) {
	start := time.Now()
	series, err := s.analyzer.InterestOverTime(ctx, keywords, timeframe, geo)
	s.record(ctx, storage.FetchRecord{
		Kind:       "interest_over_time",
		Keywords:   keywords,
		Timeframe:  timeframe,
		Geo:        geo,
		RowCount:   seriesRows(series),
		Success:    err == nil,
		Error:      errString(err),
		DurationMs: time.Since(start).Milliseconds(),
	})
	if err != nil {
		fmt.Printf("Failed to fetch interest over time: %v\n", err)
		return
	}

	if series.Empty() {
		fmt.Println("No data retrieved for interest over time.")
		return
	}

	title := fmt.Sprintf("Emerging Trends (%s)", geoLabel(geo))
	path := filepath.Join(s.outputDir, "interest_over_time.html")
	if err := s.renderToFile(path, func(file *os.File) error {
		return s.renderer.RenderInterestOverTime(file, series, title)
	}); err != nil {
		fmt.Printf("Failed to render interest over time: %v\n", err)
		return
	}
	fmt.Printf("Interest over time chart written to %s\n", path)
}

func (s *analysisScenario) runRegionalPhase(ctx context.Context, keyword, geo string) {
	start := time.Now()
	table, err := s.analyzer.InterestByRegion(ctx, keyword, trends.ResolutionCountry, geo)
	s.record(ctx, storage.FetchRecord{
		Kind:       "interest_by_region",
		Keywords:   []string{keyword},
		Geo:        geo,
		Resolution: string(trends.ResolutionCountry),
		RowCount:   tableRows(table),
		Success:    err == nil,
		Error:      errString(err),
		DurationMs: time.Since(start).Milliseconds(),
	})
	if err != nil {
		fmt.Printf("Failed to fetch regional interest: %v\n", err)
		return
	}

	if table.Empty() {
		fmt.Println("No data retrieved for regional interest.")
		return
	}

	title := fmt.Sprintf("Regional Interest (%s)", geoLabel(geo))
	path := filepath.Join(s.outputDir, "regional_interest.html")
	if err := s.renderToFile(path, func(file *os.File) error {
		return s.renderer.RenderRegionalInterest(file, table, keyword, title)
	}); err != nil {
		fmt.Printf("Failed to render regional interest: %v\n", err)
		return
	}
	fmt.Printf("Regional interest chart written to %s\n", path)
}

func (s *analysisScenario) renderToFile(path string, render func(*os.File) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return render(file)
}

func (s *analysisScenario) record(ctx context.Context, rec storage.FetchRecord) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(ctx, rec); err != nil {
		s.log.WithError(err).Warn("Failed to record fetch history")
	}
}

func splitKeywords(raw string) []string {
	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	return keywords
}

func seriesRows(series *trends.TimeSeries) int {
	if series == nil {
		return 0
	}
	return len(series.Points)
}

func tableRows(table *trends.RegionTable) int {
	if table == nil {
		return 0
	}
	return len(table.Rows)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func geoLabel(geo string) string {
	if geo == "" {
		return "Worldwide"
	}
	return geo
}

func printUsage() {
	fmt.Println("trendlens-go - keyword search-interest analysis")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  trendlens -trends-api-url https://trends.example.com/api [options]")
	fmt.Println("")
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println("")
	fmt.Println("Fetches interest over time for the keyword set, then regional interest")
	fmt.Println("for one keyword, rendering each non-empty result as an HTML chart.")
}
