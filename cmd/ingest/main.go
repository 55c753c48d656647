// Command ingest scrapes course pages from the catalog site and bulk-writes
// them into catalog_courses.
//
//	go run ./cmd/ingest -codes CSSE1001,CSSE2002
//	go run ./cmd/ingest -file codes.txt
//	go run ./cmd/ingest -existing
package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/JoshCrouch/uq-program-planner/config"
	"github.com/JoshCrouch/uq-program-planner/database"
	"github.com/JoshCrouch/uq-program-planner/services/catalogscrape"
	"github.com/gofiber/fiber/v2/log"
)

func main() {
	codesFlag := flag.String("codes", "", "comma separated course codes")
	fileFlag := flag.String("file", "", "file with one course code per line")
	existing := flag.Bool("existing", false, "re-scrape every code already in the catalog")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall time limit")
	flag.Parse()

	if err := config.LoadENV(); err != nil {
		log.Warnf("Failed to load .env: %v", err)
	}
	env, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	writer, err := database.NewCatalogWriter(ctx, env.PostgresURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer writer.Close()

	codes := splitCodes(*codesFlag)
	if *fileFlag != "" {
		fromFile, err := readCodes(*fileFlag)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", *fileFlag, err)
		}
		codes = append(codes, fromFile...)
	}
	if *existing {
		known, err := writer.ListCodes(ctx)
		if err != nil {
			log.Fatalf("Failed to list catalog codes: %v", err)
		}
		codes = append(codes, known...)
	}
	codes = dedupe(codes)
	if len(codes) == 0 {
		log.Fatal("No course codes given; use -codes, -file or -existing")
	}

	scraper := catalogscrape.NewScraper(catalogscrape.Config{BaseURL: env.CATALOG_SOURCE_URL})
	log.Infof("Scraping %d courses from %s", len(codes), env.CATALOG_SOURCE_URL)

	scraped, failures := scraper.ScrapeCourses(ctx, codes)
	for code, err := range failures {
		log.Warnf("Skipping %s: %v", code, err)
	}

	records := make([]database.CatalogRecord, 0, len(scraped))
	for _, details := range scraped {
		records = append(records, database.CatalogRecord{
			Code:        details.Code,
			Title:       details.Title,
			Units:       details.Units,
			Description: details.Description,
			Level:       details.Level,
			SourceURL:   details.SourceURL,
		})
	}

	if err := writer.UpsertCourses(ctx, records); err != nil {
		log.Fatalf("Failed to write courses: %v", err)
	}
	log.Infow("Ingest finished", "written", len(records), "failed", len(failures))
}

func splitCodes(s string) []string {
	var codes []string
	for _, code := range strings.Split(s, ",") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

func readCodes(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var codes []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		codes = append(codes, line)
	}
	return codes, scanner.Err()
}

func dedupe(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(code)
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}
