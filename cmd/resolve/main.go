// Command resolve loads a program document, enriches every course through the
// course API and prints the re-serialized document.
//
//	go run ./cmd/resolve -api http://localhost:8080 program.json
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/JoshCrouch/uq-program-planner/config"
	"github.com/JoshCrouch/uq-program-planner/program"
	"github.com/JoshCrouch/uq-program-planner/services/courselookup"
	"github.com/gofiber/fiber/v2/log"
)

func main() {
	apiURL := flag.String("api", "", "course API base URL (defaults to COURSE_API_URL)")
	timeout := flag.Duration("timeout", 0, "per-lookup timeout (defaults to COURSE_LOOKUP_TIMEOUT)")
	flag.Parse()

	if err := config.LoadENV(); err != nil {
		log.Warnf("Failed to load .env: %v", err)
	}
	env, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *apiURL == "" {
		*apiURL = env.COURSE_API_URL
	}
	if *timeout == 0 {
		*timeout = env.COURSE_LOOKUP_TIMEOUT
	}

	input, err := readInput(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to read program: %v", err)
	}

	client := courselookup.NewClient(courselookup.Config{BaseURL: *apiURL, Timeout: *timeout})
	output, err := resolve(context.Background(), client, input)
	if err != nil {
		log.Fatalf("Failed to resolve program: %v", err)
	}
	fmt.Println(string(output))
}

// resolve loads data through a Planner and returns the indented result.
func resolve(ctx context.Context, lookup program.CourseLookup, data []byte) ([]byte, error) {
	factory, err := program.NewDefaultFactory(lookup)
	if err != nil {
		return nil, err
	}

	planner := program.NewPlanner(factory)
	start := time.Now()
	if err := planner.LoadJSON(ctx, data); err != nil {
		return nil, err
	}
	log.Infof("Resolved %q in %s", planner.Program().Name(), time.Since(start).Round(time.Millisecond))

	return planner.ToJSON()
}

// readInput reads path, or stdin when path is empty or "-".
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
