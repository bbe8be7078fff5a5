// Command to ingest a single device page into the catalog database without
// going through the HTTP server. Useful for backfills.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/axewhyzed/get-that-phone/internal/ingest"
	"github.com/axewhyzed/get-that-phone/internal/scraper"
	"github.com/axewhyzed/get-that-phone/internal/store"
)

func main() {
	brand := flag.String("brand", "", "Brand name, e.g. SamsungPhones")
	url := flag.String("url", "", "Device page URL to ingest")
	folder := flag.String("folder", "", "Stable folder name for the device (defaults to the extracted phone name)")
	dataDir := flag.String("dir", "./data", "Data directory containing the SQLite database")
	userAgent := flag.String("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36", "User-Agent header for the fetch")
	flag.Parse()

	if *brand == "" || *url == "" {
		fmt.Fprintln(os.Stderr, "error: -brand and -url are required")
		flag.Usage()
		os.Exit(1)
	}

	st, err := store.NewSQLite(*dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: opening store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	client := scraper.NewClient(*userAgent, 30*time.Second)
	svc := ingest.New(st, client)

	summary, err := svc.IngestURL(*brand, *url, *folder)
	if err != nil {
		if errors.Is(err, ingest.ErrNoSpecs) {
			fmt.Fprintln(os.Stderr, "error: page yielded no specification blocks")
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("Ingested %s (phone %s): %d spec categories, %d gallery images\n",
		summary.Name, summary.PhoneID, summary.SpecCategories, summary.GalleryImages)
}
