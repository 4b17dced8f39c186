package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/doingodswork/ertflix-jellyfin/pkg/catalog"
	"github.com/doingodswork/ertflix-jellyfin/pkg/ertflix"
)

// Prints the named toplists of the ERTFLIX catalog, which is useful when ERTFLIX renames the movie or TV show section.
// With a codename the tiles of that section are printed as well.

var (
	baseURL          = flag.String("baseURL", "https://api.app.ertflix.gr", "Base URL of the ERTFLIX API")
	platformCodename = flag.String("platformCodename", "www", "Platform codename")
	pageCodename     = flag.String("pageCodename", "mainpage", "Codename of the page to fetch")
	codename         = flag.String("codename", "", "Toplist codename of a section whose tiles should be resolved and printed")
	verbose          = flag.Bool("verbose", false, "Log requests to the ERTFLIX API")
	extraHeaders     = flag.String("extraHeaders", "", "Additional headers to set, for example for a proxy. Format: \"X-Foo: bar\". Separated by newline characters (\"\\n\")")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	// No precondition check for extraHeaders - `ertflix.NewClient()` already does that

	// Parse extra headers
	var extraHeaderSlice []string
	if *extraHeaders != "" {
		headers := strings.Split(*extraHeaders, "\n")
		for _, header := range headers {
			header = strings.TrimSpace(header)
			if header != "" {
				extraHeaderSlice = append(extraHeaderSlice, header)
			}
		}
	}

	logger := zap.NewNop()
	if *verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			log.Fatalf("Couldn't create logger: %v", err)
		}
	}

	opts := ertflix.DefaultClientOpts
	opts.BaseURL = *baseURL
	opts.PlatformCodename = *platformCodename
	opts.PageCodename = *pageCodename
	opts.Timeout = 10 * time.Second
	opts.ExtraHeaders = extraHeaderSlice
	client, err := ertflix.NewClient(opts, logger)
	if err != nil {
		log.Fatalf("Couldn't create ERTFLIX client: %v", err)
	}

	sections, err := client.FetchCatalog(ctx)
	if err != nil {
		log.Fatalf("Couldn't fetch catalog: %v", err)
	}
	fmt.Printf("Fetched %v sections\n", len(sections))
	for _, section := range sections {
		if section.HasToplist() {
			fmt.Printf("%v\t%v\t%v tiles\n", section.SectionID, section.ToplistCodename, len(section.TileRefs))
		}
	}

	if *codename == "" {
		return
	}
	section, err := catalog.Classify(sections, *codename)
	if err != nil {
		log.Fatalf("Couldn't classify sections: %v", err)
	}
	entries, err := catalog.Resolve[catalog.CollectionEntry](ctx, client, section.TileIDs(), catalog.CollectionEntryConverter{}, 0)
	if err != nil {
		log.Fatalf("Couldn't resolve tiles: %v", err)
	}
	fmt.Printf("\nSection %v has %v tiles:\n", *codename, len(entries))
	for _, entry := range entries {
		fmt.Printf("%v\t%v\n", entry.ID, entry.Name)
	}
}
