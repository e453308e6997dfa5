// Package courses implements the course list command of the coursedeck
// CLI.
package courses

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/jrsteele09/coursedeck/catalog"
	"github.com/jrsteele09/coursedeck/internal/config"
)

func Cmd() *cli.Command {
	return &cli.Command{
		Name:  "courses",
		Usage: "List course cards from the catalog",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "page", Value: 1, Usage: "catalog page to fetch"},
			&cli.IntFlag{Name: "page-size", Value: 10, Usage: "number of courses per page"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadClient()
			if err != nil {
				return err
			}
			if cfg.CatalogAPIKey == "" {
				return fmt.Errorf("RAPIDAPI_KEY is required to browse the catalog")
			}

			courseList, err := catalog.NewClient(cfg.CatalogAPIKey).
				Fetch(c.Context, c.Int("page"), c.Int("page-size"))
			if err != nil {
				return fmt.Errorf("failed to fetch courses: %w", err)
			}

			for _, course := range courseList {
				printCourse(course)
			}
			return nil
		},
	}
}

func printCourse(course catalog.Course) {
	fmt.Println(course.Name)
	if course.Category != "" {
		fmt.Printf("  %s\n", course.Category)
	}
	if course.Description != "" {
		fmt.Printf("  %s\n", course.Description)
	}
	fmt.Printf("  Sale Price: %s\n", formatPrice(course.SalePriceUSD))
	if course.URL != "" {
		fmt.Printf("  %s\n", course.URL)
	}
	fmt.Println(strings.Repeat("-", 60))
}

func formatPrice(price float64) string {
	if price == 0 {
		return "Free"
	}
	return fmt.Sprintf("$%.2f", price)
}
