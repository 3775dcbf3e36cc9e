package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ramonehamilton/RideCore-Companion/internal/curves"
)

// runCurvesCommand renders the level progression charts.
func runCurvesCommand(args []string) {
	fs := flag.NewFlagSet("curves", flag.ExitOnError)
	output := fs.String("output", "curves.html", "Output HTML file")
	which := fs.String("curve", "both", "Which curve to render: xp, hp or both")
	open := fs.Bool("open", false, "Open the chart in the default browser")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	series := map[string][]int{}
	switch *which {
	case "xp":
		series["XP"] = curves.XPCurve()
	case "hp":
		series["HP"] = curves.HPCurve()
	case "both":
		series["XP"] = curves.XPCurve()
		series["HP"] = curves.HPCurve()
	default:
		log.Fatalf("Unknown curve %q: use xp, hp or both", *which)
	}

	config := curves.DefaultChartConfig()
	config.Title = "Level Progression"
	config.Subtitle = fmt.Sprintf("Levels 1-%d", curves.MaxLevel)

	if err := curves.RenderCurveChart(series, config, *output); err != nil {
		log.Fatalf("Error rendering curves: %v", err)
	}
	fmt.Printf("Wrote %s\n", *output)

	if *open {
		if err := curves.OpenInBrowser(*output); err != nil {
			log.Printf("Could not open browser: %v", err)
		}
	}
}
