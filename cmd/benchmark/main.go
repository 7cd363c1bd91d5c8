package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/okapiscan/okapi/internal/benchmark"
)

func main() {
	var (
		iterations = flag.Int("iterations", 50, "Number of decode iterations per case")
		outputFile = flag.String("output", "", "CSV output file for results (optional)")
		verbose    = flag.Bool("verbose", false, "Verbose output")
	)
	flag.Parse()

	fmt.Println("okapi Decode Throughput Benchmark")
	fmt.Println("=================================")

	suite := benchmark.NewSuite()
	if err := suite.AddDefaultCases(); err != nil {
		log.Fatalf("Failed to build benchmark cases: %v", err)
	}

	if *verbose {
		fmt.Printf("Running %d iterations per case...\n\n", *iterations)
	}

	results, err := suite.Run(*iterations)
	if err != nil {
		log.Fatalf("Benchmark failed: %v", err)
	}

	benchmark.PrintResults(os.Stdout, results)

	if *outputFile != "" {
		if err := saveResultsToFile(*outputFile, results); err != nil {
			log.Printf("Failed to save results to file: %v", err)
		} else {
			fmt.Printf("Results saved to: %s\n", *outputFile)
		}
	}
}

func saveResultsToFile(filename string, results []benchmark.Result) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	return benchmark.WriteCSV(file, results)
}
