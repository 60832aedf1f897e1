package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/debemdeboas/insights/internal/config"
)

const header = `# Insights configuration example
# Copy this file to config.yaml and customize as needed.
# Values may reference environment variables, e.g. ${POSTS_BUCKET}.
# S3 credentials are read from INSIGHTS_S3_ACCESS_KEY_ID and
# INSIGHTS_S3_SECRET_ACCESS_KEY.

`

func generate() ([]byte, error) {
	yamlData, err := yaml.Marshal(config.Default())
	if err != nil {
		return nil, err
	}
	return append([]byte(header), yamlData...), nil
}

func main() {
	output, err := generate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating YAML: %v\n", err)
		os.Exit(1)
	}

	outputFile := "config.example.yaml"
	if len(os.Args) > 1 {
		outputFile = os.Args[1]
	}

	if outputFile == "-" {
		os.Stdout.Write(output)
		return
	}

	if err := os.WriteFile(outputFile, output, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated example config: %s\n", outputFile)
}
