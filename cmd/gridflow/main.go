// Command gridflow runs a workflow graph described by a JSON payload file
// against the dataflow engine, either end to end or as a single-node
// preview, and prints the resulting report as JSON.
//
// Usage:
//
//	gridflow -workflow workflow.json [flags]
//
// Flags:
//
//	-workflow string
//	    Path to the workflow JSON payload (required)
//	-files string
//	    Path to a JSON object mapping file_id to a local file path
//	-caller string
//	    Caller identity recorded against file resolution and AI calls (default "cli")
//	-out string
//	    Output directory for artifacts written by output/output_csv (default ".")
//	-preview string
//	    Node id to preview instead of running the whole workflow
//	-source-rows int
//	    Row bound for source operators during preview (default 1000)
//	-display-rows int
//	    Row bound on the preview's sampled display window (default 50)
//	-timeout duration
//	    Maximum time allowed for the run (default 5m)
//	-verbose
//	    Print workflow/node start, success, and failure events to stderr as they happen
//
// Example:
//
//	# Execute an entire workflow
//	gridflow -workflow workflow.json -files files.json -out ./artifacts
//
//	# Preview a single node
//	gridflow -workflow workflow.json -files files.json -preview join_1
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fieldflow/gridflow/pkg/aiclient"
	"github.com/fieldflow/gridflow/pkg/engine"
	"github.com/fieldflow/gridflow/pkg/fileregistry"
	"github.com/fieldflow/gridflow/pkg/observer"
	"github.com/fieldflow/gridflow/pkg/operator"
	"github.com/fieldflow/gridflow/pkg/types"
)

func main() {
	workflowPath := flag.String("workflow", "", "Path to the workflow JSON payload (required)")
	filesPath := flag.String("files", "", "Path to a JSON object mapping file_id to a local file path")
	caller := flag.String("caller", "cli", "Caller identity recorded against file resolution and AI calls")
	outDir := flag.String("out", ".", "Output directory for artifacts written by output/output_csv")
	previewNode := flag.String("preview", "", "Node id to preview instead of running the whole workflow")
	sourceRows := flag.Int("source-rows", 1000, "Row bound for source operators during preview")
	displayRows := flag.Int("display-rows", 50, "Row bound on the preview's sampled display window")
	timeout := flag.Duration("timeout", 5*time.Minute, "Maximum time allowed for the run")
	verbose := flag.Bool("verbose", false, "Print workflow/node start, success, and failure events to stderr")
	flag.Parse()

	if *workflowPath == "" {
		fmt.Fprintln(os.Stderr, "gridflow: -workflow is required")
		flag.Usage()
		os.Exit(2)
	}

	payload, err := loadPayload(*workflowPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gridflow: %v\n", err)
		os.Exit(1)
	}

	files, err := loadFileRegistry(*filesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gridflow: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "gridflow: create output directory: %v\n", err)
		os.Exit(1)
	}

	registry := operator.NewDefaultRegistry(newModelFromEnv())
	sched := engine.New(registry)
	if *verbose {
		sched = sched.WithObservers(observer.NewManagerWithObservers(observer.NewConsoleObserver()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var report any
	if *previewNode != "" {
		report = sched.PreviewNode(ctx, payload, files, *caller, *previewNode, *sourceRows, *displayRows)
	} else {
		report = sched.Execute(ctx, payload, files, *caller, *outDir)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "gridflow: encode report: %v\n", err)
		os.Exit(1)
	}
}

func loadPayload(path string) (types.Payload, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.Payload{}, fmt.Errorf("read workflow: %w", err)
	}
	var payload types.Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return types.Payload{}, fmt.Errorf("parse workflow: %w", err)
	}
	return payload, nil
}

func loadFileRegistry(path string) (fileregistry.Registry, error) {
	if path == "" {
		return fileregistry.NewStatic(nil), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read files: %w", err)
	}
	var mapping map[string]string
	if err := json.Unmarshal(raw, &mapping); err != nil {
		return nil, fmt.Errorf("parse files: %w", err)
	}
	return fileregistry.NewStatic(mapping), nil
}

// newModelFromEnv builds the ai_agent operator's chat model from
// ANTHROPIC_API_KEY, or returns nil (ai_agent then fails every call with
// remote_unavailable instead of panicking) when it isn't set.
func newModelFromEnv() aiclient.ChatModel {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil
	}
	return aiclient.NewAnthropicModel(apiKey, os.Getenv("ANTHROPIC_MODEL"), 1024)
}
