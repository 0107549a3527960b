package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lattice-ci/lattice-go/internal/expand"
	"github.com/lattice-ci/lattice-go/internal/recipe"
)

func main() {
	recipePath := flag.String("recipe", "", "path to the recipe file (required)")
	format := flag.String("format", "json", "output format: json or names")
	strict := flag.Bool("strict", false, "treat duplicate axis keys as errors")
	server := flag.String("server", "", "expand via a matrix service instead of locally")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if *recipePath == "" {
		fmt.Fprintln(os.Stderr, "usage: latticectl -recipe <path> [-format json|names] [-strict] [-server url]")
		os.Exit(2)
	}
	if *format != "json" && *format != "names" {
		logger.Error("unsupported format", "format", *format)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var jobsJSON []byte
	if *server != "" {
		remote, err := expandRemote(ctx, logger, *server, *recipePath, *strict)
		if err != nil {
			logger.Error("remote expansion failed", "server", *server, "error", err)
			os.Exit(1)
		}
		jobsJSON = remote
	} else {
		local, err := expandLocal(logger, *recipePath, *strict)
		if err != nil {
			logger.Error("expansion failed", "recipe", *recipePath, "error", err)
			os.Exit(2)
		}
		jobsJSON = local
	}

	if err := writeOutput(os.Stdout, jobsJSON, *format); err != nil {
		logger.Error("write output failed", "error", err)
		os.Exit(1)
	}
}

func expandLocal(logger *slog.Logger, path string, strict bool) ([]byte, error) {
	parsed, err := recipe.ParseFile(path)
	if err != nil {
		return nil, err
	}
	jobs, err := expand.Expand(parsed, expand.Options{StrictAxes: strict, Logger: logger})
	if err != nil {
		return nil, err
	}
	return expand.MarshalJobs(jobs)
}

func expandRemote(ctx context.Context, logger *slog.Logger, server, path string, strict bool) ([]byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipe: %w", err)
	}
	client := newAPIClient(ctx, server)
	result, err := client.createExpansion(ctx, string(src), path, strict)
	if err != nil {
		return nil, err
	}
	logger.Info("expansion recorded", "expansion_id", result.ExpansionID, "job_count", result.JobCount)
	return result.Jobs, nil
}

func writeOutput(w io.Writer, jobsJSON []byte, format string) error {
	switch format {
	case "names":
		var jobs []struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(jobsJSON, &jobs); err != nil {
			return err
		}
		for _, job := range jobs {
			if _, err := fmt.Fprintln(w, job.Name); err != nil {
				return err
			}
		}
		return nil
	case "json":
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, jobsJSON, "", "  "); err != nil {
			return err
		}
		pretty.WriteByte('\n')
		_, err := w.Write(pretty.Bytes())
		return err
	default:
		return errors.New("unsupported format")
	}
}
