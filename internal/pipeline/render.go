package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/kepler/internal/model"
	"github.com/ppiankov/kepler/internal/validate"
)

// BuildArtifact assembles the persisted document from records and their summary
func BuildArtifact(records []model.ComparisonRecord, summary model.Summary) model.Artifact {
	if records == nil {
		records = []model.ComparisonRecord{}
	}
	return model.Artifact{
		Metadata: model.Metadata{
			TotalCases:  len(records),
			Systems:     model.Strategies(),
			Description: model.ArtifactDescription,
		},
		Cases:      records,
		Statistics: summary,
	}
}

// EncodeJSON validates the artifact and encodes it deterministically:
// struct field order, two-space indent, no HTML escaping, trailing newline.
func EncodeJSON(a model.Artifact) ([]byte, error) {
	if err := validate.Artifact(a); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderJSON writes the artifact to path, replacing any existing file.
// The file is written to a temporary sibling and renamed, so path never holds a partial artifact.
// It returns the path written.
func RenderJSON(a model.Artifact, path string) (string, error) {
	data, err := EncodeJSON(a)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return "", fmt.Errorf("chmod artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("rename artifact: %w", err)
	}

	return path, nil
}

// RenderSummary prints the human-readable statistics block
func RenderSummary(w io.Writer, a model.Artifact) {
	stats := a.Statistics
	total := a.Metadata.TotalCases

	fmt.Fprintf(w, "\nStatistics:\n")
	fmt.Fprintf(w, "  Total cases: %d\n", total)
	fmt.Fprintf(w, "  Avg confidence (Single-Agent):     %.1f%%\n", stats.AverageConfidence.SingleAgent.Float())
	fmt.Fprintf(w, "  Avg confidence (MA Standard):      %.1f%%\n", stats.AverageConfidence.MultiAgentStandard.Float())
	fmt.Fprintf(w, "  Avg confidence (MA Forced Binary): %.1f%%\n", stats.AverageConfidence.MultiAgentForced.Float())

	fmt.Fprintf(w, "\nVerdict Distribution (faithful/mutated/ambiguous):\n")
	for _, s := range model.Strategies() {
		c := stats.VerdictDistribution.For(s)
		fmt.Fprintf(w, "  %-22s %d/%d/%d\n", s+":", c.Faithful, c.Mutated, c.Ambiguous)
	}

	fmt.Fprintf(w, "\nForced Binary Stats:\n")
	fmt.Fprintf(w, "  Cases forced to binary: %d/%d\n", stats.ForcedBinaryStats.TotalForced, total)
	fmt.Fprintf(w, "  Verdicts changed by forcing: %d\n", stats.ForcedBinaryStats.VerdictChangedByForcing)

	fmt.Fprintf(w, "\nAgreement:\n")
	fmt.Fprintf(w, "  Single vs MA Standard: %d/%d\n", stats.Agreement.SingleVsStandard, total)
	fmt.Fprintf(w, "  Single vs MA Forced:   %d/%d\n", stats.Agreement.SingleVsForced, total)
	fmt.Fprintf(w, "  MA Standard vs Forced: %d/%d\n", stats.Agreement.StandardVsForced, total)
	fmt.Fprintf(w, "%s\n", strings.Repeat("═", 70))
}
