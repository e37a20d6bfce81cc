package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: unknown format %q (want %s or %s)", domain.ErrInvalidInput, format, formatJSON, formatYAML)
	}
}

func validFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown format %q (want one of %s)", domain.ErrInvalidInput, format, strings.Join(allowed, ", "))
}

// sortedRecords orders records by upload time, then ID.
func sortedRecords(records map[string]domain.DocumentRecord) []domain.DocumentRecord {
	out := make([]domain.DocumentRecord, 0, len(records))
	for _, r := range records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].UploadedAt.Before(out[j].UploadedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// keywordLabels returns the mind map labels in rank order.
func keywordLabels(a *domain.DocumentArtifacts) []string {
	labels := make([]string, len(a.MindMap.Nodes))
	for i, n := range a.MindMap.Nodes {
		labels[i] = n.Label
	}
	return labels
}
