package adapter

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	m "rezip.dev/pkg/rezip/internal/model"
)

// ReportStore persists run reports so CI pipelines can archive which
// artifacts were normalized and which were left untouched.
type ReportStore interface {
	SaveReport(path m.Path, report m.RunReport) error
	LoadReport(path m.Path) (m.RunReport, error)
}

// yamlOutcome is the serialized form of a single archive outcome.
type yamlOutcome struct {
	Archive string `yaml:"archive"`
	Status  string `yaml:"status"`
	Error   string `yaml:"error,omitempty"`
}

// yamlReport is the serialized form of a run report.
type yamlReport struct {
	Status   string        `yaml:"status"`
	Duration time.Duration `yaml:"duration"`
	Failed   int           `yaml:"failed"`
	Outcomes []yamlOutcome `yaml:"outcomes"`
}

// YAMLReportStore implements ReportStore with YAML files on disk.
type YAMLReportStore struct{}

// NewYAMLReportStore constructs a YAMLReportStore.
func NewYAMLReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// SaveReport writes the report to path as YAML.
func (s *YAMLReportStore) SaveReport(path m.Path, report m.RunReport) error {
	out := yamlReport{
		Status:   report.Status.String(),
		Duration: report.Duration,
		Failed:   report.FailedCount(),
		Outcomes: make([]yamlOutcome, 0, len(report.Outcomes)),
	}

	for _, outcome := range report.Outcomes {
		serialized := yamlOutcome{
			Archive: string(outcome.Archive.Target),
			Status:  outcome.Status.String(),
		}
		if outcome.Err != nil {
			serialized.Error = outcome.Err.Error()
		}

		out.Outcomes = append(out.Outcomes, serialized)
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(string(path), data, 0o600); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// LoadReport reads a previously saved report. Statuses round-trip by label;
// the structured Err values are reduced to their messages by SaveReport and
// come back as nil.
func (s *YAMLReportStore) LoadReport(path m.Path) (m.RunReport, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return m.RunReport{}, fmt.Errorf("read report: %w", err)
	}

	var in yamlReport
	if err := yaml.Unmarshal(data, &in); err != nil {
		return m.RunReport{}, fmt.Errorf("unmarshal report: %w", err)
	}

	report := m.RunReport{
		Duration: in.Duration,
		Outcomes: make([]m.Outcome, 0, len(in.Outcomes)),
	}
	if in.Status == m.Aborted.String() {
		report.Status = m.Aborted
	}

	for _, serialized := range in.Outcomes {
		report.Outcomes = append(report.Outcomes, m.Outcome{
			Archive: m.Archive{Target: m.Path(serialized.Archive)},
			Status:  statusFromLabel(serialized.Status),
		})
	}

	return report, nil
}

func statusFromLabel(label string) m.Status {
	for _, status := range []m.Status{m.OK, m.ExtractionFailed, m.FilesystemFailed, m.RebuildFailed, m.SwapFailed, m.Skipped} {
		if status.String() == label {
			return status
		}
	}

	return m.OK
}
