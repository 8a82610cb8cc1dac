// Package report defines the serializable summary of one generation
// run: what was parsed, what was dropped, what was renamed, and where
// the artifacts went.
package report

import (
	"io"
	"os"
	"time"

	json "github.com/goccy/go-json"
)

// Report summarizes one complete generation run. It is written only
// after every artifact has been committed.
type Report struct {
	Namespace   string     `json:"namespace"`
	GeneratedAt time.Time  `json:"generated_at"`
	Counts      Counts     `json:"counts"`
	Skipped     []Skipped  `json:"skipped,omitempty"`
	Renames     []Rename   `json:"renames,omitempty"`
	Artifacts   []Artifact `json:"artifacts"`
	Diagnostics []string   `json:"diagnostics,omitempty"`
}

// Counts holds the model totals after parsing.
type Counts struct {
	Classes        int `json:"classes"`
	Functions      int `json:"functions"`
	ClassFunctions int `json:"class_functions"`
	Properties     int `json:"properties"`
}

// Skipped records one function the parser dropped and why.
type Skipped struct {
	Name   string `json:"name"`
	CName  string `json:"c_name"`
	Reason string `json:"reason"`
}

// Rename records one exported name pinned away from its derived form.
type Rename struct {
	CName  string `json:"c_name"`
	Export string `json:"export"`
}

// Artifact records one written output file.
type Artifact struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Write serializes the report as indented JSON.
func (r *Report) Write(w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteFile writes the report to path.
func (r *Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.Write(f)
}
