// Package generate orchestrates one run: parse the introspection
// document, resolve exported names, render every artifact in memory,
// and only then commit them to disk. A run that fails at any stage
// writes nothing.
package generate

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/flatpak-node/girgen/internal/codegen/dts"
	"github.com/flatpak-node/girgen/internal/codegen/js"
	"github.com/flatpak-node/girgen/internal/codegen/napi"
	"github.com/flatpak-node/girgen/internal/config"
	"github.com/flatpak-node/girgen/internal/gir"
	"github.com/flatpak-node/girgen/internal/nameres"
	"github.com/flatpak-node/girgen/internal/profile"
	"github.com/flatpak-node/girgen/pkg/report"
)

// Generator runs the full pipeline over one configuration.
type Generator struct {
	cfg    *config.Config
	prof   *profile.Profile
	logger *zap.Logger
}

// New creates a pipeline generator.
func New(cfg *config.Config, prof *profile.Profile, logger *zap.Logger) *Generator {
	return &Generator{
		cfg:    cfg,
		prof:   prof,
		logger: logger.With(zap.String("component", "generate")),
	}
}

type artifact struct {
	kind    string
	path    string
	content string
}

// Run executes the pipeline and returns the run report. Every artifact
// is rendered before any file is written; the report file, when
// configured, is written last.
func (g *Generator) Run(ctx context.Context) (*report.Report, error) {
	start := time.Now()

	src := &gir.FileSource{Path: g.cfg.GirPath}
	parser := gir.NewParser(g.prof, g.logger)
	ns, stats, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table := nameres.Resolve(ns.Functions, g.prof)

	nativeGen := napi.New(g.prof, table, g.logger)
	nativeSrc, err := nativeGen.Generate(ns)
	if err != nil {
		return nil, err
	}

	jsGen := js.New(g.prof, table, g.cfg.Output.AddonPath, g.logger)
	jsSrc, err := jsGen.Generate(ns)
	if err != nil {
		return nil, err
	}

	dtsGen := dts.New(g.prof, table, g.logger)
	dtsSrc, err := dtsGen.Generate(ns)
	if err != nil {
		return nil, err
	}

	artifacts := []artifact{
		{kind: "native", path: g.cfg.Output.Native, content: nativeSrc},
		{kind: "js", path: g.cfg.Output.JS, content: jsSrc},
		{kind: "dts", path: g.cfg.Output.DTS, content: dtsSrc},
	}

	rep := g.buildReport(ns, stats, table, nativeGen.Diagnostics())

	for _, a := range artifacts {
		if err := writeArtifact(a.path, a.content); err != nil {
			return nil, err
		}
		rep.Artifacts = append(rep.Artifacts, report.Artifact{
			Kind: a.kind,
			Path: a.path,
			Size: int64(len(a.content)),
		})
		g.logger.Info("Artifact written",
			zap.String("kind", a.kind),
			zap.String("path", a.path),
			zap.Int("size_bytes", len(a.content)),
		)
	}

	if g.cfg.Report != "" {
		if err := rep.WriteFile(g.cfg.Report); err != nil {
			return nil, err
		}
	}

	g.logger.Info("Generation complete",
		zap.String("namespace", ns.Name),
		zap.Int("classes", stats.Classes),
		zap.Int("functions", table.Len()),
		zap.Int("skipped", len(stats.Skipped)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return rep, nil
}

func (g *Generator) buildReport(ns *gir.Namespace, stats *gir.Stats, table *nameres.Table, diags []string) *report.Report {
	rep := &report.Report{
		Namespace:   ns.Name,
		GeneratedAt: time.Now().UTC(),
		Counts: report.Counts{
			Classes:        stats.Classes,
			Functions:      table.Len(),
			ClassFunctions: stats.ClassFunctions,
			Properties:     stats.Properties,
		},
		Diagnostics: diags,
	}

	for _, s := range stats.Skipped {
		rep.Skipped = append(rep.Skipped, report.Skipped{
			Name:   s.Name,
			CName:  s.CName,
			Reason: string(s.Reason),
		})
	}

	cNames := make([]string, 0, len(g.prof.Renames))
	for cName := range g.prof.Renames {
		cNames = append(cNames, cName)
	}
	sort.Strings(cNames)
	for _, cName := range cNames {
		if export, ok := table.Export(cName); ok && export == g.prof.Renames[cName] {
			rep.Renames = append(rep.Renames, report.Rename{CName: cName, Export: export})
		}
	}

	return rep
}

func writeArtifact(path, content string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
