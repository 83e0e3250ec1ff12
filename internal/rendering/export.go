package rendering

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-refiner/internal/types"
)

// Kind is an output document type.
type Kind string

// Output kinds.
const (
	KindHTML Kind = "html"
	KindDOCX Kind = "docx"
	KindPDF  Kind = "pdf"
)

// ParseKind parses an output kind name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindHTML, KindDOCX, KindPDF:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown export kind %q (supported: html, docx, pdf)", s)
}

// ContentType returns the MIME type of the kind.
func (k Kind) ContentType() string {
	switch k {
	case KindDOCX:
		return DocxMIMEType
	case KindPDF:
		return "application/pdf"
	}
	return "text/html; charset=utf-8"
}

// Artifact is one rendered file.
type Artifact struct {
	Kind Kind
	Data []byte
}

// Filename suggests a download name from the candidate's name.
func (a Artifact) Filename(fullName string) string {
	base := slug(fullName)
	if base == "" {
		base = "resume"
	}
	return fmt.Sprintf("%s_resume.%s", base, a.Kind)
}

// Exporter renders records. Rendering never modifies the record.
type Exporter struct {
	printer Printer
	logger  *zap.Logger
}

// NewExporter creates an exporter. printer may be nil when PDF output is not needed.
func NewExporter(printer Printer, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{printer: printer, logger: logger}
}

// Layout builds the document for a record and format.
func (e *Exporter) Layout(record *types.ResumeRecord, format types.Format) (*Document, error) {
	if record == nil {
		return nil, &RenderError{Message: "no record to render"}
	}
	profile, err := ProfileFor(format)
	if err != nil {
		return nil, err
	}
	return BuildLayout(record, profile), nil
}

// Preview renders the HTML preview with issue highlights.
func (e *Exporter) Preview(record *types.ResumeRecord, format types.Format, issues []types.GrammarIssue) (string, error) {
	doc, err := e.Layout(record, format)
	if err != nil {
		return "", err
	}
	return RenderHTML(doc, HTMLOptions{Issues: issues})
}

// Export renders one output kind.
func (e *Exporter) Export(ctx context.Context, record *types.ResumeRecord, format types.Format, kind Kind) (*Artifact, error) {
	doc, err := e.Layout(record, format)
	if err != nil {
		return nil, err
	}
	return e.render(ctx, doc, kind)
}

// ExportAll renders the DOCX and PDF documents concurrently from one shared layout.
func (e *Exporter) ExportAll(ctx context.Context, record *types.ResumeRecord, format types.Format) ([]Artifact, error) {
	doc, err := e.Layout(record, format)
	if err != nil {
		return nil, err
	}

	kinds := []Kind{KindDOCX, KindPDF}
	out := make([]Artifact, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			a, err := e.render(gctx, doc, kind)
			if err != nil {
				return err
			}
			out[i] = *a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Exporter) render(ctx context.Context, doc *Document, kind Kind) (*Artifact, error) {
	start := time.Now()
	var (
		data []byte
		err  error
	)
	switch kind {
	case KindHTML:
		var html string
		html, err = RenderHTML(doc, HTMLOptions{})
		data = []byte(html)
	case KindDOCX:
		data, err = RenderDOCX(doc)
	case KindPDF:
		if e.printer == nil {
			return nil, &RenderError{Kind: KindPDF, Message: "exporter has no PDF printer"}
		}
		data, err = RenderPDF(ctx, doc, e.printer)
	default:
		return nil, &RenderError{Message: fmt.Sprintf("unknown export kind %q", kind)}
	}
	if err != nil {
		e.logger.Error("export failed", zap.String("kind", string(kind)), zap.Error(err))
		return nil, err
	}
	e.logger.Info("exported document",
		zap.String("kind", string(kind)),
		zap.String("format", string(doc.Profile.Format)),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &Artifact{Kind: kind, Data: data}, nil
}

func slug(name string) string {
	var out []rune
	underscore := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
			underscore = false
		default:
			if len(out) > 0 && !underscore {
				out = append(out, '_')
				underscore = true
			}
		}
	}
	if underscore {
		out = out[:len(out)-1]
	}
	return string(out)
}
