package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PdfcpuEngine binds github.com/pdfcpu/pdfcpu. Text is recovered from the
// string operands of the page content stream.
type PdfcpuEngine struct {
	workerConfig
}

func NewPdfcpu() *PdfcpuEngine {
	api.DisableConfigDir()
	return &PdfcpuEngine{}
}

func (e *PdfcpuEngine) Open(ctx context.Context, data []byte) (Document, error) {
	r, err := e.startRunner()
	if err != nil {
		return nil, err
	}

	var pctx *model.Context
	err = r.run(ctx, func() error {
		conf := model.NewDefaultConfiguration()
		conf.ValidationMode = model.ValidationRelaxed

		var err error
		pctx, err = api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
		if err != nil {
			return fmt.Errorf("pdfcpu read: %w", err)
		}
		return nil
	})
	if err != nil {
		r.stop()
		return nil, err
	}

	return &pdfcpuDocument{ctx: pctx, runner: r}, nil
}

type pdfcpuDocument struct {
	ctx    *model.Context
	runner runner
}

func (d *pdfcpuDocument) NumPages() int {
	return d.ctx.PageCount
}

func (d *pdfcpuDocument) Page(ctx context.Context, n int) (Page, error) {
	if n < 1 || n > d.ctx.PageCount {
		return nil, fmt.Errorf("page %d out of range", n)
	}
	return &pdfcpuPage{doc: d, nr: n}, nil
}

func (d *pdfcpuDocument) Metadata(ctx context.Context) (Metadata, error) {
	var meta Metadata
	err := d.runner.run(ctx, func() error {
		meta = Metadata{
			Title:    d.ctx.Title,
			Author:   d.ctx.Author,
			Subject:  d.ctx.Subject,
			Creator:  d.ctx.Creator,
			Producer: d.ctx.Producer,
		}
		return nil
	})
	return meta, err
}

func (d *pdfcpuDocument) Cleanup() {
	d.runner.stop()
}

type pdfcpuPage struct {
	doc *pdfcpuDocument
	nr  int
}

func (p *pdfcpuPage) TextContent(ctx context.Context) ([]TextItem, error) {
	var items []TextItem
	err := p.doc.runner.run(ctx, func() error {
		r, err := pdfcpu.ExtractPageContent(p.doc.ctx, p.nr)
		if err != nil {
			return fmt.Errorf("extract content of page %d: %w", p.nr, err)
		}
		if r == nil {
			return nil
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("read content of page %d: %w", p.nr, err)
		}
		items = scanTextItems(data, decodeWinAnsi)
		return nil
	})
	return items, err
}
