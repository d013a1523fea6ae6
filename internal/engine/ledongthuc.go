package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// LedongthucEngine binds github.com/ledongthuc/pdf.
type LedongthucEngine struct {
	workerConfig
}

func NewLedongthuc() *LedongthucEngine {
	return &LedongthucEngine{}
}

func (e *LedongthucEngine) Open(ctx context.Context, data []byte) (Document, error) {
	r, err := e.startRunner()
	if err != nil {
		return nil, err
	}

	var reader *pdf.Reader
	err = r.run(ctx, func() error {
		var err error
		reader, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return fmt.Errorf("failed to create PDF reader: %w", err)
		}
		return nil
	})
	if err != nil {
		r.stop()
		return nil, err
	}

	return &ledongthucDocument{reader: reader, runner: r}, nil
}

type ledongthucDocument struct {
	reader *pdf.Reader
	runner runner
}

func (d *ledongthucDocument) NumPages() int {
	return d.reader.NumPage()
}

func (d *ledongthucDocument) Page(ctx context.Context, n int) (Page, error) {
	var page pdf.Page
	err := d.runner.run(ctx, func() error {
		if n < 1 || n > d.reader.NumPage() {
			return fmt.Errorf("page %d out of range", n)
		}
		page = d.reader.Page(n)
		if page.V.IsNull() {
			return fmt.Errorf("page %d not found", n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ledongthucPage{page: page, runner: d.runner}, nil
}

func (d *ledongthucDocument) Metadata(ctx context.Context) (Metadata, error) {
	var meta Metadata
	err := d.runner.run(ctx, func() error {
		info := d.reader.Trailer().Key("Info")
		if info.IsNull() {
			return fmt.Errorf("document has no info dictionary")
		}
		meta = Metadata{
			Title:    info.Key("Title").Text(),
			Author:   info.Key("Author").Text(),
			Subject:  info.Key("Subject").Text(),
			Creator:  info.Key("Creator").Text(),
			Producer: info.Key("Producer").Text(),
		}
		return nil
	})
	return meta, err
}

func (d *ledongthucDocument) Cleanup() {
	d.runner.stop()
}

type ledongthucPage struct {
	page   pdf.Page
	runner runner
}

// TextContent returns one item per text-showing operator of the page content,
// decoded with the encoding of the font in effect.
func (p *ledongthucPage) TextContent(ctx context.Context) ([]TextItem, error) {
	var items []TextItem
	err := p.runner.run(ctx, func() error {
		data, err := pageContent(p.page)
		if err != nil {
			return err
		}

		encoders := make(map[string]pdf.TextEncoding)
		items = scanTextItems(data, func(font string, raw []byte) string {
			enc, ok := encoders[font]
			if !ok {
				enc = p.page.Font(font).Encoder()
				encoders[font] = enc
			}
			return enc.Decode(string(raw))
		})
		return nil
	})
	return items, err
}

// pageContent concatenates the decoded content streams of a page.
func pageContent(page pdf.Page) ([]byte, error) {
	var buf bytes.Buffer
	appendStream := func(v pdf.Value) error {
		rc := v.Reader()
		defer rc.Close()
		if _, err := io.Copy(&buf, rc); err != nil {
			return fmt.Errorf("failed to read page content: %w", err)
		}
		buf.WriteByte('\n')
		return nil
	}

	contents := page.V.Key("Contents")
	switch contents.Kind() {
	case pdf.Null:
		return nil, nil
	case pdf.Stream:
		if err := appendStream(contents); err != nil {
			return nil, err
		}
	case pdf.Array:
		for i := 0; i < contents.Len(); i++ {
			if err := appendStream(contents.Index(i)); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("unexpected page contents of kind %v", contents.Kind())
	}
	return buf.Bytes(), nil
}
