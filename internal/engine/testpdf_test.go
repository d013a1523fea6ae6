package engine

import (
	"bytes"
	"fmt"
	"strings"
)

// buildPDF assembles a minimal PDF with one Helvetica text line per page and
// an Info dictionary carrying title and author.
func buildPDF(title, author string, pages ...string) []byte {
	streams := make([]string, len(pages))
	for i, text := range pages {
		streams[i] = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	}
	return buildPDFStreams(title, author, streams...)
}

// buildPDFStreams is buildPDF with the raw content stream of every page.
func buildPDFStreams(title, author string, streams ...string) []byte {
	var (
		buf     bytes.Buffer
		offsets []int
	)
	add := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, len(streams))
	for i := range streams {
		kids[i] = fmt.Sprintf("%d 0 R", 5+2*i)
	}

	add("<< /Type /Catalog /Pages 2 0 R >>")
	add(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(streams)))
	add("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	add(fmt.Sprintf("<< /Title (%s) /Author (%s) >>", title, author))
	for i, stream := range streams {
		add(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 6+2*i))
		add(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R /Info 4 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return buf.Bytes()
}

// kernedPage shows a plain run, a kerned TJ array on the same line, an empty
// string and a run on the next line.
const kernedPage = "BT /F1 12 Tf 72 720 Td (Hello) Tj [(Rev) -20 (enue: 100)] TJ () Tj 0 -14 Td [(To) 15 (t) -5 (al: 3)] TJ ET"

var kernedItems = []TextItem{{Str: "Hello"}, {Str: "Revenue: 100"}, {Str: "Total: 3"}}
