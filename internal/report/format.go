package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Output format names accepted by Render.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatXML  = "xml"
	FormatCSV  = "csv"
)

const xmlHeader = "<?xml version='1.0' encoding='UTF-8'?>\n"

// Render serializes the files in the named format. Unknown names fall
// back to text.
func Render(files []File, format string) (string, error) {
	switch format {
	case FormatJSON:
		return renderJSON(files)
	case FormatXML:
		return renderXML(files)
	case FormatCSV:
		return renderCSV(files)
	default:
		return renderText(files)
	}
}

// renderText prints one header line per file followed by TYPE:data
// lines, the classic scanner dump. Scan errors only appear in the
// structured formats.
func renderText(files []File) (string, error) {
	var output strings.Builder
	for i, f := range files {
		if i > 0 {
			output.WriteString("\n")
		}
		fmt.Fprintf(&output, "# %s\n", f.Path)
		for _, s := range f.Symbols {
			fmt.Fprintf(&output, "%s:%s\n", s.Type, s.Data)
		}
	}
	return output.String(), nil
}

func renderJSON(files []File) (string, error) {
	data, err := json.MarshalIndent(files, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	return string(data) + "\n", nil
}

func renderCSV(files []File) (string, error) {
	var output strings.Builder
	writer := csv.NewWriter(&output)

	header := []string{"file", "index", "type", "data", "quality", "count", "x", "y", "width", "height"}
	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, f := range files {
		if len(f.Symbols) == 0 {
			row := []string{f.Path, "0", "", "", "", "", "", "", "", ""}
			if err := writer.Write(row); err != nil {
				return "", fmt.Errorf("failed to write CSV row: %w", err)
			}
			continue
		}
		for i, s := range f.Symbols {
			row := []string{
				f.Path,
				strconv.Itoa(i),
				s.Type,
				s.Data,
				strconv.Itoa(s.Quality),
				strconv.Itoa(s.Count),
				"", "", "", "",
			}
			if x, y, w, h, ok := s.Bounds(); ok {
				row[6] = strconv.Itoa(x)
				row[7] = strconv.Itoa(y)
				row[8] = strconv.Itoa(w)
				row[9] = strconv.Itoa(h)
			}
			if err := writer.Write(row); err != nil {
				return "", fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return output.String(), nil
}

var (
	xmlAttrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", "'", "&apos;")
	xmlTextEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;")
)

func renderXML(files []File) (string, error) {
	var output strings.Builder
	output.WriteString(xmlHeader)
	output.WriteString("<barcodes>\n")
	for _, f := range files {
		fmt.Fprintf(&output, "<source href='%s'>\n", xmlAttrEscaper.Replace(f.Path))
		if f.Error != "" {
			fmt.Fprintf(&output, "<error>%s</error>\n", xmlTextEscaper.Replace(f.Error))
		}
		for _, s := range f.Symbols {
			output.WriteString(symbolXML(s))
			output.WriteString("\n")
		}
		output.WriteString("</source>\n")
	}
	output.WriteString("</barcodes>\n")
	return output.String(), nil
}

// symbolXML renders the same fragment shape as Symbol.XML in the root
// package, so document dumps and single-symbol dumps stay
// interchangeable.
func symbolXML(s Symbol) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<symbol type='%s' quality='%d'", s.Type, s.Quality)
	if s.Count >= 0 {
		fmt.Fprintf(&b, " count='%d'", s.Count)
	}
	b.WriteString("><data><![CDATA[")
	// Split any ]]> inside the payload across two CDATA sections.
	b.WriteString(strings.ReplaceAll(s.Data, "]]>", "]]]]><![CDATA[>"))
	b.WriteString("]]></data></symbol>")
	return b.String()
}
