package ifc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// OutputPath normalizes a user-supplied output path: anything without an
// .ifc or .gz extension gets .ifc appended.
func OutputPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ifc", ".gz":
		return path
	}
	return path + ".ifc"
}

// Write serializes the file to disk as SPF. Paths ending in .gz are
// gzip-compressed.
func (f *File) Write(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		_ = out.Close()
	}()

	if f.Name == "" {
		f.Name = filepath.Base(path)
	}

	var w io.Writer = out
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		zw := gzip.NewWriter(out)
		defer func() {
			_ = zw.Close()
		}()
		w = zw
	}

	if err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteTo serializes the file as SPF to the given writer.
func (f *File) WriteTo(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "ISO-10303-21;")
	fmt.Fprintln(bw, "HEADER;")
	fmt.Fprintln(bw, "FILE_DESCRIPTION(('ViewDefinition [CoordinationView]'),'2;1');")
	fmt.Fprintf(bw, "FILE_NAME(%s,%s,('',''),(''),'gis2bim','gis2bim','');\n",
		encodeString(f.Name), encodeString(f.Timestamp.Format("2006-01-02T15:04:05")))
	fmt.Fprintf(bw, "FILE_SCHEMA(('%s'));\n", Schema)
	fmt.Fprintln(bw, "ENDSEC;")
	fmt.Fprintln(bw, "DATA;")

	for _, e := range f.entities {
		bw.WriteString("#")
		bw.WriteString(strconv.Itoa(e.ID))
		bw.WriteString("=")
		bw.WriteString(e.Type)
		bw.WriteString("(")
		for i, a := range e.Attrs {
			if i > 0 {
				bw.WriteString(",")
			}
			encodeValue(bw, a)
		}
		bw.WriteString(");\n")
	}

	fmt.Fprintln(bw, "ENDSEC;")
	fmt.Fprintln(bw, "END-ISO-10303-21;")
	return bw.Flush()
}

func encodeValue(bw *bufio.Writer, v Value) {
	switch t := v.(type) {
	case Null:
		bw.WriteString("$")
	case Derived:
		bw.WriteString("*")
	case Str:
		bw.WriteString(encodeString(string(t)))
	case Float:
		bw.WriteString(encodeFloat(float64(t)))
	case Int:
		bw.WriteString(strconv.FormatInt(int64(t), 10))
	case Enum:
		bw.WriteString(".")
		bw.WriteString(string(t))
		bw.WriteString(".")
	case Ref:
		bw.WriteString("#")
		bw.WriteString(strconv.Itoa(int(t)))
	case Typed:
		bw.WriteString(t.Type)
		bw.WriteString("(")
		encodeValue(bw, t.Value)
		bw.WriteString(")")
	case List:
		bw.WriteString("(")
		for i, item := range t {
			if i > 0 {
				bw.WriteString(",")
			}
			encodeValue(bw, item)
		}
		bw.WriteString(")")
	}
}

// encodeString quotes a string, doubling embedded apostrophes per STEP rules.
func encodeString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// encodeFloat renders a real with the mandatory decimal point.
func encodeFloat(v float64) string {
	s := strconv.FormatFloat(v, 'G', -1, 64)
	if strings.Contains(s, ".") {
		return s
	}
	if i := strings.Index(s, "E"); i >= 0 {
		return s[:i] + "." + s[i:]
	}
	return s + "."
}

// trimFloat renders a float for attribute-map display, without forcing the
// STEP decimal point ("1" rather than "1.").
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func intString(v int64) string {
	return strconv.FormatInt(v, 10)
}
