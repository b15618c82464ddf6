package numtfinder

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/adler32"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

// profileVersion marks the binary profile layout.
const profileVersion uint8 = 1

// genericWriter lets the profile writers target the raw file or a
// compressing wrapper interchangeably.
type genericWriter interface {
	Write(buf []byte) (n int, err error)
	Close() error
}

// splitProfileFormat separates "format" or "format+zip" into its parts.
func splitProfileFormat(format string) (string, string) {
	if strings.Contains(format, "+") {
		doubleFormat := strings.Split(format, "+")
		return doubleFormat[0], doubleFormat[1]
	}
	return format, ""
}

// validProfileFormat rejects unknown coverage profile formats up front,
// before any search or merge work is done.
func validProfileFormat(format string) error {
	profileFormat, profileZip := splitProfileFormat(format)
	switch profileFormat {
	case "bedgraph", "csv", "binary":
	default:
		return fmt.Errorf("unknown coverage profile format %q: want bedgraph, csv or binary", profileFormat)
	}
	switch profileZip {
	case "", "lz4", "zst":
	default:
		return fmt.Errorf("unknown coverage profile compression %q: want lz4 or zst", profileZip)
	}
	return nil
}

// profileExt is the filename extension for a profile format, eg
// "bedgraph+lz4" becomes "bedgraph.lz4".
func profileExt(format string) string {
	return strings.ReplaceAll(format, "+", ".")
}

// writeProfile writes the mtDNA depth profile in the requested format,
// optionally compressed as "format+lz4" or "format+zst".
func writeProfile(path, format, name string, depth []int) error {
	profileFormat, profileZip := splitProfileFormat(format)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create coverage profile %s: %v", path, err)
	}

	var writer genericWriter
	switch profileZip {
	case "lz4":
		writer = lz4.NewWriter(f)
	case "zst":
		zw, zerr := zstd.NewWriter(f)
		if zerr != nil {
			f.Close()
			return fmt.Errorf("failed to open zstd writer for %s: %v", path, zerr)
		}
		writer = zw
	default:
		writer = f
	}

	switch profileFormat {
	case "bedgraph":
		err = writeBedgraphProfile(writer, name, depth)
	case "csv":
		err = writeCSVProfile(writer, name, depth)
	case "binary":
		err = writeBinaryProfile(writer, depth)
	default:
		err = fmt.Errorf("unknown coverage profile format %q", profileFormat)
	}
	if err != nil {
		if profileZip != "" {
			writer.Close()
		}
		f.Close()
		return err
	}

	if profileZip != "" {
		if err := writer.Close(); err != nil {
			f.Close()
			return fmt.Errorf("failed to finish coverage profile %s: %v", path, err)
		}
	}
	return f.Close()
}

// writeBedgraphProfile writes the depth as 0-based half-open bedGraph
// steps, skipping zero-depth runs.
func writeBedgraphProfile(writer genericWriter, name string, depth []int) error {
	var stepStart, stepValue int
	for ip, currentValue := range depth {
		if currentValue != stepValue {
			if stepValue != 0 {
				if _, err := fmt.Fprintf(writer, "%s\t%d\t%d\t%d\n", name, stepStart, ip, stepValue); err != nil {
					return err
				}
			}
			stepStart = ip
			stepValue = currentValue
		}
	}
	if stepValue != 0 {
		if _, err := fmt.Fprintf(writer, "%s\t%d\t%d\t%d\n", name, stepStart, len(depth), stepValue); err != nil {
			return err
		}
	}
	return nil
}

// writeCSVProfile writes one row: name, length and the space separated
// depth values.
func writeCSVProfile(writer genericWriter, name string, depth []int) error {
	fprofile := fmt.Sprintf("%v", depth)
	_, err := fmt.Fprintf(writer, "%s,%d,%s\n", name, len(depth), fprofile[1:len(fprofile)-1])
	return err
}

// writeBinaryProfile writes a little-endian stream: layout version,
// profile length, an adler32 checksum of the length bytes, then the
// depth values as int32.
func writeBinaryProfile(writer genericWriter, depth []int) error {
	if err := binary.Write(writer, binary.LittleEndian, profileVersion); err != nil {
		return err
	}
	length := uint32(len(depth))
	bufChecksum := new(bytes.Buffer)
	if err := binary.Write(bufChecksum, binary.LittleEndian, length); err != nil {
		return err
	}
	if err := binary.Write(writer, binary.LittleEndian, length); err != nil {
		return err
	}
	checksum := adler32.Checksum(bufChecksum.Bytes())
	if err := binary.Write(writer, binary.LittleEndian, checksum); err != nil {
		return err
	}
	values := make([]int32, len(depth))
	for i, d := range depth {
		values[i] = int32(d)
	}
	return binary.Write(writer, binary.LittleEndian, values)
}
