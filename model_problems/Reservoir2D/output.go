package Reservoir2D

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// WriteTable prints the grid as text, one grid row per line with column indices across the top
func (f *Field) WriteTable(w io.Writer) (err error) {
	var (
		n, _ = f.P.Dims()
		sb   strings.Builder
	)
	fmt.Fprintf(&sb, "Method: %s\n\n", f.Method)
	sb.WriteString(" i\\j")
	for j := 0; j < n; j++ {
		fmt.Fprintf(&sb, "%13d", j)
	}
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "\n%2d  ", i)
		for j := 0; j < n; j++ {
			fmt.Fprintf(&sb, "%13.7f", f.P.At(i, j))
		}
	}
	sb.WriteString("\n")
	_, err = io.WriteString(w, sb.String())
	return
}

// SaveTable writes the text table to dir/<method>.txt and returns the file name
func (f *Field) SaveTable(dir string) (fileName string, err error) {
	var (
		file *os.File
	)
	fileName = filepath.Join(dir, f.Method.String()+".txt")
	if file, err = os.Create(fileName); err != nil {
		return
	}
	defer file.Close()
	err = f.WriteTable(file)
	return
}

// SaveField writes int64(n) followed by the n*n pressures, row-major, little endian
func (f *Field) SaveField(fileName string) (err error) {
	var (
		file *os.File
		n, _ = f.P.Dims()
	)
	if file, err = os.Create(fileName); err != nil {
		return
	}
	defer file.Close()
	if err = binary.Write(file, binary.LittleEndian, int64(n)); err != nil {
		return
	}
	err = binary.Write(file, binary.LittleEndian, f.P.RawMatrix().Data)
	return
}

// ReadField loads a field written by SaveField, the header must agree with the file size
func ReadField(fileName string) (P []float64, n int, err error) {
	var (
		file *os.File
		info os.FileInfo
		n64  int64
	)
	if file, err = os.Open(fileName); err != nil {
		return
	}
	defer file.Close()
	if info, err = file.Stat(); err != nil {
		return
	}
	if err = binary.Read(file, binary.LittleEndian, &n64); err != nil {
		return
	}
	// Divide first, n64*n64 can overflow
	payload := (info.Size() - 8) / 8
	if n64 < 1 || n64 > payload/n64 || n64*n64 != payload || (info.Size()-8)%8 != 0 {
		err = fmt.Errorf("%s: grid size %d does not match %d bytes of data", fileName, n64, info.Size()-8)
		return
	}
	n = int(n64)
	P = make([]float64, n*n)
	err = binary.Read(file, binary.LittleEndian, P)
	return
}
