package assetmap

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/agentstation/assetmap/pkg/inventory"
)

// File is one uploaded spreadsheet. Name carries the extension used to
// pick a decoder.
type File struct {
	Name string
	path string
	open func() (io.ReadCloser, error)
}

// PathFile returns a File read from path on demand.
func PathFile(path string) *File {
	return &File{
		Name: filepath.Base(path),
		path: path,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// BytesFile returns a File backed by an in-memory payload.
func BytesFile(name string, payload []byte) *File {
	return &File{
		Name: name,
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(payload)), nil
		},
	}
}

// ReaderFile returns a File backed by r. It can be opened once.
func ReaderFile(name string, r io.Reader) *File {
	return &File{
		Name: name,
		open: func() (io.ReadCloser, error) { return io.NopCloser(r), nil },
	}
}

// Open returns the file contents.
func (f *File) Open() (io.ReadCloser, error) {
	return f.open()
}

// Inputs are the files of one reconciliation run. Inventory is mandatory;
// each report may be nil.
type Inputs struct {
	Inventory *File
	Intune    *File
	Jamf      *File
	Defender  *File

	// Label is the period label of the draft snapshot, e.g. "2025-11".
	Label string
}

// Report returns the report file for source.
func (in Inputs) Report(source inventory.Source) *File {
	switch source {
	case inventory.SourceIntune:
		return in.Intune
	case inventory.SourceJamf:
		return in.Jamf
	case inventory.SourceDefender:
		return in.Defender
	}
	return nil
}

// SetReport stores f as the report for source.
func (in *Inputs) SetReport(source inventory.Source, f *File) {
	switch source {
	case inventory.SourceIntune:
		in.Intune = f
	case inventory.SourceJamf:
		in.Jamf = f
	case inventory.SourceDefender:
		in.Defender = f
	}
}
