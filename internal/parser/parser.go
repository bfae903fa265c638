// Package parser provides the common interface of document parsers.
package parser

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/roboco-io/doc2md/internal/ir"
)

// Parser is the interface for document parsers.
type Parser interface {
	// Parse reads the document and returns an IR representation.
	Parse() (*ir.Document, error)

	// Close releases any resources held by the parser.
	Close() error
}

// Format represents a document format.
type Format int

const (
	FormatUnknown Format = iota
	FormatDOC            // Word 6/95, 97-2003 binary format
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatDOC:
		return "doc"
	default:
		return "unknown"
	}
}

// DetectFormat detects the document format from the file path.
func DetectFormat(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".doc", ".dot":
		return FormatDOC
	default:
		return FormatUnknown
	}
}

// DetectFormatFromReader detects the format by reading magic bytes.
func DetectFormatFromReader(r io.ReaderAt) (Format, error) {
	buf := make([]byte, 8)
	n, err := r.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return FormatUnknown, fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if n < 4 {
		return FormatUnknown, fmt.Errorf("file too small to detect format")
	}

	// OLE/CFBF magic number
	if buf[0] == 0xD0 && buf[1] == 0xCF && buf[2] == 0x11 && buf[3] == 0xE0 {
		return FormatDOC, nil
	}

	// ZIP은 .docx이므로 지원하지 않음
	return FormatUnknown, nil
}

// Options contains parser configuration options.
type Options struct {
	Password string // 암호화된 문서의 비밀번호

	// 코드 페이지 이름: "1251", "cp1251", "windows-1251"
	Charset         string // 모든 8비트 텍스트에 강제 적용
	DefaultCodepage string // 언어를 알 수 없을 때 사용

	Headers   bool // 머리글/바닥글 포함
	TextBoxes bool // 글상자 포함

	TempThreshold int64 // 이 크기를 넘는 복호화 스트림은 임시 파일로
	TempDir       string

	Logger *slog.Logger
}

// DefaultOptions returns default parser options.
func DefaultOptions() Options {
	return Options{
		DefaultCodepage: "1252",
		Headers:         true,
		TextBoxes:       true,
		TempThreshold:   64 << 20,
	}
}
