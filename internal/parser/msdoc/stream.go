package msdoc

import (
	"fmt"
	"io"
	"os"
)

// DecryptedStream is a read-only, fully materialised sub-stream. Small
// streams live in memory; streams above the spill threshold are written to
// a temp file and read back through ReadAt.
type DecryptedStream struct {
	name string
	data []byte   // 메모리 버퍼 (file이 nil일 때)
	file *os.File // 임시 파일
	size int64
}

// NewMemoryStream wraps b without copying.
func NewMemoryStream(name string, b []byte) *DecryptedStream {
	return &DecryptedStream{name: name, data: b, size: int64(len(b))}
}

// newStream stores b in memory or spills it into dir when it is larger
// than threshold. threshold <= 0 disables spilling.
func newStream(name string, b []byte, threshold int64, dir string) (*DecryptedStream, error) {
	if threshold <= 0 || int64(len(b)) <= threshold {
		return NewMemoryStream(name, b), nil
	}

	f, err := os.CreateTemp(dir, "doc2md-*.bin")
	if err != nil {
		return nil, fmt.Errorf("임시 파일 생성 실패: %w", err)
	}
	// 이름은 즉시 제거하고 핸들만 유지
	_ = os.Remove(f.Name())

	if _, err := f.Write(b); err != nil {
		f.Close()
		return nil, fmt.Errorf("임시 파일 쓰기 실패: %w", err)
	}
	return &DecryptedStream{name: name, file: f, size: int64(len(b))}, nil
}

// Name returns the compound file stream name.
func (s *DecryptedStream) Name() string { return s.name }

// Len returns the stream size in bytes.
func (s *DecryptedStream) Len() int64 {
	if s == nil {
		return 0
	}
	return s.size
}

// Spilled reports whether the stream is temp-file backed.
func (s *DecryptedStream) Spilled() bool { return s != nil && s.file != nil }

// ReadAt implements io.ReaderAt.
func (s *DecryptedStream) ReadAt(p []byte, off int64) (int, error) {
	if s == nil || off >= s.size {
		return 0, io.EOF
	}
	if off < 0 {
		return 0, fmt.Errorf("msdoc: negative offset %d", off)
	}
	if s.file != nil {
		return s.file.ReadAt(p, off)
	}
	n := copy(p, s.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Bytes returns up to n bytes at off, clamped to the stream end. The
// returned slice is shorter than n when the stream ends first and must not
// be modified.
func (s *DecryptedStream) Bytes(off int64, n int) []byte {
	if s == nil || n <= 0 || off < 0 || off >= s.size {
		return nil
	}
	if rem := s.size - off; int64(n) > rem {
		n = int(rem)
	}
	if s.file == nil {
		return s.data[off : off+int64(n)]
	}
	buf := make([]byte, n)
	got, _ := s.file.ReadAt(buf, off)
	return buf[:got]
}

// Close releases the temp file, if any.
func (s *DecryptedStream) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.data = nil
	s.size = 0
	return err
}

// Streams holds the decrypted sub-streams of one document.
type Streams struct {
	Main  *DecryptedStream // WordDocument
	Table *DecryptedStream // 0Table/1Table, Word 6에서는 Main과 동일
	Data  *DecryptedStream // 선택
}

// Close releases every stream.
func (s *Streams) Close() error {
	var first error
	seen := map[*DecryptedStream]bool{}
	for _, st := range []*DecryptedStream{s.Main, s.Table, s.Data} {
		if st == nil || seen[st] {
			continue
		}
		seen[st] = true
		if err := st.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
