package msdoc

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/richardlehane/mscfb"
	"github.com/richardlehane/msoleps"
)

// RawStreams holds the still-encrypted streams of a compound file.
type RawStreams struct {
	WordDocument []byte
	Table0       []byte
	Table1       []byte
	Data         []byte
	Summary      []byte // \x05SummaryInformation, 없으면 nil
}

// Table returns the table stream selected by base. Word 6/95 keeps its
// tables inside WordDocument.
func (r *RawStreams) Table(base *FibBase) ([]byte, error) {
	switch base.TableStreamName() {
	case StreamWordDocument:
		return r.WordDocument, nil
	case StreamTable1:
		if r.Table1 == nil {
			return nil, fmt.Errorf("%w: 1Table stream missing", ErrCorruptHeader)
		}
		return r.Table1, nil
	default:
		if r.Table0 == nil {
			return nil, fmt.Errorf("%w: 0Table stream missing", ErrCorruptHeader)
		}
		return r.Table0, nil
	}
}

// OpenContainer reads the Word streams out of an OLE2 compound file.
func OpenContainer(r io.ReaderAt) (*RawStreams, error) {
	doc, err := mscfb.New(r)
	if err != nil {
		return nil, fmt.Errorf("OLE2 문서 파싱 실패: %w", err)
	}

	raw := &RawStreams{}
	for _, entry := range doc.File {
		// 루트 스토리지의 스트림만 사용
		if len(entry.Path) > 0 {
			continue
		}
		var dst *[]byte
		switch entry.Name {
		case StreamWordDocument:
			dst = &raw.WordDocument
		case StreamTable0:
			dst = &raw.Table0
		case StreamTable1:
			dst = &raw.Table1
		case StreamData:
			dst = &raw.Data
		case StreamSummaryInfo:
			dst = &raw.Summary
		default:
			continue
		}
		b, err := io.ReadAll(entry)
		if err != nil {
			return nil, fmt.Errorf("스트림 %q 읽기 실패: %w", entry.Name, err)
		}
		*dst = b
	}

	if raw.WordDocument == nil {
		return nil, fmt.Errorf("%w: WordDocument stream not found", ErrCorruptHeader)
	}
	return raw, nil
}

// Summary is the subset of the OLE property set Word fills in.
type Summary struct {
	Title      string `json:"title,omitempty"`
	Subject    string `json:"subject,omitempty"`
	Author     string `json:"author,omitempty"`
	Keywords   string `json:"keywords,omitempty"`
	Comments   string `json:"comments,omitempty"`
	LastAuthor string `json:"last_author,omitempty"`
	AppName    string `json:"app_name,omitempty"`
	Created    string `json:"created,omitempty"`
	Modified   string `json:"modified,omitempty"`
}

// ReadSummary decodes a \x05SummaryInformation stream. Unknown or
// malformed property sets yield an empty Summary.
func ReadSummary(b []byte) Summary {
	var s Summary
	if len(b) == 0 {
		return s
	}

	ps := msoleps.New()
	if err := ps.Reset(bytes.NewReader(b)); err != nil {
		return s
	}

	for _, prop := range ps.Property {
		val := strings.TrimRight(prop.String(), "\x00 ")
		key := strings.ToLower(strings.ReplaceAll(prop.Name, " ", ""))
		switch key {
		case "title":
			s.Title = val
		case "subject":
			s.Subject = val
		case "author":
			s.Author = val
		case "keywords":
			s.Keywords = val
		case "comments":
			s.Comments = val
		case "lastauthor", "lastsavedby":
			s.LastAuthor = val
		case "appname", "applicationname":
			s.AppName = val
		case "createtime", "created":
			s.Created = val
		case "lastsavetime", "lastsaved":
			s.Modified = val
		}
	}
	return s
}
