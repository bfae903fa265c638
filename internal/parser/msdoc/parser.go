package msdoc

import (
	"fmt"
	"os"

	"github.com/roboco-io/doc2md/internal/ir"
	"github.com/roboco-io/doc2md/internal/parser"
)

// Parser parses Word 6/95 and 97-2003 binary documents into IR.
type Parser struct {
	path    string
	file    *os.File
	options parser.Options
	opts    Options

	result *Result
}

// New creates a parser for the given file path.
func New(path string, opts parser.Options) (*Parser, error) {
	o, err := OptionsFrom(opts)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("DOC 파일을 열 수 없습니다: %w", err)
	}

	return &Parser{
		path:    path,
		file:    f,
		options: opts,
		opts:    o,
	}, nil
}

// OptionsFrom converts generic parser options into decode options.
func OptionsFrom(po parser.Options) (Options, error) {
	o := DefaultOptions()
	o.Logger = po.Logger
	o.Headers = po.Headers
	o.TextBoxes = po.TextBoxes
	o.TempDir = po.TempDir
	if po.TempThreshold > 0 {
		o.TempThreshold = po.TempThreshold
	}
	if po.Password != "" {
		o.Password = StaticPassword(po.Password)
	}

	cs, err := ParseCodepage(po.Charset)
	if err != nil {
		return o, fmt.Errorf("charset 설정 오류: %w", err)
	}
	o.Charset = cs

	def, err := ParseCodepage(po.DefaultCodepage)
	if err != nil {
		return o, fmt.Errorf("default codepage 설정 오류: %w", err)
	}
	if def != CodepageUnknown {
		o.DefaultCodepage = def
	}
	return o, nil
}

// Parse implements the Parser interface.
func (p *Parser) Parse() (*ir.Document, error) {
	b := ir.NewBuilder()
	sink := NewIRSink(b)

	res, err := Decode(p.file, sink, p.opts)
	if err != nil {
		return nil, err
	}
	sink.Finish()
	p.result = res

	*b.Metadata() = buildMetadata(res)
	return b.Document(), nil
}

// Result returns the decode result of the last successful Parse.
func (p *Parser) Result() *Result { return p.result }

// Close releases resources.
func (p *Parser) Close() error {
	if p.file != nil {
		err := p.file.Close()
		p.file = nil
		return err
	}
	return nil
}

func buildMetadata(res *Result) ir.Metadata {
	s := res.Summary
	md := ir.Metadata{
		Title:       s.Title,
		Author:      s.Author,
		Subject:     s.Subject,
		Keywords:    s.Keywords,
		Description: s.Comments,
		Creator:     s.AppName,
		Created:     s.Created,
		Modified:    s.Modified,
		Format:      res.Info.VersionName,
	}
	if res.Info.Encrypted {
		md.Encryption = res.Info.Cipher
	}
	return md
}
