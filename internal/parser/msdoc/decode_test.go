package msdoc

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roboco-io/doc2md/internal/crypt"
)

func TestDecode_Paragraphs(t *testing.T) {
	f := &fixture{main: "Hello\rWorld\r"}
	c, res := decodeFixture(t, f.build(), DefaultOptions())

	want := []ItemKind{ItemText, ItemParagraphEnd, ItemText, ItemParagraphEnd}
	if diff := cmp.Diff(want, c.Kinds()); diff != "" {
		t.Errorf("item kinds mismatch (-want +got):\n%s", diff)
	}
	if got := c.Text(); got != "HelloWorld" {
		t.Errorf("Text() = %q, want %q", got, "HelloWorld")
	}
	if res.Info.VersionName != "Word 97-2003" {
		t.Errorf("VersionName = %q", res.Info.VersionName)
	}
	if res.Info.CcpText != 12 {
		t.Errorf("CcpText = %d, want 12", res.Info.CcpText)
	}
	if !res.Stats.Clean() {
		t.Errorf("unexpected anomalies: %+v", res.Stats)
	}
	for _, it := range c.Items {
		if it.Region != RegionMain {
			t.Errorf("item %v has region %v, want main", it.Kind, it.Region)
		}
	}
}

func TestDecode_ItemPositions(t *testing.T) {
	f := &fixture{main: "ab\rcd\r"}
	c, _ := decodeFixture(t, f.build(), DefaultOptions())

	var cps []int
	for _, it := range c.Items {
		cps = append(cps, it.CP)
	}
	if diff := cmp.Diff([]int{0, 2, 3, 5}, cps); diff != "" {
		t.Errorf("item CPs mismatch (-want +got):\n%s", diff)
	}
	// FC 범위는 CP 순서를 따라 증가
	first, _ := firstItem(c, ItemText)
	if first.FC != fixFIB8 || first.FCEnd != fixFIB8+2 {
		t.Errorf("first text FC = [%d, %d), want [%d, %d)", first.FC, first.FCEnd, fixFIB8, fixFIB8+2)
	}
}

func TestDecode_WideText(t *testing.T) {
	f := &fixture{wide: true, main: "Привет мир\r"}
	c, res := decodeFixture(t, f.build(), DefaultOptions())

	if got := c.Text(); got != "Привет мир" {
		t.Errorf("Text() = %q", got)
	}
	if !res.Info.Complex {
		t.Error("expected a complex document")
	}
}

func TestDecode_Codepages(t *testing.T) {
	tests := []struct {
		name    string
		fixture *fixture
		charset Codepage
		want    string
	}{
		{
			name:    "word 6 greek from language id",
			fixture: &fixture{v: VersionWord6, lid: 0x0408, main: "\xD2\xE1\r"},
			want:    "Òα",
		},
		{
			name:    "word 6 override",
			fixture: &fixture{v: VersionWord6, lid: 0x0408, main: "\xD2\xE1\r"},
			charset: CP1251,
			want:    "Тб",
		},
		{
			name:    "word 8 compressed text is always 1252",
			fixture: &fixture{lid: 0x0408, main: "\xE1\r"},
			want:    "á",
		},
		{
			name: "word 6 font charset",
			fixture: &fixture{
				v:     VersionWord6,
				main:  "\xCF\xF0\xE8\r",
				fonts: []Font{{Name: "Arial Cyr", Chs: 204}},
				chpx:  []run{{end: 4, grpprl: []byte{sprm6CFtc, 0, 0}}},
			},
			want: "При",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Charset = tc.charset
			c, _ := decodeFixture(t, tc.fixture.build(), opts)
			if got := c.Text(); got != tc.want {
				t.Errorf("Text() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDecode_CellMarks(t *testing.T) {
	tests := []struct {
		name string
		f    *fixture
		want []ItemKind
		text string
	}{
		{
			name: "two cell row",
			f: &fixture{
				main: "A\x07B\x07\x07After\r",
				papx: []run{
					{end: 2, grpprl: sprmInTable},
					{end: 4, grpprl: sprmInTable},
					{end: 5, grpprl: sprmTableRow},
					{end: 11},
				},
			},
			want: []ItemKind{
				ItemTableStart, ItemText, ItemCellEnd, ItemText, ItemCellEnd, ItemRowEnd, ItemTableEnd,
				ItemText, ItemParagraphEnd,
			},
			text: "ABAfter",
		},
		{
			// 문단 범위 중간의 0x07은 셀 끝이 아님
			name: "cell mark inside paragraph",
			f: &fixture{
				main: "X\x07Y\x07\x07\r",
				papx: []run{
					{end: 4, grpprl: sprmInTable},
					{end: 5, grpprl: sprmTableRow},
					{end: 6},
				},
			},
			want: []ItemKind{
				ItemTableStart, ItemText, ItemParagraphEnd, ItemText, ItemCellEnd, ItemRowEnd, ItemTableEnd,
				ItemParagraphEnd,
			},
			text: "XY",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := decodeFixture(t, tc.f.build(), DefaultOptions())
			if diff := cmp.Diff(tc.want, c.Kinds()); diff != "" {
				t.Errorf("item kinds mismatch (-want +got):\n%s", diff)
			}
			if got := c.Text(); got != tc.text {
				t.Errorf("Text() = %q, want %q", got, tc.text)
			}
		})
	}
}

func TestDecode_CellParaInfo(t *testing.T) {
	f := &fixture{
		main: "A\x07\x07",
		papx: []run{{end: 2, grpprl: sprmInTable}, {end: 3, grpprl: sprmTableRow}},
	}
	c, _ := decodeFixture(t, f.build(), DefaultOptions())

	cell, ok := firstItem(c, ItemCellEnd)
	if !ok || cell.Para == nil {
		t.Fatal("expected a cell end with paragraph info")
	}
	if cell.Para.TableDepth != 1 {
		t.Errorf("TableDepth = %d, want 1", cell.Para.TableDepth)
	}
	start, _ := firstItem(c, ItemTableStart)
	if start.Depth != 1 {
		t.Errorf("table start depth = %d, want 1", start.Depth)
	}
}

func TestDecode_Attributes(t *testing.T) {
	f := &fixture{
		main: "Big deal\r",
		chpx: []run{{end: 3, grpprl: sprmBold}, {end: 9}},
	}
	c, res := decodeFixture(t, f.build(), DefaultOptions())

	want := []ItemKind{ItemText, ItemText, ItemAttributes, ItemParagraphEnd}
	if diff := cmp.Diff(want, c.Kinds()); diff != "" {
		t.Errorf("item kinds mismatch (-want +got):\n%s", diff)
	}
	attrs, _ := firstItem(c, ItemAttributes)
	wantAttrs := []AttributeEntry{{Start: 0, End: 3, Attr: Attr{Kind: AttrBold, Int: 1}}}
	if diff := cmp.Diff(wantAttrs, attrs.Attrs); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}
	if attrs.CP != 8 {
		t.Errorf("attributes CP = %d, want 8", attrs.CP)
	}
	if !res.Stats.Clean() {
		t.Errorf("unexpected anomalies: %+v", res.Stats)
	}
}

func TestDecode_AttributesSpanParagraphs(t *testing.T) {
	f := &fixture{
		main: "ab\rcd\r",
		chpx: []run{{end: 6, grpprl: sprmItalic}},
	}
	c, _ := decodeFixture(t, f.build(), DefaultOptions())

	var got []AttributeEntry
	for _, it := range c.Items {
		if it.Kind == ItemAttributes {
			got = append(got, it.Attrs...)
		}
	}
	italic := Attr{Kind: AttrItalic, Int: 1}
	want := []AttributeEntry{
		{Start: 0, End: 2, Attr: italic},
		{Start: 2, End: 5, Attr: italic},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Hyperlink(t *testing.T) {
	main := "\x13 HYPERLINK \"http://example.com/\" \\l \"top\" \x14Click\x15\r"
	sep := strings.IndexByte(main, 0x14)
	end := strings.IndexByte(main, 0x15)
	f := &fixture{
		main: main,
		fields: []fldChar{
			{cp: 0, ch: fldBegin, flt: FieldHyperlink},
			{cp: sep, ch: fldSep},
			{cp: end, ch: fldEnd},
		},
	}
	c, res := decodeFixture(t, f.build(), DefaultOptions())

	want := []ItemKind{
		ItemFieldStart, ItemFieldSeparator, ItemText, ItemFieldEnd, ItemAttributes, ItemParagraphEnd,
	}
	if diff := cmp.Diff(want, c.Kinds()); diff != "" {
		t.Errorf("item kinds mismatch (-want +got):\n%s", diff)
	}

	start, _ := firstItem(c, ItemFieldStart)
	if start.Field != FieldHyperlink {
		t.Errorf("Field = %d, want %d", start.Field, FieldHyperlink)
	}
	if start.Instruction != `HYPERLINK "http://example.com/" \l "top"` {
		t.Errorf("Instruction = %q", start.Instruction)
	}
	if got := c.Text(); got != "Click" {
		t.Errorf("Text() = %q, want Click", got)
	}

	attrs, _ := firstItem(c, ItemAttributes)
	wantAttrs := []AttributeEntry{{
		Start: sep + 1, End: end,
		Attr: Attr{Kind: AttrLink, Str: "http://example.com/#top"},
	}}
	if diff := cmp.Diff(wantAttrs, attrs.Attrs); diff != "" {
		t.Errorf("link attribute mismatch (-want +got):\n%s", diff)
	}
	if !res.Stats.Clean() {
		t.Errorf("unexpected anomalies: %+v", res.Stats)
	}
}

func TestDecode_FieldWithoutTable(t *testing.T) {
	// PlcFld가 없으면 명령문도 본문처럼 출력됨
	f := &fixture{main: "\x13PAGE\x14" + "1\x15\r"}
	c, res := decodeFixture(t, f.build(), DefaultOptions())

	if got := c.Text(); got != "PAGE1" {
		t.Errorf("Text() = %q, want PAGE1", got)
	}
	if res.Stats.OutOfRangePositions == 0 {
		t.Error("expected the missing field entry to be counted")
	}
}

func TestHyperlinkTarget(t *testing.T) {
	tests := []struct {
		instr string
		want  string
	}{
		{`HYPERLINK "http://a.example/"`, "http://a.example/"},
		{`HYPERLINK \l "intro"`, "#intro"},
		{`HYPERLINK "x.doc" \o "tooltip text" \l "sec"`, "x.doc#sec"},
		{`hyperlink http://b.example/`, "http://b.example/"},
		{`PAGE \* MERGEFORMAT`, ""},
		{``, ""},
	}
	for _, tc := range tests {
		if got := hyperlinkTarget(tc.instr); got != tc.want {
			t.Errorf("hyperlinkTarget(%q) = %q, want %q", tc.instr, got, tc.want)
		}
	}
}

func TestDecode_Footnote(t *testing.T) {
	f := &fixture{
		main:      "See\x02.\r",
		footnotes: "\x02 Note\r",
		chpx: []run{
			{end: 3}, {end: 4, grpprl: sprmSpecial},
			{end: 6}, {end: 7, grpprl: sprmSpecial}, {end: 14},
		},
		fndRef: []int{3},
		fndTxt: []int{0, 7},
	}
	c, res := decodeFixture(t, f.build(), DefaultOptions())

	want := []ItemKind{
		ItemText, ItemNoteRef,
		ItemRegionStart, ItemText, ItemParagraphEnd, ItemRegionEnd,
		ItemText, ItemParagraphEnd,
	}
	if diff := cmp.Diff(want, c.Kinds()); diff != "" {
		t.Fatalf("item kinds mismatch (-want +got):\n%s", diff)
	}

	ref := c.Items[1]
	if ref.Target != RegionFootnote || ref.Index != 0 || ref.CP != 3 {
		t.Errorf("note ref = %+v", ref)
	}
	if c.Items[2].Region != RegionFootnote || c.Items[3].Region != RegionFootnote {
		t.Error("note items should carry the footnote region")
	}
	if c.Items[3].Text != " Note" {
		t.Errorf("note text = %q", c.Items[3].Text)
	}
	// 각주 뒤에 본문이 이어짐
	if c.Items[6].Text != "." || c.Items[6].Region != RegionMain {
		t.Errorf("main text after note = %+v", c.Items[6])
	}
	if res.Info.Footnotes != 1 {
		t.Errorf("Footnotes = %d, want 1", res.Info.Footnotes)
	}
	if !res.Stats.Clean() {
		t.Errorf("unexpected anomalies: %+v", res.Stats)
	}
}

func TestDecode_Annotation(t *testing.T) {
	f := &fixture{
		main:        "Hi\x05\r",
		annotations: "\x05Comment\r",
		chpx: []run{
			{end: 2}, {end: 3, grpprl: sprmSpecial},
			{end: 4}, {end: 5, grpprl: sprmSpecial}, {end: 14},
		},
		andRef: []int{2},
		andTxt: []int{0, 9},
	}
	c, _ := decodeFixture(t, f.build(), DefaultOptions())

	ref, ok := firstItem(c, ItemNoteRef)
	if !ok || ref.Target != RegionAnnotation {
		t.Fatalf("expected an annotation reference, got %+v", ref)
	}
	start, _ := firstItem(c, ItemRegionStart)
	if start.Target != RegionAnnotation {
		t.Errorf("region start target = %v", start.Target)
	}
	if got := c.Text(); got != "HiComment" {
		t.Errorf("Text() = %q, want HiComment", got)
	}
}

func TestDecode_UnmarkedReferenceIsUnknownControl(t *testing.T) {
	f := &fixture{main: "a\x01b\r"}
	c, res := decodeFixture(t, f.build(), DefaultOptions())

	if got := c.Text(); got != "ab" {
		t.Errorf("Text() = %q, want ab", got)
	}
	if res.Stats.UnknownControlCodes != 1 {
		t.Errorf("UnknownControlCodes = %d, want 1", res.Stats.UnknownControlCodes)
	}
}

func TestDecode_Headers(t *testing.T) {
	newFixture := func() *fixture {
		return &fixture{
			main:    "Body\r",
			headers: "Head\r",
			// 구분자 6개, 짝수 머리글 비어 있음, 홀수 머리글 [0,5)
			hdd: []int{0, 0, 0, 0, 0, 0, 0, 0, 5, 5, 5, 5, 5},
		}
	}

	t.Run("enabled", func(t *testing.T) {
		c, res := decodeFixture(t, newFixture().build(), DefaultOptions())
		want := []ItemKind{
			ItemRegionStart, ItemText, ItemParagraphEnd, ItemRegionEnd,
			ItemText, ItemParagraphEnd,
		}
		if diff := cmp.Diff(want, c.Kinds()); diff != "" {
			t.Fatalf("item kinds mismatch (-want +got):\n%s", diff)
		}
		start := c.Items[0]
		if start.Target != RegionHeader || start.Index != 7 || start.Story != "odd-header" {
			t.Errorf("header region = %+v", start)
		}
		if c.Items[1].Text != "Head" {
			t.Errorf("header text = %q", c.Items[1].Text)
		}
		if res.Info.CcpHdd != 5 {
			t.Errorf("CcpHdd = %d, want 5", res.Info.CcpHdd)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Headers = false
		c, _ := decodeFixture(t, newFixture().build(), opts)
		if got := c.Text(); got != "Body" {
			t.Errorf("Text() = %q, want Body", got)
		}
	})
}

func TestDecode_Word6Headers(t *testing.T) {
	f := &fixture{
		v:       VersionWord6,
		main:    "Body\r",
		headers: "Head\r",
		hdd:     []int{0, 5},
	}
	c, _ := decodeFixture(t, f.build(), DefaultOptions())

	want := []ItemKind{
		ItemText, ItemParagraphEnd,
		ItemRegionStart, ItemText, ItemParagraphEnd, ItemRegionEnd,
	}
	if diff := cmp.Diff(want, c.Kinds()); diff != "" {
		t.Fatalf("item kinds mismatch (-want +got):\n%s", diff)
	}
	if start := c.Items[2]; start.Target != RegionHeader || start.Index != 0 {
		t.Errorf("header region = %+v", start)
	}
}

func TestDecode_TextBoxes(t *testing.T) {
	newFixture := func() *fixture {
		return &fixture{
			main:      "Body\r",
			textboxes: "Box\r",
			txbx:      []int{0, 4, 5},
		}
	}

	c, _ := decodeFixture(t, newFixture().build(), DefaultOptions())
	want := []ItemKind{
		ItemText, ItemParagraphEnd,
		ItemRegionStart, ItemText, ItemParagraphEnd, ItemRegionEnd,
	}
	if diff := cmp.Diff(want, c.Kinds()); diff != "" {
		t.Fatalf("item kinds mismatch (-want +got):\n%s", diff)
	}
	if start := c.Items[2]; start.Target != RegionTextBox || start.Story != "textbox" {
		t.Errorf("text box region = %+v", start)
	}

	opts := DefaultOptions()
	opts.TextBoxes = false
	c, _ = decodeFixture(t, newFixture().build(), opts)
	if got := c.Text(); got != "Body" {
		t.Errorf("Text() without text boxes = %q, want Body", got)
	}
}

func TestDecode_Breaks(t *testing.T) {
	t.Run("section break", func(t *testing.T) {
		f := &fixture{
			main: "One\x0cTwo\r",
			sections: []fixSection{
				{end: 4},
				{end: 8, grpprl: sprm8(sprmSBkc, BkcContinuous)},
			},
		}
		c, res := decodeFixture(t, f.build(), DefaultOptions())
		want := []ItemKind{ItemText, ItemSectionBreak, ItemText, ItemParagraphEnd}
		if diff := cmp.Diff(want, c.Kinds()); diff != "" {
			t.Fatalf("item kinds mismatch (-want +got):\n%s", diff)
		}
		if c.Items[1].Bkc != BkcContinuous {
			t.Errorf("Bkc = %d, want %d", c.Items[1].Bkc, BkcContinuous)
		}
		if res.Info.Sections != 2 {
			t.Errorf("Sections = %d, want 2", res.Info.Sections)
		}
	})

	t.Run("page break", func(t *testing.T) {
		f := &fixture{main: "One\x0cTwo\r"}
		c, _ := decodeFixture(t, f.build(), DefaultOptions())
		want := []ItemKind{ItemText, ItemPageBreak, ItemText, ItemParagraphEnd}
		if diff := cmp.Diff(want, c.Kinds()); diff != "" {
			t.Errorf("item kinds mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("line and column breaks", func(t *testing.T) {
		f := &fixture{main: "a\x0bb\x0ec\r"}
		c, _ := decodeFixture(t, f.build(), DefaultOptions())
		want := []ItemKind{ItemText, ItemLineBreak, ItemText, ItemColumnBreak, ItemText, ItemParagraphEnd}
		if diff := cmp.Diff(want, c.Kinds()); diff != "" {
			t.Errorf("item kinds mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestDecode_Styles(t *testing.T) {
	f := &fixture{
		main: "Title\rItem one\rItem two\rText\r",
		styles: []fixStyle{
			{name: "Normal", sti: 0, kind: StyleParagraph, base: 0x0FFF},
			{name: "heading 1", sti: 1, kind: StyleParagraph, base: 0},
		},
		papx: []run{
			{end: 6, istd: 1},
			{end: 15, grpprl: sprm8(sprmPIlfo, 1, 0)},
			{end: 24, grpprl: sprm8(sprmPIlfo, 1, 0)},
			{end: 29},
		},
	}
	c, res := decodeFixture(t, f.build(), DefaultOptions())

	var paras []ParaInfo
	for _, it := range c.Items {
		if it.Kind == ItemParagraphEnd {
			paras = append(paras, *it.Para)
		}
	}
	if len(paras) != 4 {
		t.Fatalf("got %d paragraphs, want 4", len(paras))
	}
	if paras[0].Heading != 1 || paras[0].StyleName != "heading 1" {
		t.Errorf("title paragraph = %+v", paras[0])
	}
	if !paras[1].List || !paras[2].List || paras[3].List {
		t.Errorf("list flags = %v %v %v", paras[1].List, paras[2].List, paras[3].List)
	}
	if paras[3].StyleName != "Normal" || paras[3].Heading != 0 {
		t.Errorf("body paragraph = %+v", paras[3])
	}
	if res.Info.Styles != 2 {
		t.Errorf("Styles = %d, want 2", res.Info.Styles)
	}
}

func TestDecode_Word6List(t *testing.T) {
	f := &fixture{
		v:    VersionWord6,
		main: "Item\r",
		papx: []run{{end: 5, grpprl: []byte{sprm6PNLvlAnm, 2}}},
	}
	c, _ := decodeFixture(t, f.build(), DefaultOptions())

	end, ok := firstItem(c, ItemParagraphEnd)
	if !ok {
		t.Fatal("expected a paragraph end")
	}
	if !end.Para.List || end.Para.ListLevel != 1 {
		t.Errorf("paragraph = %+v, want list level 1", *end.Para)
	}
}

func TestDecode_FontAttribute(t *testing.T) {
	f := &fixture{
		main:  "code\r",
		fonts: []Font{{Name: "Times New Roman"}, {Name: "Courier New"}},
		chpx:  []run{{end: 4, grpprl: sprm8(sprmCRgFtc0, 1, 0)}, {end: 5}},
	}
	c, res := decodeFixture(t, f.build(), DefaultOptions())

	attrs, ok := firstItem(c, ItemAttributes)
	if !ok {
		t.Fatal("expected attributes")
	}
	want := []AttributeEntry{{Start: 0, End: 4, Attr: Attr{Kind: AttrFont, Int: 1, Str: "Courier New"}}}
	if diff := cmp.Diff(want, attrs.Attrs); diff != "" {
		t.Errorf("font attribute mismatch (-want +got):\n%s", diff)
	}
	if res.Info.Fonts != 2 {
		t.Errorf("Fonts = %d, want 2", res.Info.Fonts)
	}
}

func TestDecode_PieceProperties(t *testing.T) {
	t.Run("complex prm", func(t *testing.T) {
		f := &fixture{
			main:   "Bold\rPlain\r",
			pieces: []fixPiece{{end: 5, prm: 0<<1 | 1}, {end: 11}},
			prc:    [][]byte{sprmBold},
		}
		c, res := decodeFixture(t, f.build(), DefaultOptions())
		attrs, ok := firstItem(c, ItemAttributes)
		if !ok {
			t.Fatal("expected attributes from the piece grpprl")
		}
		want := []AttributeEntry{{Start: 0, End: 4, Attr: Attr{Kind: AttrBold, Int: 1}}}
		if diff := cmp.Diff(want, attrs.Attrs); diff != "" {
			t.Errorf("attributes mismatch (-want +got):\n%s", diff)
		}
		if res.Info.Pieces != 2 {
			t.Errorf("Pieces = %d, want 2", res.Info.Pieces)
		}
		if got := c.Text(); got != "BoldPlain" {
			t.Errorf("Text() = %q", got)
		}
	})

	t.Run("single sprm prm is ignored", func(t *testing.T) {
		f := &fixture{
			main:   "Bold\rPlain\r",
			pieces: []fixPiece{{end: 5}, {end: 11, prm: 0x0A}},
		}
		c, res := decodeFixture(t, f.build(), DefaultOptions())
		if res.Stats.IgnoredPrms != 1 {
			t.Errorf("IgnoredPrms = %d, want 1", res.Stats.IgnoredPrms)
		}
		if got := c.Text(); got != "BoldPlain" {
			t.Errorf("Text() = %q", got)
		}
	})
}

func TestDecode_TruncatedGrpprl(t *testing.T) {
	f := &fixture{
		main: "abc\r",
		chpx: []run{{end: 2, grpprl: []byte{0x35}}, {end: 4}},
	}
	c, res := decodeFixture(t, f.build(), DefaultOptions())

	if got := c.Text(); got != "abc" {
		t.Errorf("Text() = %q, want abc", got)
	}
	if res.Stats.TruncatedRecords == 0 {
		t.Error("expected a truncated record")
	}
}

func TestDecode_SinkError(t *testing.T) {
	f := &fixture{main: "Hello\rWorld\r"}
	stop := errTest("stop")
	n := 0
	_, err := DecodeStreams(f.build(), SinkFunc(func(it Item) error {
		n++
		if it.Kind == ItemParagraphEnd {
			return stop
		}
		return nil
	}), DefaultOptions())
	if !errors.Is(err, stop) {
		t.Errorf("err = %v, want sink error", err)
	}
	if n != 2 {
		t.Errorf("sink saw %d items, want 2", n)
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }

func TestDecode_TempSpill(t *testing.T) {
	f := &fixture{main: "Spilled text\r"}
	raw := encrypt(t, f.build(), crypt.AlgorithmRC4, testPassword)

	opts := DefaultOptions()
	opts.Password = StaticPassword(testPassword)
	opts.TempThreshold = 1
	opts.TempDir = t.TempDir()
	c, _ := decodeFixture(t, raw, opts)
	if got := c.Text(); got != "Spilled text" {
		t.Errorf("Text() = %q", got)
	}
}
