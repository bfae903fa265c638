package msdoc

import (
	"testing"
)

func testStyles() []fixStyle {
	return []fixStyle{
		{name: "Normal", sti: 0, kind: StyleParagraph, base: istdNil, chpx: sprm8(sprmCRgLid0, 0x19, 0x04)},
		{name: "heading 1", sti: 1, kind: StyleParagraph, base: 0, chpx: sprmBold},
		{},
		{name: "Emphasis", sti: 0x58, kind: StyleCharacter, base: istdNil, chpx: sprmItalic},
		{name: "Outline", sti: 0xFFE, kind: StyleParagraph, base: 0, papx: sprm8(sprmPOutLvl, 2)},
	}
}

func TestParseStylesheet_Word8(t *testing.T) {
	f := &fixture{styles: testStyles()}
	ss, truncated := ParseStylesheet(f.stylesheet(), VersionWord8, NewTextDecoder())
	if truncated {
		t.Fatal("unexpected truncation")
	}
	if len(ss.Styles) != 5 {
		t.Fatalf("got %d styles, want 5", len(ss.Styles))
	}
	if ss.Styles[2] != nil {
		t.Error("empty slot should be nil")
	}

	tests := []struct {
		istd    int
		name    string
		heading int
	}{
		{0, "Normal", 0},
		{1, "heading 1", 1},
		{2, "", 0},
		{3, "Emphasis", 0},
		{99, "", 0},
	}
	for _, tc := range tests {
		if got := ss.Name(tc.istd); got != tc.name {
			t.Errorf("Name(%d) = %q, want %q", tc.istd, got, tc.name)
		}
		if got := ss.HeadingLevel(tc.istd); got != tc.heading {
			t.Errorf("HeadingLevel(%d) = %d, want %d", tc.istd, got, tc.heading)
		}
	}

	// 기준 스타일의 언어를 물려받음
	if got := ss.Lid(1); got != 0x0419 {
		t.Errorf("Lid(1) = %#x, want 0x419", got)
	}
	if got := ss.Codepage(1, nil); got != CP1251 {
		t.Errorf("Codepage(1) = %v, want cp1251", got)
	}

	c := defaultCharProps()
	ss.ApplyChar(1, &c, VersionWord8)
	if !c.Bold || c.Lid != 0x0419 {
		t.Errorf("ApplyChar(1) = %+v, want bold with the base language", c)
	}
	c = defaultCharProps()
	ss.ApplyChar(3, &c, VersionWord8)
	if !c.Italic {
		t.Error("character style should apply italic")
	}

	p := defaultParaProps()
	ss.ApplyPara(4, &p, VersionWord8)
	if p.OutLvl != 2 {
		t.Errorf("ApplyPara(4).OutLvl = %d, want 2", p.OutLvl)
	}
}

func TestParseStylesheet_Word6(t *testing.T) {
	f := &fixture{
		v: VersionWord6,
		styles: []fixStyle{
			{name: "Normal", sti: 0, kind: StyleParagraph, base: istdNil},
			{name: "heading 2", sti: 2, kind: StyleParagraph, base: 0, chpx: []byte{sprm6CFItalic, 1}},
		},
	}
	ss, truncated := ParseStylesheet(f.stylesheet(), VersionWord6, NewTextDecoder())
	if truncated {
		t.Fatal("unexpected truncation")
	}
	if ss.Name(1) != "heading 2" || ss.HeadingLevel(1) != 2 {
		t.Errorf("style 1 = %q level %d", ss.Name(1), ss.HeadingLevel(1))
	}
	c := defaultCharProps()
	ss.ApplyChar(1, &c, VersionWord6)
	if !c.Italic {
		t.Error("Word 6 style grpprl not applied")
	}
}

func TestParseStylesheet_Truncated(t *testing.T) {
	f := &fixture{styles: testStyles()}
	b := f.stylesheet()
	ss, truncated := ParseStylesheet(b[:len(b)-5], VersionWord8, NewTextDecoder())
	if !truncated {
		t.Error("expected truncation")
	}
	if ss.Name(0) != "Normal" {
		t.Errorf("styles before the damage should survive, got %q", ss.Name(0))
	}

	empty, truncated := ParseStylesheet(nil, VersionWord8, NewTextDecoder())
	if truncated || len(empty.Styles) != 0 || empty.DefaultFtc != -1 {
		t.Errorf("empty stylesheet = %+v, %v", empty, truncated)
	}
}

func TestStylesheet_BaseCycle(t *testing.T) {
	ss := &Stylesheet{Styles: []*Style{
		{Name: "a", Base: 1, Char: CharProps{Ftc: -1}},
		{Name: "b", Base: 0, Char: CharProps{Ftc: -1}},
	}, DefaultFtc: 3}
	// 순환 참조도 끝나야 함
	if got := ss.Ftc(0); got != 3 {
		t.Errorf("Ftc(0) = %d, want the stylesheet default", got)
	}
}

func TestParseFontTable(t *testing.T) {
	fonts := []Font{{Name: "Times New Roman", Chs: 0}, {Name: "Batang", Chs: 129}, {Name: "Arial Cyr", Chs: 204}}

	for _, v := range []Version{VersionWord8, VersionWord6} {
		t.Run(v.String(), func(t *testing.T) {
			f := &fixture{v: v, fonts: fonts}
			got, truncated := ParseFontTable(f.fontTable(), v, NewTextDecoder())
			if truncated {
				t.Fatal("unexpected truncation")
			}
			if len(got) != 3 {
				t.Fatalf("got %d fonts, want 3", len(got))
			}
			for i, want := range fonts {
				if got[i] != want {
					t.Errorf("font %d = %+v, want %+v", i, got[i], want)
				}
			}
			if got.Codepage(1) != CP949 || got.Codepage(2) != CP1251 {
				t.Errorf("font code pages = %v, %v", got.Codepage(1), got.Codepage(2))
			}
			if got.Name(7) != "" || got.Codepage(-1) != CodepageUnknown {
				t.Error("out of range font should be empty")
			}
		})
	}
}

func TestParseFontTable_Truncated(t *testing.T) {
	f := &fixture{fonts: []Font{{Name: "Times New Roman"}, {Name: "Courier New"}}}
	b := f.fontTable()
	got, truncated := ParseFontTable(b[:len(b)-10], VersionWord8, NewTextDecoder())
	if !truncated {
		t.Error("expected truncation")
	}
	if len(got) == 0 || got[0].Name != "Times New Roman" {
		t.Errorf("fonts = %+v", got)
	}
}
