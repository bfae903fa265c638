package msdoc

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testPieceTable(t *testing.T, f *fixture, total int, streamLen int64) *PieceTable {
	t.Helper()
	pt, err := ParseClx(f.clx(total, 0x400), VersionWord8, streamLen)
	if err != nil {
		t.Fatalf("ParseClx failed: %v", err)
	}
	return pt
}

func TestParseClx(t *testing.T) {
	f := &fixture{
		pieces: []fixPiece{{end: 5, prm: 1}, {end: 10}},
		prc:    [][]byte{sprmBold},
	}
	pt := testPieceTable(t, f, 10, 0x1000)

	want := []Piece{
		{CPStart: 0, CPEnd: 5, FC: 0x400, Prm: 1},
		{CPStart: 5, CPEnd: 10, FC: 0x405},
	}
	if diff := cmp.Diff(want, pt.Pieces); diff != "" {
		t.Errorf("pieces mismatch (-want +got):\n%s", diff)
	}
	g, ok := pt.Grpprl(0)
	if !ok {
		t.Fatal("expected Prc grpprl 0")
	}
	if diff := cmp.Diff(sprmBold, g); diff != "" {
		t.Errorf("grpprl mismatch (-want +got):\n%s", diff)
	}
	if _, ok := pt.Grpprl(1); ok {
		t.Error("Grpprl(1) should not exist")
	}
	if pt.EndCP() != 10 {
		t.Errorf("EndCP() = %d, want 10", pt.EndCP())
	}
}

func TestParseClx_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"unknown clxt", []byte{0x07, 0, 0}},
		{"truncated prc", []byte{0x01, 0x05}},
		{"truncated pcdt", []byte{0x02, 0x10}},
		{"empty pcdt", []byte{0x02, 0, 0, 0, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseClx(tc.data, VersionWord8, 0x1000)
			if !errors.Is(err, ErrCorruptHeader) {
				t.Errorf("err = %v, want ErrCorruptHeader", err)
			}
		})
	}
}

func TestPieceTable_Locate(t *testing.T) {
	f := &fixture{pieces: []fixPiece{{end: 5}, {end: 10}}}
	pt := testPieceTable(t, f, 10, 0x1000)

	prev := int64(-1)
	for cp := 0; cp < 10; cp++ {
		loc := pt.Locate(cp)
		if loc.Truncated {
			t.Fatalf("Locate(%d) truncated", cp)
		}
		if loc.FC <= prev {
			t.Errorf("Locate(%d).FC = %d, not increasing", cp, loc.FC)
		}
		prev = loc.FC
	}
	if loc := pt.Locate(7); loc.FC != 0x407 || loc.Piece != 1 || loc.Wide {
		t.Errorf("Locate(7) = %+v", loc)
	}
	if loc := pt.Locate(42); !loc.Truncated || loc.FC != 0x40A {
		t.Errorf("Locate(42) = %+v, want clamp to the last piece end", loc)
	}
	if loc := pt.Locate(-1); !loc.Truncated || loc.FC != 0x400 {
		t.Errorf("Locate(-1) = %+v", loc)
	}

	short := testPieceTable(t, f, 10, 0x403)
	if loc := short.Locate(8); !loc.Truncated || loc.FC != 0x403 {
		t.Errorf("Locate past stream end = %+v", loc)
	}
}

func TestPieceTable_Wide(t *testing.T) {
	f := &fixture{wide: true, pieces: []fixPiece{{end: 4}}}
	pt := testPieceTable(t, f, 4, 0x1000)

	loc := pt.Locate(3)
	if !loc.Wide || loc.FC != 0x406 {
		t.Errorf("Locate(3) = %+v, want wide at 0x406", loc)
	}
	if got := pt.Pieces[0].FCEnd(); got != 0x408 {
		t.Errorf("FCEnd() = %#x, want 0x408", got)
	}
}

func TestPieceTable_ProjectFC(t *testing.T) {
	f := &fixture{pieces: []fixPiece{{end: 5}, {end: 10}}}
	pt := testPieceTable(t, f, 10, 0x1000)

	got := pt.ProjectFC(0x402, 0x407)
	want := []CPRange{{Start: 2, End: 5}, {Start: 5, End: 7}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ProjectFC mismatch (-want +got):\n%s", diff)
	}
	if got := pt.ProjectFC(0x100, 0x200); len(got) != 0 {
		t.Errorf("ProjectFC outside text = %v", got)
	}
}

func TestNewSimplePieceTable(t *testing.T) {
	pt := NewSimplePieceTable(0x200, 12, false, 0x400)
	if pt.PieceEnd(3) != 12 {
		t.Errorf("PieceEnd(3) = %d, want 12", pt.PieceEnd(3))
	}
	if pt.PieceEnd(20) != 20 {
		t.Errorf("PieceEnd outside text = %d, want 20", pt.PieceEnd(20))
	}
	if prm, ok := pt.PrmAt(0); !ok || prm != 0 {
		t.Errorf("PrmAt(0) = %d, %v", prm, ok)
	}
}
