// Package msdoc decodes legacy Word binary documents (Word 6/95 and
// Word 97-2003) into an ordered stream of attributed text runs and
// structural items.
package msdoc

// Word 바이너리 포맷 상수 정의
// 참조: [MS-DOC] 2.5 FIB, 2.8 PLC, 2.9 FKP, [MS-OFFCRYPTO] 2.3

const (
	// FibBase 식별자
	WordIdent uint16 = 0xA5EC

	// nFib 범위
	NFibWord6Min uint16 = 101 // Word 6.0
	NFibWord6Max uint16 = 105 // Word 95 (극동판 포함)
	NFibWord8Min uint16 = 0x00C1

	// 암호화되지 않는 FIB 선두 영역 크기
	UnencryptedPrefixWord8 = 0x44
	UnencryptedPrefixWord6 = 0x34

	// FKP 페이지 크기
	PageSize = 512
)

// 스트림 이름
const (
	StreamWordDocument = "WordDocument"
	StreamTable0       = "0Table"
	StreamTable1       = "1Table"
	StreamData         = "Data"
	StreamSummaryInfo  = "\x05SummaryInformation"
)

// FibBase 플래그 비트 (offset 0x0A)
const (
	FlagDot          uint16 = 1 << 0
	FlagGlossary     uint16 = 1 << 1
	FlagComplex      uint16 = 1 << 2 // fast save (piece table 사용)
	FlagHasPic       uint16 = 1 << 3
	FlagEncrypted    uint16 = 1 << 8
	FlagWhichTblStm  uint16 = 1 << 9 // 1Table 사용
	FlagReadOnlyRec  uint16 = 1 << 10
	FlagWriteReserve uint16 = 1 << 11
	FlagExtChar      uint16 = 1 << 12 // 유니코드 저장 가능
	FlagLoadOverride uint16 = 1 << 13
	FlagFarEast      uint16 = 1 << 14
	FlagObfuscated   uint16 = 1 << 15 // XOR 난독화 (Word 97)
)

// 특수 문자 코드 (decoded code points)
const (
	CharNull          = 0x00
	CharPicture       = 0x01 // fSpec: 그림
	CharAutoNumber    = 0x02 // fSpec: 각주/미주 참조
	CharNoteSeparator = 0x03 // fSpec: 각주 구분선
	CharNoteContSep   = 0x04 // fSpec: 각주 연속 구분선
	CharAnnotation    = 0x05 // fSpec: 메모 참조
	CharCellMark      = 0x07 // 셀/행 끝
	CharDrawObject    = 0x08 // fSpec: 그리기 개체
	CharTab           = 0x09
	CharLineBreak     = 0x0B
	CharPageBreak     = 0x0C // 페이지 또는 구역 나눔
	CharParaEnd       = 0x0D
	CharColumnBreak   = 0x0E
	CharFieldBegin    = 0x13
	CharFieldSep      = 0x14
	CharFieldEnd      = 0x15
	CharNonBreakHyph  = 0x1E
	CharSoftHyphen    = 0x1F
	CharNonBreakSpace = 0xA0
)

// Word 97 sprm (2바이트 opcode)
const (
	sprmCFRMarkDel   uint16 = 0x0800
	sprmCFFldVanish  uint16 = 0x0802
	sprmCPicLocation uint16 = 0x6A03
	sprmCFData       uint16 = 0x0806
	sprmCFOle2       uint16 = 0x080A
	sprmCIstd        uint16 = 0x4A30
	sprmCFBold       uint16 = 0x0835
	sprmCFItalic     uint16 = 0x0836
	sprmCFStrike     uint16 = 0x0837
	sprmCFVanish     uint16 = 0x083C
	sprmCKul         uint16 = 0x2A3E
	sprmCLid         uint16 = 0x4A41
	sprmCIss         uint16 = 0x2A48
	sprmCRgFtc0      uint16 = 0x4A4F
	sprmCRgFtc1      uint16 = 0x4A50
	sprmCRgFtc2      uint16 = 0x4A51
	sprmCFSpec       uint16 = 0x0855
	sprmCFObj        uint16 = 0x0856
	sprmCLidBi       uint16 = 0x485F
	sprmCRgLid0      uint16 = 0x486D
	sprmCRgLid1      uint16 = 0x486E
	sprmCRgLid0_80   uint16 = 0x4873
	sprmCRgLid1_80   uint16 = 0x4874

	sprmPIstd          uint16 = 0x4600
	sprmPJc80          uint16 = 0x2403
	sprmPIlvl          uint16 = 0x260A
	sprmPIlfo          uint16 = 0x460B
	sprmPFInTable      uint16 = 0x2416
	sprmPFTtp          uint16 = 0x2417
	sprmPChgTabs       uint16 = 0xC615
	sprmPFInnerTblCell uint16 = 0x244B
	sprmPFInnerTtp     uint16 = 0x244C
	sprmPJc            uint16 = 0x2461
	sprmPOutLvl        uint16 = 0x2640
	sprmPItap          uint16 = 0x6649

	sprmSBkc       uint16 = 0x3009
	sprmTDefTable  uint16 = 0xD608
	sprmTDefTable2 uint16 = 0xD606 // sprmTDefTable10 호환
)

// Word 6 sprm (1바이트 opcode)
const (
	sprm6PIstd       = 2
	sprm6PJc         = 5
	sprm6PNLvlAnm    = 13
	sprm6PChgTabs    = 23
	sprm6PFInTable   = 24
	sprm6PTtp        = 25
	sprm6CFFldVanish = 67
	sprm6CPicLoc     = 68
	sprm6CFData      = 71
	sprm6CFOle2      = 75
	sprm6CIstd       = 80
	sprm6CFBold      = 85
	sprm6CFItalic    = 86
	sprm6CFStrike    = 87
	sprm6CFVanish    = 92
	sprm6CFtc        = 93
	sprm6CKul        = 94
	sprm6CLid        = 97
	sprm6CIss        = 104
	sprm6CFSpec      = 117
	sprm6CFObj       = 118
	sprm6SBkc        = 142
	sprm6TDefTable10 = 188
	sprm6TDefTable   = 190
)

// 필드 타입 (flt)
const (
	FieldRef       = 3
	FieldPage      = 33
	FieldHyperlink = 88
)
