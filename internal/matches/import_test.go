package matches

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseCSV_WithSwedishHeaders_MapsFields(t *testing.T) {
	csv := "Datum;Tid;Hemmalag;Bortalag;Spelplats;Tävling;Domare;Noteringar\r\n" +
		"2025-11-08;14:30;IK Sund;H43 Lund HF;Norrehedshallen;Flickor - F16 Syd;A. Berg;derby\r\n"

	rows, err := parseCSV(strings.NewReader(csv))
	if err != nil { t.Fatalf("parseCSV error: %v", err) }
	if len(rows) != 1 { t.Fatalf("expected 1 row, got %d", len(rows)) }
	m := rows[0]

	if m.Date != "2025-11-08" { t.Errorf("date = %q", m.Date) }
	if m.Time != "14:30" { t.Errorf("time = %q", m.Time) }
	if m.HomeTeam != "IK Sund" || m.AwayTeam != "H43 Lund HF" {
		t.Errorf("team mapping failed: home=%q away=%q", m.HomeTeam, m.AwayTeam)
	}
	if m.Venue != "Norrehedshallen" { t.Errorf("venue = %q", m.Venue) }
	if m.Competition == "" { t.Errorf("competition not mapped") }
	if m.Referee != "A. Berg" { t.Errorf("referee = %q", m.Referee) }
	if m.Note != "derby" { t.Errorf("note = %q", m.Note) }
}

func TestParseCSV_CommaDelimiter(t *testing.T) {
	csv := "date,time,hometeam,awayteam,venue\n" +
		"2025-10-18,09:00,Alpha,Beta,Arena\n" +
		"\n"

	rows, err := parseCSV(strings.NewReader(csv))
	if err != nil { t.Fatalf("parseCSV error: %v", err) }
	if len(rows) != 1 { t.Fatalf("expected 1 row (blank skipped), got %d", len(rows)) }
	if rows[0].HomeTeam != "Alpha" || rows[0].AwayTeam != "Beta" {
		t.Errorf("team mapping failed: %+v", rows[0])
	}
}

func TestParseXLSX_Basic(t *testing.T) {
	f := excelize.NewFile()
	sh := f.GetSheetName(0)
	header := []string{"Datum", "Tid", "Hemmalag", "Bortalag", "Spelplats"}
	data := []string{"2025-10-18", "09:00", "H43 Lund HF", "IFK Kristianstad", "Sparbanken Skåne Arena A"}
	if err := f.SetSheetRow(sh, "A1", &header); err != nil { t.Fatal(err) }
	if err := f.SetSheetRow(sh, "A2", &data); err != nil { t.Fatal(err) }
	buf, err := f.WriteToBuffer()
	if err != nil { t.Fatal(err) }

	rows, err := parseXLSX(buf.Bytes())
	if err != nil { t.Fatalf("parseXLSX error: %v", err) }
	if len(rows) != 1 { t.Fatalf("expected 1 row, got %d", len(rows)) }
	m := rows[0]
	if m.HomeTeam != "H43 Lund HF" || m.AwayTeam != "IFK Kristianstad" {
		t.Errorf("team mapping failed: %q vs %q", m.HomeTeam, m.AwayTeam)
	}
	if m.Venue != "Sparbanken Skåne Arena A" {
		t.Errorf("venue = %q", m.Venue)
	}
}
