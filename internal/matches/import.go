package matches

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

// ImportRow is one scheduled match from a CSV/XLSX upload. Teams are
// carried by name and resolved (or created) during import.
type ImportRow struct {
	Date        string
	Time        string
	HomeTeam    string
	AwayTeam    string
	Venue       string
	Referee     string
	Competition string
	Note        string
}

// parseImport reads a CSV or XLSX file from a multipart form file.
func parseImport(fh *multipart.FileHeader) ([]ImportRow, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	file, err := fh.Open()
	if err != nil { return nil, err }
	defer file.Close()

	switch ext {
	case ".csv":
		return parseCSV(file)
	case ".xlsx":
		// excelize wants a ReaderAt; small files, so buffer with a 10MB cap.
		b, err := io.ReadAll(io.LimitReader(file, 10<<20))
		if err != nil { return nil, err }
		return parseXLSX(b)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
}

func parseCSV(r io.Reader) ([]ImportRow, error) {
	br := bufio.NewReader(r)
	// Peek first line to guess delimiter
	line, _ := br.ReadString('\n')
	rest := io.MultiReader(strings.NewReader(line), br)
	reader := csv.NewReader(rest)
	reader.FieldsPerRecord = -1
	if strings.Count(line, ";") > strings.Count(line, ",") {
		reader.Comma = ';'
	}
	rows, err := reader.ReadAll()
	if err != nil { return nil, err }
	if len(rows) == 0 { return nil, fmt.Errorf("empty csv") }
	headers := normHeaders(rows[0])
	var out []ImportRow
	for i := 1; i < len(rows); i++ {
		if len(strings.TrimSpace(strings.Join(rows[i], ""))) == 0 { continue }
		out = append(out, rowToImport(headers, rows[i]))
	}
	return out, nil
}

func parseXLSX(b []byte) ([]ImportRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil { return nil, err }
	defer f.Close()
	sheet := f.GetSheetName(0)
	if sheet == "" { return nil, fmt.Errorf("no sheet") }
	rows, err := f.GetRows(sheet)
	if err != nil { return nil, err }
	if len(rows) == 0 { return nil, fmt.Errorf("empty sheet") }
	headers := normHeaders(rows[0])
	var out []ImportRow
	for i := 1; i < len(rows); i++ {
		if len(strings.TrimSpace(strings.Join(rows[i], ""))) == 0 { continue }
		out = append(out, rowToImport(headers, rows[i]))
	}
	return out, nil
}

// normalize headers: lower, keep letters/digits, fold Swedish diacritics,
// map Swedish aliases.
func normHeaders(hdr []string) map[int]string {
	m := make(map[int]string, len(hdr))
	for i, h := range hdr {
		k := strings.ToLower(strings.TrimSpace(h))
		b := strings.Builder{}
		for _, r := range k {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				switch r {
				case 'å', 'ä': r = 'a'
				case 'ö': r = 'o'
				}
				b.WriteRune(r)
			}
		}
		k = b.String()
		switch k {
		case "datum": k = "date"
		case "starttid", "tid": k = "time"
		case "hall", "hallplats", "plats", "spelplats": k = "venue"
		case "serie", "tavling", "league": k = "competition"
		case "domare", "referees": k = "referee"
		case "noteringar", "notis", "notes": k = "note"
		case "hemmalag": k = "hometeam"
		case "bortalag": k = "awayteam"
		}
		m[i] = k
	}
	return m
}

func rowToImport(h map[int]string, row []string) ImportRow {
	get := func(key string) string {
		for i, k := range h { if k == key && i < len(row) { return strings.TrimSpace(row[i]) } }
		return ""
	}
	return ImportRow{
		Date:        get("date"),
		Time:        get("time"),
		HomeTeam:    get("hometeam"),
		AwayTeam:    get("awayteam"),
		Venue:       get("venue"),
		Referee:     get("referee"),
		Competition: get("competition"),
		Note:        get("note"),
	}
}
