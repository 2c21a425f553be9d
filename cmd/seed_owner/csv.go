package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var requiredColumns = []string{"email", "firstname", "lastname", "phone", "role"}

// readUsers lee el CSV de usuarios. Las exportaciones de Excel suelen venir en Windows-1252:
// si el contenido no es UTF-8 válido se decodifica con ese juego de caracteres.
func readUsers(r io.Reader) ([]dto.CreateUserRequest, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.Windows1252.NewDecoder())
	}

	reader := csv.NewReader(src)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("csv vacío")
	}

	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("falta la columna %q", c)
		}
	}
	get := func(row []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]dto.CreateUserRequest, 0, len(records)-1)
	for _, row := range records[1:] {
		if get(row, "email") == "" {
			continue
		}
		out = append(out, dto.CreateUserRequest{
			Email:    get(row, "email"),
			Password: get(row, "password"),
			Role:     entity.Role(strings.ToLower(get(row, "role"))),
			Profile: dto.ProfileInput{
				FirstName: get(row, "firstname"),
				LastName:  get(row, "lastname"),
				Phone:     get(row, "phone"),
			},
		})
	}
	return out, nil
}
