package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout é o formato de data aceito na entrada e usado na saída (YYYY-MM-DD)
const DateLayout = "2006-01-02"

// Date representa uma data de calendário, sem horário nem fuso
type Date struct {
	time.Time
}

// NewDate cria uma data de calendário normalizada para meia-noite UTC
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate converte uma string YYYY-MM-DD em Date
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: '%s'", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// MustParseDate é como ParseDate mas entra em pânico em caso de erro (uso em testes e fixtures)
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Before informa se d é anterior a other
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After informa se d é posterior a other
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// String retorna a data no formato YYYY-MM-DD
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// UnmarshalJSON implementa json.Unmarshaler aceitando "YYYY-MM-DD"
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON implementa json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}
