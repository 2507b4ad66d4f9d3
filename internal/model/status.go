package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status é o estado de andamento de uma tarefa ou projeto
type Status int

// A ordem das constantes é a tabela de prioridade usada na consolidação:
// um valor maior sempre prevalece sobre um menor.
// StatusUnknown é o valor zero (status ausente) e nunca é válido.
const (
	StatusUnknown Status = iota
	StatusCompleted
	StatusOnTrack
	StatusAtRisk
	StatusDelayed
)

var statusNames = map[Status]string{
	StatusCompleted: "Completed",
	StatusOnTrack:   "On Track",
	StatusAtRisk:    "At Risk",
	StatusDelayed:   "Delayed",
}

// AllStatuses lista os estados em ordem crescente de prioridade
var AllStatuses = []Status{StatusCompleted, StatusOnTrack, StatusAtRisk, StatusDelayed}

// ParseStatus converte o nome de exibição em Status
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	for st, name := range statusNames {
		if strings.EqualFold(name, s) {
			return st, nil
		}
	}
	return StatusUnknown, fmt.Errorf("%w: '%s'", ErrUnknownStatus, s)
}

// String retorna o nome de exibição do status
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Valid informa se o status pertence ao conjunto conhecido
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// Priority retorna o peso do status na tabela de prioridade
func (s Status) Priority() int {
	return int(s)
}

// ResolveStatus consolida os status dos membros de um projeto.
// Delayed prevalece sobre At Risk, que prevalece sobre On Track;
// o resultado só é Completed quando todos os membros estão concluídos.
func ResolveStatus(statuses []Status) Status {
	resolved := StatusCompleted
	for _, s := range statuses {
		if s.Priority() > resolved.Priority() {
			resolved = s
		}
	}
	return resolved
}

// MarshalJSON serializa o status pelo nome de exibição
func (s Status) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, int(s))
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON aceita o nome de exibição ("On Track", "Delayed", ...)
func (s *Status) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownStatus, string(b))
	}
	parsed, err := ParseStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
