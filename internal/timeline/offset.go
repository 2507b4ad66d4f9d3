// Package timeline contém o núcleo de cálculo da linha do tempo Gantt:
// agregação de tarefas por projeto e posicionamento das barras.
// As funções são puras: não guardam estado entre chamadas.
package timeline

import (
	"time"

	"github.com/cleberrangel/gantt-timeline-api/internal/model"
)

const secondsPerDay = 24 * 60 * 60

// Epoch é a data de referência dos deslocamentos em dias
var Epoch = model.NewDate(1970, time.January, 1)

// DayOffset retorna o número de dias entre Epoch e a data
func DayOffset(d model.Date) int {
	return DaysBetween(Epoch, d)
}

// DaysBetween retorna end - start em dias de calendário.
// As datas são normalizadas para UTC, então não há dias de 23 ou 25 horas.
func DaysBetween(start, end model.Date) int {
	s := civil(start)
	e := civil(end)
	return int((e.Unix() - s.Unix()) / secondsPerDay)
}

func civil(d model.Date) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
