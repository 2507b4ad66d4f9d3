package model

import "errors"

var (
	// ErrEmptyInput indica que não há tarefas (ou projetos) para montar a linha do tempo
	ErrEmptyInput = errors.New("nenhuma tarefa informada")

	// ErrZeroDuration indica um projeto cuja soma de durações é zero
	ErrZeroDuration = errors.New("duração total do projeto é zero")

	// ErrUnknownStatus indica um status fora do conjunto conhecido
	ErrUnknownStatus = errors.New("status desconhecido")

	// ErrInvalidDate indica uma data fora do formato YYYY-MM-DD
	ErrInvalidDate = errors.New("data inválida")

	// ErrInvalidTask indica uma tarefa que não passou na validação de entrada
	ErrInvalidTask = errors.New("tarefa inválida")
)
