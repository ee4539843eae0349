package service

import "time"

// Clock abstrai o tempo para que limites de validade e de idade sejam
// testáveis. Today devolve a data truncada em UTC.
type Clock interface {
	Now() time.Time
	Today() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewClock returns the wall clock.
func NewClock() Clock { return realClock{} }
