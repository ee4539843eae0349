package service

import (
	"errors"
	"fmt"
)

// Kind classifica erros de negócio para que os handlers escolham o status
// HTTP sem inspecionar mensagens.
type Kind int

const (
	// KindNotFound: a entidade referenciada não existe.
	KindNotFound Kind = iota
	// KindBusinessRule: a operação viola uma regra de negócio; repetir sem
	// mudar o estado produz o mesmo erro.
	KindBusinessRule
	// KindConflict: violação de unicidade (nome, cpf, email).
	KindConflict
	// KindTransient: falha de infraestrutura; o chamador pode tentar de novo.
	KindTransient
)

// Error é o erro tipado retornado pelos serviços.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Err }

func NotFoundf(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func BusinessRulef(format string, args ...interface{}) error {
	return &Error{Kind: KindBusinessRule, Msg: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func Transientf(err error, format string, args ...interface{}) error {
	return &Error{Kind: KindTransient, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf devolve o Kind de um erro de serviço; ok=false para erros não
// classificados (que os handlers tratam como 500).
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reporta se err carrega o Kind dado.
func IsKind(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}
