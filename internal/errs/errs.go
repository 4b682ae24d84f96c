// Package errs описывает классификацию ошибок бизнес-уровня.
// Каждая ошибка несёт Kind — класс, по которому граница HTTP подбирает
// статус ответа, и готовое для клиента сообщение. Ошибки поднимаются в месте
// обнаружения и без обработки доходят до единственного транслятора
// (internal/http/response).
package errs

import "errors"

// MsgDuplicateUser — фиксированное сообщение о нарушении уникальности
// пары (login, pass). Одно и то же для предварительной проверки сервиса
// и для нарушения индекса в базе.
const MsgDuplicateUser = "User with this login and pass combination already exists"

// Kind определяет класс ошибки.
type Kind int

const (
	// KindInternal — неклассифицированная ошибка, текст наружу не отдаётся.
	KindInternal Kind = iota
	// KindUnauthenticated — ошибка аутентификации.
	KindUnauthenticated
	// KindForbidden — отказ в авторизации.
	KindForbidden
	// KindNotFound — запись не найдена.
	KindNotFound
	// KindInvalidInput — ошибка валидации входных данных.
	KindInvalidInput
	// KindDuplicate — нарушение уникальности (login, pass).
	KindDuplicate
)

// Error — классифицированная ошибка с сообщением для клиента.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Unauthenticated возвращает ошибку аутентификации.
func Unauthenticated(msg string) error {
	return &Error{Kind: KindUnauthenticated, Msg: msg}
}

// Forbidden возвращает отказ в авторизации.
func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Msg: msg}
}

// NotFound возвращает ошибку отсутствия записи.
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// InvalidInput возвращает ошибку валидации.
func InvalidInput(msg string) error {
	return &Error{Kind: KindInvalidInput, Msg: msg}
}

// Duplicate возвращает ошибку нарушения уникальности.
func Duplicate(msg string) error {
	return &Error{Kind: KindDuplicate, Msg: msg}
}

// KindOf возвращает класс ошибки. Для необёрнутых и посторонних ошибок —
// KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is сообщает, принадлежит ли ошибка указанному классу.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
