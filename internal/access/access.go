// Package access реализует правило авторизации для операций над
// пользователями. Решение принимает чистая функция Decide без состояния:
// роль и совпадение идентичности проверяются независимыми предикатами.
//
// Вызывающая сторона обязана отказывать всегда, когда Decide
// не вернула явное разрешение.
package access

import "github.com/magabrotheeeer/user-service/internal/models"

// Action — действие над записью пользователя.
type Action string

const (
	// ActionView — просмотр записи.
	ActionView Action = "view"
	// ActionEdit — изменение записи.
	ActionEdit Action = "edit"
	// ActionDelete — удаление записи.
	ActionDelete Action = "delete"
)

// Decide возвращает true, если actor может выполнить action над target.
//
// Правила:
//  1. Без аутентифицированного пользователя — отказ.
//  2. ROLE_ROOT разрешает любое действие над любой записью.
//  3. view и edit разрешены только над собственной записью.
//  4. delete для не-root запрещён независимо от цели.
func Decide(actor, target *models.User, action Action) bool {
	if actor == nil || target == nil {
		return false
	}

	if isRoot(actor) {
		return true
	}

	switch action {
	case ActionView, ActionEdit:
		return isSelf(actor, target)
	default:
		return false
	}
}

func isRoot(actor *models.User) bool {
	return actor.HasRole(models.RoleRoot)
}

func isSelf(actor, target *models.User) bool {
	return actor.ID == target.ID
}
