// Package models содержит доменные структуры для работы с пользователями,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RoleUser — роль по умолчанию, назначается каждому пользователю при создании.
const RoleUser = "ROLE_USER"

// RoleRoot — административная роль, даёт полный доступ к любым записям.
const RoleRoot = "ROLE_ROOT"

// User представляет учётную запись пользователя, используемую
// в бизнес-логике и хранилище. ID присваивается базой при создании
// и далее не меняется. Пара (Login, Pass) уникальна среди всех записей.
type User struct {
	ID    int      `json:"id"`
	Login string   `json:"login" validate:"required,max=8"`
	Pass  string   `json:"pass" validate:"required,max=8"`
	Phone string   `json:"phone" validate:"required,max=8"`
	Roles []string `json:"roles"`
}

// DummyUser используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в User. Поле ID приходит строкой,
// чтобы его можно было валидировать и парсить вручную.
type DummyUser struct {
	ID    string `json:"id,omitempty"`
	Login string `json:"login"`
	Pass  string `json:"pass"`
	Phone string `json:"phone"`
}

// UnmarshalJSON принимает поля запроса любого JSON-типа и приводит каждое
// к строке. Числовой id, как его отдаёт ответ на создание, остаётся
// валидным входом при обновлении.
func (d *DummyUser) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	d.ID = castString(raw["id"])
	d.Login = castString(raw["login"])
	d.Pass = castString(raw["pass"])
	d.Phone = castString(raw["phone"])
	return nil
}

// castString приводит значение JSON-поля к строке: числа без потери
// записи, true — "1", false и null — пустая строка.
func castString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "1"
		}
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// RolesOrDefault возвращает роли пользователя без дубликатов.
// Пустой список означает роль ROLE_USER.
func (u *User) RolesOrDefault() []string {
	roles := u.Roles
	if len(roles) == 0 {
		roles = []string{RoleUser}
	}

	seen := make(map[string]struct{}, len(roles))
	result := make([]string, 0, len(roles))
	for _, role := range roles {
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		result = append(result, role)
	}
	return result
}

// HasRole сообщает, есть ли у пользователя указанная роль
// с учётом роли по умолчанию.
func (u *User) HasRole(role string) bool {
	for _, r := range u.RolesOrDefault() {
		if r == role {
			return true
		}
	}
	return false
}
