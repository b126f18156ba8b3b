// Облегченные представления сущностей для ответов API.
//
// DTO не содержат служебных полей моделей и безопасны для выдачи наружу:
// пароли, технические флаги и внутренние связи в них не попадают.
package dto

import "github.com/gofrs/uuid"

type UserLight struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

func (u *UserLight) GetName() string {
	if u == nil {
		return ""
	}
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	return u.LastName + " " + u.FirstName
}
