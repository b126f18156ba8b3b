// Пакет содержит определения ошибок, используемых в приложении planboard.
// Каждая ошибка имеет код, статус HTTP и описание, что позволяет удобно
// обрабатывать исключения и предоставлять информативные сообщения пользователю.
//
// Основные возможности:
//   - Определение ошибок авторизации, проектов, ролей, спринтов, доски и команд.
//   - Предоставление кодов ошибок, соответствующих кодам HTTP статусов.
//   - Функция для форматирования сообщений об ошибках с использованием аргументов.
package apierrors

import (
	"fmt"
	"net/http"
	"strings"
)

type DefinedError struct {
	Code       int    `json:"code"`
	StatusCode int    `json:"-"`
	Err        string `json:"error"`
	RuErr      string `json:"ru_error,omitempty"`
}

func (e DefinedError) Error() string {
	return e.Err
}

var (
	// 1*** - auth errors
	ErrFailedLogin              = DefinedError{Code: 1001, StatusCode: http.StatusUnauthorized, Err: "invalid credentials", RuErr: "Неправильный email или пароль"}
	ErrLoginCredentialsRequired = DefinedError{Code: 1002, StatusCode: http.StatusUnauthorized, Err: "both email and password are required", RuErr: "Поля email и пароль не могут быть пустыми"}
	ErrInvalidEmail             = DefinedError{Code: 1003, StatusCode: http.StatusBadRequest, Err: "invalid email", RuErr: "Некорректный email"}
	ErrSignUpDisabled           = DefinedError{Code: 1004, StatusCode: http.StatusForbidden, Err: "sign up is disabled", RuErr: "Регистрация отключена"}
	ErrUserExists               = DefinedError{Code: 1005, StatusCode: http.StatusConflict, Err: "user with this email already exists", RuErr: "Пользователь с таким email уже существует"}
	ErrTokenExpired             = DefinedError{Code: 1101, StatusCode: http.StatusUnauthorized, Err: "token expired", RuErr: "Срок действия токена истек"}
	ErrTokenInvalid             = DefinedError{Code: 1102, StatusCode: http.StatusUnauthorized, Err: "invalid token", RuErr: "Неверный токен"}

	// 2*** - project errors
	ErrProjectNotFound        = DefinedError{Code: 2001, StatusCode: http.StatusNotFound, Err: "project not found", RuErr: "Проект не найден"}
	ErrProjectForbidden       = DefinedError{Code: 2002, StatusCode: http.StatusForbidden, Err: "not have permissions to perform this action", RuErr: "Недостаточно прав для совершения действия"}
	ErrProjectNameRequired    = DefinedError{Code: 2003, StatusCode: http.StatusBadRequest, Err: "project must have a name", RuErr: "Поле Имя проекта не может быть пустым"}
	ErrProjectNameConflict    = DefinedError{Code: 2004, StatusCode: http.StatusConflict, Err: "project with this name already exists", RuErr: "Проект с таким именем уже существует"}
	ErrProjectNameMismatch    = DefinedError{Code: 2005, StatusCode: http.StatusBadRequest, Err: "the project name does not match", RuErr: "Введенное имя проекта не совпадает"}
	ErrProjectRequestValidate = DefinedError{Code: 2006, StatusCode: http.StatusBadRequest, Err: "validation error", RuErr: "Введены некорректные данные"}

	// 25** - role errors
	ErrRoleNotFound          = DefinedError{Code: 2501, StatusCode: http.StatusNotFound, Err: "role not found", RuErr: "Роль не найдена"}
	ErrRoleRequestValidate   = DefinedError{Code: 2502, StatusCode: http.StatusBadRequest, Err: "validation error", RuErr: "Введены некорректные данные"}
	ErrRoleAlreadyAssigned   = DefinedError{Code: 2503, StatusCode: http.StatusConflict, Err: "user already has a role in this project", RuErr: "Пользователю уже назначена роль в этом проекте"}
	ErrRoleAssignmentMissing = DefinedError{Code: 2504, StatusCode: http.StatusNotFound, Err: "user has no role in this project", RuErr: "Пользователю не назначена роль в этом проекте"}
	ErrPermissionExists      = DefinedError{Code: 2505, StatusCode: http.StatusConflict, Err: "permission already granted", RuErr: "Разрешение уже выдано данной роли"}

	// 3*** - sprint errors
	ErrSprintNotFound        = DefinedError{Code: 3001, StatusCode: http.StatusNotFound, Err: "sprint not found", RuErr: "Спринт не найден"}
	ErrSprintBadRequest      = DefinedError{Code: 3002, StatusCode: http.StatusBadRequest, Err: "bad request", RuErr: "Некорректный запрос"}
	ErrSprintRequestValidate = DefinedError{Code: 3003, StatusCode: http.StatusBadRequest, Err: "validation error", RuErr: "Введены некорректные данные"}
	ErrSprintDatesOverlap    = DefinedError{Code: 3004, StatusCode: http.StatusConflict, Err: "a sprint with overlapping dates already exists", RuErr: "Спринт с пересекающимися датами уже существует. Выберите другие даты"}
	ErrSprintTimeWindow      = DefinedError{Code: 3005, StatusCode: http.StatusBadRequest, Err: "sprint end date is before its start date", RuErr: "Дата окончания спринта раньше даты начала"}
	ErrSprintNotInactive     = DefinedError{Code: 3006, StatusCode: http.StatusConflict, Err: "only inactive sprints can be archived", RuErr: "Архивировать можно только неактивный спринт"}

	// 4*** - board errors
	ErrStatusNotFound        = DefinedError{Code: 4001, StatusCode: http.StatusNotFound, Err: "status not found", RuErr: "Колонка не найдена"}
	ErrStatusNotEmpty        = DefinedError{Code: 4002, StatusCode: http.StatusConflict, Err: "remove all tickets from this column across all sprints first", RuErr: "Сначала уберите все задачи из этой колонки во всех спринтах"}
	ErrStatusRequestValidate = DefinedError{Code: 4003, StatusCode: http.StatusBadRequest, Err: "validation error", RuErr: "Введены некорректные данные"}
	ErrTicketNotFound        = DefinedError{Code: 4004, StatusCode: http.StatusNotFound, Err: "ticket not found", RuErr: "Задача не найдена"}
	ErrBoardBadRequest       = DefinedError{Code: 4005, StatusCode: http.StatusBadRequest, Err: "bad request", RuErr: "Некорректный запрос"}
	ErrTimeTakenOutOfRange   = DefinedError{Code: 4006, StatusCode: http.StatusBadRequest, Err: "time taken must be between 1 and 1000 minutes", RuErr: "Время должно быть от 1 до 1000 минут"}
	ErrTimeTrackingDisabled  = DefinedError{Code: 4007, StatusCode: http.StatusBadRequest, Err: "time tracking is disabled for this column", RuErr: "Для этой колонки время не учитывается"}
	ErrTrackerNotFound       = DefinedError{Code: 4008, StatusCode: http.StatusNotFound, Err: "ticket tracker entry not found", RuErr: "Запись учета времени не найдена"}

	// 5*** - team errors
	ErrTeamNotFound         = DefinedError{Code: 5001, StatusCode: http.StatusNotFound, Err: "team not found", RuErr: "Команда не найдена"}
	ErrTeammateNotFound     = DefinedError{Code: 5002, StatusCode: http.StatusNotFound, Err: "teammate not found", RuErr: "Участник не найден"}
	ErrTeammateAssigned     = DefinedError{Code: 5003, StatusCode: http.StatusConflict, Err: "teammate already assigned to this ticket", RuErr: "Участник уже назначен на эту задачу"}
	ErrTeamRequestValidate  = DefinedError{Code: 5004, StatusCode: http.StatusBadRequest, Err: "validation error", RuErr: "Введены некорректные данные"}
	ErrTeammateWrongProject = DefinedError{Code: 5005, StatusCode: http.StatusBadRequest, Err: "teammate belongs to another project", RuErr: "Участник относится к другому проекту"}

	// 6*** - user errors
	ErrUserNotFound = DefinedError{Code: 6001, StatusCode: http.StatusNotFound, Err: "user not found", RuErr: "Пользователь не найден"}

	// 9*** - generic
	ErrGeneric       = DefinedError{Code: 9000, StatusCode: http.StatusBadRequest, Err: "Something went wrong. Please try again later or contact the support team.", RuErr: "Что-то пошло не так. Повторите попытку позже или обратитесь в службу поддержки"}
	ErrEntityToLarge = DefinedError{Code: 9001, StatusCode: http.StatusRequestEntityTooLarge, Err: "request entity too large", RuErr: "Превышен максимальный размер запроса"}
)

func (e DefinedError) WithFormattedMessage(args ...interface{}) DefinedError {
	if len(args) > 0 {
		e.Err = fmt.Sprintf(e.Err, args...)
		e.RuErr = fmt.Sprintf(e.RuErr, args...)
	} else {
		e.Err = strings.Replace(e.Err, "%s", "", -1)
		e.RuErr = strings.Replace(e.RuErr, "%s", "", -1)
	}
	return e
}
