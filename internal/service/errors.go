// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrNotFound — ресурс не найден. Чужая организация и мягко удалённые
	// строки неотличимы от несуществующих, чтобы не раскрывать их наличие.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrPermission — аутентифицирован, но не авторизован на операцию.
	ErrPermission = errors.New("доступ запрещён")
	// ErrConflict — конфликт уникальности: дубликат привязки или гонка за
	// номер версии. Клиент может повторить запрос.
	ErrConflict = errors.New("конфликт — ресурс уже существует")
	// ErrStorage — хранилище объектов недоступно или отказало.
	ErrStorage = errors.New("ошибка хранилища")
	// ErrUploadPending — ссылка на загрузку выдана, но байты ещё не легли в
	// хранилище. Повторяемое состояние, не ошибка данных.
	ErrUploadPending = errors.New("объект ещё не загружен в хранилище")
)
