// Package logging задаёт минимальный интерфейс структурированного логгера,
// общий для всего сервиса. Реализация — поверх log/slog.
package logging

import "context"

// Logger — структурированный логгер с контекстом.
//
// Вариадические args — пары ключ/значение:
//
//	log.Info(ctx, "login succeeded", "username", name)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With возвращает дочерний логгер, который всегда добавляет указанные пары.
	With(args ...any) Logger
}
