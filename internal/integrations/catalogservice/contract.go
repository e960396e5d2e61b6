package catalogservice

// Logger интерфейс для логирования в клиенте каталога
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
