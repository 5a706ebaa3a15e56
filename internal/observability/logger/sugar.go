package logger

import "go.uber.org/zap"

// S retorna el SugaredLogger del singleton.
// Usado por los comandos del CLI para mensajes printf-style.
//
// Ejemplo:
//
//	logger.S().Infof("transport %s verified", name)
func S() *zap.SugaredLogger {
	return L().Sugar()
}
