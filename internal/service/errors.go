package service

import "errors"

// Таксономия ошибок расчета безопасности. Ни одна из них не превращается в "нулевой риск".
var (
	// ErrStoreUnavailable - хранилище инцидентов недоступно или неверно настроено
	ErrStoreUnavailable = errors.New("incident store unavailable")
	// ErrScoringUnavailable - оценка невозможна из-за отказа хранилища
	ErrScoringUnavailable = errors.New("scoring unavailable")
	// ErrNoRoutesFound - провайдер направлений не вернул маршрутов или отказал
	ErrNoRoutesFound = errors.New("no routes found")
	// ErrScoringTimeout - превышен дедлайн при опросе точек маршрута
	ErrScoringTimeout = errors.New("scoring timeout")
	// ErrInvalidQuery - некорректные входные данные
	ErrInvalidQuery = errors.New("invalid query")
)
