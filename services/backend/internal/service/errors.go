package service

import "errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrPayment      = errors.New("payment failed")
)

const (
	TopicProducts = "product_events"
	TopicOrders   = "order_events"
)
