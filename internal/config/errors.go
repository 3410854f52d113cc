package config

import "errors"

var (
	ErrFailedToLoadConfig = errors.New("failed to load config")
	ErrInvalidJSON        = errors.New("invalid JSON in config file")
	ErrInvalidValue       = errors.New("invalid value")
)
