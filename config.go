package main

import (
	"github.com/cockroachdb/errors"
)

const (
	keysInt    = "int"
	keysString = "string"
)

type config struct {
	order       int
	keys        string
	seed        bool
	records     int
	metricsAddr string
	logLevel    string
}

func defaultConfig() config {
	return config{
		order:    3,
		keys:     keysInt,
		records:  1000,
		logLevel: "info",
	}
}

func (c config) validate() error {
	if c.order < 2 {
		return errors.Newf("--order must be at least 2, got %d", c.order)
	}
	if c.keys != keysInt && c.keys != keysString {
		return errors.Newf("--keys must be %q or %q, got %q", keysInt, keysString, c.keys)
	}
	if c.seed && c.records < 0 {
		return errors.Newf("--records must not be negative, got %d", c.records)
	}
	return nil
}
