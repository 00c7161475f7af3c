package service

import "errors"

var (
	// ErrInvalidPair indicates a currency pair that is not six characters long.
	ErrInvalidPair = errors.New("invalid currency pair")

	// ErrNegativeSpotLag indicates a spot lag below zero.
	ErrNegativeSpotLag = errors.New("negative spot lag")

	// ErrRollLimitExceeded indicates no good business day was found within
	// the configured number of calendar days.
	ErrRollLimitExceeded = errors.New("no business day within roll limit")

	// ErrNotInitialized is returned by SettlementService before Initialize.
	ErrNotInitialized = errors.New("service not initialized - call Initialize() first")
)
