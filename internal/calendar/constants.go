package calendar

const (
	USD = "USD"

	defaultKeyPrefix = "settlement:holidays:"
)
