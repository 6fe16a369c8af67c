package redis

import (
	"fmt"

	"github.com/mcoot/skylandly/internal/model"
)

// Key prefix for all ledger data
const keyPrefix = "skyl"

// playerKey returns the Redis key for a Player
func playerKey(browserID string) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, browserID)
}

// resultKey returns the Redis key for a DailyResult, guesses included
func resultKey(browserID string, date model.Date) string {
	return fmt.Sprintf("%s:result:%s:%s", keyPrefix, browserID, date)
}

// resultsIndexKey returns the Redis key for the ZSET of a player's result dates, scored by day number
func resultsIndexKey(browserID string) string {
	return fmt.Sprintf("%s:idx:results:%s", keyPrefix, browserID)
}

// playerSeqKey returns the Redis key of the player id counter
func playerSeqKey() string {
	return fmt.Sprintf("%s:seq:player", keyPrefix)
}

// resultSeqKey returns the Redis key of the result id counter
func resultSeqKey() string {
	return fmt.Sprintf("%s:seq:result", keyPrefix)
}

// dayScore orders dates in the results index
func dayScore(date model.Date) float64 {
	return float64(date.Time().Unix() / 86400)
}
