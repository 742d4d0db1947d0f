package config

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// QuestionBankKey returns the cache key for the full question bank listing.
func (r *CacheKeyStruct) QuestionBankKey() string {
	return "questions:bank"
}

// ScoreboardChannel returns the Redis PubSub channel notified on every
// accepted submission. Subscribers recompute the scoreboard on message.
func (r *CacheKeyStruct) ScoreboardChannel() string {
	return "scoreboard:events"
}

var CacheKey = NewCacheKeyStruct()
