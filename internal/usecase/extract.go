package usecase

import (
	"time"

	"github.com/iho/ledgerlens/internal/domain"
)

// ExtractInput is the shared contract all four source extractors accept:
// a closed date interval, the account matcher, and an optional source-type
// restriction. An extractor that does not own the restricted type returns
// empty without calling the API.
type ExtractInput struct {
	From       time.Time
	To         time.Time
	Matcher    *domain.AccountMatcher
	SourceType domain.SourceType
}

func (in ExtractInput) dateWhere() string {
	return domain.DateRangeWhere(in.From, in.To)
}
